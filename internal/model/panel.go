package model

import "github.com/luoxiaofei/wulingo/internal/content"

// Panel is the working stat sheet effects operate on: the five combat
// stats plus a float copy of the four base attributes, so temporary
// battle effects can shift a dimension without touching the persistent
// character. Panels are plain values; copying one is cloning it.
type Panel struct {
	HP        float64
	Qi        float64
	Attack    float64
	Defense   float64
	QiQuality float64

	Comprehension         float64
	BoneStructure         float64
	Physique              float64
	MartialArtsAttainment float64
}

// PanelFromCharacter seeds a panel with the character's base attributes.
// The combat stats start at zero; the caller layers base values and realm
// grants on top.
func PanelFromCharacter(c *Character) Panel {
	if c == nil {
		return Panel{}
	}
	return Panel{
		Comprehension:         float64(c.Comprehension),
		BoneStructure:         float64(c.BoneStructure),
		Physique:              float64(c.Physique),
		MartialArtsAttainment: float64(c.MartialArtsAttainment),
	}
}

// Get returns the stat with the given wire name.
func (p Panel) Get(name string) (float64, bool) {
	switch name {
	case content.StatHP:
		return p.HP, true
	case content.StatQi:
		return p.Qi, true
	case content.StatAttack:
		return p.Attack, true
	case content.StatDefense:
		return p.Defense, true
	case content.StatQiQuality:
		return p.QiQuality, true
	case content.AttrComprehension:
		return p.Comprehension, true
	case content.AttrBoneStructure:
		return p.BoneStructure, true
	case content.AttrPhysique:
		return p.Physique, true
	case content.AttrMartialArtsAttainment:
		return p.MartialArtsAttainment, true
	}
	return 0, false
}

// Set replaces the stat with the given wire name and reports whether the
// name was known.
func (p *Panel) Set(name string, v float64) bool {
	switch name {
	case content.StatHP:
		p.HP = v
	case content.StatQi:
		p.Qi = v
	case content.StatAttack:
		p.Attack = v
	case content.StatDefense:
		p.Defense = v
	case content.StatQiQuality:
		p.QiQuality = v
	case content.AttrComprehension:
		p.Comprehension = v
	case content.AttrBoneStructure:
		p.BoneStructure = v
	case content.AttrPhysique:
		p.Physique = v
	case content.AttrMartialArtsAttainment:
		p.MartialArtsAttainment = v
	default:
		return false
	}
	return true
}

// AddGrants folds a realm's flat bonuses into the panel.
func (p *Panel) AddGrants(g content.RealmGrants) {
	p.HP += g.HP
	p.Qi += g.Qi
	p.Attack += g.Attack
	p.Defense += g.Defense
	p.QiQuality += g.QiQuality
}
