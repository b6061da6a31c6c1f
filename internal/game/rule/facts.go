package rule

import (
	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/formula"
	"github.com/luoxiaofei/wulingo/internal/model"
)

// Facts is the world view a condition tree is evaluated against. The two
// implementations are ProgressionFacts (one character, outside battle) and
// BattleFacts (two combatants plus the current attack outcome). A facts
// value answers the leaves its schema knows and fails the rest closed.
type Facts interface {
	// Bindings builds the full formula variable vocabulary of the facts'
	// schema. Builders bind every name so that a lookup miss during
	// resolution always means the variable is out of scope.
	Bindings() formula.Bindings

	leaf(c *content.Condition, b formula.Bindings) bool
}

// ProgressionFacts views a single character during cultivation and story
// flow. Catalog is needed for manual-type leaves; leave it nil and those
// leaves evaluate false.
type ProgressionFacts struct {
	Character *model.Character
	Catalog   *content.Catalog
}

// Bindings binds the four base attributes under their plain and self_
// prefixed names.
func (f ProgressionFacts) Bindings() formula.Bindings {
	b := make(formula.Bindings, 8)
	bindAttributes(b, f.Character, "")
	bindAttributes(b, f.Character, "self_")
	return b
}

func (f ProgressionFacts) leaf(c *content.Condition, b formula.Bindings) bool {
	switch c.Kind() {
	case content.CondAttribute:
		return attributeLeaf(f.Character, c, b)
	case content.CondHasTrait:
		return f.Character != nil && c.ID != "" && f.Character.HasTrait(c.ID)
	case content.CondEquippedManual:
		return equippedManualLeaf(f.Character, c)
	case content.CondEquippedManualType:
		return hasEquippedType(f.Character, f.Catalog, c.ManualType)
	}
	// Battle-schema and unrecognized leaves fail closed.
	return false
}

// BattleFacts views one side of a fight: Self is the side whose entries
// are being evaluated, Opponent the other. Attack is nil until the first
// exchange of the battle has resolved.
type BattleFacts struct {
	Self     model.Combatant
	Opponent model.Combatant
	Attack   *model.AttackOutcome
	Catalog  *content.Catalog
}

// Bindings binds both sides' panels, attribute copies included, plus the
// attack pseudo-variables. Battle formulas read attributes from the panel,
// not the persistent character, so temporary attribute effects are
// visible. Absent an attack outcome the attack_* names bind to 0.
func (f BattleFacts) Bindings() formula.Bindings {
	b := make(formula.Bindings, 48)
	bindPanel(b, f.Self.Panel, "")
	bindPanel(b, f.Self.Panel, "self_")
	bindPanel(b, f.Opponent.Panel, "opponent_")
	bindAttack(b, f.Attack)
	return b
}

func (f BattleFacts) leaf(c *content.Condition, b formula.Bindings) bool {
	switch c.Kind() {
	case content.CondAttribute:
		return attributeLeaf(f.Self.Character, c, b)
	case content.CondHasTrait:
		return f.Self.Character != nil && c.ID != "" && f.Self.Character.HasTrait(c.ID)
	case content.CondEquippedManual:
		return equippedManualLeaf(f.Self.Character, c)
	case content.CondEquippedManualType:
		return hasEquippedType(f.Self.Character, f.Catalog, c.ManualType)
	case content.CondBattleAttribute:
		return f.battleAttributeLeaf(c, b)
	case content.CondOpponentManual:
		return equippedManualLeaf(f.Opponent.Character, c)
	case content.CondOpponentManualType:
		return hasEquippedType(f.Opponent.Character, f.Catalog, c.ManualType)
	case content.CondBattleFlag:
		return f.flagSet(c.Flag)
	}
	return false
}

func (f BattleFacts) battleAttributeLeaf(c *content.Condition, b formula.Bindings) bool {
	var side model.Combatant
	switch c.Subject {
	case content.SubjectSelf:
		side = f.Self
	case content.SubjectOpponent:
		side = f.Opponent
	default:
		return false
	}

	// The panel carries the attribute copies too, so one lookup covers
	// every battle-comparable stat.
	lhs, ok := side.Panel.Get(c.Target)
	if !ok {
		return false
	}
	rhs, err := formula.Resolve(c.Value, b)
	if err != nil {
		return false
	}
	return c.Operator.Apply(lhs, rhs)
}

// flagSet derives the four wire battle flags from the attack outcome. No
// outcome, or one where no qi defense was raised, sets no flag.
func (f BattleFacts) flagSet(flag content.BattleFlag) bool {
	a := f.Attack
	if a == nil || !a.QiDefenseAttempted {
		return false
	}
	switch flag {
	case content.FlagBrokeQiDefense, content.FlagQiDefenseFailed:
		return a.BrokeQiDefense
	case content.FlagFailedBreakQiDefense, content.FlagQiDefenseSucceeded:
		return !a.BrokeQiDefense
	}
	return false
}

func attributeLeaf(ch *model.Character, c *content.Condition, b formula.Bindings) bool {
	if ch == nil {
		return false
	}
	val, ok := ch.AttributeValue(c.Target)
	if !ok {
		return false
	}
	rhs, err := formula.Resolve(c.Value, b)
	if err != nil {
		return false
	}
	return c.Operator.Apply(float64(val), rhs)
}

func equippedManualLeaf(ch *model.Character, c *content.Condition) bool {
	if ch == nil || !c.ManualKind.Valid() || c.ID == "" {
		return false
	}
	return ch.EquippedManual(c.ManualKind) == c.ID
}

func hasEquippedType(ch *model.Character, catalog *content.Catalog, manualType string) bool {
	if ch == nil || catalog == nil || manualType == "" {
		return false
	}
	for _, kind := range content.ManualKinds() {
		id := ch.EquippedManual(kind)
		if id == "" {
			continue
		}
		if m, ok := catalog.ManualByID(id); ok && m.ManualType == manualType {
			return true
		}
	}
	return false
}

func bindAttributes(b formula.Bindings, ch *model.Character, prefix string) {
	var comp, bone, phys, att int
	if ch != nil {
		comp, bone, phys, att = ch.Comprehension, ch.BoneStructure, ch.Physique, ch.MartialArtsAttainment
	}
	b[prefix+content.AttrComprehension] = float64(comp)
	b[prefix+content.AttrBoneStructure] = float64(bone)
	b[prefix+content.AttrPhysique] = float64(phys)
	b[prefix+content.AttrMartialArtsAttainment] = float64(att)
}

func bindPanel(b formula.Bindings, p model.Panel, prefix string) {
	b[prefix+content.StatHP] = p.HP
	b[prefix+content.StatQi] = p.Qi
	b[prefix+content.StatAttack] = p.Attack
	b[prefix+content.StatDefense] = p.Defense
	b[prefix+content.StatQiQuality] = p.QiQuality
	b[prefix+content.AttrComprehension] = p.Comprehension
	b[prefix+content.AttrBoneStructure] = p.BoneStructure
	b[prefix+content.AttrPhysique] = p.Physique
	b[prefix+content.AttrMartialArtsAttainment] = p.MartialArtsAttainment
}

func bindAttack(b formula.Bindings, a *model.AttackOutcome) {
	var out model.AttackOutcome
	if a != nil {
		out = *a
	}
	broke := 0.0
	if out.QiDefenseAttempted && out.BrokeQiDefense {
		broke = 1
	}
	b["attack_total_output"] = out.TotalOutput
	b["attack_total_defense"] = out.TotalDefense
	b["attack_reduced_output"] = out.ReducedOutput
	b["attack_hp_damage"] = out.HPDamage
	b["attack_attacker_qi_consumed"] = out.AttackerQiConsumed
	b["attack_defender_qi_consumed"] = out.DefenderQiConsumed
	b["attack_broke_qi_defense"] = broke
}
