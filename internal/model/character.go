// Package model holds the runtime state the rules engine operates on:
// characters with their attributes, traits and cultivated manuals, panels
// of combat stats, and the per-exchange attack outcome. Everything here is
// plain data; callers that share a character across goroutines own the
// locking.
package model

import (
	"math"

	"github.com/luoxiaofei/wulingo/internal/content"
)

// AttributeCap is the soft ceiling of the three capped base attributes.
// Martial arts attainment is uncapped.
const AttributeCap = 100

// OwnedManual tracks one manual's cultivation progress. Level is the
// 1-based realm the character has reached; Exp accumulates toward the
// next realm's requirement.
type OwnedManual struct {
	Level int
	Exp   int
}

// Character is a player or NPC as the rules engine sees it: base
// attributes, acquired traits, the start-trait pool, and owned manuals
// with their cultivation progress and equipped selection per kind.
type Character struct {
	ID   string
	Name string

	Comprehension         int
	BoneStructure         int
	Physique              int
	MartialArtsAttainment int

	// Traits in acquisition order. StartTraitPool collects trait ids the
	// game-start roll may draw from.
	Traits         []string
	StartTraitPool []string

	// Manuals maps kind -> manual id -> progress. Equipped names the one
	// active manual id per kind, empty when none.
	Manuals  map[content.ManualKind]map[string]*OwnedManual
	Equipped map[content.ManualKind]string
}

// NewCharacter returns an empty character with initialized collections.
func NewCharacter(id, name string) *Character {
	return &Character{
		ID:       id,
		Name:     name,
		Manuals:  make(map[content.ManualKind]map[string]*OwnedManual),
		Equipped: make(map[content.ManualKind]string),
	}
}

// AttributeValue returns the base attribute with the given wire name.
func (c *Character) AttributeValue(name string) (int, bool) {
	switch name {
	case content.AttrComprehension:
		return c.Comprehension, true
	case content.AttrBoneStructure:
		return c.BoneStructure, true
	case content.AttrPhysique:
		return c.Physique, true
	case content.AttrMartialArtsAttainment:
		return c.MartialArtsAttainment, true
	}
	return 0, false
}

// SetAttribute replaces the base attribute with the given wire name and
// reports whether the name was known. No clamping happens here; the
// reward applicator owns the limit rules.
func (c *Character) SetAttribute(name string, v int) bool {
	switch name {
	case content.AttrComprehension:
		c.Comprehension = v
	case content.AttrBoneStructure:
		c.BoneStructure = v
	case content.AttrPhysique:
		c.Physique = v
	case content.AttrMartialArtsAttainment:
		c.MartialArtsAttainment = v
	default:
		return false
	}
	return true
}

// HasTrait reports whether the character owns the trait.
func (c *Character) HasTrait(id string) bool {
	for _, t := range c.Traits {
		if t == id {
			return true
		}
	}
	return false
}

// GrantTrait adds a trait, reporting whether it was newly acquired.
func (c *Character) GrantTrait(id string) bool {
	if c.HasTrait(id) {
		return false
	}
	c.Traits = append(c.Traits, id)
	return true
}

// InStartTraitPool reports whether the trait id is already pooled.
func (c *Character) InStartTraitPool(id string) bool {
	for _, t := range c.StartTraitPool {
		if t == id {
			return true
		}
	}
	return false
}

// AddStartTrait pools a trait for the game-start roll, reporting whether
// it was newly added.
func (c *Character) AddStartTrait(id string) bool {
	if c.InStartTraitPool(id) {
		return false
	}
	c.StartTraitPool = append(c.StartTraitPool, id)
	return true
}

// OwnsManual reports whether the character owns the manual of that kind.
func (c *Character) OwnsManual(kind content.ManualKind, id string) bool {
	_, ok := c.Manuals[kind][id]
	return ok
}

// GrantManual adds a manual at level 0 with no exp, reporting whether it
// was newly acquired. Level 0 means owned but not yet cultivated into its
// first realm, so no realm grants or entries are live yet.
func (c *Character) GrantManual(kind content.ManualKind, id string) bool {
	if c.OwnsManual(kind, id) {
		return false
	}
	if c.Manuals == nil {
		c.Manuals = make(map[content.ManualKind]map[string]*OwnedManual)
	}
	if c.Manuals[kind] == nil {
		c.Manuals[kind] = make(map[string]*OwnedManual)
	}
	c.Manuals[kind][id] = &OwnedManual{}
	return true
}

// ManualProgress returns the progress record for an owned manual.
func (c *Character) ManualProgress(kind content.ManualKind, id string) (*OwnedManual, bool) {
	m, ok := c.Manuals[kind][id]
	return m, ok
}

// EquippedManual returns the equipped manual id for a kind, empty when
// nothing is equipped.
func (c *Character) EquippedManual(kind content.ManualKind) string {
	return c.Equipped[kind]
}

// Equip sets the equipped manual for its kind, reporting whether the
// manual is owned and could be equipped.
func (c *Character) Equip(kind content.ManualKind, id string) bool {
	if !c.OwnsManual(kind, id) {
		return false
	}
	if c.Equipped == nil {
		c.Equipped = make(map[content.ManualKind]string)
	}
	c.Equipped[kind] = id
	return true
}

// Unequip clears the equipped manual for a kind.
func (c *Character) Unequip(kind content.ManualKind) {
	delete(c.Equipped, kind)
}

// Clone returns a deep copy of the character.
func (c *Character) Clone() *Character {
	out := &Character{
		ID:                    c.ID,
		Name:                  c.Name,
		Comprehension:         c.Comprehension,
		BoneStructure:         c.BoneStructure,
		Physique:              c.Physique,
		MartialArtsAttainment: c.MartialArtsAttainment,
		Manuals:               make(map[content.ManualKind]map[string]*OwnedManual, len(c.Manuals)),
		Equipped:              make(map[content.ManualKind]string, len(c.Equipped)),
	}
	if c.Traits != nil {
		out.Traits = append([]string(nil), c.Traits...)
	}
	if c.StartTraitPool != nil {
		out.StartTraitPool = append([]string(nil), c.StartTraitPool...)
	}
	for kind, owned := range c.Manuals {
		kindCopy := make(map[string]*OwnedManual, len(owned))
		for id, prog := range owned {
			p := *prog
			kindCopy[id] = &p
		}
		out.Manuals[kind] = kindCopy
	}
	for kind, id := range c.Equipped {
		out.Equipped[kind] = id
	}
	return out
}

// ClampAttribute applies the base-attribute limit rules to a proposed new
// value. The floor of zero always holds. The 100 ceiling holds unless
// exceed is set or the attribute is martial arts attainment. The second
// return reports whether the change must be suppressed entirely: the
// current value already sits at or above the cap and the proposal would
// push it higher still. Pulling an over-cap value down stays allowed.
func ClampAttribute(name string, current, proposed int, exceed bool) (int, bool) {
	if proposed < 0 {
		proposed = 0
	}
	if !content.IsCappedDimension(name) || exceed {
		return proposed, false
	}
	if current >= AttributeCap && proposed > current {
		return current, true
	}
	if proposed > AttributeCap {
		proposed = AttributeCap
	}
	return proposed, false
}

// RoundAttribute converts a resolved formula value to the integer
// attribute domain, rounding half away from zero.
func RoundAttribute(v float64) int {
	return int(math.Round(v))
}
