package content

import (
	"encoding/json"

	"github.com/luoxiaofei/wulingo/internal/formula"
)

// ConditionKind classifies a decoded condition node. The kind is derived
// from the node's structure during decoding, never stored on the wire.
type ConditionKind int

const (
	// CondInvalid marks a node whose shape matched no known condition.
	// Invalid nodes survive decoding so that the evaluator can fail them
	// closed instead of rejecting the whole pack.
	CondInvalid ConditionKind = iota
	CondAnd
	CondOr
	CondAttribute
	CondHasTrait
	CondEquippedManual
	CondEquippedManualType
	CondBattleAttribute
	CondOpponentManual
	CondOpponentManualType
	CondBattleFlag
)

// Leaf condition type tags as they appear on the wire.
const (
	condTypeAttribute          = "attribute"
	condTypeHasTrait           = "has_trait"
	condTypeEquippedManual     = "equipped_manual"
	condTypeEquippedManualType = "equipped_manual_type"
	condTypeBattleAttribute    = "battle_attribute"
	condTypeOpponentManual     = "opponent_manual"
	condTypeOpponentManualType = "opponent_manual_type"
	condTypeBattleFlag         = "battle_flag"
)

// Comparator is a comparison operator on the wire.
type Comparator string

const (
	CompareLess      Comparator = "<"
	CompareLessEq    Comparator = "<="
	CompareEqual     Comparator = "="
	CompareGreater   Comparator = ">"
	CompareGreaterEq Comparator = ">="
)

// Valid reports whether c is a known comparator.
func (c Comparator) Valid() bool {
	switch c {
	case CompareLess, CompareLessEq, CompareEqual, CompareGreater, CompareGreaterEq:
		return true
	}
	return false
}

// Apply compares lhs against rhs. An unknown comparator compares false.
func (c Comparator) Apply(lhs, rhs float64) bool {
	switch c {
	case CompareLess:
		return lhs < rhs
	case CompareLessEq:
		return lhs <= rhs
	case CompareEqual:
		return lhs == rhs
	case CompareGreater:
		return lhs > rhs
	case CompareGreaterEq:
		return lhs >= rhs
	}
	return false
}

// Subject selects whose state a battle leaf inspects.
type Subject string

const (
	SubjectSelf     Subject = "self"
	SubjectOpponent Subject = "opponent"
)

// BattleFlag names a boolean fact about the current attack exchange.
type BattleFlag string

const (
	FlagBrokeQiDefense       BattleFlag = "broke_qi_defense"
	FlagFailedBreakQiDefense BattleFlag = "failed_break_qi_defense"
	FlagQiDefenseSucceeded   BattleFlag = "qi_defense_succeeded"
	FlagQiDefenseFailed      BattleFlag = "qi_defense_failed"
)

// Valid reports whether f is a known battle flag.
func (f BattleFlag) Valid() bool {
	switch f {
	case FlagBrokeQiDefense, FlagFailedBreakQiDefense, FlagQiDefenseSucceeded, FlagQiDefenseFailed:
		return true
	}
	return false
}

// Condition is one node of an entry's condition tree: either a branch
// combining child conditions with and/or, or a leaf testing a single fact.
// A nil *Condition means the entry is unconditional.
//
// Which fields are meaningful depends on Kind; the rest stay zero. Decoding
// never fails on an unknown shape, it produces a CondInvalid node that
// evaluates to false.
type Condition struct {
	kind ConditionKind

	// Branch children. Exactly one of these is non-nil on a branch node.
	And []Condition
	Or  []Condition

	// Leaf fields.
	Subject    Subject
	Target     string
	Operator   Comparator
	Value      formula.Value
	ID         string
	ManualKind ManualKind
	ManualType string
	Flag       BattleFlag
}

// Kind reports the node's classification as derived during decoding or
// construction.
func (c *Condition) Kind() ConditionKind { return c.kind }

// condWire is the single JSON shape shared by every condition node. Leaf
// nodes carry a type tag; branch nodes carry only their child list.
type condWire struct {
	And []Condition `json:"and,omitempty"`
	Or  []Condition `json:"or,omitempty"`

	Type       string         `json:"type,omitempty"`
	Subject    Subject        `json:"subject,omitempty"`
	Target     string         `json:"target,omitempty"`
	Operator   Comparator     `json:"operator,omitempty"`
	Value      *formula.Value `json:"value,omitempty"`
	ID         string         `json:"id,omitempty"`
	ManualKind ManualKind     `json:"manual_kind,omitempty"`
	ManualType string         `json:"manual_type,omitempty"`
	Flag       BattleFlag     `json:"flag,omitempty"`
}

// UnmarshalJSON decodes a condition node and classifies it. Branch keys win
// over a stray type tag, and an unrecognized shape decodes to CondInvalid
// rather than an error.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var w condWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*c = Condition{
		And:        w.And,
		Or:         w.Or,
		Subject:    w.Subject,
		Target:     w.Target,
		Operator:   w.Operator,
		ID:         w.ID,
		ManualKind: w.ManualKind,
		ManualType: w.ManualType,
		Flag:       w.Flag,
	}
	if w.Value != nil {
		c.Value = *w.Value
	}

	switch {
	case w.And != nil:
		c.kind = CondAnd
	case w.Or != nil:
		c.kind = CondOr
	default:
		c.kind = leafKind(w.Type)
	}
	if c.kind == CondBattleAttribute && c.Subject == "" {
		c.Subject = SubjectSelf
	}
	return nil
}

func leafKind(typeTag string) ConditionKind {
	switch typeTag {
	case condTypeAttribute:
		return CondAttribute
	case condTypeHasTrait:
		return CondHasTrait
	case condTypeEquippedManual:
		return CondEquippedManual
	case condTypeEquippedManualType:
		return CondEquippedManualType
	case condTypeBattleAttribute:
		return CondBattleAttribute
	case condTypeOpponentManual:
		return CondOpponentManual
	case condTypeOpponentManualType:
		return CondOpponentManualType
	case condTypeBattleFlag:
		return CondBattleFlag
	}
	return CondInvalid
}

func leafTypeTag(kind ConditionKind) string {
	switch kind {
	case CondAttribute:
		return condTypeAttribute
	case CondHasTrait:
		return condTypeHasTrait
	case CondEquippedManual:
		return condTypeEquippedManual
	case CondEquippedManualType:
		return condTypeEquippedManualType
	case CondBattleAttribute:
		return condTypeBattleAttribute
	case CondOpponentManual:
		return condTypeOpponentManual
	case CondOpponentManualType:
		return condTypeOpponentManualType
	case CondBattleFlag:
		return condTypeBattleFlag
	}
	return ""
}

// MarshalJSON writes the node back in its wire shape, emitting only the
// fields its kind uses. Branch nodes keep their child list even when empty.
func (c Condition) MarshalJSON() ([]byte, error) {
	switch c.kind {
	case CondAnd:
		kids := c.And
		if kids == nil {
			kids = []Condition{}
		}
		return json.Marshal(struct {
			And []Condition `json:"and"`
		}{kids})
	case CondOr:
		kids := c.Or
		if kids == nil {
			kids = []Condition{}
		}
		return json.Marshal(struct {
			Or []Condition `json:"or"`
		}{kids})
	}

	var w condWire
	switch c.kind {
	case CondAttribute:
		w.Type = condTypeAttribute
		w.Target = c.Target
		w.Operator = c.Operator
		v := c.Value
		w.Value = &v
	case CondHasTrait:
		w.Type = condTypeHasTrait
		w.ID = c.ID
	case CondEquippedManual:
		w.Type = condTypeEquippedManual
		w.ID = c.ID
		w.ManualKind = c.ManualKind
	case CondEquippedManualType:
		w.Type = condTypeEquippedManualType
		w.ManualType = c.ManualType
	case CondBattleAttribute:
		w.Type = condTypeBattleAttribute
		w.Subject = c.Subject
		w.Target = c.Target
		w.Operator = c.Operator
		v := c.Value
		w.Value = &v
	case CondOpponentManual:
		w.Type = condTypeOpponentManual
		w.ID = c.ID
		w.ManualKind = c.ManualKind
	case CondOpponentManualType:
		w.Type = condTypeOpponentManualType
		w.ManualType = c.ManualType
	case CondBattleFlag:
		w.Type = condTypeBattleFlag
		w.Flag = c.Flag
	}
	return json.Marshal(w)
}

// Clone returns a deep copy of the condition tree rooted at c.
func (c *Condition) Clone() *Condition {
	if c == nil {
		return nil
	}
	out := *c
	out.And = cloneConditions(c.And)
	out.Or = cloneConditions(c.Or)
	return &out
}

func cloneConditions(conds []Condition) []Condition {
	if conds == nil {
		return nil
	}
	out := make([]Condition, len(conds))
	for i := range conds {
		out[i] = *conds[i].Clone()
	}
	return out
}

// Equal reports whether two condition trees are identical node for node.
// Two nil trees are equal; nil never equals a non-nil tree.
func (c *Condition) Equal(other *Condition) bool {
	if c == nil || other == nil {
		return c == other
	}
	if c.kind != other.kind {
		return false
	}
	switch c.kind {
	case CondAnd:
		return conditionsEqual(c.And, other.And)
	case CondOr:
		return conditionsEqual(c.Or, other.Or)
	}
	return c.Subject == other.Subject &&
		c.Target == other.Target &&
		c.Operator == other.Operator &&
		c.Value == other.Value &&
		c.ID == other.ID &&
		c.ManualKind == other.ManualKind &&
		c.ManualType == other.ManualType &&
		c.Flag == other.Flag
}

func conditionsEqual(a, b []Condition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(&b[i]) {
			return false
		}
	}
	return true
}

// Constructor helpers for tests and authoring tools.

// AndOf builds an and branch over the given children.
func AndOf(children ...Condition) *Condition {
	if children == nil {
		children = []Condition{}
	}
	return &Condition{kind: CondAnd, And: children}
}

// OrOf builds an or branch over the given children.
func OrOf(children ...Condition) *Condition {
	if children == nil {
		children = []Condition{}
	}
	return &Condition{kind: CondOr, Or: children}
}

// AttributeCondition builds an attribute comparison leaf.
func AttributeCondition(target string, op Comparator, value formula.Value) Condition {
	return Condition{kind: CondAttribute, Target: target, Operator: op, Value: value}
}

// HasTraitCondition builds a trait ownership leaf.
func HasTraitCondition(traitID string) Condition {
	return Condition{kind: CondHasTrait, ID: traitID}
}

// EquippedManualCondition builds a leaf testing the equipped manual of one kind.
func EquippedManualCondition(kind ManualKind, manualID string) Condition {
	return Condition{kind: CondEquippedManual, ManualKind: kind, ID: manualID}
}

// EquippedManualTypeCondition builds a leaf testing any equipped manual's type label.
func EquippedManualTypeCondition(manualType string) Condition {
	return Condition{kind: CondEquippedManualType, ManualType: manualType}
}

// BattleAttributeCondition builds a battle comparison leaf for the given subject.
func BattleAttributeCondition(subject Subject, target string, op Comparator, value formula.Value) Condition {
	return Condition{kind: CondBattleAttribute, Subject: subject, Target: target, Operator: op, Value: value}
}

// OpponentManualCondition builds a leaf testing the opponent's equipped manual.
func OpponentManualCondition(kind ManualKind, manualID string) Condition {
	return Condition{kind: CondOpponentManual, ManualKind: kind, ID: manualID}
}

// OpponentManualTypeCondition builds a leaf testing the opponent's equipped manual types.
func OpponentManualTypeCondition(manualType string) Condition {
	return Condition{kind: CondOpponentManualType, ManualType: manualType}
}

// BattleFlagCondition builds a leaf testing an attack-exchange flag.
func BattleFlagCondition(flag BattleFlag) Condition {
	return Condition{kind: CondBattleFlag, Flag: flag}
}
