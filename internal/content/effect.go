package content

import (
	"encoding/json"

	"github.com/luoxiaofei/wulingo/internal/formula"
)

// EffectType discriminates the effect union on the wire.
type EffectType string

const (
	// EffectModifyAttribute adjusts a panel stat by an absolute amount.
	EffectModifyAttribute EffectType = "modify_attribute"
	// EffectModifyPercentage adjusts a panel stat by a fraction of its
	// current value; the resolved value is a percentage, 10 means +10%.
	EffectModifyPercentage EffectType = "modify_percentage"
	// EffectExtraAttack queues an additional strike with its own output.
	EffectExtraAttack EffectType = "extra_attack"
)

// Operation names how a resolved value combines with the current stat.
type Operation string

const (
	OpAdd      Operation = "add"
	OpSubtract Operation = "subtract"
	OpSet      Operation = "set"
	OpMultiply Operation = "multiply"
)

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	switch o {
	case OpAdd, OpSubtract, OpSet, OpMultiply:
		return true
	}
	return false
}

// Apply combines the current stat with a resolved value. The second
// return is false for an unknown operation, in which case the caller
// should leave the stat alone.
func (o Operation) Apply(current, v float64) (float64, bool) {
	switch o {
	case OpAdd:
		return current + v, true
	case OpSubtract:
		return current - v, true
	case OpSet:
		return v, true
	case OpMultiply:
		return current * v, true
	}
	return 0, false
}

// PanelSide selects whose panel an effect mutates.
type PanelSide string

const (
	PanelOwn      PanelSide = "own"
	PanelOpponent PanelSide = "opponent"
)

// Effect is one mutation an entry applies when its condition holds.
//
// Type decides which fields matter: the modify variants use Target,
// Operation and Value, while extra_attack uses only Output. TargetPanel
// defaults to the owner's panel when a pack omits it.
type Effect struct {
	Type           EffectType     `json:"type"`
	Target         string         `json:"target,omitempty"`
	Operation      Operation      `json:"operation,omitempty"`
	Value          *formula.Value `json:"value,omitempty"`
	TargetPanel    PanelSide      `json:"target_panel,omitempty"`
	CanExceedLimit bool           `json:"can_exceed_limit,omitempty"`
	IsTemporary    bool           `json:"is_temporary,omitempty"`
	Output         *formula.Value `json:"output,omitempty"`
}

// UnmarshalJSON decodes an effect and fills in the wire default for
// target_panel. Extra attacks carry no panel target, so the default only
// applies to the modify variants.
func (e *Effect) UnmarshalJSON(data []byte) error {
	type plain Effect
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*e = Effect(p)
	if e.Type != EffectExtraAttack && e.TargetPanel == "" {
		e.TargetPanel = PanelOwn
	}
	return nil
}

// Clone returns a deep copy of the effect.
func (e Effect) Clone() Effect {
	out := e
	if e.Value != nil {
		v := *e.Value
		out.Value = &v
	}
	if e.Output != nil {
		v := *e.Output
		out.Output = &v
	}
	return out
}

// Equal reports whether two effects match field for field, values included.
func (e Effect) Equal(other Effect) bool {
	return e.Type == other.Type &&
		e.Target == other.Target &&
		e.Operation == other.Operation &&
		e.TargetPanel == other.TargetPanel &&
		e.CanExceedLimit == other.CanExceedLimit &&
		e.IsTemporary == other.IsTemporary &&
		valuesEqual(e.Value, other.Value) &&
		valuesEqual(e.Output, other.Output)
}

func valuesEqual(a, b *formula.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
