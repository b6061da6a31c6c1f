package content

import (
	"encoding/json"

	"github.com/luoxiaofei/wulingo/internal/formula"
)

// RewardType discriminates the reward union on the wire.
type RewardType string

const (
	// RewardAttribute adjusts a base attribute of the character.
	RewardAttribute RewardType = "attribute"
	// RewardTrait grants a trait directly.
	RewardTrait RewardType = "trait"
	// RewardStartTraitPool adds a trait to the pool rolled at game start.
	RewardStartTraitPool RewardType = "start_trait_pool"
	// RewardInternal, RewardAttackSkill and RewardDefenseSkill grant a
	// specific manual of the matching kind.
	RewardInternal     RewardType = "internal"
	RewardAttackSkill  RewardType = "attack_skill"
	RewardDefenseSkill RewardType = "defense_skill"
	// RewardRandomManual grants manuals drawn from the pack's catalog,
	// filtered by kind, rarity and type label.
	RewardRandomManual RewardType = "random_manual"
)

// GrantKind returns the manual kind a specific-manual reward grants. The
// second return is false for reward types that do not grant manuals.
func (t RewardType) GrantKind() (ManualKind, bool) {
	switch t {
	case RewardInternal:
		return KindInternal, true
	case RewardAttackSkill:
		return KindAttackSkill, true
	case RewardDefenseSkill:
		return KindDefenseSkill, true
	}
	return "", false
}

// Reward is one grant issued by an event or story beat. Type decides which
// fields matter; the rest stay zero.
type Reward struct {
	Type RewardType `json:"type"`

	// Attribute rewards.
	Target         string         `json:"target,omitempty"`
	Operation      Operation      `json:"operation,omitempty"`
	Value          *formula.Value `json:"value,omitempty"`
	CanExceedLimit bool           `json:"can_exceed_limit,omitempty"`

	// Trait and specific manual grants.
	ID string `json:"id,omitempty"`

	// Random manual draws. A zero Count draws one manual; a zero
	// ManualKind or Rarity or ManualType leaves that filter open.
	Count      int        `json:"count,omitempty"`
	ManualKind ManualKind `json:"manual_kind,omitempty"`
	Rarity     int        `json:"rarity,omitempty"`
	ManualType string     `json:"manual_type,omitempty"`
}

// UnmarshalJSON decodes a reward and fills in the draw-count default for
// random manual rewards.
func (r *Reward) UnmarshalJSON(data []byte) error {
	type plain Reward
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Reward(p)
	if r.Type == RewardRandomManual && r.Count == 0 {
		r.Count = 1
	}
	return nil
}

// Clone returns a deep copy of the reward.
func (r Reward) Clone() Reward {
	out := r
	if r.Value != nil {
		v := *r.Value
		out.Value = &v
	}
	return out
}
