package content

import (
	"fmt"

	"github.com/luoxiaofei/wulingo/internal/formula"
)

// Problem is one semantic defect found in a pack, addressed by a JSON-ish
// path into the document.
type Problem struct {
	Path string
	Msg  string
}

func (p Problem) String() string { return p.Path + ": " + p.Msg }

// ValidatePack runs the semantic checks the JSON schema cannot express:
// formula scope per trigger, battle-only condition shapes, duplicate ids
// and realm ordering. It returns every problem found, nil when clean.
//
// Reference existence (trait and manual ids named by conditions and
// rewards) is deliberately not checked here: packs may refer to content
// from other installed packs, so dangling ids are a runtime no-op rather
// than an authoring error.
func ValidatePack(p *Pack) []Problem {
	var v packValidator
	if p.Name == "" {
		v.add("name", "must not be empty")
	}
	if p.Version == "" {
		v.add("version", "must not be empty")
	}

	seenManuals := make(map[string]bool)
	for i, m := range p.Manuals {
		path := fmt.Sprintf("manuals[%d]", i)
		if m.ID == "" {
			v.add(path+".id", "must not be empty")
		} else if seenManuals[m.ID] {
			v.add(path+".id", fmt.Sprintf("duplicate manual id %q", m.ID))
		} else {
			seenManuals[m.ID] = true
		}
		if !m.Kind.Valid() {
			v.add(path+".kind", fmt.Sprintf("unknown manual kind %q", m.Kind))
		}
		if m.Name == "" {
			v.add(path+".name", "must not be empty")
		}
		if m.Rarity < 1 || m.Rarity > 5 {
			v.add(path+".rarity", fmt.Sprintf("must be 1..5, got %d", m.Rarity))
		}
		if len(m.Realms) != RealmCount {
			v.add(path+".realms", fmt.Sprintf("must have exactly %d realms, got %d", RealmCount, len(m.Realms)))
		}
		prevExp := -1
		for j, realm := range m.Realms {
			realmPath := fmt.Sprintf("%s.realms[%d]", path, j)
			if realm.ExpRequired < 0 {
				v.add(realmPath+".exp_required", "must not be negative")
			} else if realm.ExpRequired < prevExp {
				v.add(realmPath+".exp_required", "must not decrease from the previous realm")
			}
			prevExp = realm.ExpRequired
			v.entries(realmPath, realm.Entries)
		}
	}

	seenTraits := make(map[string]bool)
	for i, t := range p.Traits {
		path := fmt.Sprintf("traits[%d]", i)
		if t.ID == "" {
			v.add(path+".id", "must not be empty")
		} else if seenTraits[t.ID] {
			v.add(path+".id", fmt.Sprintf("duplicate trait id %q", t.ID))
		} else {
			seenTraits[t.ID] = true
		}
		if t.Name == "" {
			v.add(path+".name", "must not be empty")
		}
		v.entries(path, t.Entries)
	}

	seenEvents := make(map[string]bool)
	for i, e := range p.Events {
		path := fmt.Sprintf("events[%d]", i)
		if e.ID == "" {
			v.add(path+".id", "must not be empty")
		} else if seenEvents[e.ID] {
			v.add(path+".id", fmt.Sprintf("duplicate event id %q", e.ID))
		} else {
			seenEvents[e.ID] = true
		}
		if e.Name == "" {
			v.add(path+".name", "must not be empty")
		}
		for j, r := range e.Rewards {
			v.reward(fmt.Sprintf("%s.rewards[%d]", path, j), r)
		}
	}

	return v.problems
}

type packValidator struct {
	problems []Problem
}

func (v *packValidator) add(path, msg string) {
	v.problems = append(v.problems, Problem{Path: path, Msg: msg})
}

func (v *packValidator) entries(ownerPath string, entries []Entry) {
	seenIDs := make(map[string]bool)
	for i, e := range entries {
		path := fmt.Sprintf("%s.entries[%d]", ownerPath, i)
		if e.EntryID != "" {
			if seenIDs[e.EntryID] {
				v.add(path+".entry_id", fmt.Sprintf("duplicate entry id %q", e.EntryID))
			}
			seenIDs[e.EntryID] = true
		}
		v.entry(path, e)
	}
}

func (v *packValidator) entry(path string, e Entry) {
	if !e.Trigger.Valid() {
		v.add(path+".trigger", fmt.Sprintf("unknown trigger %q", e.Trigger))
		return
	}
	if e.MaxTriggers < 0 {
		v.add(path+".max_triggers", "must not be negative")
	}
	battle := e.Trigger.IsBattle()
	if e.Condition != nil {
		v.condition(path+".condition", e.Condition, battle)
	}
	if len(e.Effects) == 0 {
		v.add(path+".effects", "must not be empty")
	}
	for i, eff := range e.Effects {
		v.effect(fmt.Sprintf("%s.effects[%d]", path, i), eff, battle)
	}
}

func (v *packValidator) effect(path string, e Effect, battle bool) {
	scope := formula.ScopeProgression
	if battle {
		scope = formula.ScopeBattle
	}
	switch e.Type {
	case EffectModifyAttribute, EffectModifyPercentage:
		if !IsBattleStat(e.Target) {
			v.add(path+".target", fmt.Sprintf("unknown stat %q", e.Target))
		}
		if !e.Operation.Valid() {
			v.add(path+".operation", fmt.Sprintf("unknown operation %q", e.Operation))
		}
		if e.Value == nil {
			v.add(path+".value", "required")
		} else if err := formula.Validate(*e.Value, scope); err != nil {
			v.add(path+".value", err.Error())
		}
		if e.TargetPanel == PanelOpponent && !battle {
			v.add(path+".target_panel", "opponent panel requires a battle trigger")
		}
		if e.IsTemporary && !battle {
			v.add(path+".is_temporary", "temporary effects require a battle trigger")
		}
	case EffectExtraAttack:
		if !battle {
			v.add(path+".type", "extra_attack requires a battle trigger")
		}
		if e.Output == nil {
			v.add(path+".output", "required")
		} else if err := formula.Validate(*e.Output, formula.ScopeBattle); err != nil {
			v.add(path+".output", err.Error())
		}
	default:
		v.add(path+".type", fmt.Sprintf("unknown effect type %q", e.Type))
	}
}

func (v *packValidator) condition(path string, c *Condition, battle bool) {
	switch c.Kind() {
	case CondAnd:
		for i := range c.And {
			v.condition(fmt.Sprintf("%s.and[%d]", path, i), &c.And[i], battle)
		}
	case CondOr:
		for i := range c.Or {
			v.condition(fmt.Sprintf("%s.or[%d]", path, i), &c.Or[i], battle)
		}
	case CondAttribute:
		if !IsBaseAttribute(c.Target) {
			v.add(path+".target", fmt.Sprintf("unknown attribute %q", c.Target))
		}
		v.comparison(path, c.Operator, c.Value, formula.ScopeProgression)
	case CondHasTrait:
		if c.ID == "" {
			v.add(path+".id", "required")
		}
	case CondEquippedManual:
		if !c.ManualKind.Valid() {
			v.add(path+".manual_kind", fmt.Sprintf("unknown manual kind %q", c.ManualKind))
		}
		if c.ID == "" {
			v.add(path+".id", "required")
		}
	case CondEquippedManualType:
		if c.ManualType == "" {
			v.add(path+".manual_type", "required")
		}
	case CondBattleAttribute:
		if !battle {
			v.add(path, "battle_attribute requires a battle trigger")
		}
		if c.Subject != SubjectSelf && c.Subject != SubjectOpponent {
			v.add(path+".subject", fmt.Sprintf("unknown subject %q", c.Subject))
		}
		if !IsBattleStat(c.Target) {
			v.add(path+".target", fmt.Sprintf("unknown battle stat %q", c.Target))
		}
		v.comparison(path, c.Operator, c.Value, formula.ScopeBattle)
	case CondOpponentManual:
		if !battle {
			v.add(path, "opponent_manual requires a battle trigger")
		}
		if !c.ManualKind.Valid() {
			v.add(path+".manual_kind", fmt.Sprintf("unknown manual kind %q", c.ManualKind))
		}
		if c.ID == "" {
			v.add(path+".id", "required")
		}
	case CondOpponentManualType:
		if !battle {
			v.add(path, "opponent_manual_type requires a battle trigger")
		}
		if c.ManualType == "" {
			v.add(path+".manual_type", "required")
		}
	case CondBattleFlag:
		if !battle {
			v.add(path, "battle_flag requires a battle trigger")
		}
		if !c.Flag.Valid() {
			v.add(path+".flag", fmt.Sprintf("unknown battle flag %q", c.Flag))
		}
	default:
		v.add(path, "unrecognized condition shape")
	}
}

func (v *packValidator) comparison(path string, op Comparator, value formula.Value, scope formula.Scope) {
	if !op.Valid() {
		v.add(path+".operator", fmt.Sprintf("unknown comparator %q", op))
	}
	if err := formula.Validate(value, scope); err != nil {
		v.add(path+".value", err.Error())
	}
}

func (v *packValidator) reward(path string, r Reward) {
	switch r.Type {
	case RewardAttribute:
		if !IsBaseAttribute(r.Target) {
			v.add(path+".target", fmt.Sprintf("unknown attribute %q", r.Target))
		}
		if !r.Operation.Valid() {
			v.add(path+".operation", fmt.Sprintf("unknown operation %q", r.Operation))
		}
		if r.Value == nil {
			v.add(path+".value", "required")
		} else if err := formula.Validate(*r.Value, formula.ScopeProgression); err != nil {
			v.add(path+".value", err.Error())
		}
	case RewardTrait, RewardStartTraitPool:
		if r.ID == "" {
			v.add(path+".id", "required")
		}
	case RewardInternal, RewardAttackSkill, RewardDefenseSkill:
		if r.ID == "" {
			v.add(path+".id", "required")
		}
	case RewardRandomManual:
		if r.Count < 1 {
			v.add(path+".count", "must be at least 1")
		}
		if r.ManualKind != "" && r.ManualKind != KindAny && !r.ManualKind.Valid() {
			v.add(path+".manual_kind", fmt.Sprintf("unknown manual kind %q", r.ManualKind))
		}
		if r.Rarity != 0 && (r.Rarity < 1 || r.Rarity > 5) {
			v.add(path+".rarity", fmt.Sprintf("must be 1..5, got %d", r.Rarity))
		}
	default:
		v.add(path+".type", fmt.Sprintf("unknown reward type %q", r.Type))
	}
}
