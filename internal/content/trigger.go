package content

// Trigger names the game moment that makes an entry eligible for evaluation.
// The string values are the wire contract shared with mod packs.
type Trigger string

// Progression triggers fire during cultivation and story flow; battle
// triggers fire inside a fight. The trigger decides which fact schema the
// entry's condition and effects are evaluated against.
const (
	TriggerGameStart             Trigger = "game_start"
	TriggerTraitAcquired         Trigger = "trait_acquired"
	TriggerManualRead            Trigger = "manual_read"
	TriggerCultivateInternal     Trigger = "cultivate_internal"
	TriggerCultivateAttackSkill  Trigger = "cultivate_attack_skill"
	TriggerCultivateDefenseSkill Trigger = "cultivate_defense_skill"
	TriggerLevelUpInternal       Trigger = "level_up_internal"
	TriggerLevelUpAttackSkill    Trigger = "level_up_attack_skill"
	TriggerLevelUpDefenseSkill   Trigger = "level_up_defense_skill"
	TriggerSwitchCultivation     Trigger = "switch_cultivation"
	TriggerBattleStart           Trigger = "battle_start"
	TriggerBeforeAttack          Trigger = "before_attack"
	TriggerAfterAttack           Trigger = "after_attack"
	TriggerBeforeDefense         Trigger = "before_defense"
	TriggerAfterDefense          Trigger = "after_defense"
	TriggerRoundEnd              Trigger = "round_end"
)

var allTriggers = []Trigger{
	TriggerGameStart,
	TriggerTraitAcquired,
	TriggerManualRead,
	TriggerCultivateInternal,
	TriggerCultivateAttackSkill,
	TriggerCultivateDefenseSkill,
	TriggerLevelUpInternal,
	TriggerLevelUpAttackSkill,
	TriggerLevelUpDefenseSkill,
	TriggerSwitchCultivation,
	TriggerBattleStart,
	TriggerBeforeAttack,
	TriggerAfterAttack,
	TriggerBeforeDefense,
	TriggerAfterDefense,
	TriggerRoundEnd,
}

// Triggers returns every trigger in declaration order.
func Triggers() []Trigger {
	out := make([]Trigger, len(allTriggers))
	copy(out, allTriggers)
	return out
}

// Valid reports whether t is a known trigger.
func (t Trigger) Valid() bool {
	for _, known := range allTriggers {
		if t == known {
			return true
		}
	}
	return false
}

// IsBattle reports whether the trigger evaluates against the battle schema
// (both combatants' panels, attack outcome) rather than the progression
// schema (a single character's attributes and holdings).
func (t Trigger) IsBattle() bool {
	switch t {
	case TriggerBattleStart, TriggerBeforeAttack, TriggerAfterAttack,
		TriggerBeforeDefense, TriggerAfterDefense, TriggerRoundEnd:
		return true
	}
	return false
}
