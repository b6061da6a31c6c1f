package model

// Combatant pairs a character with the working panel used for one battle.
// The panel starts as the character's effective panel and accumulates
// temporary battle effects that never touch persistent state.
type Combatant struct {
	Character *Character
	Panel     Panel
}

// AttackOutcome records the numbers of one resolved attack exchange. The
// after_attack and after_defense triggers evaluate against it; before
// any exchange has resolved every field reads zero.
type AttackOutcome struct {
	// TotalOutput is the attacker's full strike value before defense.
	TotalOutput float64
	// TotalDefense is the defender's full mitigation value.
	TotalDefense float64
	// ReducedOutput is what remained of the strike after mitigation.
	ReducedOutput float64
	// HPDamage is the damage the defender's HP actually took.
	HPDamage float64
	// AttackerQiConsumed and DefenderQiConsumed are the qi each side
	// spent during the exchange.
	AttackerQiConsumed float64
	DefenderQiConsumed float64

	// QiDefenseAttempted is set when the defender raised a qi defense;
	// BrokeQiDefense is set when the attacker pierced it. The four wire
	// battle flags derive from this pair.
	QiDefenseAttempted bool
	BrokeQiDefense     bool
}
