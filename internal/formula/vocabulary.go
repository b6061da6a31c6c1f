package formula

import "strings"

// Scope restricts which part of the variable vocabulary an expression may use.
// Battle formulas see the full vocabulary; progression formulas (cultivation,
// story rewards) see only character attributes.
type Scope int

const (
	ScopeBattle      Scope = iota // full vocabulary
	ScopeProgression              // character attributes only
)

// Single-letter aliases for the three dimensions and martial arts attainment.
// Authors use them in short tuning formulas ("x*2+10").
var aliasNames = map[string]string{
	"x": "comprehension",
	"y": "bone_structure",
	"z": "physique",
	"a": "martial_arts_attainment",
}

// attributeNames are the character attributes visible to progression formulas.
var attributeNames = []string{
	"comprehension",
	"bone_structure",
	"physique",
	"martial_arts_attainment",
}

// panelNames are the battle-panel stats, valid only in battle formulas.
var panelNames = []string{
	"hp",
	"qi",
	"attack",
	"defense",
	"qi_quality",
}

// attackNames are the attack-resolution pseudo-variables. They are bound to 0
// outside an attack exchange; attack_broke_qi_defense is 0/1.
var attackNames = []string{
	"attack_total_output",
	"attack_total_defense",
	"attack_reduced_output",
	"attack_hp_damage",
	"attack_attacker_qi_consumed",
	"attack_defender_qi_consumed",
	"attack_broke_qi_defense",
}

var (
	progressionVars map[string]struct{}
	battleVars      map[string]struct{}
)

func init() {
	progressionVars = make(map[string]struct{}, 24)
	battleVars = make(map[string]struct{}, 64)

	add := func(set map[string]struct{}, name string) {
		set[name] = struct{}{}
	}

	for alias := range aliasNames {
		add(progressionVars, alias)
		add(progressionVars, "self_"+alias)
	}
	for _, name := range attributeNames {
		add(progressionVars, name)
		add(progressionVars, "self_"+name)
	}

	// Battle scope: everything from progression plus panel stats, opponent
	// duplicates and attack pseudo-variables.
	for name := range progressionVars {
		add(battleVars, name)
	}
	for alias := range aliasNames {
		add(battleVars, "opponent_"+alias)
	}
	for _, name := range attributeNames {
		add(battleVars, "opponent_"+name)
	}
	for _, name := range panelNames {
		add(battleVars, name)
		add(battleVars, "self_"+name)
		add(battleVars, "opponent_"+name)
	}
	for _, name := range attackNames {
		add(battleVars, name)
	}
}

// vocabulary returns the variable set for the given scope.
func vocabulary(scope Scope) map[string]struct{} {
	if scope == ScopeProgression {
		return progressionVars
	}
	return battleVars
}

// Known reports whether name belongs to the vocabulary of the given scope.
func Known(name string, scope Scope) bool {
	_, ok := vocabulary(scope)[name]
	return ok
}

// CanonicalName maps alias forms to their long names: "x" becomes
// "comprehension", "opponent_a" becomes "opponent_martial_arts_attainment".
// Non-alias names are returned unchanged.
func CanonicalName(name string) string {
	if long, ok := aliasNames[name]; ok {
		return long
	}
	for _, prefix := range [2]string{"self_", "opponent_"} {
		rest, found := strings.CutPrefix(name, prefix)
		if !found {
			continue
		}
		if long, ok := aliasNames[rest]; ok {
			return prefix + long
		}
		return name
	}
	return name
}

// displayNames are the English display labels for the annotate pass.
var displayNames = map[string]string{
	"comprehension":           "Comprehension",
	"bone_structure":          "Bone Structure",
	"physique":                "Physique",
	"martial_arts_attainment": "Martial Arts Attainment",
	"hp":                      "HP",
	"qi":                      "Qi",
	"attack":                  "Attack",
	"defense":                 "Defense",
	"qi_quality":              "Qi Quality",

	"attack_total_output":         "Total Attack Output",
	"attack_total_defense":        "Total Defense",
	"attack_reduced_output":       "Reduced Attack Output",
	"attack_hp_damage":            "HP Damage",
	"attack_attacker_qi_consumed": "Attacker Qi Spent",
	"attack_defender_qi_consumed": "Defender Qi Spent",
	"attack_broke_qi_defense":     "Broke Qi Defense",
}

// Labels returns the default display label for every vocabulary name,
// including aliases and self_/opponent_ prefixed forms.
func Labels() map[string]string {
	labels := make(map[string]string, len(battleVars))
	for name := range battleVars {
		labels[name] = labelFor(name)
	}
	return labels
}

func labelFor(name string) string {
	canonical := CanonicalName(name)
	if label, ok := displayNames[canonical]; ok {
		return label
	}
	if rest, ok := strings.CutPrefix(canonical, "self_"); ok {
		if label, found := displayNames[rest]; found {
			return "Own " + label
		}
	}
	if rest, ok := strings.CutPrefix(canonical, "opponent_"); ok {
		if label, found := displayNames[rest]; found {
			return "Opponent " + label
		}
	}
	return name
}
