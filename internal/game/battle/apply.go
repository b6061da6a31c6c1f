// Package battle applies entry effects to combat panels. Application is
// a pure fold: the caller hands in the current facts, gets fresh panel
// copies back, and keeps ownership of when and how often entries fire.
package battle

import (
	"math"

	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/formula"
	"github.com/luoxiaofei/wulingo/internal/game/rule"
	"github.com/luoxiaofei/wulingo/internal/model"
)

// Mutation records one applied stat change. Suppressed at-cap pushes and
// effects skipped over formula errors leave no journal entry.
type Mutation struct {
	Panel     content.PanelSide
	Target    string
	Before    float64
	After     float64
	Temporary bool
}

// Result is the outcome of applying one entry's effect list in battle.
// Own and Opponent are the updated panel copies; the inputs are never
// touched. ExtraAttacks carries the resolved output of every
// extra_attack effect, in list order, for the battle engine to execute.
type Result struct {
	Own          model.Panel
	Opponent     model.Panel
	Mutations    []Mutation
	ExtraAttacks []float64
}

// ApplyEffects folds an effect list over both combatants' panels.
//
// Formula variables resolve against the facts as they stood when the
// entry fired; the evolving panels show through only in each effect's
// own current-value read. An effect whose value cannot be resolved is
// skipped and the rest of the list still applies.
func ApplyEffects(facts rule.BattleFacts, effects []content.Effect) Result {
	b := facts.Bindings()
	res := Result{Own: facts.Self.Panel, Opponent: facts.Opponent.Panel}
	for _, e := range effects {
		switch e.Type {
		case content.EffectModifyAttribute, content.EffectModifyPercentage:
			p, side := &res.Own, content.PanelOwn
			if e.TargetPanel == content.PanelOpponent {
				p, side = &res.Opponent, content.PanelOpponent
			}
			if m, ok := modifyStat(p, e, b); ok {
				m.Panel = side
				res.Mutations = append(res.Mutations, m)
			}
		case content.EffectExtraAttack:
			if e.Output == nil {
				continue
			}
			out, err := formula.Resolve(*e.Output, b)
			if err != nil {
				continue
			}
			res.ExtraAttacks = append(res.ExtraAttacks, out)
		}
	}
	return res
}

// ApplyProgression applies an effect list outside battle, where only the
// character's own working panel exists. Opponent redirects and extra
// attacks mean nothing there and are dropped.
func ApplyProgression(facts rule.ProgressionFacts, panel model.Panel, effects []content.Effect) (model.Panel, []Mutation) {
	b := facts.Bindings()
	var muts []Mutation
	for _, e := range effects {
		if e.Type != content.EffectModifyAttribute && e.Type != content.EffectModifyPercentage {
			continue
		}
		if e.TargetPanel == content.PanelOpponent {
			continue
		}
		if m, ok := modifyStat(&panel, e, b); ok {
			m.Panel = content.PanelOwn
			muts = append(muts, m)
		}
	}
	return panel, muts
}

// modifyStat applies one modify effect in place. It reports false when
// the panel was left alone: unknown target or operation, unresolvable
// value, or an at-cap push the clamp suppressed.
func modifyStat(p *model.Panel, e content.Effect, b formula.Bindings) (Mutation, bool) {
	current, ok := p.Get(e.Target)
	if !ok || e.Value == nil {
		return Mutation{}, false
	}
	v, err := formula.Resolve(*e.Value, b)
	if err != nil {
		return Mutation{}, false
	}
	raw, ok := e.Operation.Apply(current, v)
	if !ok {
		return Mutation{}, false
	}
	after, suppressed := clampStat(e.Target, current, raw, e.CanExceedLimit)
	if suppressed {
		return Mutation{}, false
	}
	p.Set(e.Target, after)
	return Mutation{Target: e.Target, Before: current, After: after, Temporary: e.IsTemporary}, true
}

// clampStat holds the three capped dimensions to [0, 100] after the
// operation and suppresses pushes on values already at or over the cap,
// mirroring model.ClampAttribute in the float panel domain. Every other
// stat only gets the zero floor.
func clampStat(target string, current, raw float64, exceed bool) (float64, bool) {
	v := math.Max(0, raw)
	if !content.IsCappedDimension(target) || exceed {
		return v, false
	}
	if current >= model.AttributeCap && raw > current {
		return current, true
	}
	return math.Min(v, model.AttributeCap), false
}
