package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/formula"
	"github.com/luoxiaofei/wulingo/internal/game/rule"
	"github.com/luoxiaofei/wulingo/internal/model"
)

func fv(v formula.Value) *formula.Value { return &v }

func battleFixture() rule.BattleFacts {
	self := model.NewCharacter("c1", "Li Qingshan")
	self.Comprehension = 60
	self.BoneStructure = 100
	self.Physique = 40
	self.MartialArtsAttainment = 95

	opp := model.NewCharacter("c2", "Yan Shisan")
	opp.Comprehension = 50

	selfPanel := model.PanelFromCharacter(self)
	selfPanel.HP, selfPanel.Qi, selfPanel.Attack, selfPanel.Defense, selfPanel.QiQuality = 100, 50, 20, 10, 3
	oppPanel := model.PanelFromCharacter(opp)
	oppPanel.HP, oppPanel.Qi, oppPanel.Attack, oppPanel.Defense, oppPanel.QiQuality = 80, 60, 25, 8, 2

	return rule.BattleFacts{
		Self:     model.Combatant{Character: self, Panel: selfPanel},
		Opponent: model.Combatant{Character: opp, Panel: oppPanel},
	}
}

func modify(target string, op content.Operation, v formula.Value) content.Effect {
	return content.Effect{
		Type:        content.EffectModifyAttribute,
		Target:      target,
		Operation:   op,
		Value:       fv(v),
		TargetPanel: content.PanelOwn,
	}
}

func TestApplyEffectsOperations(t *testing.T) {
	tests := []struct {
		name string
		op   content.Operation
		val  float64
		want float64
	}{
		{"add", content.OpAdd, 5, 25},
		{"subtract", content.OpSubtract, 5, 15},
		{"set", content.OpSet, 5, 5},
		{"multiply", content.OpMultiply, 2, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ApplyEffects(battleFixture(), []content.Effect{
				modify(content.StatAttack, tt.op, formula.Number(tt.val)),
			})
			assert.Equal(t, tt.want, res.Own.Attack)
			require.Len(t, res.Mutations, 1)
			assert.Equal(t, Mutation{
				Panel:  content.PanelOwn,
				Target: content.StatAttack,
				Before: 20,
				After:  tt.want,
			}, res.Mutations[0])
		})
	}
}

func TestApplyEffectsDimensionClamp(t *testing.T) {
	tests := []struct {
		name       string
		effect     content.Effect
		want       float64
		suppressed bool
	}{
		{
			name:       "push at cap is suppressed",
			effect:     modify(content.AttrBoneStructure, content.OpAdd, formula.Number(5)),
			want:       100,
			suppressed: true,
		},
		{
			name:   "overshoot clamps to cap",
			effect: modify(content.AttrComprehension, content.OpAdd, formula.Number(45)),
			want:   100,
		},
		{
			name: "can_exceed_limit lifts the cap",
			effect: content.Effect{
				Type:           content.EffectModifyAttribute,
				Target:         content.AttrComprehension,
				Operation:      content.OpAdd,
				Value:          fv(formula.Number(45)),
				TargetPanel:    content.PanelOwn,
				CanExceedLimit: true,
			},
			want: 105,
		},
		{
			name:   "floor at zero",
			effect: modify(content.AttrComprehension, content.OpSubtract, formula.Number(70)),
			want:   0,
		},
		{
			name:   "reduction at cap stays allowed",
			effect: modify(content.AttrBoneStructure, content.OpSubtract, formula.Number(5)),
			want:   95,
		},
		{
			name:   "attainment has no ceiling",
			effect: modify(content.AttrMartialArtsAttainment, content.OpAdd, formula.Number(10)),
			want:   105,
		},
		{
			name:   "panel stats only floor",
			effect: modify(content.StatAttack, content.OpSubtract, formula.Number(50)),
			want:   0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ApplyEffects(battleFixture(), []content.Effect{tt.effect})
			got, ok := res.Own.Get(tt.effect.Target)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
			if tt.suppressed {
				assert.Empty(t, res.Mutations, "suppressed changes leave no journal entry")
			} else {
				assert.Len(t, res.Mutations, 1)
			}
		})
	}
}

func TestApplyEffectsPercentageSharesArithmetic(t *testing.T) {
	abs := modify(content.StatQi, content.OpMultiply, formula.Number(1.5))
	pct := abs
	pct.Type = content.EffectModifyPercentage

	a := ApplyEffects(battleFixture(), []content.Effect{abs})
	b := ApplyEffects(battleFixture(), []content.Effect{pct})
	assert.Equal(t, a.Own, b.Own, "the two modify kinds share one arithmetic")
	assert.Equal(t, 75.0, b.Own.Qi)
}

func TestApplyEffectsOpponentRedirect(t *testing.T) {
	e := modify(content.StatHP, content.OpSubtract, formula.Number(10))
	e.TargetPanel = content.PanelOpponent

	res := ApplyEffects(battleFixture(), []content.Effect{e})
	assert.Equal(t, 70.0, res.Opponent.HP)
	assert.Equal(t, 100.0, res.Own.HP)
	require.Len(t, res.Mutations, 1)
	assert.Equal(t, content.PanelOpponent, res.Mutations[0].Panel)
}

func TestApplyEffectsExtraAttack(t *testing.T) {
	facts := battleFixture()
	res := ApplyEffects(facts, []content.Effect{
		{Type: content.EffectExtraAttack, Output: fv(formula.Expression("self_attack * 2"))},
		{Type: content.EffectExtraAttack},
		{Type: content.EffectExtraAttack, Output: fv(formula.Expression("no_such_var"))},
	})
	assert.Equal(t, []float64{40}, res.ExtraAttacks, "missing and unresolvable outputs are dropped")
	assert.Empty(t, res.Mutations)
	assert.Equal(t, facts.Self.Panel, res.Own, "extra attacks leave the panels alone")
}

func TestApplyEffectsSkipsUnresolvable(t *testing.T) {
	res := ApplyEffects(battleFixture(), []content.Effect{
		modify(content.StatHP, content.OpAdd, formula.Expression("no_such_var + 1")),
		modify(content.StatQi, content.OpAdd, formula.Number(5)),
	})
	assert.Equal(t, 100.0, res.Own.HP, "unresolvable effect is skipped")
	assert.Equal(t, 55.0, res.Own.Qi, "the rest of the list still applies")
	require.Len(t, res.Mutations, 1)
	assert.Equal(t, content.StatQi, res.Mutations[0].Target)
}

func TestApplyEffectsBindingsSnapshot(t *testing.T) {
	res := ApplyEffects(battleFixture(), []content.Effect{
		modify(content.StatHP, content.OpAdd, formula.Number(50)),
		modify(content.StatQi, content.OpAdd, formula.Expression("self_hp")),
	})
	assert.Equal(t, 150.0, res.Own.HP)
	assert.Equal(t, 150.0, res.Own.Qi, "formulas resolve against the panels as the entry fired, not the evolving copy")
}

func TestApplyEffectsInputsUntouched(t *testing.T) {
	facts := battleFixture()
	ApplyEffects(facts, []content.Effect{
		modify(content.StatHP, content.OpSet, formula.Number(1)),
	})
	assert.Equal(t, 100.0, facts.Self.Panel.HP)
}

func TestApplyEffectsTemporaryFlag(t *testing.T) {
	e := modify(content.StatAttack, content.OpAdd, formula.Number(5))
	e.IsTemporary = true

	res := ApplyEffects(battleFixture(), []content.Effect{e})
	require.Len(t, res.Mutations, 1)
	assert.True(t, res.Mutations[0].Temporary)
}

func TestApplyEffectsUnknownShapes(t *testing.T) {
	res := ApplyEffects(battleFixture(), []content.Effect{
		modify("luck", content.OpAdd, formula.Number(5)),
		modify(content.StatAttack, content.Operation("divide"), formula.Number(5)),
		{Type: content.EffectModifyAttribute, Target: content.StatAttack, Operation: content.OpAdd, TargetPanel: content.PanelOwn},
	})
	assert.Equal(t, battleFixture().Self.Panel, res.Own)
	assert.Empty(t, res.Mutations)
}

func TestApplyProgression(t *testing.T) {
	ch := model.NewCharacter("c1", "Li Qingshan")
	ch.Comprehension = 30
	facts := rule.ProgressionFacts{Character: ch}
	panel := model.PanelFromCharacter(ch)

	opponentSide := modify(content.StatHP, content.OpAdd, formula.Number(10))
	opponentSide.TargetPanel = content.PanelOpponent

	panel, muts := ApplyProgression(facts, panel, []content.Effect{
		modify(content.AttrComprehension, content.OpAdd, formula.Expression("x + 10")),
		opponentSide,
		{Type: content.EffectExtraAttack, Output: fv(formula.Number(7))},
	})

	assert.Equal(t, 70.0, panel.Comprehension, "comprehension 30 plus resolved x+10")
	assert.Equal(t, 0.0, panel.HP, "opponent redirects mean nothing outside battle")
	require.Len(t, muts, 1)
	assert.Equal(t, Mutation{
		Panel:  content.PanelOwn,
		Target: content.AttrComprehension,
		Before: 30,
		After:  70,
	}, muts[0])
}
