package rule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/formula"
	"github.com/luoxiaofei/wulingo/internal/model"
)

func testCatalog() *content.Catalog {
	pack := &content.Pack{
		Name:    "core",
		Version: "1",
		Manuals: []content.Manual{
			{ID: "azure-sword-art", Kind: content.KindAttackSkill, Name: "Azure Sword Art", ManualType: "sword", Rarity: 3},
			{ID: "poison-palm", Kind: content.KindAttackSkill, Name: "Poison Palm", ManualType: "poison", Rarity: 2},
			{ID: "turtle-breath", Kind: content.KindInternal, Name: "Turtle Breath Scripture", Rarity: 2},
		},
	}
	return content.NewCatalog(pack)
}

func testCharacter() *model.Character {
	c := model.NewCharacter("c1", "Li Qingshan")
	c.Comprehension = 30
	c.BoneStructure = 60
	c.Physique = 40
	c.MartialArtsAttainment = 20
	c.GrantTrait("iron-bones")
	c.GrantManual(content.KindAttackSkill, "azure-sword-art")
	c.Equip(content.KindAttackSkill, "azure-sword-art")
	c.GrantManual(content.KindInternal, "turtle-breath")
	c.Equip(content.KindInternal, "turtle-breath")
	return c
}

func mustDecodeCondition(t *testing.T, data string) *content.Condition {
	t.Helper()
	var c content.Condition
	require.NoError(t, json.Unmarshal([]byte(data), &c))
	return &c
}

func TestEvaluateNilConditionIsTrue(t *testing.T) {
	facts := ProgressionFacts{Character: testCharacter(), Catalog: testCatalog()}
	assert.True(t, Evaluate(nil, facts))
}

func TestEvaluateBranches(t *testing.T) {
	facts := ProgressionFacts{Character: testCharacter(), Catalog: testCatalog()}

	pass := content.HasTraitCondition("iron-bones")
	fail := content.HasTraitCondition("missing")

	tests := []struct {
		name string
		cond *content.Condition
		want bool
	}{
		{"empty and", content.AndOf(), true},
		{"empty or", content.OrOf(), false},
		{"and all pass", content.AndOf(pass, pass), true},
		{"and one fails", content.AndOf(pass, fail), false},
		{"or one passes", content.OrOf(fail, pass), true},
		{"or all fail", content.OrOf(fail, fail), false},
		{"nested", content.AndOf(pass, *content.OrOf(fail, pass)), true},
		{"nested fails", content.OrOf(fail, *content.AndOf(pass, fail)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.cond, facts))
		})
	}
}

func TestEvaluateProgressionLeaves(t *testing.T) {
	facts := ProgressionFacts{Character: testCharacter(), Catalog: testCatalog()}

	tests := []struct {
		name string
		cond content.Condition
		want bool
	}{
		{
			name: "attribute comparison passes on equality",
			cond: content.AttributeCondition(content.AttrPhysique, content.CompareGreaterEq, formula.Number(40)),
			want: true,
		},
		{
			name: "attribute comparison fails",
			cond: content.AttributeCondition(content.AttrComprehension, content.CompareGreater, formula.Number(30)),
			want: false,
		},
		{
			name: "formula right hand side",
			cond: content.AttributeCondition(content.AttrComprehension, content.CompareGreater, formula.Expression("y / 3")),
			want: true, // 30 > 60/3
		},
		{
			name: "battle variable in formula fails closed",
			cond: content.AttributeCondition(content.AttrComprehension, content.CompareGreater, formula.Expression("hp - 1000")),
			want: false,
		},
		{
			name: "unknown attribute target fails closed",
			cond: content.AttributeCondition("luck", content.CompareGreater, formula.Number(0)),
			want: false,
		},
		{
			name: "has trait",
			cond: content.HasTraitCondition("iron-bones"),
			want: true,
		},
		{
			name: "missing trait",
			cond: content.HasTraitCondition("sword-heart"),
			want: false,
		},
		{
			name: "equipped manual",
			cond: content.EquippedManualCondition(content.KindAttackSkill, "azure-sword-art"),
			want: true,
		},
		{
			name: "equipped manual wrong kind",
			cond: content.EquippedManualCondition(content.KindDefenseSkill, "azure-sword-art"),
			want: false,
		},
		{
			name: "equipped manual type",
			cond: content.EquippedManualTypeCondition("sword"),
			want: true,
		},
		{
			name: "equipped manual type no match",
			cond: content.EquippedManualTypeCondition("poison"),
			want: false,
		},
		{
			name: "battle leaf out of schema",
			cond: content.BattleFlagCondition(content.FlagBrokeQiDefense),
			want: false,
		},
		{
			name: "battle attribute out of schema",
			cond: content.BattleAttributeCondition(content.SubjectSelf, content.StatHP, content.CompareGreater, formula.Number(0)),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(&tt.cond, facts))
		})
	}
}

func TestEvaluateProgressionWithoutCatalog(t *testing.T) {
	facts := ProgressionFacts{Character: testCharacter()}
	cond := content.EquippedManualTypeCondition("sword")
	assert.False(t, Evaluate(&cond, facts), "manual type leaves need a catalog")
}

func TestEvaluateInvalidShapeFailsClosed(t *testing.T) {
	facts := ProgressionFacts{Character: testCharacter(), Catalog: testCatalog()}

	cond := mustDecodeCondition(t, `{"type":"moon_phase","phase":"full"}`)
	assert.False(t, Evaluate(cond, facts))

	nested := mustDecodeCondition(t, `{"or":[{"type":"moon_phase"},{"and":[{},{"type":"has_trait","id":"iron-bones"}]}]}`)
	assert.False(t, Evaluate(nested, facts))
}

func battleFixture() BattleFacts {
	self := testCharacter()
	opp := model.NewCharacter("c2", "Yan Shisan")
	opp.Comprehension = 50
	opp.GrantManual(content.KindAttackSkill, "poison-palm")
	opp.Equip(content.KindAttackSkill, "poison-palm")

	selfPanel := model.PanelFromCharacter(self)
	selfPanel.HP, selfPanel.Qi, selfPanel.Attack, selfPanel.Defense, selfPanel.QiQuality = 100, 50, 20, 10, 3
	oppPanel := model.PanelFromCharacter(opp)
	oppPanel.HP, oppPanel.Qi, oppPanel.Attack, oppPanel.Defense, oppPanel.QiQuality = 80, 60, 25, 8, 2

	return BattleFacts{
		Self:     model.Combatant{Character: self, Panel: selfPanel},
		Opponent: model.Combatant{Character: opp, Panel: oppPanel},
		Catalog:  testCatalog(),
	}
}

func TestEvaluateBattleLeaves(t *testing.T) {
	facts := battleFixture()

	tests := []struct {
		name string
		cond content.Condition
		want bool
	}{
		{
			name: "self panel stat",
			cond: content.BattleAttributeCondition(content.SubjectSelf, content.StatHP, content.CompareGreater, formula.Number(90)),
			want: true,
		},
		{
			name: "opponent panel stat",
			cond: content.BattleAttributeCondition(content.SubjectOpponent, content.StatQi, content.CompareGreaterEq, formula.Number(60)),
			want: true,
		},
		{
			name: "cross side formula",
			cond: content.BattleAttributeCondition(content.SubjectOpponent, content.StatAttack, content.CompareGreater, formula.Expression("self_attack")),
			want: true, // 25 > 20
		},
		{
			name: "attribute through battle leaf",
			cond: content.BattleAttributeCondition(content.SubjectOpponent, content.AttrComprehension, content.CompareEqual, formula.Number(50)),
			want: true,
		},
		{
			name: "opponent manual",
			cond: content.OpponentManualCondition(content.KindAttackSkill, "poison-palm"),
			want: true,
		},
		{
			name: "opponent manual wrong id",
			cond: content.OpponentManualCondition(content.KindAttackSkill, "azure-sword-art"),
			want: false,
		},
		{
			name: "opponent manual type",
			cond: content.OpponentManualTypeCondition("poison"),
			want: true,
		},
		{
			name: "opponent manual type no match",
			cond: content.OpponentManualTypeCondition("sword"),
			want: false,
		},
		{
			name: "progression leaf answers for self",
			cond: content.HasTraitCondition("iron-bones"),
			want: true,
		},
		{
			name: "equipped manual type answers for self",
			cond: content.EquippedManualTypeCondition("sword"),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(&tt.cond, facts))
		})
	}
}

func TestEvaluateBattleUnknownSubject(t *testing.T) {
	facts := battleFixture()
	cond := mustDecodeCondition(t, `{"type":"battle_attribute","subject":"referee","target":"hp","operator":">","value":0}`)
	assert.False(t, Evaluate(cond, facts))
}

func TestEvaluateBattleFlags(t *testing.T) {
	attempted := func(broke bool) *model.AttackOutcome {
		return &model.AttackOutcome{QiDefenseAttempted: true, BrokeQiDefense: broke}
	}

	tests := []struct {
		name   string
		attack *model.AttackOutcome
		flag   content.BattleFlag
		want   bool
	}{
		{"broke when pierced", attempted(true), content.FlagBrokeQiDefense, true},
		{"defense failed when pierced", attempted(true), content.FlagQiDefenseFailed, true},
		{"failed break when pierced", attempted(true), content.FlagFailedBreakQiDefense, false},
		{"defense succeeded when pierced", attempted(true), content.FlagQiDefenseSucceeded, false},
		{"broke when held", attempted(false), content.FlagBrokeQiDefense, false},
		{"failed break when held", attempted(false), content.FlagFailedBreakQiDefense, true},
		{"defense succeeded when held", attempted(false), content.FlagQiDefenseSucceeded, true},
		{"no qi defense raised", &model.AttackOutcome{BrokeQiDefense: true}, content.FlagBrokeQiDefense, false},
		{"no outcome yet", nil, content.FlagQiDefenseSucceeded, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := battleFixture()
			facts.Attack = tt.attack
			cond := content.BattleFlagCondition(tt.flag)
			assert.Equal(t, tt.want, Evaluate(&cond, facts))
		})
	}
}

func TestBattleBindingsAttackVariables(t *testing.T) {
	facts := battleFixture()

	// Without an outcome every attack variable binds to zero.
	cond := content.BattleAttributeCondition(content.SubjectSelf, content.StatHP, content.CompareGreater, formula.Expression("attack_hp_damage + 99"))
	assert.True(t, Evaluate(&cond, facts)) // 100 > 0+99

	facts.Attack = &model.AttackOutcome{HPDamage: 15}
	assert.False(t, Evaluate(&cond, facts)) // 100 > 15+99 fails
}

func TestProgressionBindingsCoverVocabulary(t *testing.T) {
	facts := ProgressionFacts{Character: testCharacter()}
	b := facts.Bindings()

	assert.Equal(t, 30.0, b[content.AttrComprehension])
	assert.Equal(t, 30.0, b["self_"+content.AttrComprehension])
	assert.Equal(t, 20.0, b[content.AttrMartialArtsAttainment])
	_, ok := b[content.StatHP]
	assert.False(t, ok, "panel stats are battle scope")
}

func TestBattleBindingsCoverVocabulary(t *testing.T) {
	facts := battleFixture()
	b := facts.Bindings()

	assert.Equal(t, 100.0, b[content.StatHP])
	assert.Equal(t, 100.0, b["self_"+content.StatHP])
	assert.Equal(t, 80.0, b["opponent_"+content.StatHP])
	assert.Equal(t, 50.0, b["opponent_"+content.AttrComprehension])
	assert.Equal(t, 0.0, b["attack_broke_qi_defense"])

	facts.Attack = &model.AttackOutcome{QiDefenseAttempted: true, BrokeQiDefense: true, TotalOutput: 42}
	b = facts.Bindings()
	assert.Equal(t, 1.0, b["attack_broke_qi_defense"])
	assert.Equal(t, 42.0, b["attack_total_output"])
}

func TestEvaluateNilCharacterFailsClosed(t *testing.T) {
	facts := ProgressionFacts{Catalog: testCatalog()}

	cond := content.AttributeCondition(content.AttrPhysique, content.CompareGreaterEq, formula.Number(0))
	assert.False(t, Evaluate(&cond, facts), "no character means no facts")

	trait := content.HasTraitCondition("iron-bones")
	assert.False(t, Evaluate(&trait, facts))
}
