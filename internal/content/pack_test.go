package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoxiaofei/wulingo/internal/formula"
)

// samplePackJSON is a small but complete pack exercising every wire shape:
// both entry owners, branch and leaf conditions, all effect types and all
// reward types.
const samplePackJSON = `{
  "name": "core",
  "version": "1.0.0",
  "author": "heaven-studio",
  "manuals": [
    {
      "id": "azure-sword-art",
      "kind": "attack_skill",
      "name": "Azure Sword Art",
      "manual_type": "sword",
      "rarity": 3,
      "realms": [
        {
          "exp_required": 100,
          "grants": {"attack": 5},
          "entries": [
            {
              "entry_id": "e-azure-1",
              "trigger": "before_attack",
              "condition": {"type": "battle_attribute", "subject": "self", "target": "qi", "operator": ">=", "value": 10},
              "effects": [
                {"type": "modify_attribute", "target": "attack", "operation": "add", "value": "qi_quality * 2", "is_temporary": true}
              ]
            }
          ]
        },
        {"exp_required": 250, "grants": {"attack": 10}, "entries": []},
        {
          "exp_required": 500,
          "grants": {"attack": 18},
          "entries": [
            {
              "entry_id": "e-azure-3",
              "trigger": "after_attack",
              "condition": {"type": "battle_flag", "flag": "broke_qi_defense"},
              "effects": [{"type": "extra_attack", "output": "attack_reduced_output * 0.5"}],
              "max_triggers": 1
            }
          ]
        },
        {"exp_required": 900, "grants": {"attack": 30}, "entries": []},
        {"exp_required": 1500, "grants": {"attack": 50}, "entries": []}
      ]
    },
    {
      "id": "turtle-breath",
      "kind": "internal",
      "name": "Turtle Breath Scripture",
      "rarity": 2,
      "realms": [
        {
          "exp_required": 80,
          "grants": {"hp": 20, "qi": 30},
          "entries": [
            {
              "trigger": "cultivate_internal",
              "effects": [{"type": "modify_attribute", "target": "hp", "operation": "add", "value": "physique * 0.2"}]
            }
          ]
        },
        {
          "exp_required": 200,
          "grants": {"hp": 45, "qi": 60},
          "entries": [
            {
              "trigger": "battle_start",
              "condition": {
                "and": [
                  {"type": "has_trait", "id": "iron-bones"},
                  {"or": [
                    {"type": "opponent_manual_type", "manual_type": "poison"},
                    {"type": "battle_attribute", "subject": "opponent", "target": "attack", "operator": ">", "value": "self_attack"}
                  ]}
                ]
              },
              "effects": [
                {"type": "modify_percentage", "target": "defense", "operation": "add", "value": 20, "is_temporary": true}
              ]
            }
          ]
        },
        {"exp_required": 450, "grants": {"hp": 80, "qi": 110}, "entries": []},
        {"exp_required": 800, "grants": {"hp": 130, "qi": 180}, "entries": []},
        {"exp_required": 1400, "grants": {"hp": 200, "qi": 280}, "entries": []}
      ]
    }
  ],
  "traits": [
    {
      "id": "iron-bones",
      "name": "Iron Bones",
      "description": "Bones hard as wrought iron.",
      "entries": [
        {
          "trigger": "game_start",
          "condition": {"type": "attribute", "target": "bone_structure", "operator": ">=", "value": 60},
          "effects": [{"type": "modify_attribute", "target": "hp", "operation": "add", "value": 50}]
        }
      ]
    }
  ],
  "events": [
    {
      "id": "opening-ceremony",
      "name": "Opening Ceremony",
      "rewards": [
        {"type": "attribute", "target": "comprehension", "operation": "add", "value": 5},
        {"type": "trait", "id": "iron-bones"},
        {"type": "start_trait_pool", "id": "iron-bones"},
        {"type": "internal", "id": "turtle-breath"},
        {"type": "random_manual", "count": 2, "manual_kind": "any", "rarity": 2}
      ]
    }
  ]
}`

func decodeSamplePack(t *testing.T) *Pack {
	t.Helper()
	p, err := DecodePack([]byte(samplePackJSON))
	require.NoError(t, err)
	return p
}

func TestDecodePack(t *testing.T) {
	p := decodeSamplePack(t)

	assert.Equal(t, "core", p.Name)
	assert.Equal(t, "1.0.0", p.Version)
	require.Len(t, p.Manuals, 2)
	require.Len(t, p.Traits, 1)
	require.Len(t, p.Events, 1)

	sword, ok := p.ManualByID("azure-sword-art")
	require.True(t, ok)
	assert.Equal(t, KindAttackSkill, sword.Kind)
	assert.Equal(t, "sword", sword.ManualType)
	require.Len(t, sword.Realms, RealmCount)

	entry := sword.Realms[0].Entries[0]
	assert.Equal(t, "e-azure-1", entry.EntryID)
	assert.Equal(t, TriggerBeforeAttack, entry.Trigger)
	require.NotNil(t, entry.Condition)
	assert.Equal(t, CondBattleAttribute, entry.Condition.Kind())
	require.Len(t, entry.Effects, 1)
	assert.True(t, entry.Effects[0].IsTemporary)
	assert.Equal(t, PanelOwn, entry.Effects[0].TargetPanel)

	_, ok = p.ManualByID("missing")
	assert.False(t, ok)

	trait, ok := p.TraitByID("iron-bones")
	require.True(t, ok)
	assert.Equal(t, "Iron Bones", trait.Name)

	event, ok := p.EventByID("opening-ceremony")
	require.True(t, ok)
	require.Len(t, event.Rewards, 5)
	assert.Equal(t, 2, event.Rewards[4].Count)

	assert.Len(t, p.ManualsOfKind(KindAny), 2)
	assert.Len(t, p.ManualsOfKind(KindInternal), 1)
	assert.Empty(t, p.ManualsOfKind(KindDefenseSkill))
}

func TestPackEncodeRoundTrip(t *testing.T) {
	p := decodeSamplePack(t)

	data, err := p.Encode()
	require.NoError(t, err)

	back, err := DecodePack(data)
	require.NoError(t, err)

	// The re-encoded pack must still pass the strict schema and decode to
	// the same structure.
	require.NoError(t, ValidatePackJSON(data))
	assert.Equal(t, p.Name, back.Name)
	require.Len(t, back.Manuals, len(p.Manuals))
	origEntry := p.Manuals[0].Realms[0].Entries[0]
	backEntry := back.Manuals[0].Realms[0].Entries[0]
	assert.True(t, origEntry.Condition.Equal(backEntry.Condition))
	assert.True(t, origEntry.Effects[0].Equal(backEntry.Effects[0]))
}

func TestValidatePackJSON(t *testing.T) {
	assert.NoError(t, ValidatePackJSON([]byte(samplePackJSON)))
}

func TestValidatePackJSONRejects(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{
			name: "malformed json",
			json: `{"name": "x"`,
		},
		{
			name: "missing version",
			json: `{"name":"x","manuals":[],"traits":[],"events":[]}`,
		},
		{
			name: "unknown top level key",
			json: `{"name":"x","version":"1","manuals":[],"traits":[],"events":[],"weapons":[]}`,
		},
		{
			name: "wrong realm count",
			json: `{"name":"x","version":"1","traits":[],"events":[],"manuals":[
				{"id":"m","kind":"internal","name":"M","rarity":1,"realms":[
					{"exp_required":10,"entries":[]}
				]}
			]}`,
		},
		{
			name: "unknown condition type",
			json: `{"name":"x","version":"1","manuals":[],"events":[],"traits":[
				{"id":"t","name":"T","entries":[
					{"trigger":"game_start",
					 "condition":{"type":"moon_phase","phase":"full"},
					 "effects":[{"type":"modify_attribute","target":"hp","operation":"add","value":1}]}
				]}
			]}`,
		},
		{
			name: "entry without effects",
			json: `{"name":"x","version":"1","manuals":[],"events":[],"traits":[
				{"id":"t","name":"T","entries":[{"trigger":"game_start","effects":[]}]}
			]}`,
		},
		{
			name: "unknown trigger",
			json: `{"name":"x","version":"1","manuals":[],"events":[],"traits":[
				{"id":"t","name":"T","entries":[
					{"trigger":"full_moon","effects":[{"type":"modify_attribute","target":"hp","operation":"add","value":1}]}
				]}
			]}`,
		},
		{
			name: "battle_attribute without subject",
			json: `{"name":"x","version":"1","manuals":[],"events":[],"traits":[
				{"id":"t","name":"T","entries":[
					{"trigger":"battle_start",
					 "condition":{"type":"battle_attribute","target":"hp","operator":">","value":0},
					 "effects":[{"type":"modify_attribute","target":"hp","operation":"add","value":1}]}
				]}
			]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, ValidatePackJSON([]byte(tt.json)))
		})
	}
}

func TestValidatePackClean(t *testing.T) {
	p := decodeSamplePack(t)
	assert.Empty(t, ValidatePack(p))
}

func TestValidatePackSemanticProblems(t *testing.T) {
	num := func(f float64) *formula.Value {
		v := formula.Number(f)
		return &v
	}
	expr := func(s string) *formula.Value {
		v := formula.Expression(s)
		return &v
	}
	realms := func(entries ...Entry) []Realm {
		out := make([]Realm, RealmCount)
		for i := range out {
			out[i].ExpRequired = (i + 1) * 100
		}
		out[0].Entries = entries
		return out
	}
	manual := func(id string, entries ...Entry) Manual {
		return Manual{ID: id, Kind: KindInternal, Name: id, Rarity: 1, Realms: realms(entries...)}
	}
	base := func(manuals ...Manual) *Pack {
		return &Pack{Name: "x", Version: "1", Manuals: manuals}
	}

	tests := []struct {
		name     string
		pack     *Pack
		wantPath string
	}{
		{
			name: "battle formula on progression trigger",
			pack: base(manual("m", Entry{
				Trigger: TriggerCultivateInternal,
				Effects: []Effect{{Type: EffectModifyAttribute, Target: StatHP, Operation: OpAdd, Value: expr("attack_hp_damage"), TargetPanel: PanelOwn}},
			})),
			wantPath: "manuals[0].realms[0].entries[0].effects[0].value",
		},
		{
			name: "extra attack on progression trigger",
			pack: base(manual("m", Entry{
				Trigger: TriggerManualRead,
				Effects: []Effect{{Type: EffectExtraAttack, Output: expr("attack_reduced_output")}},
			})),
			wantPath: "manuals[0].realms[0].entries[0].effects[0].type",
		},
		{
			name: "opponent panel on progression trigger",
			pack: base(manual("m", Entry{
				Trigger: TriggerGameStart,
				Effects: []Effect{{Type: EffectModifyAttribute, Target: StatDefense, Operation: OpSubtract, Value: num(5), TargetPanel: PanelOpponent}},
			})),
			wantPath: "manuals[0].realms[0].entries[0].effects[0].target_panel",
		},
		{
			name: "battle condition on progression trigger",
			pack: base(manual("m", Entry{
				Trigger:   TriggerGameStart,
				Condition: &Condition{kind: CondBattleFlag, Flag: FlagBrokeQiDefense},
				Effects:   []Effect{{Type: EffectModifyAttribute, Target: StatHP, Operation: OpAdd, Value: num(1), TargetPanel: PanelOwn}},
			})),
			wantPath: "manuals[0].realms[0].entries[0].condition",
		},
		{
			name: "unrecognized condition shape",
			pack: base(manual("m", Entry{
				Trigger:   TriggerGameStart,
				Condition: &Condition{},
				Effects:   []Effect{{Type: EffectModifyAttribute, Target: StatHP, Operation: OpAdd, Value: num(1), TargetPanel: PanelOwn}},
			})),
			wantPath: "manuals[0].realms[0].entries[0].condition",
		},
		{
			name:     "duplicate manual id",
			pack:     base(manual("m"), manual("m")),
			wantPath: "manuals[1].id",
		},
		{
			name: "decreasing realm exp",
			pack: func() *Pack {
				m := manual("m")
				m.Realms[2].ExpRequired = 50
				return base(m)
			}(),
			wantPath: "manuals[0].realms[2].exp_required",
		},
		{
			name: "duplicate entry id in one realm",
			pack: base(manual("m",
				Entry{EntryID: "dup", Trigger: TriggerGameStart, Effects: []Effect{{Type: EffectModifyAttribute, Target: StatHP, Operation: OpAdd, Value: num(1), TargetPanel: PanelOwn}}},
				Entry{EntryID: "dup", Trigger: TriggerGameStart, Effects: []Effect{{Type: EffectModifyAttribute, Target: StatQi, Operation: OpAdd, Value: num(1), TargetPanel: PanelOwn}}},
			)),
			wantPath: "manuals[0].realms[0].entries[1].entry_id",
		},
		{
			name: "syntax error in formula",
			pack: base(manual("m", Entry{
				Trigger: TriggerGameStart,
				Effects: []Effect{{Type: EffectModifyAttribute, Target: StatHP, Operation: OpAdd, Value: expr("1 + + 2"), TargetPanel: PanelOwn}},
			})),
			wantPath: "manuals[0].realms[0].entries[0].effects[0].value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := ValidatePack(tt.pack)
			require.NotEmpty(t, problems)
			paths := make([]string, len(problems))
			for i, p := range problems {
				paths[i] = p.Path
			}
			assert.Contains(t, paths, tt.wantPath, "problems: %v", problems)
		})
	}
}

func TestValidatePackReportsAllProblems(t *testing.T) {
	p := &Pack{
		Name:    "",
		Version: "",
		Events: []Event{
			{ID: "e", Name: "E", Rewards: []Reward{{Type: "gold"}}},
		},
	}
	problems := ValidatePack(p)
	require.Len(t, problems, 3)
}
