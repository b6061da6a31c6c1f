// Package reward pays out event and story reward lists. Application
// clones the input character, folds the list left to right so later
// rewards see what earlier ones changed, and reports every grant.
package reward

import (
	"math/rand/v2"
	"sort"

	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/formula"
	"github.com/luoxiaofei/wulingo/internal/game/rule"
	"github.com/luoxiaofei/wulingo/internal/model"
)

// readingGains maps manual rarity to the martial arts attainment gained
// the first time a character comes to own a manual of that rarity.
var readingGains = []int{5, 10, 20, 35, 50}

// ReadingGain returns the first-read attainment gain for a manual of the
// given rarity. Rarities outside the table clamp to its nearest entry.
func ReadingGain(rarity int) int {
	if rarity < 1 {
		return readingGains[0]
	}
	if rarity > len(readingGains) {
		return readingGains[len(readingGains)-1]
	}
	return readingGains[rarity-1]
}

// AttributeDelta records one attribute change a reward produced.
type AttributeDelta struct {
	Target string
	Before int
	After  int
}

// GrantedManual records one manual entering the character's collection,
// with the attainment its first reading granted.
type GrantedManual struct {
	Kind        content.ManualKind
	ID          string
	ReadingGain int
}

// Report describes what a reward list actually changed. Silent no-ops
// (already-owned grants, unknown ids, suppressed attribute pushes) do
// not appear.
type Report struct {
	Attributes []AttributeDelta
	Traits     []string
	StartPool  []string
	Manuals    []GrantedManual
}

// Applier applies reward lists. The random source only feeds
// random_manual draws; pass a seeded one to make them reproducible.
type Applier struct {
	rng *rand.Rand
}

// NewApplier returns an applier drawing from rng, or from a freshly
// seeded source when rng is nil.
func NewApplier(rng *rand.Rand) *Applier {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Applier{rng: rng}
}

// Apply pays out rewards against a copy of ch and returns it together
// with the report. The input character is never touched. Catalog supplies
// manual metadata for grants and draw pools; rewards naming ids the
// catalog does not carry are silent no-ops.
func (a *Applier) Apply(ch *model.Character, rewards []content.Reward, catalog *content.Catalog) (*model.Character, Report) {
	out := ch.Clone()
	var rep Report
	for _, r := range rewards {
		switch r.Type {
		case content.RewardAttribute:
			a.attribute(out, r, &rep)
		case content.RewardTrait:
			if r.ID != "" && out.GrantTrait(r.ID) {
				rep.Traits = append(rep.Traits, r.ID)
			}
		case content.RewardStartTraitPool:
			if r.ID != "" && out.AddStartTrait(r.ID) {
				rep.StartPool = append(rep.StartPool, r.ID)
			}
		case content.RewardInternal, content.RewardAttackSkill, content.RewardDefenseSkill:
			kind, _ := r.Type.GrantKind()
			grantManual(out, kind, r.ID, catalog, &rep)
		case content.RewardRandomManual:
			a.randomManuals(out, r, catalog, &rep)
		}
	}
	return out, rep
}

// attribute resolves the reward value against the character as the fold
// has shaped it so far, applies the operation and clamps. Unresolvable
// values and suppressed at-cap pushes change nothing.
func (a *Applier) attribute(ch *model.Character, r content.Reward, rep *Report) {
	current, ok := ch.AttributeValue(r.Target)
	if !ok || r.Value == nil {
		return
	}
	facts := rule.ProgressionFacts{Character: ch}
	v, err := formula.Resolve(*r.Value, facts.Bindings())
	if err != nil {
		return
	}
	raw, ok := r.Operation.Apply(float64(current), v)
	if !ok {
		return
	}
	next, suppressed := model.ClampAttribute(r.Target, current, model.RoundAttribute(raw), r.CanExceedLimit)
	if suppressed {
		return
	}
	ch.SetAttribute(r.Target, next)
	rep.Attributes = append(rep.Attributes, AttributeDelta{Target: r.Target, Before: current, After: next})
}

// grantManual adds first-time ownership of a manual plus its reading
// gain. Already-owned, unknown and kind-mismatched ids are no-ops.
func grantManual(ch *model.Character, kind content.ManualKind, id string, catalog *content.Catalog, rep *Report) {
	if id == "" || catalog == nil || ch.OwnsManual(kind, id) {
		return
	}
	m, ok := catalog.ManualByID(id)
	if !ok || m.Kind != kind {
		return
	}
	ch.GrantManual(kind, id)

	// Attainment has no ceiling, so the first-read gain lands in full.
	gain := ReadingGain(m.Rarity)
	ch.MartialArtsAttainment += gain
	rep.Manuals = append(rep.Manuals, GrantedManual{Kind: kind, ID: id, ReadingGain: gain})
}

// randomManuals draws count distinct not-yet-owned manuals matching the
// reward's filters, rebuilding the pool after every grant so a drawn id
// cannot come up again. An exhausted pool ends the draws early.
func (a *Applier) randomManuals(ch *model.Character, r content.Reward, catalog *content.Catalog, rep *Report) {
	count := r.Count
	if count < 1 {
		count = 1
	}
	for i := 0; i < count; i++ {
		pool := drawPool(ch, r, catalog)
		if len(pool) == 0 {
			return
		}
		pick := pool[a.rng.IntN(len(pool))]
		grantManual(ch, pick.Kind, pick.ID, catalog, rep)
	}
}

// drawPool lists the manuals a random draw may currently yield, sorted
// by id so a seeded source draws reproducibly regardless of pack order.
func drawPool(ch *model.Character, r content.Reward, catalog *content.Catalog) []content.Manual {
	if catalog == nil {
		return nil
	}
	var pool []content.Manual
	for _, m := range catalog.Manuals() {
		if r.ManualKind != "" && r.ManualKind != content.KindAny && m.Kind != r.ManualKind {
			continue
		}
		if r.Rarity != 0 && m.Rarity != r.Rarity {
			continue
		}
		if r.ManualType != "" && m.ManualType != r.ManualType {
			continue
		}
		if ch.OwnsManual(m.Kind, m.ID) {
			continue
		}
		pool = append(pool, m)
	}
	sort.Slice(pool, func(i, j int) bool { return pool[i].ID < pool[j].ID })
	return pool
}
