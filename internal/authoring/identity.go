// Package authoring keeps a manual's realm entries consistent while an
// editor works on them: it stamps entries with stable ids, recognizes a
// rule carried forward across realms even when its numbers were tuned,
// and propagates edits to later realms on request. Everything operates
// on copies; inputs are never mutated.
package authoring

import (
	"github.com/google/uuid"

	"github.com/luoxiaofei/wulingo/internal/content"
	"github.com/luoxiaofei/wulingo/internal/formula"
)

// EntryStructureEqual reports whether two entries describe the same rule
// shape: same trigger, same condition tree, and pairwise effects that
// differ at most in the values of their modify effects. Entry ids and
// max_triggers do not count toward the shape.
func EntryStructureEqual(a, b content.Entry) bool {
	if a.Trigger != b.Trigger || !a.Condition.Equal(b.Condition) {
		return false
	}
	if len(a.Effects) != len(b.Effects) {
		return false
	}
	for i := range a.Effects {
		if !effectStructureEqual(a.Effects[i], b.Effects[i]) {
			return false
		}
	}
	return true
}

// EntryValueEqual reports whether two entries carry the same tuning:
// equal max_triggers and pairwise equal modify-effect values, exactly
// the fields EntryStructureEqual ignores.
func EntryValueEqual(a, b content.Entry) bool {
	if a.MaxTriggers != b.MaxTriggers || len(a.Effects) != len(b.Effects) {
		return false
	}
	for i := range a.Effects {
		if !valuePtrEqual(a.Effects[i].Value, b.Effects[i].Value) {
			return false
		}
	}
	return true
}

// EntryValueOnlyChange reports whether b is a tuning of a: the same rule
// shape with at least one number changed. Editors use it to offer value
// propagation instead of a structural sync.
func EntryValueOnlyChange(a, b content.Entry) bool {
	return EntryStructureEqual(a, b) && !EntryValueEqual(a, b)
}

// effectStructureEqual compares everything about two effects except the
// value payload of the modify kinds. An extra attack's output is part of
// its shape; it has nothing else to its identity.
func effectStructureEqual(a, b content.Effect) bool {
	if a.Type != b.Type ||
		a.Target != b.Target ||
		a.Operation != b.Operation ||
		a.TargetPanel != b.TargetPanel ||
		a.CanExceedLimit != b.CanExceedLimit ||
		a.IsTemporary != b.IsTemporary {
		return false
	}
	return valuePtrEqual(a.Output, b.Output)
}

func valuePtrEqual(a, b *formula.Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// EnsureEntryIDs returns a deep copy of realms with every entry carrying
// an id. Entries that already have one keep it. A missing id is filled by
// structural matching against the immediately preceding realm: the first
// still-unclaimed entry there with the same shape donates its id, so a
// rule carried forward with tuned numbers keeps its identity. Without a
// match a fresh id is minted. Realm order is significant; earlier realms
// are stamped before later ones match against them.
func EnsureEntryIDs(realms []content.Realm) []content.Realm {
	out := content.CloneRealms(realms)
	for i := range out {
		var previous []content.Entry
		if i > 0 {
			previous = out[i-1].Entries
		}
		stampEntries(out[i].Entries, previous)
	}
	return out
}

// stampEntries fills missing ids in entries, matching against previous
// first. Matching is first-match-consume: a previous entry donates its id
// at most once, and never when that id is already taken in this realm.
func stampEntries(entries []content.Entry, previous []content.Entry) {
	taken := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.EntryID != "" {
			taken[e.EntryID] = true
		}
	}
	claimed := make([]bool, len(previous))
	for i := range entries {
		if entries[i].EntryID != "" {
			continue
		}
		entries[i].EntryID = matchPrevious(entries[i], previous, claimed, taken)
		if entries[i].EntryID == "" {
			entries[i].EntryID = uuid.New().String()
		}
		taken[entries[i].EntryID] = true
	}
}

func matchPrevious(e content.Entry, previous []content.Entry, claimed []bool, taken map[string]bool) string {
	for i, p := range previous {
		if claimed[i] || p.EntryID == "" || taken[p.EntryID] {
			continue
		}
		if EntryStructureEqual(e, p) {
			claimed[i] = true
			return p.EntryID
		}
	}
	return ""
}

// MergeFromPrevious rebuilds a realm's entry list from its predecessor:
// current entries are kept (missing ids filled by the same structural
// matching as EnsureEntryIDs), then every previous entry whose id the
// current list lacks is appended as a deep copy. The result carries
// forward anything the realm had not already picked up, without
// duplicating what it had.
func MergeFromPrevious(current, previous []content.Entry) []content.Entry {
	out := make([]content.Entry, len(current))
	for i := range current {
		out[i] = current[i].Clone()
	}
	stampEntries(out, previous)

	have := make(map[string]bool, len(out))
	for _, e := range out {
		have[e.EntryID] = true
	}
	for _, p := range previous {
		if p.EntryID == "" || have[p.EntryID] {
			continue
		}
		out = append(out, p.Clone())
		have[p.EntryID] = true
	}
	return out
}
