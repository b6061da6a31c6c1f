package authoring

import (
	"fmt"

	"github.com/luoxiaofei/wulingo/internal/content"
)

// ChangeKind names the propagation an editor may request alongside a
// realm edit.
type ChangeKind string

const (
	// ChangeNone replaces the edited realm's entries and touches nothing
	// else.
	ChangeNone ChangeKind = ""
	// ChangeAdd copies the named entry into every later realm lacking it.
	ChangeAdd ChangeKind = "add"
	// ChangeDelete removes the named entry from every later realm.
	ChangeDelete ChangeKind = "delete"
	// ChangeSyncStructure replaces the named entry's shape in every later
	// realm carrying it, keeping each realm's own tuning.
	ChangeSyncStructure ChangeKind = "sync_structure"
	// ChangeInherit rebuilds the edited realm's list from its
	// predecessor, carrying forward entries it does not already have.
	ChangeInherit ChangeKind = "inherit"
)

// Change describes the optional propagation accompanying a realm edit.
// Propagate false turns any kind into a plain edit.
type Change struct {
	Kind      ChangeKind
	EntryID   string
	Propagate bool
}

// ApplyRealmEntryChange is the one entry point for realm edits. It stamps
// ids across all realms, replaces the edited realm's entry list with
// next, optionally performs one propagation, and returns the new realm
// list plus an advisory notice describing what was propagated. Realms at
// or before index are never touched by propagation. The notice is plain
// text for the editor; nothing here fails, an out-of-range index returns
// the stamped realms unchanged.
func ApplyRealmEntryChange(realms []content.Realm, index int, next []content.Entry, change Change) ([]content.Realm, string) {
	out := EnsureEntryIDs(realms)
	if index < 0 || index >= len(out) {
		return out, ""
	}

	replaced := make([]content.Entry, len(next))
	for i := range next {
		replaced[i] = next[i].Clone()
	}
	var previous []content.Entry
	if index > 0 {
		previous = out[index-1].Entries
	}
	stampEntries(replaced, previous)
	out[index].Entries = replaced

	if !change.Propagate || change.Kind == ChangeNone {
		return out, ""
	}

	later := len(out) - index - 1
	switch change.Kind {
	case ChangeAdd:
		src, ok := entryByID(out[index].Entries, change.EntryID)
		if !ok {
			return out, ""
		}
		if later == 0 {
			return out, "no later realms to update"
		}
		n := propagateAdd(out[index+1:], src)
		if n == 0 {
			return out, "entry already present in every later realm"
		}
		return out, "entry added to " + countOf(n, "later realm", "later realms")
	case ChangeDelete:
		if change.EntryID == "" {
			return out, ""
		}
		if later == 0 {
			return out, "no later realms to update"
		}
		n := propagateDelete(out[index+1:], change.EntryID)
		if n == 0 {
			return out, "entry not present in any later realm"
		}
		return out, "entry removed from " + countOf(n, "later realm", "later realms")
	case ChangeSyncStructure:
		src, ok := entryByID(out[index].Entries, change.EntryID)
		if !ok {
			return out, ""
		}
		if later == 0 {
			return out, "no later realms to update"
		}
		n := propagateSync(out[index+1:], src)
		if n == 0 {
			return out, "entry not present in any later realm"
		}
		return out, "structure synced to " + countOf(n, "later realm", "later realms")
	case ChangeInherit:
		if index == 0 {
			return out, "the first realm has no predecessor to inherit from"
		}
		before := len(out[index].Entries)
		out[index].Entries = MergeFromPrevious(out[index].Entries, out[index-1].Entries)
		n := len(out[index].Entries) - before
		if n == 0 {
			return out, "nothing new to carry forward"
		}
		return out, "carried " + countOf(n, "entry", "entries") + " forward from the previous realm"
	}
	return out, ""
}

func entryByID(entries []content.Entry, id string) (content.Entry, bool) {
	if id == "" {
		return content.Entry{}, false
	}
	for _, e := range entries {
		if e.EntryID == id {
			return e, true
		}
	}
	return content.Entry{}, false
}

// propagateAdd appends a copy of src to every realm lacking its id and
// returns how many realms received one.
func propagateAdd(realms []content.Realm, src content.Entry) int {
	n := 0
	for i := range realms {
		if _, ok := entryByID(realms[i].Entries, src.EntryID); ok {
			continue
		}
		realms[i].Entries = append(realms[i].Entries, src.Clone())
		n++
	}
	return n
}

// propagateDelete strips every entry with the id and returns how many
// realms lost one.
func propagateDelete(realms []content.Realm, id string) int {
	n := 0
	for i := range realms {
		var kept []content.Entry
		for _, e := range realms[i].Entries {
			if e.EntryID == id {
				continue
			}
			kept = append(kept, e)
		}
		if len(kept) != len(realms[i].Entries) {
			realms[i].Entries = kept
			n++
		}
	}
	return n
}

// propagateSync rewrites every entry carrying src's id to src's shape
// and returns how many realms changed.
func propagateSync(realms []content.Realm, src content.Entry) int {
	n := 0
	for i := range realms {
		synced := false
		for j := range realms[i].Entries {
			if realms[i].Entries[j].EntryID == src.EntryID {
				syncStructure(&realms[i].Entries[j], src)
				synced = true
			}
		}
		if synced {
			n++
		}
	}
	return n
}

// syncStructure rewrites dst to src's shape while preserving dst's own
// tuning: its max_triggers, and at every effect position whose kind did
// not change, its modify value. Positions the new shape adds take their
// value from src.
func syncStructure(dst *content.Entry, src content.Entry) {
	old := *dst
	next := src.Clone()
	next.EntryID = old.EntryID
	next.MaxTriggers = old.MaxTriggers
	for i := range next.Effects {
		if i >= len(old.Effects) {
			break
		}
		if old.Effects[i].Type != next.Effects[i].Type {
			continue
		}
		if old.Effects[i].Value != nil {
			v := *old.Effects[i].Value
			next.Effects[i].Value = &v
		}
	}
	*dst = next
}

func countOf(n int, singular, plural string) string {
	if n == 1 {
		return "1 " + singular
	}
	return fmt.Sprintf("%d %s", n, plural)
}
