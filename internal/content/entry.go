// Package content defines the wire-contract data model for mod packs:
// manuals with their realm entries, traits, events and the condition,
// effect and reward shapes they share. Decoding is deliberately lenient
// about semantics (an unknown condition shape classifies as invalid and
// later evaluates to false) and strict about structure; the schema and
// semantic validators in this package draw the line between the two.
package content

// Entry couples a trigger, an optional condition and a list of effects.
// Entries live inside manual realms and traits; they are the unit the rule
// evaluator selects and the battle applicator executes.
type Entry struct {
	// EntryID identifies the entry across realm edits and pack versions.
	// Authoring tools assign it; hand-written packs may omit it and have
	// one minted on import.
	EntryID string `json:"entry_id,omitempty"`

	Trigger   Trigger    `json:"trigger"`
	Condition *Condition `json:"condition,omitempty"`
	Effects   []Effect   `json:"effects"`

	// MaxTriggers caps how many times the entry may fire for one owner.
	// Zero means unlimited.
	MaxTriggers int `json:"max_triggers,omitempty"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Condition = e.Condition.Clone()
	if e.Effects != nil {
		out.Effects = make([]Effect, len(e.Effects))
		for i, eff := range e.Effects {
			out.Effects[i] = eff.Clone()
		}
	}
	return out
}

func cloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	for i := range entries {
		out[i] = entries[i].Clone()
	}
	return out
}
