package content

import (
	"encoding/json"
	"fmt"
)

// Pack is one mod pack: a named, versioned bundle of manuals, traits and
// events. Slice order is the authoring order and is preserved on the wire.
type Pack struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author,omitempty"`

	Manuals []Manual `json:"manuals"`
	Traits  []Trait  `json:"traits"`
	Events  []Event  `json:"events"`
}

// DecodePack parses pack JSON. It enforces JSON well-formedness only; run
// ValidatePackJSON and ValidatePack for schema and semantic checks.
func DecodePack(data []byte) (*Pack, error) {
	var p Pack
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode pack: %w", err)
	}
	return &p, nil
}

// Encode renders the pack back to indented JSON in wire order.
func (p *Pack) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode pack: %w", err)
	}
	return data, nil
}

// ManualByID returns the manual with the given id.
func (p *Pack) ManualByID(id string) (Manual, bool) {
	for _, m := range p.Manuals {
		if m.ID == id {
			return m, true
		}
	}
	return Manual{}, false
}

// TraitByID returns the trait with the given id.
func (p *Pack) TraitByID(id string) (Trait, bool) {
	for _, t := range p.Traits {
		if t.ID == id {
			return t, true
		}
	}
	return Trait{}, false
}

// EventByID returns the event with the given id.
func (p *Pack) EventByID(id string) (Event, bool) {
	for _, e := range p.Events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// ManualsOfKind returns the manuals matching kind in pack order. KindAny
// matches every manual.
func (p *Pack) ManualsOfKind(kind ManualKind) []Manual {
	var out []Manual
	for _, m := range p.Manuals {
		if kind == KindAny || m.Kind == kind {
			out = append(out, m)
		}
	}
	return out
}

// Clone returns a deep copy of the pack.
func (p *Pack) Clone() *Pack {
	out := &Pack{Name: p.Name, Version: p.Version, Author: p.Author}
	if p.Manuals != nil {
		out.Manuals = make([]Manual, len(p.Manuals))
		for i, m := range p.Manuals {
			out.Manuals[i] = m.Clone()
		}
	}
	if p.Traits != nil {
		out.Traits = make([]Trait, len(p.Traits))
		for i, t := range p.Traits {
			out.Traits[i] = t.Clone()
		}
	}
	if p.Events != nil {
		out.Events = make([]Event, len(p.Events))
		for i, e := range p.Events {
			out.Events[i] = e.Clone()
		}
	}
	return out
}
