package content

// Catalog aggregates the installed packs into one lookup surface. Later
// packs win id collisions, so a pack can override content from a pack
// installed before it. Lookup order is installation order.
type Catalog struct {
	packs []*Pack
}

// NewCatalog builds a catalog over the given packs in installation order.
func NewCatalog(packs ...*Pack) *Catalog {
	c := &Catalog{}
	for _, p := range packs {
		c.Add(p)
	}
	return c
}

// Add appends a pack to the catalog.
func (c *Catalog) Add(p *Pack) {
	if p != nil {
		c.packs = append(c.packs, p)
	}
}

// Packs returns the installed packs in order.
func (c *Catalog) Packs() []*Pack {
	out := make([]*Pack, len(c.packs))
	copy(out, c.packs)
	return out
}

// ManualByID finds a manual across packs, later packs winning collisions.
func (c *Catalog) ManualByID(id string) (Manual, bool) {
	for i := len(c.packs) - 1; i >= 0; i-- {
		if m, ok := c.packs[i].ManualByID(id); ok {
			return m, true
		}
	}
	return Manual{}, false
}

// TraitByID finds a trait across packs, later packs winning collisions.
func (c *Catalog) TraitByID(id string) (Trait, bool) {
	for i := len(c.packs) - 1; i >= 0; i-- {
		if t, ok := c.packs[i].TraitByID(id); ok {
			return t, true
		}
	}
	return Trait{}, false
}

// EventByID finds an event across packs, later packs winning collisions.
func (c *Catalog) EventByID(id string) (Event, bool) {
	for i := len(c.packs) - 1; i >= 0; i-- {
		if e, ok := c.packs[i].EventByID(id); ok {
			return e, true
		}
	}
	return Event{}, false
}

// Manuals returns every manual across packs in installation order, with
// manuals shadowed by a later pack's id collision removed.
func (c *Catalog) Manuals() []Manual {
	shadowed := make(map[string]int)
	for pi, p := range c.packs {
		for _, m := range p.Manuals {
			shadowed[m.ID] = pi
		}
	}
	var out []Manual
	for pi, p := range c.packs {
		for _, m := range p.Manuals {
			if shadowed[m.ID] == pi {
				out = append(out, m)
			}
		}
	}
	return out
}
