package content

// Trait is a permanent characteristic of a character. Its entries are live
// from the moment the trait is granted and never expire.
type Trait struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Entries     []Entry `json:"entries"`
}

// Clone returns a deep copy of the trait.
func (t Trait) Clone() Trait {
	out := t
	out.Entries = cloneEntries(t.Entries)
	return out
}
