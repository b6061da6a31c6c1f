package content

// ManualKind separates the three manual families a character cultivates.
type ManualKind string

const (
	KindInternal     ManualKind = "internal"
	KindAttackSkill  ManualKind = "attack_skill"
	KindDefenseSkill ManualKind = "defense_skill"

	// KindAny is not a manual kind; it widens random draw filters to all
	// three kinds and is only valid inside a reward.
	KindAny ManualKind = "any"
)

// Valid reports whether k names one of the three manual kinds.
func (k ManualKind) Valid() bool {
	switch k {
	case KindInternal, KindAttackSkill, KindDefenseSkill:
		return true
	}
	return false
}

// ManualKinds returns the three manual kinds in declaration order.
func ManualKinds() []ManualKind {
	return []ManualKind{KindInternal, KindAttackSkill, KindDefenseSkill}
}

// RealmCount is the fixed number of realms every manual carries.
const RealmCount = 5

// RealmGrants lists the flat panel bonuses a realm confers while its
// manual is equipped. Zero fields grant nothing.
type RealmGrants struct {
	HP        float64 `json:"hp,omitempty"`
	Qi        float64 `json:"qi,omitempty"`
	Attack    float64 `json:"attack,omitempty"`
	Defense   float64 `json:"defense,omitempty"`
	QiQuality float64 `json:"qi_quality,omitempty"`
}

// Realm is one of a manual's five cultivation stages. Entries attached to
// a realm are live only while the manual sits at that realm or above.
type Realm struct {
	ExpRequired int         `json:"exp_required"`
	Grants      RealmGrants `json:"grants"`
	Entries     []Entry     `json:"entries"`
}

// Clone returns a deep copy of the realm.
func (r Realm) Clone() Realm {
	out := r
	out.Entries = cloneEntries(r.Entries)
	return out
}

// CloneRealms deep-copies a realm slice.
func CloneRealms(realms []Realm) []Realm {
	if realms == nil {
		return nil
	}
	out := make([]Realm, len(realms))
	for i := range realms {
		out[i] = realms[i].Clone()
	}
	return out
}

// Manual is a cultivation text: an internal art, an attack skill or a
// defense skill, with five realms of entries and flat grants.
type Manual struct {
	ID   string     `json:"id"`
	Kind ManualKind `json:"kind"`
	Name string     `json:"name"`

	// ManualType is a free-form school label ("sword", "palm", "poison")
	// used by type-matching conditions and random draw filters.
	ManualType string `json:"manual_type,omitempty"`

	// Rarity ranges 1..5 and drives the first-read attainment gain and
	// random draw filters.
	Rarity int `json:"rarity"`

	Realms []Realm `json:"realms"`
}

// Clone returns a deep copy of the manual.
func (m Manual) Clone() Manual {
	out := m
	out.Realms = CloneRealms(m.Realms)
	return out
}

// RealmAt returns the realm at the zero-based index and whether it exists.
func (m Manual) RealmAt(index int) (Realm, bool) {
	if index < 0 || index >= len(m.Realms) {
		return Realm{}, false
	}
	return m.Realms[index], true
}
