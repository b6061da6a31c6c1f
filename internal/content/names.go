package content

// Base attribute names as they appear on the wire.
const (
	AttrComprehension         = "comprehension"
	AttrBoneStructure         = "bone_structure"
	AttrPhysique              = "physique"
	AttrMartialArtsAttainment = "martial_arts_attainment"
)

// Panel stat names as they appear on the wire.
const (
	StatHP        = "hp"
	StatQi        = "qi"
	StatAttack    = "attack"
	StatDefense   = "defense"
	StatQiQuality = "qi_quality"
)

// BaseAttributes returns the four base attribute names in wire order.
func BaseAttributes() []string {
	return []string{AttrComprehension, AttrBoneStructure, AttrPhysique, AttrMartialArtsAttainment}
}

// PanelStats returns the five panel stat names in wire order.
func PanelStats() []string {
	return []string{StatHP, StatQi, StatAttack, StatDefense, StatQiQuality}
}

// IsBaseAttribute reports whether name is one of the four base attributes.
func IsBaseAttribute(name string) bool {
	switch name {
	case AttrComprehension, AttrBoneStructure, AttrPhysique, AttrMartialArtsAttainment:
		return true
	}
	return false
}

// IsCappedDimension reports whether name is one of the three dimensions
// held to the 0-100 cap. Martial arts attainment grows without bound.
func IsCappedDimension(name string) bool {
	switch name {
	case AttrComprehension, AttrBoneStructure, AttrPhysique:
		return true
	}
	return false
}

// IsPanelStat reports whether name is one of the five panel stats.
func IsPanelStat(name string) bool {
	switch name {
	case StatHP, StatQi, StatAttack, StatDefense, StatQiQuality:
		return true
	}
	return false
}

// IsBattleStat reports whether name can be compared inside a battle
// condition: any panel stat or base attribute.
func IsBattleStat(name string) bool {
	return IsPanelStat(name) || IsBaseAttribute(name)
}
