package model

// Entity kind tags used by the extractor. Each extracted entity is an
// explicit record carrying its own confidence rather than a loosely-typed
// bag keyed by strings.

// Person is a person mention detected in article text.
type Person struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Organization is an organization or armed-force mention.
type Organization struct {
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"` // e.g. "military", "agency"
	Confidence float64 `json:"confidence"`
}

// Location is a place mention. Gazetteer hits carry coordinates; generic
// capitalized-phrase hits do not.
type Location struct {
	Name       string  `json:"name"`
	Category   string  `json:"category,omitempty"` // e.g. "city", "nuclear_facility"
	Lat        float64 `json:"lat,omitempty"`
	Lon        float64 `json:"lon,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Weapon is a weapon-system mention with an optional adjacent quantity.
type Weapon struct {
	Class      string  `json:"class"` // e.g. "missile", "drone", "aircraft"
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity,omitempty"`
	Confidence float64 `json:"confidence"`
}

// CasualtyKind distinguishes the casualty figure being reported.
type CasualtyKind string

// Casualty kinds.
const (
	CasualtyKilled     CasualtyKind = "killed"
	CasualtyInjured    CasualtyKind = "injured"
	CasualtyUnspecific CasualtyKind = "casualties"
	CasualtyDeathToll  CasualtyKind = "death_toll"
)

// CasualtyMention is a casualty count extracted from text, attributed to a
// party when the surrounding context names one.
type CasualtyMention struct {
	Count      int          `json:"count"`
	Kind       CasualtyKind `json:"kind"`
	Party      string       `json:"party,omitempty"` // empty when unattributed
	Confidence float64      `json:"confidence"`
}

// Operation is a named military operation, deduplicated by exact name
// within an article.
type Operation struct {
	Name       string  `json:"name"`
	Country    string  `json:"country,omitempty"` // inferred from nearby context
	Confidence float64 `json:"confidence"`
}

// EntityBundle groups everything extracted from one article. Derived, never
// persisted independently.
type EntityBundle struct {
	People        []Person          `json:"people,omitempty"`
	Organizations []Organization    `json:"organizations,omitempty"`
	Locations     []Location        `json:"locations,omitempty"`
	Weapons       []Weapon          `json:"weapons,omitempty"`
	Casualties    []CasualtyMention `json:"casualties,omitempty"`
	Operations    []Operation       `json:"operations,omitempty"`

	// NuclearContent is set when the gazetteer matched a nuclear facility
	// or nuclear-domain term; the categorizer uses it as a scoring signal.
	NuclearContent bool `json:"nuclear_content,omitempty"`
}

// PrimaryLocation returns the highest-confidence extracted location, or an
// empty Location and false when none was found.
func (b EntityBundle) PrimaryLocation() (Location, bool) {
	if len(b.Locations) == 0 {
		return Location{}, false
	}
	best := b.Locations[0]
	for _, l := range b.Locations[1:] {
		if l.Confidence > best.Confidence {
			best = l
		}
	}
	return best, true
}

// KilledCount returns the largest attributed-or-not "killed" figure in the
// bundle, 0 when none.
func (b EntityBundle) KilledCount() int {
	max := 0
	for _, c := range b.Casualties {
		if (c.Kind == CasualtyKilled || c.Kind == CasualtyDeathToll) && c.Count > max {
			max = c.Count
		}
	}
	return max
}

// InjuredCount returns the largest "injured" figure in the bundle.
func (b EntityBundle) InjuredCount() int {
	max := 0
	for _, c := range b.Casualties {
		if c.Kind == CasualtyInjured && c.Count > max {
			max = c.Count
		}
	}
	return max
}
