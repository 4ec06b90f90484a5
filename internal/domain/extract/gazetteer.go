// Package extract pulls people, organizations, locations, weapons,
// casualty figures, and operation names out of raw article text.
//
// Extraction combines three strategies: a gazetteer of known named
// entities, generic capitalized-phrase detection, and regex rules for
// weapons, casualties, and operations. The keyword lists and window sizes
// here ARE the domain knowledge; change them only deliberately.
package extract

// gazetteerEntry is one known named entity.
type gazetteerEntry struct {
	Name     string
	Category string
	Lat      float64
	Lon      float64
}

// Location categories used by the gazetteer.
const (
	categoryCity            = "city"
	categoryNuclearFacility = "nuclear_facility"
	categoryRegion          = "region"
)

// knownLocations is the location gazetteer: conflict-zone cities and
// regions with coordinates.
var knownLocations = []gazetteerEntry{
	{Name: "Tel Aviv", Category: categoryCity, Lat: 32.0853, Lon: 34.7818},
	{Name: "Jerusalem", Category: categoryCity, Lat: 31.7683, Lon: 35.2137},
	{Name: "Haifa", Category: categoryCity, Lat: 32.7940, Lon: 34.9896},
	{Name: "Beersheba", Category: categoryCity, Lat: 31.2530, Lon: 34.7915},
	{Name: "Tehran", Category: categoryCity, Lat: 35.6892, Lon: 51.3890},
	{Name: "Isfahan", Category: categoryCity, Lat: 32.6546, Lon: 51.6680},
	{Name: "Tabriz", Category: categoryCity, Lat: 38.0800, Lon: 46.2919},
	{Name: "Shiraz", Category: categoryCity, Lat: 29.5918, Lon: 52.5837},
	{Name: "Kermanshah", Category: categoryCity, Lat: 34.3277, Lon: 47.0778},
	{Name: "Damascus", Category: categoryCity, Lat: 33.5138, Lon: 36.2765},
	{Name: "Beirut", Category: categoryCity, Lat: 33.8938, Lon: 35.5018},
	{Name: "Baghdad", Category: categoryCity, Lat: 33.3152, Lon: 44.3661},
	{Name: "Sanaa", Category: categoryCity, Lat: 15.3694, Lon: 44.1910},
	{Name: "Gaza", Category: categoryRegion, Lat: 31.5017, Lon: 34.4668},
	{Name: "West Bank", Category: categoryRegion, Lat: 31.9466, Lon: 35.3027},
	{Name: "Golan Heights", Category: categoryRegion, Lat: 32.9877, Lon: 35.7444},
	{Name: "Strait of Hormuz", Category: categoryRegion, Lat: 26.5667, Lon: 56.2500},
	{Name: "Red Sea", Category: categoryRegion, Lat: 20.2802, Lon: 38.5126},
	// Recurring negotiation venues.
	{Name: "Geneva", Category: categoryCity, Lat: 46.2044, Lon: 6.1432},
	{Name: "Vienna", Category: categoryCity, Lat: 48.2082, Lon: 16.3738},
	{Name: "Doha", Category: categoryCity, Lat: 25.2854, Lon: 51.5310},
	{Name: "Muscat", Category: categoryCity, Lat: 23.5880, Lon: 58.3829},
	{Name: "Cairo", Category: categoryCity, Lat: 30.0444, Lon: 31.2357},
	{Name: "Istanbul", Category: categoryCity, Lat: 41.0082, Lon: 28.9784},
}

// knownNuclearFacilities are facility-level gazetteer entries. A hit sets
// the bundle's nuclear-content flag.
var knownNuclearFacilities = []gazetteerEntry{
	{Name: "Natanz", Category: categoryNuclearFacility, Lat: 33.7245, Lon: 51.7268},
	{Name: "Fordow", Category: categoryNuclearFacility, Lat: 34.8845, Lon: 50.9937},
	{Name: "Bushehr", Category: categoryNuclearFacility, Lat: 28.8296, Lon: 50.8891},
	{Name: "Arak", Category: categoryNuclearFacility, Lat: 34.3773, Lon: 49.7643},
	{Name: "Parchin", Category: categoryNuclearFacility, Lat: 35.5214, Lon: 51.7734},
	{Name: "Dimona", Category: categoryNuclearFacility, Lat: 31.0012, Lon: 35.1442},
}

// knownOrganizations maps organization names to a category tag.
var knownOrganizations = map[string]string{
	"IDF":                     "military",
	"Israel Defense Forces":   "military",
	"IRGC":                    "military",
	"Revolutionary Guard":     "military",
	"Quds Force":              "military",
	"Hezbollah":               "militia",
	"Houthi":                  "militia",
	"Houthis":                 "militia",
	"Hamas":                   "militia",
	"Mossad":                  "agency",
	"Shin Bet":                "agency",
	"CIA":                     "agency",
	"IAEA":                    "watchdog",
	"United Nations":          "diplomatic",
	"UN Security Council":     "diplomatic",
	"Pentagon":                "military",
	"US Central Command":      "military",
	"CENTCOM":                 "military",
	"NATO":                    "alliance",
	"Atomic Energy Organization": "agency",
}

// nuclearTerms mark nuclear-domain content even without a facility hit.
var nuclearTerms = []string{
	"nuclear", "enrichment", "uranium", "centrifuge", "reactor",
	"radiation", "radioactive", "atomic",
}

// partyAliases attributes casualty figures and operations to a side.
// Lowercase alias -> canonical party name. Same shape as a country alias
// table; a ±contextWindow scan around a match looks these up.
var partyAliases = map[string]string{
	"israel": "Israel", "israeli": "Israel", "israelis": "Israel",
	"idf": "Israel", "israel defense forces": "Israel",
	"iran": "Iran", "iranian": "Iran", "iranians": "Iran",
	"irgc": "Iran", "revolutionary guard": "Iran", "tehran's": "Iran",
	"hezbollah": "Hezbollah", "houthi": "Houthis", "houthis": "Houthis",
	"hamas": "Hamas", "palestinian": "Palestinians", "palestinians": "Palestinians",
	"american": "United States", "u.s.": "United States", "us forces": "United States",
	"syrian": "Syria", "lebanese": "Lebanon",
}

// weaponClasses lists detection keywords per weapon class, most specific
// first so "ballistic missile" wins over "missile".
var weaponClasses = []struct {
	Class    string
	Keywords []string
}{
	{Class: "missile", Keywords: []string{
		"ballistic missile", "cruise missile", "hypersonic missile",
		"surface-to-air missile", "missile",
	}},
	{Class: "drone", Keywords: []string{
		"attack drone", "kamikaze drone", "shahed", "drone", "uav",
	}},
	{Class: "aircraft", Keywords: []string{
		"fighter jet", "f-35", "f-16", "f-15", "warplane", "bomber",
	}},
	{Class: "rocket", Keywords: []string{"rocket", "katyusha"}},
	{Class: "artillery", Keywords: []string{"artillery", "mortar", "shelling"}},
	{Class: "air_defense", Keywords: []string{
		"iron dome", "arrow 3", "david's sling", "patriot", "interceptor",
		"air defense",
	}},
}

// knownOperations are operation names seen in prior reporting, matched
// even without the "Operation" prefix in text.
var knownOperations = map[string]string{
	"Rising Lion":        "Israel",
	"True Promise":       "Iran",
	"Midnight Hammer":    "United States",
	"Days of Repentance": "Israel",
}
