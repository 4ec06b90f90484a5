package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/sitrep/internal/domain/model"
)

// Extraction confidence constants. Gazetteer hits are near-certain; generic
// capitalized-phrase hits are guesses.
const (
	gazetteerConfidence = 0.9
	titledConfidence    = 0.85
	genericConfidence   = 0.6
	weaponConfidence    = 0.8
	casualtyConfidence  = 0.85
	operationConfidence = 0.85

	// defaultContextWindow is the number of characters inspected on each
	// side of a match when attributing it to a party.
	defaultContextWindow = 100

	// maxQuantityLookback bounds the backward scan for a count adjacent
	// to a weapon keyword.
	maxQuantityLookback = 20
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithContextWindow overrides the attribution window size in characters.
func WithContextWindow(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.contextWindow = n
		}
	}
}

// Extractor turns raw article text into an EntityBundle. It holds no
// per-article state; Extract is a pure function and safe for concurrent
// use from multiple workers.
type Extractor struct {
	contextWindow int
}

// New creates an Extractor with configuration options.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		contextWindow: defaultContextWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// titledPersonRegex matches a rank or office followed by a capitalized name.
var titledPersonRegex = regexp.MustCompile(
	`(?:President|Prime Minister|Foreign Minister|Defense Minister|Minister|General|Colonel|Commander|Admiral|Ayatollah|Secretary|Chancellor)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`)

// orgPhraseRegex matches capitalized phrases ending in an organization
// suffix, e.g. "Atomic Energy Organization", "Revolutionary Guard Corps".
var orgPhraseRegex = regexp.MustCompile(
	`([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3}\s+(?:Ministry|Agency|Forces|Army|Command|Council|Organization|Corps|Authority|Committee))`)

// quantityRegex captures a trailing count immediately before a weapon
// keyword, e.g. "20 ballistic missiles".
var quantityRegex = regexp.MustCompile(`(\d{1,4})\s*$`)

// Extract runs all extraction strategies over text and returns the
// combined bundle.
func (e *Extractor) Extract(text string) model.EntityBundle {
	var b model.EntityBundle
	if strings.TrimSpace(text) == "" {
		return b
	}
	lower := strings.ToLower(text)

	b.Locations = e.extractLocations(text, lower)
	b.Organizations = e.extractOrganizations(text)
	b.People = e.extractPeople(text)
	b.Weapons = e.extractWeapons(text, lower)
	b.Casualties = e.extractCasualties(text, lower)
	b.Operations = e.extractOperations(text)
	b.NuclearContent = e.detectNuclearContent(lower) || hasNuclearFacility(b.Locations)

	return b
}

// extractLocations matches the location gazetteer (cities, regions,
// nuclear facilities) against the text.
func (e *Extractor) extractLocations(text, lower string) []model.Location {
	var out []model.Location
	seen := make(map[string]bool)

	match := func(entries []gazetteerEntry) {
		for _, g := range entries {
			if seen[g.Name] {
				continue
			}
			if containsWord(lower, strings.ToLower(g.Name)) {
				seen[g.Name] = true
				out = append(out, model.Location{
					Name:       g.Name,
					Category:   g.Category,
					Lat:        g.Lat,
					Lon:        g.Lon,
					Confidence: gazetteerConfidence,
				})
			}
		}
	}
	match(knownNuclearFacilities)
	match(knownLocations)
	return out
}

// extractOrganizations combines the organization gazetteer with generic
// capitalized org-suffix phrases.
func (e *Extractor) extractOrganizations(text string) []model.Organization {
	var out []model.Organization
	seen := make(map[string]bool)

	lower := strings.ToLower(text)
	for name, category := range knownOrganizations {
		if seen[name] {
			continue
		}
		if containsWord(lower, strings.ToLower(name)) {
			seen[name] = true
			out = append(out, model.Organization{
				Name:       name,
				Category:   category,
				Confidence: gazetteerConfidence,
			})
		}
	}

	for _, m := range orgPhraseRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, model.Organization{
			Name:       name,
			Confidence: genericConfidence,
		})
	}
	return out
}

// extractPeople finds rank-or-office titled names.
func (e *Extractor) extractPeople(text string) []model.Person {
	var out []model.Person
	seen := make(map[string]bool)
	for _, m := range titledPersonRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[1])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, model.Person{Name: name, Confidence: titledConfidence})
	}
	return out
}

// extractWeapons scans the per-class keyword lists. Within a class the
// first (most specific) matching keyword wins, so "ballistic missile"
// suppresses the bare "missile" hit it contains.
func (e *Extractor) extractWeapons(text, lower string) []model.Weapon {
	var out []model.Weapon

	for _, wc := range weaponClasses {
		for _, kw := range wc.Keywords {
			idx := indexWordPlural(lower, kw)
			if idx < 0 {
				continue
			}
			out = append(out, model.Weapon{
				Class:      wc.Class,
				Name:       kw,
				Quantity:   adjacentQuantity(lower, idx),
				Confidence: weaponConfidence,
			})
			break
		}
	}
	return out
}

// adjacentQuantity reads a count written just before the keyword, as in
// "fired 20 ballistic missiles". Returns 0 when none is present.
func adjacentQuantity(lower string, idx int) int {
	start := idx - maxQuantityLookback
	if start < 0 {
		start = 0
	}
	window := strings.TrimRight(lower[start:idx], " ")
	// Strip a plural-agnostic filler like "x" between count and keyword.
	window = strings.TrimSuffix(window, " x")
	m := quantityRegex.FindStringSubmatch(window)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// detectNuclearContent reports whether any nuclear-domain term appears.
func (e *Extractor) detectNuclearContent(lower string) bool {
	for _, term := range nuclearTerms {
		if containsWord(lower, term) {
			return true
		}
	}
	return false
}

func hasNuclearFacility(locs []model.Location) bool {
	for _, l := range locs {
		if l.Category == categoryNuclearFacility {
			return true
		}
	}
	return false
}

// attributeParty scans a ±window character context around [start,end) for
// a party alias and returns the canonical party name, or "".
func (e *Extractor) attributeParty(lower string, start, end int) string {
	ctx := contextSlice(lower, start, end, e.contextWindow)
	best := ""
	bestIdx := len(ctx) + 1
	for alias, party := range partyAliases {
		idx := indexWord(ctx, alias)
		if idx >= 0 && idx < bestIdx {
			bestIdx = idx
			best = party
		}
	}
	return best
}

// contextSlice returns the text window characters around [start,end).
func contextSlice(s string, start, end, window int) string {
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(s) {
		hi = len(s)
	}
	return s[lo:hi]
}

// containsWord reports whether text contains word bounded by
// non-alphanumeric characters, so "iran" does not match inside "lirans".
func containsWord(text, word string) bool {
	return indexWord(text, word) >= 0
}

// indexWord returns the byte index of the first whole-word occurrence of
// word in text, or -1.
func indexWord(text, word string) int {
	if word == "" {
		return -1
	}
	offset := 0
	for {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return -1
		}
		abs := offset + idx
		leftOK := abs == 0 || !isAlphaNum(text[abs-1])
		end := abs + len(word)
		rightOK := end >= len(text) || !isAlphaNum(text[end])
		if leftOK && rightOK {
			return abs
		}
		offset = abs + len(word)
		if offset >= len(text) {
			return -1
		}
	}
}

// indexWordPlural is indexWord with tolerance for a single trailing "s",
// so "missile" matches "missiles".
func indexWordPlural(text, word string) int {
	if idx := indexWord(text, word); idx >= 0 {
		return idx
	}
	return indexWord(text, word+"s")
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
