package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/okian/sitrep/internal/domain/model"
)

// Operation-name patterns: the explicit "Operation X" form and quoted
// operation names as outlets style them.
var (
	operationRegex       = regexp.MustCompile(`\bOperation\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+){0,2})`)
	quotedOperationRegex = regexp.MustCompile(`["\x60']Operation\s+([A-Z][a-zA-Z]+(?:\s+[A-Z][a-zA-Z]+){0,2})["\x60']`)
)

// extractOperations finds named operations via regex and the known-
// operation list, deduplicated by exact name within the article. Country
// of origin comes from the known list or, failing that, a ±contextWindow
// scan for a party alias around the mention.
func (e *Extractor) extractOperations(text string) []model.Operation {
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	var out []model.Operation

	add := func(name string, start, end int) {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		country := knownOperations[name]
		if country == "" {
			country = e.attributeParty(lower, start, end)
		}
		out = append(out, model.Operation{
			Name:       name,
			Country:    country,
			Confidence: operationConfidence,
		})
	}

	for _, re := range []*regexp.Regexp{quotedOperationRegex, operationRegex} {
		for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
			add(text[loc[2]:loc[3]], loc[0], loc[1])
		}
	}

	// Known operations referenced without the "Operation" prefix,
	// scanned in name order so repeated runs agree.
	names := make([]string, 0, len(knownOperations))
	for name := range knownOperations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if seen[name] {
			continue
		}
		if idx := indexWord(lower, strings.ToLower(name)); idx >= 0 {
			add(name, idx, idx+len(name))
		}
	}

	return out
}
