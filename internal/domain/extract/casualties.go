package extract

import (
	"regexp"
	"strconv"

	"github.com/okian/sitrep/internal/domain/model"
)

// Casualty patterns. Each captures the count; the match position feeds the
// party-attribution context scan.
var casualtyPatterns = []struct {
	re   *regexp.Regexp
	kind model.CasualtyKind
}{
	{regexp.MustCompile(`(?i)\b(\d{1,6})\s+(?:people\s+|soldiers\s+|civilians\s+)?killed\b`), model.CasualtyKilled},
	{regexp.MustCompile(`(?i)\b(\d{1,6})\s+(?:people\s+|soldiers\s+|civilians\s+)?(?:injured|wounded)\b`), model.CasualtyInjured},
	{regexp.MustCompile(`(?i)\b(\d{1,6})\s+casualties\b`), model.CasualtyUnspecific},
	{regexp.MustCompile(`(?i)\bdeath\s+toll\b[^.\d]{0,40}?(\d{1,6})`), model.CasualtyDeathToll},
}

// extractCasualties runs the casualty patterns over the text. For each
// count, the ±contextWindow characters around the match are scanned for a
// party alias; counts with no nearby party stay unattributed rather than
// being dropped.
func (e *Extractor) extractCasualties(text, lower string) []model.CasualtyMention {
	var out []model.CasualtyMention

	for _, p := range casualtyPatterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(lower, -1) {
			// loc[2]:loc[3] is the count capture group.
			count, err := strconv.Atoi(lower[loc[2]:loc[3]])
			if err != nil || count == 0 {
				continue
			}
			out = append(out, model.CasualtyMention{
				Count:      count,
				Kind:       p.kind,
				Party:      e.attributeParty(lower, loc[0], loc[1]),
				Confidence: casualtyConfidence,
			})
		}
	}
	return out
}
