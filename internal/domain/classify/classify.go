// Package classify assigns an event type and a severity level to article
// text from keyword weights and extracted entities.
package classify

import (
	"regexp"
	"strings"

	"github.com/okian/sitrep/internal/domain/model"
)

// Default classification constants.
const (
	// defaultMinScore is the winning-category floor; below it the event
	// type is OTHER.
	defaultMinScore = 5.0

	// entityBonus is added to a category's score when the entity bundle
	// carries a matching signal (nuclear flag, operations, missiles).
	entityBonus = 4.0

	casualtyCriticalScore = 100
	casualtyHighScore     = 20
	killedCriticalCount   = 10
)

// category couples an event type with its keyword set and priority
// weight. Declaration order breaks score ties.
type category struct {
	Type     model.EventType
	Weight   float64
	Keywords []string
}

// categories in priority order. Every keyword present adds the category's
// weight to its score.
var categories = []category{
	{Type: model.TypeNuclear, Weight: 10, Keywords: []string{
		"nuclear", "enrichment", "uranium", "centrifuge", "reactor",
		"radiation", "radioactive", "atomic", "iaea",
	}},
	{Type: model.TypeMissile, Weight: 8, Keywords: []string{
		"missile", "ballistic", "launch", "salvo", "interceptor",
		"hypersonic", "warhead",
	}},
	{Type: model.TypeStrike, Weight: 7, Keywords: []string{
		"strike", "airstrike", "attack", "bomb", "explosion", "blast",
		"raid", "shelling", "hit",
	}},
	{Type: model.TypeCyber, Weight: 6, Keywords: []string{
		"cyber", "cyberattack", "hack", "hacker", "malware", "ransomware",
	}},
	{Type: model.TypeAlert, Weight: 5, Keywords: []string{
		"siren", "alert", "warning", "shelter", "evacuation", "evacuate",
	}},
	{Type: model.TypeDiplomacy, Weight: 4, Keywords: []string{
		"ceasefire", "negotiation", "talks", "diplomatic", "sanctions",
		"resolution", "mediation", "envoy",
	}},
	{Type: model.TypeIntelligence, Weight: 3, Keywords: []string{
		"intelligence", "mossad", "espionage", "covert", "surveillance",
		"infiltration",
	}},
}

// threeDigitRegex detects any number of three or more digits; large
// figures in conflict reporting read as mass-impact events.
var threeDigitRegex = regexp.MustCompile(`\d{3,}`)

// severityMediumTerms trip the medium severity rule.
var severityMediumTerms = []string{"injured", "wounded", "damage", "strike"}

// Option applies a configuration option to the Classifier.
type Option func(*Classifier)

// WithMinScore overrides the OTHER-type score floor.
func WithMinScore(score float64) Option {
	return func(c *Classifier) {
		if score > 0 {
			c.minScore = score
		}
	}
}

// Classifier scores article text against the category table. It holds no
// per-article state and is safe for concurrent use.
type Classifier struct {
	minScore float64
}

// New creates a Classifier with configuration options.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		minScore: defaultMinScore,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categorize returns the winning event type for text plus entity signals.
// The highest keyword-weight sum wins, ties break in declaration order,
// and a winner below the score floor degrades to OTHER.
func (c *Classifier) Categorize(text string, entities model.EntityBundle) model.EventType {
	lower := strings.ToLower(text)

	bestType := model.TypeOther
	bestScore := 0.0
	for _, cat := range categories {
		score := 0.0
		for _, kw := range cat.Keywords {
			if strings.Contains(lower, kw) {
				score += cat.Weight
			}
		}
		score += c.entitySignalBonus(cat.Type, entities)
		if score > bestScore {
			bestScore = score
			bestType = cat.Type
		}
	}

	if bestScore < c.minScore {
		return model.TypeOther
	}
	return bestType
}

// entitySignalBonus adds a fixed bonus when extraction found entities that
// corroborate the category.
func (c *Classifier) entitySignalBonus(t model.EventType, entities model.EntityBundle) float64 {
	switch t {
	case model.TypeNuclear:
		if entities.NuclearContent {
			return entityBonus
		}
	case model.TypeMissile:
		for _, w := range entities.Weapons {
			if w.Class == "missile" {
				return entityBonus
			}
		}
	case model.TypeStrike:
		if len(entities.Operations) > 0 {
			return entityBonus
		}
	}
	return 0
}

// Severity evaluates the ordered decision list; the first satisfied rule
// applies.
func (c *Classifier) Severity(text string, eventType model.EventType, entities model.EntityBundle) model.Severity {
	lower := strings.ToLower(text)

	// Nuclear incident language trumps everything.
	if strings.Contains(lower, "nuclear") &&
		(strings.Contains(lower, "leak") || strings.Contains(lower, "radiation")) {
		return model.SeverityCritical
	}

	// A 3+ digit figure anywhere reads as mass impact.
	if threeDigitRegex.MatchString(lower) {
		return model.SeverityCritical
	}

	// Casualty rules: all critical branches are tried before any high
	// branch so a large killed count is never downgraded by the weighted
	// score landing in the high band.
	killed := entities.KilledCount()
	injured := entities.InjuredCount()
	weighted := killed*2 + injured
	killedMention := strings.Contains(lower, "killed") || strings.Contains(lower, "dead")

	if weighted > casualtyCriticalScore {
		return model.SeverityCritical
	}
	if killedMention && killed > killedCriticalCount {
		return model.SeverityCritical
	}
	if weighted > casualtyHighScore {
		return model.SeverityHigh
	}
	if killedMention {
		return model.SeverityHigh
	}

	if eventType == model.TypeNuclear || eventType == model.TypeMissile {
		return model.SeverityHigh
	}

	for _, term := range severityMediumTerms {
		if strings.Contains(lower, term) {
			return model.SeverityMedium
		}
	}

	return model.SeverityLow
}
