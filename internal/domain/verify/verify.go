// Package verify cross-references a canonical event against the recent
// article corpus and scores multi-source consensus.
package verify

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/sitrep/internal/domain/build"
	"github.com/okian/sitrep/internal/domain/extract"
	"github.com/okian/sitrep/internal/domain/model"
)

// Verification policy defaults.
const (
	defaultClaimWindow    = 48 * time.Hour
	defaultTextSimilarity = 0.4
	defaultMinSources     = 2

	// Unverified events get this fixed confidence.
	unverifiedConfidence = 0.3

	confidenceBase       = 0.5
	sourceBonusPerSource = 0.1
	sourceBonusCap       = 0.3
	wireServiceBonus     = 0.2
	locationBonus        = 0.1
	casualtyBonus        = 0.1
	discrepancyPenalty   = 0.15

	verifiedMinConfidence  = 0.7
	verifiedMaxDiscrepancy = 2
	casualtySpreadAbsolute = 10
	casualtySpreadFraction = 0.5
	locationDistinctLimit  = 2
	timingSpanLimit        = 24 * time.Hour
	locationTokenMinLength = 4
)

// DiscrepancyInsufficientSources is reported when fewer than the
// minimum distinct sources corroborate the event.
const DiscrepancyInsufficientSources = "insufficient sources"

// claim is one corpus article judged relevant to the event.
type claim struct {
	article  model.RawArticle
	location string
	killed   int
}

// Option applies a configuration option to the Verifier.
type Option func(*Verifier)

// WithClaimWindow overrides the publish-time window around the event
// time inside which articles count as claims.
func WithClaimWindow(w time.Duration) Option {
	return func(v *Verifier) {
		if w > 0 {
			v.claimWindow = w
		}
	}
}

// WithTextSimilarity overrides the word-Jaccard floor for claim
// relevance.
func WithTextSimilarity(s float64) Option {
	return func(v *Verifier) {
		if s > 0 && s <= 1 {
			v.textSimilarity = s
		}
	}
}

// WithMinSources overrides the distinct-source count below which an
// event stays unverified.
func WithMinSources(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.minSources = n
		}
	}
}

// WithVerifiedConfidence overrides the confidence an event must exceed
// to count as verified.
func WithVerifiedConfidence(c float64) Option {
	return func(v *Verifier) {
		if c > 0 && c < 1 {
			v.verifiedConfidence = c
		}
	}
}

// WithMaxDiscrepancies overrides the discrepancy count at which an
// event can no longer be verified.
func WithMaxDiscrepancies(n int) Option {
	return func(v *Verifier) {
		if n > 0 {
			v.maxDiscrepancies = n
		}
	}
}

// WithExtractor sets a custom entity extractor for claim scanning.
func WithExtractor(e *extract.Extractor) Option {
	return func(v *Verifier) {
		if e != nil {
			v.extractor = e
		}
	}
}

// Verifier scores canonical events against an article corpus snapshot.
// It holds only configuration and is safe for concurrent use.
type Verifier struct {
	claimWindow        time.Duration
	textSimilarity     float64
	minSources         int
	verifiedConfidence float64
	maxDiscrepancies   int
	extractor          *extract.Extractor
}

// New creates a Verifier with configuration options.
func New(opts ...Option) *Verifier {
	v := &Verifier{
		claimWindow:        defaultClaimWindow,
		textSimilarity:     defaultTextSimilarity,
		minSources:         defaultMinSources,
		verifiedConfidence: verifiedMinConfidence,
		maxDiscrepancies:   verifiedMaxDiscrepancy,
		extractor:          extract.New(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify scans the corpus snapshot for independent claims about the
// event and computes the consensus and discrepancy report. Fewer than
// the minimum distinct sources yields the fixed unverified result.
func (v *Verifier) Verify(event model.CanonicalEvent, corpus []model.RawArticle) model.VerificationResult {
	claims := v.findClaims(event, corpus)

	sources := map[string]bool{}
	for _, c := range claims {
		sources[c.article.SourceName()] = true
	}

	if len(sources) < v.minSources {
		return model.VerificationResult{
			Verified:      false,
			Confidence:    unverifiedConfidence,
			Discrepancies: []string{DiscrepancyInsufficientSources},
			Corroborating: sourceNames(sources),
		}
	}

	result := model.VerificationResult{
		Corroborating: sourceNames(sources),
	}

	locationConsensus := v.locationConsensus(claims, &result)
	casualtyConsensus := v.casualtyConsensus(claims, &result)
	v.timingConsensus(claims, &result)

	confidence := confidenceBase
	sourceBonus := float64(len(sources)) * sourceBonusPerSource
	if sourceBonus > sourceBonusCap {
		sourceBonus = sourceBonusCap
	}
	confidence += sourceBonus
	if anyWireService(claims) {
		confidence += wireServiceBonus
	}
	if locationConsensus {
		confidence += locationBonus
	}
	if casualtyConsensus {
		confidence += casualtyBonus
	}
	confidence -= discrepancyPenalty * float64(len(result.Discrepancies))
	result.Confidence = clamp01(confidence)

	result.Verified = result.Confidence > v.verifiedConfidence &&
		len(result.Discrepancies) < v.maxDiscrepancies
	return result
}

// findClaims keeps corpus articles published within the claim window of
// the event whose text is similar to the event's text or mentions the
// event's location.
func (v *Verifier) findClaims(event model.CanonicalEvent, corpus []model.RawArticle) []claim {
	eventTokens := wordSet(event.Title + " " + event.Description)

	var claims []claim
	for _, article := range corpus {
		gap := article.PublishedAt.Sub(event.EventTime)
		if gap < 0 {
			gap = -gap
		}
		if gap > v.claimWindow {
			continue
		}

		text := article.Text()
		if wordJaccard(eventTokens, wordSet(text)) < v.textSimilarity &&
			!mentionsLocation(text, event.Location) {
			continue
		}

		entities := v.extractor.Extract(text)
		c := claim{article: article, killed: entities.KilledCount()}
		if loc, ok := entities.PrimaryLocation(); ok {
			c.location = loc.Name
		}
		claims = append(claims, c)
	}
	return claims
}

// locationConsensus picks the modal reported location and flags a
// discrepancy when the claims scatter across too many places. It
// reports whether a consensus exists.
func (v *Verifier) locationConsensus(claims []claim, result *model.VerificationResult) bool {
	counts := map[string]int{}
	for _, c := range claims {
		if c.location != "" {
			counts[c.location]++
		}
	}
	if len(counts) == 0 {
		return false
	}

	modal, best := "", 0
	for loc, n := range counts {
		if n > best || (n == best && loc < modal) {
			modal, best = loc, n
		}
	}
	result.ConsensusLocation = modal

	if len(counts) > locationDistinctLimit {
		result.Discrepancies = append(result.Discrepancies, "conflicting locations reported")
		return false
	}
	return true
}

// casualtyConsensus computes the [min,max] killed range across claims
// carrying numbers and flags a discrepancy on a wide relative spread.
// Consensus requires at least two figures within tolerance.
func (v *Verifier) casualtyConsensus(claims []claim, result *model.VerificationResult) bool {
	var figures []int
	for _, c := range claims {
		if c.killed > 0 {
			figures = append(figures, c.killed)
		}
	}
	if len(figures) == 0 {
		return false
	}

	min, max := figures[0], figures[0]
	for _, n := range figures[1:] {
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}
	result.CasualtyMin, result.CasualtyMax = min, max

	spread := max - min
	if spread > casualtySpreadAbsolute && float64(spread)/float64(max) > casualtySpreadFraction {
		result.Discrepancies = append(result.Discrepancies, "casualty figures diverge widely")
		return false
	}
	return len(figures) >= 2
}

// timingConsensus records the median claim timestamp and flags a
// discrepancy when the claims span more than a day.
func (v *Verifier) timingConsensus(claims []claim, result *model.VerificationResult) {
	times := make([]time.Time, 0, len(claims))
	for _, c := range claims {
		times = append(times, c.article.PublishedAt)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	result.MedianTime = times[len(times)/2]

	if times[len(times)-1].Sub(times[0]) > timingSpanLimit {
		result.Discrepancies = append(result.Discrepancies, "claim timestamps span more than a day")
	}
}

func anyWireService(claims []claim) bool {
	for _, c := range claims {
		if build.IsWireService(c.article.Source) {
			return true
		}
	}
	return false
}

// mentionsLocation reports whether text contains the location as a
// substring or shares a significant location token with it.
func mentionsLocation(text, location string) bool {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return false
	}
	lower := strings.ToLower(text)
	if strings.Contains(lower, loc) {
		return true
	}
	for _, tok := range strings.Fields(loc) {
		if len(tok) >= locationTokenMinLength && strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func wordSet(text string) map[string]bool {
	set := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[strings.Trim(w, ".,!?;:\"'()")] = true
	}
	delete(set, "")
	return set
}

func wordJaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for w := range a {
		if b[w] {
			intersection++
		}
	}
	return float64(intersection) / float64(len(a)+len(b)-intersection)
}

func sourceNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for s := range set {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
