// Package dedupe clusters candidate events that describe the same
// real-world incident and merges each cluster into one canonical event.
package dedupe

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/okian/sitrep/internal/domain/model"
)

// Similarity weights and component scores. A pair of candidates with a
// different event type scores 0 outright; otherwise the weighted
// components sum to at most 1.0.
const (
	defaultThreshold = 0.7

	weightLocation = 0.3
	weightTime     = 0.2
	weightKeywords = 0.3

	severityIdentical = 0.2
	severityDifferent = 0.1

	locationExact    = 1.0
	locationContains = 0.8

	// Merged-cluster confidence grows with distinct sources.
	mergedConfidenceBase   = 0.5
	mergedConfidencePerSrc = 0.1
	descriptionJoinSep     = " | "
)

// Time-proximity bands. The score steps down with the absolute gap
// between the two event times.
var timeBands = []struct {
	Within time.Duration
	Score  float64
}{
	{time.Hour, 1.0},
	{6 * time.Hour, 0.8},
	{12 * time.Hour, 0.6},
	{24 * time.Hour, 0.4},
	{48 * time.Hour, 0.2},
}

// keywordVocabulary is the fixed military/damage/nuclear term set used
// for keyword-overlap scoring. Terms match as substrings of the
// lowercased text, so "kill" covers "killed" and "kills".
var keywordVocabulary = []string{
	"missile", "drone", "rocket", "strike", "airstrike", "attack",
	"explosion", "blast", "shelling", "raid", "intercept",
	"kill", "injured", "wounded", "casualt", "dead",
	"damage", "destroy", "hit", "collapse",
	"nuclear", "radiation", "enrichment", "reactor", "uranium",
	"siren", "evacuat", "ceasefire", "sanction",
}

var numberRegex = regexp.MustCompile(`\d+`)

// Deduplicator performs greedy single-pass clustering over one batch of
// candidate events. It holds only configuration and is safe for
// concurrent use.
type Deduplicator struct {
	threshold float64
}

// New creates a Deduplicator with configuration options.
func New(opts ...Option) *Deduplicator {
	d := &Deduplicator{
		threshold: defaultThreshold,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Cluster sorts candidates by event time descending (ties keep batch
// arrival order), then greedily clusters: each not-yet-assigned anchor
// collects every later unassigned candidate whose similarity exceeds
// the threshold. Every input candidate lands in exactly one output
// cluster; singletons come back unchanged.
func (d *Deduplicator) Cluster(candidates []model.CandidateEvent) []model.CanonicalEvent {
	if len(candidates) == 0 {
		return nil
	}

	ordered := make([]model.CandidateEvent, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].EventTime.After(ordered[j].EventTime)
	})

	assigned := make([]bool, len(ordered))
	canonical := make([]model.CanonicalEvent, 0, len(ordered))

	for i := range ordered {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		cluster := []model.CandidateEvent{ordered[i]}

		for j := i + 1; j < len(ordered); j++ {
			if assigned[j] {
				continue
			}
			if Similarity(ordered[i], ordered[j]) > d.threshold {
				assigned[j] = true
				cluster = append(cluster, ordered[j])
			}
		}

		canonical = append(canonical, merge(cluster))
	}

	return canonical
}

// Similarity scores how likely two candidates describe the same event,
// in [0,1]. A type mismatch short-circuits to 0.
func Similarity(a, b model.CandidateEvent) float64 {
	if a.Type != b.Type {
		return 0
	}

	score := locationSimilarity(a.Location, b.Location)*weightLocation +
		timeProximity(a.EventTime, b.EventTime)*weightTime +
		keywordOverlap(eventText(a), eventText(b))*weightKeywords

	if a.Severity == b.Severity {
		score += severityIdentical
	} else {
		score += severityDifferent
	}
	// Round so the strict threshold compares decimal scores, not float
	// accumulation noise.
	return math.Round(score*1e9) / 1e9
}

// merge collapses a cluster into one canonical event. The anchor (most
// recent member) contributes identity fields; the earliest event time
// wins; severity is the cluster maximum; confidence is recomputed from
// the distinct-source count unless the cluster is a singleton.
func merge(cluster []model.CandidateEvent) model.CanonicalEvent {
	anchor := cluster[0]

	canonical := model.CanonicalEvent{
		CandidateEvent: anchor,
		Sources:        []string{},
		MergedFrom:     make([]string, 0, len(cluster)),
	}

	seenSources := map[string]bool{}
	seenDescriptions := map[string]bool{}
	descriptions := make([]string, 0, len(cluster))

	for _, c := range cluster {
		canonical.MergedFrom = append(canonical.MergedFrom, c.ID)

		if !seenSources[c.Source] {
			seenSources[c.Source] = true
			canonical.Sources = append(canonical.Sources, c.Source)
		}
		if d := strings.TrimSpace(c.Description); d != "" && !seenDescriptions[d] {
			seenDescriptions[d] = true
			descriptions = append(descriptions, d)
		}

		if c.EventTime.Before(canonical.EventTime) {
			canonical.EventTime = c.EventTime
			canonical.TemporalConfidence = c.TemporalConfidence
		}
		if c.Severity > canonical.Severity {
			canonical.Severity = c.Severity
		}
	}

	canonical.Description = strings.Join(descriptions, descriptionJoinSep)

	if len(cluster) > 1 {
		conf := mergedConfidenceBase + mergedConfidencePerSrc*float64(len(canonical.Sources))
		if conf > 1 {
			conf = 1
		}
		canonical.Confidence = conf
	}
	return canonical
}

// locationSimilarity compares two normalized location strings: exact
// match, then containment, then Jaccard over their word tokens.
func locationSimilarity(a, b string) float64 {
	na, nb := normalizeLocation(a), normalizeLocation(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return locationExact
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return locationContains
	}
	return jaccard(tokenSet(na), tokenSet(nb))
}

func normalizeLocation(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func timeProximity(a, b time.Time) float64 {
	gap := a.Sub(b)
	if gap < 0 {
		gap = -gap
	}
	for _, band := range timeBands {
		if gap <= band.Within {
			return band.Score
		}
	}
	return 0
}

// keywordOverlap is the Jaccard similarity of the vocabulary terms and
// numeric tokens present in each text.
func keywordOverlap(a, b string) float64 {
	return jaccard(keywordSet(a), keywordSet(b))
}

func keywordSet(text string) map[string]bool {
	lower := strings.ToLower(text)
	set := map[string]bool{}
	for _, term := range keywordVocabulary {
		if strings.Contains(lower, term) {
			set[term] = true
		}
	}
	for _, num := range numberRegex.FindAllString(lower, -1) {
		set[num] = true
	}
	return set
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	}) {
		set[tok] = true
	}
	return set
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func eventText(c model.CandidateEvent) string {
	return c.Title + " " + c.Description
}
