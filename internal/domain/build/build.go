// Package build assembles per-article extraction results into candidate
// events and applies the overall-confidence gate.
package build

import (
	"strings"

	"github.com/google/uuid"

	"github.com/okian/sitrep/internal/domain/classify"
	"github.com/okian/sitrep/internal/domain/extract"
	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/internal/domain/temporal"
)

// Confidence weighting constants. The weights sum to 1.0; the result is
// clamped to [0,1] regardless.
const (
	weightTemporal    = 0.25
	weightLocation    = 0.2
	weightDetail      = 0.15
	weightReliability = 0.25
	weightCategory    = 0.15

	categoryConfTyped = 0.9
	categoryConfOther = 0.5

	// sufficientDetailLength is the text length past which an article
	// counts as carrying enough detail.
	sufficientDetailLength = 200

	// defaultMinConfidence drops candidates at or below it before
	// deduplication.
	defaultMinConfidence = 0.5

	defaultReliability = 0.7

	unknownLocation = "Unknown location"
)

// sourceReliability scores well-known wire services and outlets; anything
// absent gets the default.
var sourceReliability = map[string]float64{
	"reuters":         0.95,
	"ap":              0.92,
	"associated press": 0.92,
	"afp":             0.92,
	"bbc":             0.9,
	"al jazeera":      0.85,
	"cnn":             0.85,
	"haaretz":         0.85,
	"times of israel": 0.82,
	"jerusalem post":  0.8,
	"irna":            0.8,
	"isna":            0.8,
	"tasnim":          0.8,
}

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithMinConfidence overrides the candidate drop threshold.
func WithMinConfidence(min float64) Option {
	return func(b *Builder) {
		if min >= 0 && min < 1 {
			b.minConfidence = min
		}
	}
}

// WithExtractor sets a custom entity extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(b *Builder) {
		if e != nil {
			b.extractor = e
		}
	}
}

// WithClassifier sets a custom classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(b *Builder) {
		if c != nil {
			b.classifier = c
		}
	}
}

// Builder turns one RawArticle into one CandidateEvent. Build is a pure
// function over its input and safe for concurrent use across workers.
type Builder struct {
	extractor     *extract.Extractor
	classifier    *classify.Classifier
	minConfidence float64
}

// New creates a Builder with configuration options.
func New(opts ...Option) *Builder {
	b := &Builder{
		extractor:     extract.New(),
		classifier:    classify.New(),
		minConfidence: defaultMinConfidence,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build extracts a candidate event from the article. The second return is
// false when the candidate's overall confidence fails the drop gate.
func (b *Builder) Build(article model.RawArticle) (model.CandidateEvent, bool) {
	text := article.Text()

	entities := b.extractor.Extract(text)
	resolution := temporal.Resolve(text, article.PublishedAt)
	eventType := b.classifier.Categorize(text, entities)
	severity := b.classifier.Severity(text, eventType, entities)

	location := unknownLocation
	hasLocation := 0.0
	if loc, ok := entities.PrimaryLocation(); ok {
		location = loc.Name
		hasLocation = 1.0
	}

	detail := 0.0
	if len(text) > sufficientDetailLength {
		detail = 1.0
	}

	categoryConf := categoryConfOther
	if eventType != model.TypeOther {
		categoryConf = categoryConfTyped
	}

	confidence := resolution.Confidence*weightTemporal +
		hasLocation*weightLocation +
		detail*weightDetail +
		Reliability(article.Source)*weightReliability +
		categoryConf*weightCategory
	confidence = clamp01(confidence)

	candidate := model.CandidateEvent{
		ID:                 uuid.NewString(),
		EventTime:          resolution.EventTime,
		TemporalConfidence: resolution.Confidence,
		Type:               eventType,
		Severity:           severity,
		Title:              article.Title,
		Description:        description(article),
		Location:           location,
		Confidence:         confidence,
		Source:             article.SourceName(),
		Entities:           entities,
	}
	return candidate, confidence > b.minConfidence
}

// Reliability returns the fixed reliability score for a source name,
// matching case-insensitively.
func Reliability(source string) float64 {
	if r, ok := sourceReliability[strings.ToLower(strings.TrimSpace(source))]; ok {
		return r
	}
	return defaultReliability
}

// IsWireService reports whether the source is in the reliability table,
// i.e. a recognized outlet; the verifier weighs such claims higher.
func IsWireService(source string) bool {
	_, ok := sourceReliability[strings.ToLower(strings.TrimSpace(source))]
	return ok
}

func description(a model.RawArticle) string {
	if d := strings.TrimSpace(a.Description); d != "" {
		return d
	}
	return a.Title
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
