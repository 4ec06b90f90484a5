package verify_test

import (
	"testing"
	"time"

	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/internal/domain/verify"
	. "github.com/smartystreets/goconvey/convey"
)

var eventTime = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func strikeEvent() model.CanonicalEvent {
	return model.CanonicalEvent{
		CandidateEvent: model.CandidateEvent{
			ID:        "ev-1",
			EventTime: eventTime,
			Type:      model.TypeStrike,
			Severity:  model.SeverityCritical,
			Title:     "Missile strike kills 12 in Tel Aviv",
			Location:  "Tel Aviv",
		},
		Sources:    []string{"Reuters"},
		MergedFrom: []string{"a"},
	}
}

func article(title, source string, at time.Time) model.RawArticle {
	return model.RawArticle{Title: title, Source: source, PublishedAt: at}
}

func TestVerify(t *testing.T) {
	Convey("Given a verifier", t, func() {
		v := verify.New()

		Convey("When two wire services corroborate the event", func() {
			corpus := []model.RawArticle{
				article("Missile strike kills 12 in Tel Aviv", "Reuters", eventTime),
				article("12 killed in Tel Aviv missile attack", "AP", eventTime.Add(20*time.Minute)),
			}

			result := v.Verify(strikeEvent(), corpus)

			Convey("Then the event is verified with high confidence", func() {
				So(result.Verified, ShouldBeTrue)
				So(result.Confidence, ShouldBeGreaterThan, 0.7)
				So(result.Confidence, ShouldBeLessThanOrEqualTo, 1.0)
				So(result.Discrepancies, ShouldBeEmpty)
			})

			Convey("Then the consensus reflects the claims", func() {
				So(result.Corroborating, ShouldResemble, []string{"AP", "Reuters"})
				So(result.ConsensusLocation, ShouldEqual, "Tel Aviv")
				So(result.CasualtyMin, ShouldEqual, 12)
				So(result.CasualtyMax, ShouldEqual, 12)
				So(result.MedianTime, ShouldEqual, eventTime.Add(20*time.Minute))
			})
		})

		Convey("When only one source reports the event", func() {
			corpus := []model.RawArticle{
				article("Missile strike kills 12 in Tel Aviv", "Reuters", eventTime),
			}

			result := v.Verify(strikeEvent(), corpus)

			Convey("Then the event stays unverified at the floor confidence", func() {
				So(result.Verified, ShouldBeFalse)
				So(result.Confidence, ShouldEqual, 0.3)
				So(result.Discrepancies, ShouldContain, verify.DiscrepancyInsufficientSources)
			})
		})

		Convey("When casualty figures diverge widely", func() {
			corpus := []model.RawArticle{
				article("5 killed in Tel Aviv strike", "local-channel", eventTime),
				article("40 killed in Tel Aviv strike", "other-channel", eventTime.Add(time.Hour)),
			}

			result := v.Verify(strikeEvent(), corpus)

			Convey("Then a casualty discrepancy is flagged", func() {
				So(result.Discrepancies, ShouldContain, "casualty figures diverge widely")
				So(result.CasualtyMin, ShouldEqual, 5)
				So(result.CasualtyMax, ShouldEqual, 40)
			})

			Convey("Then the penalty keeps the event unverified", func() {
				// 0.5 + 0.2 sources + 0.1 location - 0.15 penalty.
				So(result.Confidence, ShouldAlmostEqual, 0.65)
				So(result.Verified, ShouldBeFalse)
			})
		})

		Convey("When claims scatter across more than two locations", func() {
			event := strikeEvent()
			event.Title = "Explosions reported at military site"
			event.Location = "Tehran"

			corpus := []model.RawArticle{
				article("Explosions reported at military site near Tehran", "src-a", eventTime),
				article("Explosions reported at military site near Isfahan", "src-b", eventTime.Add(time.Hour)),
				article("Explosions reported at military site near Damascus", "src-c", eventTime.Add(2*time.Hour)),
			}

			result := v.Verify(event, corpus)

			So(result.Discrepancies, ShouldContain, "conflicting locations reported")
			So(result.Verified, ShouldBeFalse)
		})

		Convey("When claim timestamps span more than a day", func() {
			corpus := []model.RawArticle{
				article("Missile strike kills 12 in Tel Aviv", "Reuters", eventTime.Add(-20*time.Hour)),
				article("12 killed in Tel Aviv missile attack", "AP", eventTime.Add(20*time.Hour)),
			}

			result := v.Verify(strikeEvent(), corpus)

			So(result.Discrepancies, ShouldContain, "claim timestamps span more than a day")
		})

		Convey("When corpus articles fall outside the claim window", func() {
			corpus := []model.RawArticle{
				article("Missile strike kills 12 in Tel Aviv", "Reuters", eventTime.Add(-60*time.Hour)),
				article("12 killed in Tel Aviv missile attack", "AP", eventTime.Add(72*time.Hour)),
			}

			result := v.Verify(strikeEvent(), corpus)

			Convey("Then they do not count as claims", func() {
				So(result.Verified, ShouldBeFalse)
				So(result.Confidence, ShouldEqual, 0.3)
			})
		})

		Convey("When corpus articles are unrelated", func() {
			corpus := []model.RawArticle{
				article("Markets close higher on quiet trading day", "Reuters", eventTime),
				article("Festival season opens across the coast", "AP", eventTime),
			}

			result := v.Verify(strikeEvent(), corpus)

			So(result.Verified, ShouldBeFalse)
			So(result.Discrepancies, ShouldContain, verify.DiscrepancyInsufficientSources)
		})

		Convey("When the corpus is empty", func() {
			result := v.Verify(strikeEvent(), nil)

			So(result.Verified, ShouldBeFalse)
			So(result.Confidence, ShouldEqual, 0.3)
		})
	})
}

func TestVerifyOptions(t *testing.T) {
	Convey("Given a verifier requiring three sources", t, func() {
		v := verify.New(verify.WithMinSources(3))

		corpus := []model.RawArticle{
			article("Missile strike kills 12 in Tel Aviv", "Reuters", eventTime),
			article("12 killed in Tel Aviv missile attack", "AP", eventTime.Add(20*time.Minute)),
		}

		Convey("Then two corroborating sources are not enough", func() {
			result := v.Verify(strikeEvent(), corpus)

			So(result.Verified, ShouldBeFalse)
			So(result.Discrepancies, ShouldContain, verify.DiscrepancyInsufficientSources)
		})
	})

	Convey("Given a narrow claim window", t, func() {
		v := verify.New(verify.WithClaimWindow(time.Hour))

		corpus := []model.RawArticle{
			article("Missile strike kills 12 in Tel Aviv", "Reuters", eventTime),
			article("12 killed in Tel Aviv missile attack", "AP", eventTime.Add(6*time.Hour)),
		}

		Convey("Then late claims fall outside it", func() {
			result := v.Verify(strikeEvent(), corpus)

			So(result.Verified, ShouldBeFalse)
		})
	})

	// Two wire claims 30 hours apart: one timing discrepancy, confidence 0.95.
	spanningCorpus := []model.RawArticle{
		article("Missile strike kills 12 in Tel Aviv", "Reuters", eventTime),
		article("12 killed in Tel Aviv missile attack", "AP", eventTime.Add(30*time.Hour)),
	}

	Convey("Given a raised verification bar", t, func() {
		v := verify.New(verify.WithVerifiedConfidence(0.96))

		result := v.Verify(strikeEvent(), spanningCorpus)

		Convey("Then the event falls short of it", func() {
			So(result.Confidence, ShouldAlmostEqual, 0.95)
			So(result.Verified, ShouldBeFalse)
		})
	})

	Convey("Given a single-discrepancy limit", t, func() {
		v := verify.New(verify.WithMaxDiscrepancies(1))

		result := v.Verify(strikeEvent(), spanningCorpus)

		Convey("Then one discrepancy already blocks verification", func() {
			So(result.Discrepancies, ShouldHaveLength, 1)
			So(result.Verified, ShouldBeFalse)
		})
	})
}
