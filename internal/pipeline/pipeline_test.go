package pipeline_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/okian/sitrep/internal/domain/model"
	"github.com/okian/sitrep/internal/pipeline"
	logging "github.com/okian/sitrep/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logging.Init(); err != nil {
		panic(err)
	}
	m.Run()
}

var publishedAt = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func TestProcessBatch(t *testing.T) {
	Convey("Given a pipeline", t, func() {
		p := pipeline.New()

		Convey("When two outlets report the same strike", func() {
			batch := []model.RawArticle{
				{
					Title:       "Missile strike kills 12 in Tel Aviv",
					PublishedAt: publishedAt,
					Source:      "Reuters",
					URL:         "https://example.com/a",
				},
				{
					Title:       "12 killed in Tel Aviv missile attack",
					PublishedAt: publishedAt.Add(20 * time.Minute),
					Source:      "AP",
					URL:         "https://example.com/b",
				},
			}

			events, err := p.ProcessBatch(context.Background(), batch)

			Convey("Then they fuse into a single verified event", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)

				event := events[0]
				So(event.Type, ShouldBeIn, model.TypeStrike, model.TypeMissile)
				So(event.Severity, ShouldEqual, model.SeverityCritical)
				So(event.Sources, ShouldContain, "Reuters")
				So(event.Sources, ShouldContain, "AP")
				So(event.Location, ShouldEqual, "Tel Aviv")
				So(event.Verified, ShouldBeTrue)
				So(event.VerificationConfidence, ShouldBeGreaterThan, 0.7)
			})

			Convey("Then all confidences stay in range", func() {
				for _, e := range events {
					So(e.Confidence, ShouldBeBetweenOrEqual, 0, 1)
					So(e.VerificationConfidence, ShouldBeBetweenOrEqual, 0, 1)
				}
			})
		})

		Convey("When distinct incidents arrive together", func() {
			batch := []model.RawArticle{
				{
					Title:       "Missile strike kills 12 in Tel Aviv",
					PublishedAt: publishedAt,
					Source:      "Reuters",
				},
				{
					Title:       "Ceasefire talks and mediation resume in Geneva amid new sanctions pressure",
					PublishedAt: publishedAt.Add(2 * time.Hour),
					Source:      "AFP",
				},
			}

			events, err := p.ProcessBatch(context.Background(), batch)

			Convey("Then each yields its own event, newest first", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				So(events[0].Type, ShouldEqual, model.TypeDiplomacy)
				So(events[1].Type, ShouldBeIn, model.TypeStrike, model.TypeMissile)
				So(events[0].EventTime.After(events[1].EventTime), ShouldBeTrue)
			})
		})

		Convey("When the batch is empty", func() {
			events, err := p.ProcessBatch(context.Background(), nil)

			So(err, ShouldBeNil)
			So(events, ShouldBeEmpty)
		})

		Convey("When low-signal articles arrive", func() {
			batch := []model.RawArticle{
				{Title: "Residents resumed daily routines", PublishedAt: publishedAt, Source: "some-blog"},
			}

			events, err := p.ProcessBatch(context.Background(), batch)

			Convey("Then nothing clears the confidence gate", func() {
				So(err, ShouldBeNil)
				So(events, ShouldBeEmpty)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			batch := []model.RawArticle{
				{Title: "Missile strike kills 12 in Tel Aviv", PublishedAt: publishedAt, Source: "Reuters"},
			}

			events, err := p.ProcessBatch(ctx, batch)

			Convey("Then the batch is voided atomically", func() {
				So(err, ShouldNotBeNil)
				So(events, ShouldBeNil)
			})
		})

		Convey("When the corpus carries earlier corroboration", func() {
			earlier := []model.RawArticle{
				{Title: "12 killed in Tel Aviv missile attack", PublishedAt: publishedAt.Add(-time.Hour), Source: "AP"},
			}
			_, err := p.ProcessBatch(context.Background(), earlier)
			So(err, ShouldBeNil)

			batch := []model.RawArticle{
				{Title: "Missile strike kills 12 in Tel Aviv", PublishedAt: publishedAt, Source: "Reuters"},
			}

			events, err := p.ProcessBatch(context.Background(), batch)

			Convey("Then cross-batch claims verify the event", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 1)
				So(events[0].Verified, ShouldBeTrue)
			})
		})
	})
}

func TestProcessBatchDeterminism(t *testing.T) {
	Convey("Given the same batch processed twice by fresh pipelines", t, func() {
		batch := make([]model.RawArticle, 0, 6)
		for i := 0; i < 3; i++ {
			batch = append(batch,
				model.RawArticle{
					Title:       fmt.Sprintf("Missile strike kills %d in Tel Aviv", 11+i),
					PublishedAt: publishedAt.Add(time.Duration(i) * 30 * time.Minute),
					Source:      "Reuters",
				},
				model.RawArticle{
					Title:       fmt.Sprintf("Sirens and evacuation warning in Haifa district %d", i),
					PublishedAt: publishedAt.Add(time.Duration(i) * 45 * time.Minute),
					Source:      "Haaretz",
				},
			)
		}

		first, err1 := pipeline.New().ProcessBatch(context.Background(), batch)
		second, err2 := pipeline.New().ProcessBatch(context.Background(), batch)

		Convey("Then both runs agree on order and content", func() {
			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(len(first), ShouldEqual, len(second))
			for i := range first {
				So(first[i].Title, ShouldEqual, second[i].Title)
				So(first[i].EventTime, ShouldEqual, second[i].EventTime)
				So(first[i].Severity, ShouldEqual, second[i].Severity)
				So(first[i].Confidence, ShouldAlmostEqual, second[i].Confidence)
			}
		})
	})
}
