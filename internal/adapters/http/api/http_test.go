package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "github.com/okian/sitrep/internal/adapters/http/api"
	"github.com/okian/sitrep/internal/adapters/ingest"
	"github.com/okian/sitrep/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeDeps struct {
	enqueued []model.RawArticle
	full     bool

	events   []model.VerifiedEvent
	listErr  error
	gotSince time.Time
	gotLimit int
}

func (f *fakeDeps) Enqueue(_ context.Context, a model.RawArticle) bool {
	if f.full {
		return false
	}
	f.enqueued = append(f.enqueued, a)
	return true
}

func (f *fakeDeps) ListEvents(_ context.Context, since time.Time, limit int) ([]model.VerifiedEvent, error) {
	f.gotSince = since
	f.gotLimit = limit
	return f.events, f.listErr
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"queue_size": 3}
}

func newTestServer(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	srv := api.NewServer(deps, ingest.NewParser(), fakeStats{})
	srv.Register(context.Background(), mux)
	return mux
}

const feedPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Wire Desk</title>
    <item>
      <title>Missile strike kills 12 in Tel Aviv</title>
      <description>At least 12 were killed.</description>
      <pubDate>Sun, 15 Jun 2025 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestPostArticles(t *testing.T) {
	Convey("Given the articles endpoint", t, func() {
		deps := &fakeDeps{}
		mux := newTestServer(deps)

		Convey("When a valid batch is posted", func() {
			body := `[
				{"title":"Missile strike kills 12 in Tel Aviv","source":"Reuters","published_at":"2025-06-15T10:00:00Z"},
				{"title":"Ceasefire talks resume","source":"AFP"}
			]`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(body)))

			Convey("Then every article is accepted", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 2)
				So(deps.enqueued[0].Source, ShouldEqual, "Reuters")

				var ack map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &ack), ShouldBeNil)
				So(ack["status"], ShouldEqual, "accepted")
				So(ack["accepted"], ShouldEqual, 2)
			})

			Convey("Then a missing publish time is anchored to now", func() {
				So(deps.enqueued[1].PublishedAt.IsZero(), ShouldBeFalse)
			})
		})

		Convey("When the payload is not valid JSON", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader("{broken")))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.enqueued, ShouldBeEmpty)
		})

		Convey("When an article has no title", func() {
			body := `[{"title":"  ","source":"Reuters"}]`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(body)))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.enqueued, ShouldBeEmpty)
		})

		Convey("When the batch is empty", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader("[]")))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue refuses everything", func() {
			deps.full = true
			body := `[{"title":"Missile strike kills 12 in Tel Aviv"}]`
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(body)))

			Convey("Then the caller sees backpressure", func() {
				So(rec.Code, ShouldEqual, http.StatusTooManyRequests)

				var resp map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &resp), ShouldBeNil)
				So(resp["code"], ShouldEqual, "backpressure")
			})
		})

		Convey("When the method is not POST", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/articles", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestPostFeed(t *testing.T) {
	Convey("Given the feeds endpoint", t, func() {
		deps := &fakeDeps{}
		mux := newTestServer(deps)

		Convey("When an RSS payload is posted with a source", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feeds?source=Reuters", strings.NewReader(feedPayload)))

			Convey("Then its items are enqueued", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued, ShouldHaveLength, 1)
				So(deps.enqueued[0].Title, ShouldEqual, "Missile strike kills 12 in Tel Aviv")
				So(deps.enqueued[0].Source, ShouldEqual, "Reuters")
			})
		})

		Convey("When no source is supplied", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feeds", strings.NewReader(feedPayload)))

			Convey("Then the feed title stands in", func() {
				So(rec.Code, ShouldEqual, http.StatusAccepted)
				So(deps.enqueued[0].Source, ShouldEqual, "Wire Desk")
			})
		})

		Convey("When the payload is not a feed", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/feeds", strings.NewReader("not xml")))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
			So(deps.enqueued, ShouldBeEmpty)
		})
	})
}

func TestGetEvents(t *testing.T) {
	Convey("Given the events endpoint", t, func() {
		deps := &fakeDeps{
			events: []model.VerifiedEvent{{
				ID:        "ev-1",
				EventTime: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
				Type:      model.TypeStrike,
				Severity:  model.SeverityCritical,
				Title:     "Missile strike in Tel Aviv",
				Verified:  true,
				Sources:   []string{"Reuters", "AP"},
			}},
		}
		mux := newTestServer(deps)

		Convey("When events are listed with a cutoff and limit", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events?since=2025-06-15T00:00:00Z&limit=10", nil))

			Convey("Then the query parameters reach the store", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotSince.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(deps.gotLimit, ShouldEqual, 10)
			})

			Convey("Then the timeline serializes with readable fields", func() {
				var listed []map[string]any
				So(json.Unmarshal(rec.Body.Bytes(), &listed), ShouldBeNil)
				So(listed, ShouldHaveLength, 1)
				So(listed[0]["id"], ShouldEqual, "ev-1")
				So(listed[0]["severity"], ShouldEqual, "critical")
				So(listed[0]["verified"], ShouldEqual, true)
			})
		})

		Convey("When no cutoff is supplied", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

			Convey("Then a one-week window applies", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(deps.gotSince.After(time.Now().UTC().Add(-8*24*time.Hour)), ShouldBeTrue)
			})
		})

		Convey("When the cutoff is malformed", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events?since=yesterday", nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the limit is malformed", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events?limit=-3", nil))

			So(rec.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the store has nothing", func() {
			deps.events = nil
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

			Convey("Then the response is an empty array, not null", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(rec.Body.String()), ShouldEqual, "[]")
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given the stats endpoint", t, func() {
		mux := newTestServer(&fakeDeps{})

		Convey("When stats are requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Header().Get("Cache-Control"), ShouldEqual, "no-store")

			var stats map[string]any
			So(json.Unmarshal(rec.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["queue_size"], ShouldEqual, 3)
		})

		Convey("When stats are posted to", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/stats", nil))

			So(rec.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}
