package corpus_test

import (
	"fmt"
	"testing"

	"github.com/okian/sitrep/internal/adapters/corpus"
	"github.com/okian/sitrep/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuffer(t *testing.T) {
	Convey("Given a buffer with capacity 3", t, func() {
		b := corpus.New(corpus.WithCapacity(3))

		articles := func(titles ...string) []model.RawArticle {
			out := make([]model.RawArticle, len(titles))
			for i, t := range titles {
				out[i] = model.RawArticle{Title: t}
			}
			return out
		}

		Convey("When fewer articles than capacity are added", func() {
			b.Add(articles("a", "b")...)

			So(b.Len(), ShouldEqual, 2)
			So(b.Snapshot()[0].Title, ShouldEqual, "a")
		})

		Convey("When the capacity overflows", func() {
			b.Add(articles("a", "b", "c", "d", "e")...)

			Convey("Then only the newest articles survive", func() {
				So(b.Len(), ShouldEqual, 3)
				snap := b.Snapshot()
				So(snap[0].Title, ShouldEqual, "c")
				So(snap[2].Title, ShouldEqual, "e")
			})
		})

		Convey("When articles arrive across several batches", func() {
			b.Add(articles("a", "b")...)
			b.Add(articles("c", "d")...)

			snap := b.Snapshot()
			So(snap[0].Title, ShouldEqual, "b")
			So(snap[2].Title, ShouldEqual, "d")
		})

		Convey("When a snapshot is mutated", func() {
			b.Add(articles("a")...)
			snap := b.Snapshot()
			snap[0].Title = "mutated"

			Convey("Then the buffer is unaffected", func() {
				So(b.Snapshot()[0].Title, ShouldEqual, "a")
			})
		})

		Convey("When nothing was added", func() {
			So(b.Len(), ShouldEqual, 0)
			So(b.Snapshot(), ShouldBeEmpty)
		})
	})

	Convey("Given the default capacity", t, func() {
		b := corpus.New()

		for i := 0; i < 250; i++ {
			b.Add(model.RawArticle{Title: fmt.Sprintf("article-%d", i)})
		}

		Convey("Then the window stays at the default bound", func() {
			So(b.Len(), ShouldEqual, 200)
			So(b.Snapshot()[0].Title, ShouldEqual, "article-50")
		})
	})
}
