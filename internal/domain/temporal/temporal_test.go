package temporal_test

import (
	"testing"
	"time"

	"github.com/okian/sitrep/internal/domain/temporal"
	. "github.com/smartystreets/goconvey/convey"
)

// published is a Sunday at 14:30 UTC.
var published = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func TestResolveExplicitDates(t *testing.T) {
	Convey("Given a publish time", t, func() {
		Convey("When text carries a full date with year", func() {
			r := temporal.Resolve("The attack on March 5, 2025 destroyed the depot.", published)

			Convey("Then the date resolves at the highest confidence", func() {
				So(r.EventTime.Year(), ShouldEqual, 2025)
				So(r.EventTime.Month(), ShouldEqual, time.March)
				So(r.EventTime.Day(), ShouldEqual, 5)
				So(r.Confidence, ShouldEqual, 0.95)
			})
		})

		Convey("When text carries a date without a year", func() {
			r := temporal.Resolve("Strikes began on June 13 near Isfahan.", published)

			So(r.EventTime.Month(), ShouldEqual, time.June)
			So(r.EventTime.Day(), ShouldEqual, 13)
			So(r.EventTime.Year(), ShouldEqual, 2025)
			So(r.Confidence, ShouldEqual, 0.9)
		})

		Convey("When the yearless date would land in the future", func() {
			r := temporal.Resolve("The incident on December 1 remains unexplained.", published)

			Convey("Then the prior year's occurrence is assumed", func() {
				So(r.EventTime.Year(), ShouldEqual, 2024)
				So(r.EventTime.Month(), ShouldEqual, time.December)
			})
		})

		Convey("When the day-month order is used", func() {
			r := temporal.Resolve("Fighting resumed on 5 March 2025.", published)

			So(r.EventTime.Month(), ShouldEqual, time.March)
			So(r.EventTime.Day(), ShouldEqual, 5)
			So(r.Confidence, ShouldEqual, 0.95)
		})
	})
}

func TestResolveRelativeOffsets(t *testing.T) {
	Convey("Given a publish time", t, func() {
		Convey("When text says 3 hours ago", func() {
			r := temporal.Resolve("The missile launch 3 hours ago triggered sirens.", published)

			Convey("Then the event time is publish minus three hours at 0.85", func() {
				So(r.EventTime, ShouldEqual, published.Add(-3*time.Hour))
				So(r.Confidence, ShouldEqual, 0.85)
			})
		})

		Convey("When text says 45 minutes ago", func() {
			r := temporal.Resolve("Explosions were heard 45 minutes ago.", published)

			So(r.EventTime, ShouldEqual, published.Add(-45*time.Minute))
			So(r.Confidence, ShouldEqual, 0.9)
		})

		Convey("When text says 2 days ago", func() {
			r := temporal.Resolve("The facility was hit 2 days ago.", published)

			So(r.EventTime, ShouldEqual, published.AddDate(0, 0, -2))
			So(r.Confidence, ShouldEqual, 0.8)
		})

		Convey("When text says earlier today", func() {
			r := temporal.Resolve("Earlier today, sirens sounded across the north.", published)

			So(r.EventTime, ShouldEqual, published.Add(-6*time.Hour))
		})

		Convey("When text says this morning", func() {
			r := temporal.Resolve("Residents woke to blasts this morning.", published)

			So(r.EventTime.Hour(), ShouldEqual, 9)
			So(r.EventTime.Day(), ShouldEqual, published.Day())
		})

		Convey("When text says last night", func() {
			r := temporal.Resolve("Air defenses were active last night.", published)

			So(r.EventTime.Hour(), ShouldEqual, 21)
			So(r.EventTime.Day(), ShouldEqual, published.Day()-1)
		})

		Convey("When text says yesterday", func() {
			r := temporal.Resolve("The convoy was struck yesterday.", published)

			So(r.EventTime, ShouldEqual, published.AddDate(0, 0, -1))
			So(r.Confidence, ShouldEqual, 0.85)
		})
	})
}

func TestResolveWeekdays(t *testing.T) {
	Convey("Given a publish time on a Sunday", t, func() {
		Convey("When text says last Wednesday", func() {
			r := temporal.Resolve("The base was evacuated last Wednesday.", published)

			So(r.EventTime.Weekday(), ShouldEqual, time.Wednesday)
			So(r.EventTime.Before(published), ShouldBeTrue)
			So(r.Confidence, ShouldEqual, 0.75)
		})

		Convey("When text says on Friday", func() {
			r := temporal.Resolve("Talks collapsed on Friday.", published)

			Convey("Then the most recent prior Friday is chosen", func() {
				So(r.EventTime.Weekday(), ShouldEqual, time.Friday)
				So(published.Sub(r.EventTime), ShouldBeLessThan, 7*24*time.Hour)
				So(r.Confidence, ShouldEqual, 0.7)
			})
		})

		Convey("When the named day is the publish day itself", func() {
			r := temporal.Resolve("Sirens were heard on Sunday.", published)

			Convey("Then it rolls back a further seven days", func() {
				So(r.EventTime.Weekday(), ShouldEqual, time.Sunday)
				So(published.Sub(r.EventTime), ShouldEqual, 7*24*time.Hour)
			})
		})
	})
}

func TestResolveTierOrder(t *testing.T) {
	Convey("Given text matching several tiers", t, func() {
		r := temporal.Resolve("On March 5, 2025, hours after the raid 3 hours ago on Friday.", published)

		Convey("Then the explicit date wins", func() {
			So(r.EventTime.Month(), ShouldEqual, time.March)
			So(r.Confidence, ShouldEqual, 0.95)
		})
	})

	Convey("Given text with no time phrase at all", t, func() {
		r := temporal.Resolve("Heavy fighting continued around the city.", published)

		Convey("Then the publish time is used at fallback confidence", func() {
			So(r.EventTime, ShouldEqual, published)
			So(r.Confidence, ShouldEqual, 0.3)
		})
	})
}
