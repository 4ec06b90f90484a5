// Package temporal resolves the time an event actually happened from the
// time phrases in article text, as distinct from the article's publish
// time.
//
// Resolution runs strictly ordered tiers and the first tier that finds
// anything wins: explicit dates, then relative offsets, then weekday
// references, then the publish timestamp as a low-confidence fallback.
package temporal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Tier confidence constants.
const (
	confExplicitWithYear = 0.95
	confExplicitNoYear   = 0.9
	confMinutesAgo       = 0.9
	confHoursAgo         = 0.85
	confYesterday        = 0.85
	confDaysAgo          = 0.8
	confFixedPhrase      = 0.8
	confWeeksAgo         = 0.75
	confLastWeekday      = 0.75
	confOnWeekday        = 0.7
	confFallback         = 0.3

	// Fixed offsets for vague same-day phrases.
	earlierTodayOffset = -6 * time.Hour
	morningHour        = 9
	lastNightHour      = 21
)

// Resolution is a resolved event time with the resolver's confidence.
type Resolution struct {
	EventTime  time.Time
	Confidence float64
}

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "jun": time.June, "jul": time.July,
	"aug": time.August, "sep": time.September, "sept": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

var (
	// "March 5, 2025" / "on March 5" / "5 March 2025"
	monthDayRegex = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?`)
	dayMonthRegex = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)(?:,?\s+(\d{4}))?`)

	relativeRegex = regexp.MustCompile(`(?i)\b(\d{1,3})\s+(minutes?|hours?|days?|weeks?)\s+ago\b`)

	lastWeekdayRegex = regexp.MustCompile(`(?i)\blast\s+(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	onWeekdayRegex   = regexp.MustCompile(`(?i)\bon\s+(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
)

// Resolve extracts the event time from text given the article's publish
// timestamp. It never fails: with no usable phrase it returns the publish
// time at the fallback confidence.
func Resolve(text string, published time.Time) Resolution {
	if r, ok := resolveExplicit(text, published); ok {
		return r
	}
	if r, ok := resolveRelative(text, published); ok {
		return r
	}
	if r, ok := resolveWeekday(text, published); ok {
		return r
	}
	return Resolution{EventTime: published, Confidence: confFallback}
}

// resolveExplicit handles "March 5" and "5 March" forms, with or without a
// year. A resolved date in the future relative to publish time is assumed
// to refer to the prior year's occurrence.
func resolveExplicit(text string, published time.Time) (Resolution, bool) {
	if m := monthDayRegex.FindStringSubmatch(text); m != nil {
		return buildExplicit(m[1], m[2], m[3], published)
	}
	if m := dayMonthRegex.FindStringSubmatch(text); m != nil {
		return buildExplicit(m[2], m[1], m[3], published)
	}
	return Resolution{}, false
}

func buildExplicit(monthName, dayStr, yearStr string, published time.Time) (Resolution, bool) {
	month, ok := monthsByName[strings.ToLower(strings.TrimSuffix(monthName, "."))]
	if !ok {
		return Resolution{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return Resolution{}, false
	}

	year := published.Year()
	conf := confExplicitNoYear
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil {
			year = y
			conf = confExplicitWithYear
		}
	}

	t := time.Date(year, month, day, published.Hour(), published.Minute(), 0, 0, published.Location())
	if t.After(published) {
		t = t.AddDate(-1, 0, 0)
	}
	return Resolution{EventTime: t, Confidence: conf}, true
}

// resolveRelative handles "N hours ago" style offsets and the fixed vague
// phrases ("earlier today", "this morning", "last night", "yesterday").
func resolveRelative(text string, published time.Time) (Resolution, bool) {
	if m := relativeRegex.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			unit := strings.ToLower(strings.TrimSuffix(m[2], "s"))
			switch unit {
			case "minute":
				return Resolution{published.Add(-time.Duration(n) * time.Minute), confMinutesAgo}, true
			case "hour":
				return Resolution{published.Add(-time.Duration(n) * time.Hour), confHoursAgo}, true
			case "day":
				return Resolution{published.AddDate(0, 0, -n), confDaysAgo}, true
			case "week":
				return Resolution{published.AddDate(0, 0, -7*n), confWeeksAgo}, true
			}
		}
	}

	lower := strings.ToLower(text)
	y, mo, d := published.Date()
	switch {
	case strings.Contains(lower, "earlier today"):
		return Resolution{published.Add(earlierTodayOffset), confFixedPhrase}, true
	case strings.Contains(lower, "this morning"):
		t := time.Date(y, mo, d, morningHour, 0, 0, 0, published.Location())
		return Resolution{t, confFixedPhrase}, true
	case strings.Contains(lower, "last night"):
		t := time.Date(y, mo, d, lastNightHour, 0, 0, 0, published.Location()).AddDate(0, 0, -1)
		return Resolution{t, confFixedPhrase}, true
	case strings.Contains(lower, "yesterday"):
		return Resolution{published.AddDate(0, 0, -1), confYesterday}, true
	}
	return Resolution{}, false
}

// resolveWeekday handles "last Monday" and "on Monday" by day-of-week
// arithmetic back from the publish date. "on {day}" maps to the most
// recent prior occurrence; if that occurrence would be the publish day
// itself, it rolls back a further seven days.
func resolveWeekday(text string, published time.Time) (Resolution, bool) {
	if m := lastWeekdayRegex.FindStringSubmatch(text); m != nil {
		target := weekdaysByName[strings.ToLower(m[1])]
		return Resolution{priorWeekday(published, target), confLastWeekday}, true
	}
	if m := onWeekdayRegex.FindStringSubmatch(text); m != nil {
		target := weekdaysByName[strings.ToLower(m[1])]
		return Resolution{priorWeekday(published, target), confOnWeekday}, true
	}
	return Resolution{}, false
}

// priorWeekday returns the most recent occurrence of target strictly
// before the publish day.
func priorWeekday(published time.Time, target time.Weekday) time.Time {
	back := int(published.Weekday()) - int(target)
	if back <= 0 {
		back += 7
	}
	return published.AddDate(0, 0, -back)
}
