// Package eventfilter implements the pure filter/sort engine applied to
// in-memory event collections. Every function is deterministic given its
// inputs; the wall clock is always passed in explicitly.
package eventfilter

import (
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/eventify/eventify-go/internal/app/models"
)

// AllCitiesSentinel is the first entry of every city list and disables the
// city filter when selected.
const AllCitiesSentinel = "Tüm Şehirler"

// DateWindow names a date range computed from the current date at call time.
type DateWindow string

const (
	WindowAll             DateWindow = ""
	WindowToday           DateWindow = "today"
	WindowTomorrow        DateWindow = "tomorrow"
	WindowThisWeek        DateWindow = "this_week"
	WindowThisMonth       DateWindow = "this_month"
	WindowNextThreeMonths DateWindow = "next_3_months"
)

// PriceBand names a price range.
type PriceBand string

const (
	BandAll PriceBand = ""
	// BandFree matches only zero-priced events.
	BandFree PriceBand = "free"
	// BandBelowThreshold matches 0 < price < threshold; free events are
	// classified as free, not as cheap.
	BandBelowThreshold PriceBand = "below_100"
	// BandAtOrAboveThreshold matches price >= threshold.
	BandAtOrAboveThreshold PriceBand = "above_100"
)

// DefaultPriceThreshold splits the below/above bands.
const DefaultPriceThreshold = 100.0

// Filters is the predicate set applied to an event collection. Filters
// compose by intersection, so application order never changes the result set.
type Filters struct {
	City      string
	Window    DateWindow
	PriceBand PriceBand
	// Limit truncates the result after all filtering and sorting; zero
	// means unlimited.
	Limit int
}

var fold = cases.Fold()

// combiningDotAbove is left behind when folding the Turkish dotted İ
// (U+0130) to "i"; an ASCII "i" or a plain lowercase "i" carries no such
// mark, so it is dropped before comparison.
const combiningDotAbove = '̇'

// foldCase lower-cases s for comparison so that İ, I and i all compare
// equal.
func foldCase(s string) string {
	folded := fold.String(s)
	if !strings.ContainsRune(folded, combiningDotAbove) {
		return folded
	}
	return strings.Map(func(r rune) rune {
		if r == combiningDotAbove {
			return -1
		}
		return r
	}, folded)
}

// CityOf extracts the city from a free-text location. Locations usually look
// like "City, Venue"; everything before the first comma is the city. A
// location without a comma is treated as a bare city name.
func CityOf(location string) string {
	city, _, found := strings.Cut(location, ",")
	if !found {
		return strings.TrimSpace(location)
	}
	return strings.TrimSpace(city)
}

// MatchesCity implements the permissive three-way city comparison: exact
// match, filter city contained in the event city, or event city contained in
// the filter city. The permissiveness tolerates compound location strings
// ("İstanbul Avrupa", "İstanbul, Kadıköy") at the cost of occasional false
// positives on cities whose names contain one another; that trade-off is
// accepted behavior, not a bug.
func MatchesCity(event models.Event, city string) bool {
	if city == "" || city == AllCitiesSentinel {
		return true
	}
	eventCity := foldCase(CityOf(event.Location))
	want := foldCase(strings.TrimSpace(city))
	return eventCity == want ||
		strings.Contains(eventCity, want) ||
		strings.Contains(want, eventCity)
}

// WindowRange computes the half-open interval [start, end) for a named
// window, anchored at local midnight of now.
func WindowRange(w DateWindow, now time.Time) (start, end time.Time, ok bool) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch w {
	case WindowToday:
		return midnight, midnight.AddDate(0, 0, 1), true
	case WindowTomorrow:
		return midnight.AddDate(0, 0, 1), midnight.AddDate(0, 0, 2), true
	case WindowThisWeek:
		return midnight, midnight.AddDate(0, 0, 7), true
	case WindowThisMonth:
		return midnight, midnight.AddDate(0, 1, 0), true
	case WindowNextThreeMonths:
		return midnight, midnight.AddDate(0, 3, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// MatchesWindow reports whether the event start falls inside the named
// window. An unknown or empty window matches everything.
func MatchesWindow(event models.Event, w DateWindow, now time.Time) bool {
	start, end, ok := WindowRange(w, now)
	if !ok {
		return true
	}
	s := event.StartDate
	return !s.Before(start) && s.Before(end)
}

// MatchesPriceBand reports whether the event price falls inside the named
// band. An unknown or empty band matches everything.
func MatchesPriceBand(event models.Event, band PriceBand) bool {
	switch band {
	case BandFree:
		return event.Price == 0
	case BandBelowThreshold:
		return event.Price > 0 && event.Price < DefaultPriceThreshold
	case BandAtOrAboveThreshold:
		return event.Price >= DefaultPriceThreshold
	default:
		return true
	}
}

// MatchesQuery reports a case-insensitive substring match against title,
// description and location.
func MatchesQuery(event models.Event, query string) bool {
	q := foldCase(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(foldCase(event.Title), q) ||
		strings.Contains(foldCase(event.Description), q) ||
		strings.Contains(foldCase(event.Location), q)
}

// Apply filters events by the composed predicates and truncates to
// f.Limit. The input slice is never mutated.
func Apply(events []models.Event, f Filters, now time.Time) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if !MatchesCity(e, f.City) {
			continue
		}
		if !MatchesWindow(e, f.Window, now) {
			continue
		}
		if !MatchesPriceBand(e, f.PriceBand) {
			continue
		}
		out = append(out, e)
	}
	return truncate(out, f.Limit)
}

// SortByRelevance orders events for a free-text query: events whose title
// contains the query come before events matching only in description or
// location; within each group the order is case-insensitive alphabetical by
// title. Sorting is done in place on a copy of the slice header's backing
// order, so callers see a stably reordered slice.
func SortByRelevance(events []models.Event, query string) []models.Event {
	q := foldCase(strings.TrimSpace(query))
	sorted := make([]models.Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		titleI := foldCase(sorted[i].Title)
		titleJ := foldCase(sorted[j].Title)
		inTitleI := strings.Contains(titleI, q)
		inTitleJ := strings.Contains(titleJ, q)
		if inTitleI != inTitleJ {
			return inTitleI
		}
		return titleI < titleJ
	})
	return sorted
}

// Search filters events by query and the composed predicates, orders the
// matches by relevance and truncates last, so the limit never hides a more
// relevant match.
func Search(events []models.Event, query string, f Filters, now time.Time) []models.Event {
	matched := make([]models.Event, 0, len(events))
	for _, e := range events {
		if MatchesQuery(e, query) {
			matched = append(matched, e)
		}
	}
	matched = SortByRelevance(matched, query)
	limit := f.Limit
	f.Limit = 0
	filtered := Apply(matched, f, now)
	return truncate(filtered, limit)
}

// UniqueCities extracts the sorted, de-duplicated city list from raw event
// locations, with the all-cities sentinel prepended.
func UniqueCities(locations []string) []string {
	seen := make(map[string]struct{}, len(locations))
	cities := make([]string, 0, len(locations))
	for _, location := range locations {
		city := CityOf(location)
		if city == "" {
			continue
		}
		if _, dup := seen[city]; dup {
			continue
		}
		seen[city] = struct{}{}
		cities = append(cities, city)
	}
	sort.Strings(cities)
	return append([]string{AllCitiesSentinel}, cities...)
}

func truncate(events []models.Event, limit int) []models.Event {
	if limit > 0 && len(events) > limit {
		return events[:limit]
	}
	return events
}
