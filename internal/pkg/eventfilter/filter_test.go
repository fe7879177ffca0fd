package eventfilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventify/eventify-go/internal/app/models"
)

func eventAt(title, location string, start time.Time, price float64) models.Event {
	return models.Event{
		Title:     title,
		Location:  location,
		StartDate: start,
		Price:     price,
	}
}

func titles(events []models.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Title)
	}
	return out
}

func TestCityOf(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"İstanbul, Blue Note", "İstanbul"},
		{"Ankara, Arena", "Ankara"},
		{"İzmir", "İzmir"},
		{"  İstanbul ,  Zorlu PSM ", "İstanbul"},
		{"İstanbul, Kadıköy, Moda Sahnesi", "İstanbul"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CityOf(tt.location), "location %q", tt.location)
	}
}

func TestMatchesCityPermissive(t *testing.T) {
	ev := eventAt("Jazz Night", "İstanbul Avrupa, Blue Note", time.Time{}, 0)

	assert.True(t, MatchesCity(ev, "İstanbul Avrupa"), "exact")
	assert.True(t, MatchesCity(ev, "istanbul avrupa"), "case-insensitive exact")
	assert.True(t, MatchesCity(ev, "İstanbul"), "filter contained in event city")
	assert.True(t, MatchesCity(ev, "İstanbul Avrupa Yakası"), "event city contained in filter")
	assert.False(t, MatchesCity(ev, "Ankara"))
	assert.True(t, MatchesCity(ev, ""), "empty filter matches all")
	assert.True(t, MatchesCity(ev, AllCitiesSentinel))
}

func TestMatchesCityDottedCapitalI(t *testing.T) {
	// Unicode folding turns İ into "i" plus a combining dot, which would
	// never equal an ASCII "i". All spellings of the city must match.
	ev := eventAt("Opera Gala", "İstanbul, AKM", time.Time{}, 0)

	for _, city := range []string{"İstanbul", "Istanbul", "istanbul", "ISTANBUL"} {
		assert.True(t, MatchesCity(ev, city), "city %q", city)
	}

	asciiEv := eventAt("Jazz Night", "Istanbul, Blue Note", time.Time{}, 0)
	assert.True(t, MatchesCity(asciiEv, "İstanbul"), "dotted filter against ascii location")
}

func TestMatchesQueryDottedCapitalI(t *testing.T) {
	ev := models.Event{Title: "İstanbul Caz Gecesi", Location: "İstanbul, AKM"}

	assert.True(t, MatchesQuery(ev, "istanbul"))
	assert.True(t, MatchesQuery(ev, "Istanbul"))
	assert.True(t, MatchesQuery(ev, "İstanbul"))
}

func TestDateWindows(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	todayEvening := eventAt("a", "", time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local), 0)
	justTomorrow := eventAt("b", "", time.Date(2024, 6, 11, 0, 0, 1, 0, time.Local), 0)
	nextWeek := eventAt("c", "", time.Date(2024, 6, 18, 12, 0, 0, 0, time.Local), 0)
	inTwoMonths := eventAt("d", "", time.Date(2024, 8, 9, 12, 0, 0, 0, time.Local), 0)

	assert.True(t, MatchesWindow(todayEvening, WindowToday, now))
	assert.False(t, MatchesWindow(justTomorrow, WindowToday, now))

	assert.True(t, MatchesWindow(justTomorrow, WindowTomorrow, now))
	assert.False(t, MatchesWindow(todayEvening, WindowTomorrow, now))

	assert.True(t, MatchesWindow(todayEvening, WindowThisWeek, now))
	assert.False(t, MatchesWindow(nextWeek, WindowThisWeek, now))

	assert.True(t, MatchesWindow(nextWeek, WindowThisMonth, now))
	assert.False(t, MatchesWindow(inTwoMonths, WindowThisMonth, now))

	assert.True(t, MatchesWindow(inTwoMonths, WindowNextThreeMonths, now))

	// Unknown window matches everything.
	assert.True(t, MatchesWindow(inTwoMonths, DateWindow("someday"), now))
}

func TestWindowIsHalfOpen(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 30, 0, 0, time.Local)

	atMidnight := eventAt("start", "", time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local), 0)
	atNextMidnight := eventAt("end", "", time.Date(2024, 6, 11, 0, 0, 0, 0, time.Local), 0)

	assert.True(t, MatchesWindow(atMidnight, WindowToday, now), "interval includes start")
	assert.False(t, MatchesWindow(atNextMidnight, WindowToday, now), "interval excludes end")
}

func TestPriceBands(t *testing.T) {
	prices := []float64{0, 50, 100, 200}
	events := make([]models.Event, 0, len(prices))
	for _, p := range prices {
		events = append(events, eventAt("e", "", time.Time{}, p))
	}

	count := func(band PriceBand) []float64 {
		var out []float64
		for _, e := range events {
			if MatchesPriceBand(e, band) {
				out = append(out, e.Price)
			}
		}
		return out
	}

	assert.Equal(t, []float64{0}, count(BandFree))
	assert.Equal(t, []float64{50}, count(BandBelowThreshold), "0 is free, 100 is not strictly below")
	assert.Equal(t, []float64{100, 200}, count(BandAtOrAboveThreshold))
	assert.Equal(t, []float64{0, 50, 100, 200}, count(BandAll))
}

func TestFilterCompositionIsCommutative(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	events := []models.Event{
		eventAt("Jazz Night", "İstanbul, Blue Note", time.Date(2024, 6, 10, 20, 0, 0, 0, time.Local), 0),
		eventAt("Rock Fest", "Ankara, Arena", time.Date(2024, 6, 10, 18, 0, 0, 0, time.Local), 150),
		eventAt("Opera Gala", "İstanbul, AKM", time.Date(2024, 7, 20, 19, 0, 0, 0, time.Local), 80),
		eventAt("Standup", "İstanbul, BKM", time.Date(2024, 6, 10, 21, 0, 0, 0, time.Local), 60),
	}

	combined := Apply(events, Filters{City: "İstanbul", Window: WindowToday, PriceBand: BandBelowThreshold}, now)

	// Apply the same predicates one at a time in a different order.
	step := Apply(events, Filters{PriceBand: BandBelowThreshold}, now)
	step = Apply(step, Filters{Window: WindowToday}, now)
	step = Apply(step, Filters{City: "İstanbul"}, now)

	assert.Equal(t, titles(combined), titles(step))
	assert.Equal(t, []string{"Standup"}, titles(combined))
}

func TestSearchRelevanceOrdering(t *testing.T) {
	events := []models.Event{
		{Title: "Zebra Show", Description: "a night of jazz", Location: "İzmir, Arena"},
		{Title: "Night Market", Description: "street food", Location: "Ankara, Center"},
		{Title: "Acoustic Night", Description: "unplugged", Location: "Bursa, Hall"},
		{Title: "Theatre Gala", Description: "classics", Location: "Night District, İstanbul"},
	}

	got := Search(events, "night", Filters{}, time.Now())

	// Title matches first, alphabetical within each group.
	assert.Equal(t, []string{"Acoustic Night", "Night Market", "Theatre Gala", "Zebra Show"}, titles(got))
}

func TestSearchScenarioQueryWithCityFilter(t *testing.T) {
	events := []models.Event{
		eventAt("Jazz Night", "Istanbul, Blue Note", time.Now(), 0),
		eventAt("Rock Fest", "Ankara, Arena", time.Now(), 150),
	}

	got := Search(events, "night", Filters{City: "Istanbul"}, time.Now())

	require.Len(t, got, 1)
	assert.Equal(t, "Jazz Night", got[0].Title)
}

func TestSearchLimitAppliedAfterSorting(t *testing.T) {
	events := []models.Event{
		{Title: "z match in description", Description: "gala night"},
		{Title: "Gala Night"},
	}

	got := Search(events, "gala", Filters{Limit: 1}, time.Now())

	// The title match must survive the cap even though it appears later in
	// the input.
	require.Len(t, got, 1)
	assert.Equal(t, "Gala Night", got[0].Title)
}

func TestUniqueCities(t *testing.T) {
	locations := []string{
		"İstanbul, AKM",
		"Ankara, Arena",
		"İstanbul, Zorlu",
		"Bursa",
		"",
	}

	got := UniqueCities(locations)

	require.NotEmpty(t, got)
	assert.Equal(t, AllCitiesSentinel, got[0])
	assert.ElementsMatch(t, []string{"Ankara", "Bursa", "İstanbul"}, got[1:])
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	events := []models.Event{
		eventAt("b", "Ankara, Arena", time.Now(), 10),
		eventAt("a", "İstanbul, AKM", time.Now(), 10),
	}

	_ = Search(events, "a", Filters{}, time.Now())

	assert.Equal(t, []string{"b", "a"}, titles(events))
}
