package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMICForSymbol(t *testing.T) {
	assert.Equal(t, "xnse", MICForSymbol("VEDL.NS"))
	assert.Equal(t, "xlon", MICForSymbol("BP.L"))
	assert.Equal(t, "xnys", MICForSymbol("AAPL"))
	assert.Equal(t, "xnys", MICForSymbol("BRK.B"))
	assert.Equal(t, "xnys", MICForSymbol(".NS"))
}

func TestFallbackCalendarCountsWeekdays(t *testing.T) {
	tc := &TradingCalendar{Fallback: true, Timezone: time.UTC}

	// Mon 2024-01-01 .. Sun 2024-01-14: two full weeks
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 10, tc.CountSessions(start, start.AddDate(0, 0, 14)))
	assert.Equal(t, 0, tc.CountSessions(start, start))
}

func TestNYSECalendarSkipsHolidays(t *testing.T) {
	tc := GetCalendar("AAPL", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if tc.Fallback {
		t.Skip("xnys calendar unavailable")
	}

	assert.False(t, tc.IsTradingDay(time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC)))
	assert.True(t, tc.IsTradingDay(time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC)))
	assert.False(t, tc.IsTradingDay(time.Date(2024, 12, 28, 0, 0, 0, 0, time.UTC)))
}

func TestCalendarCoversTheFullHistoricalRange(t *testing.T) {
	for _, symbol := range []string{"AAPL", "HSBA.L", "VEDL.NS"} {
		tc := GetCalendar(symbol, StartDate(), EndDate())

		var n int
		assert.NotPanics(t, func() { n = tc.CountSessions(StartDate(), EndDate()) }, symbol)
		// 2869 weekdays in the range; exchange holidays only take days away
		assert.LessOrEqual(t, n, 2869, symbol)
		assert.Greater(t, n, 2600, symbol)
	}
}

func TestCalendarOutsideBuiltYearsCountsWeekdays(t *testing.T) {
	tc := GetCalendar("AAPL", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	// Thu 2015-12-24 / Fri 2015-12-25: outside the built years, so plain weekday rules
	assert.NotPanics(t, func() {
		assert.True(t, tc.IsTradingDay(time.Date(2015, 12, 25, 0, 0, 0, 0, time.UTC)))
	})
	assert.False(t, tc.IsTradingDay(time.Date(2015, 12, 26, 0, 0, 0, 0, time.UTC)))
}
