package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers "was the exchange open that day" using scmhub/calendar.
type TradingCalendar struct {
	MIC       string
	Calendar  *calendar.Calendar
	Fallback  bool
	Timezone  *time.Location
	FirstYear int // years the library calendar was built for
	LastYear  int
}

// Ticker suffix -> MIC code (ISO 10383). Symbols without a suffix trade in New York.
var suffixMIC = map[string]string{
	".NS": "xnse",
	".BO": "xbom",
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".BR": "xbru",
	".MI": "xmil",
	".MC": "xmad",
	".ST": "xsto",
	".CO": "xcse",
	".HE": "xhel",
	".VI": "xwbo",
	".SW": "xswx",
	".TO": "xtse",
	".V":  "xtsx",
	".T":  "xtks",
	".HK": "xhkg",
	".AX": "xasx",
	".KS": "xkrx",
	".TW": "xtai",
	".SS": "xshg",
	".SZ": "xshe",
}

// -----------------------------------------------------------------------------

// MICForSymbol maps a ticker to its exchange MIC, "xnys" when unknown.
func MICForSymbol(symbol string) string {
	if i := strings.LastIndex(symbol, "."); i > 0 {
		if mic, ok := suffixMIC[strings.ToUpper(symbol[i:])]; ok {
			return mic
		}
	}
	return "xnys"
}

// -----------------------------------------------------------------------------

// GetCalendar returns the symbol's exchange calendar covering the years of [start, end].
// scmhub/calendar panics on dates outside the years it was built for, so the range must be known up front.
func GetCalendar(symbol string, start, end time.Time) *TradingCalendar {
	mic := MICForSymbol(symbol)
	first, last := start.Year(), end.Year()
	if last < first {
		last = first
	}

	// scmhub/calendar.GetCalendar returns a calendar by MIC for the requested years
	if cal := calendar.GetCalendar(mic, first, last); cal != nil {
		return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc, FirstYear: first, LastYear: last}
	}

	// Unknown to the library: weekdays only
	return &TradingCalendar{MIC: mic, Fallback: true, Timezone: time.UTC}
}

// -----------------------------------------------------------------------------

// IsTradingDay reports whether the calendar day of date is a session. date is read as a
// calendar date, not an instant.
func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Fallback || date.Year() < tc.FirstYear || date.Year() > tc.LastYear {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}

	// Noon local time keeps the date stable across timezone conversion
	local := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, tc.Timezone)
	return tc.Calendar.IsBusinessDay(local)
}

// -----------------------------------------------------------------------------

// CountSessions counts trading days in [start, end).
func (tc *TradingCalendar) CountSessions(start, end time.Time) int {
	n := 0
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		if tc.IsTradingDay(d) {
			n++
		}
	}
	return n
}
