package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers market-hours questions for one exchange.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// exchangeBySymbol pins symbols whose exchange cannot be read from a suffix.
var exchangeBySymbol = map[string]string{
	"^NSEI":  "xnse",
	"^BSESN": "xbom",
	"^FTSE":  "xlon",
	"^N225":  "xtks",
	"^HSI":   "xhkg",
}

// exchangeBySuffix maps Yahoo-style suffixes onto ISO 10383 MIC codes.
var exchangeBySuffix = map[string]string{
	".NS": "xnse",
	".BO": "xbom",
	".L":  "xlon",
	".PA": "xpar",
	".DE": "xfra",
	".AS": "xams",
	".T":  "xtks",
	".HK": "xhkg",
	".TO": "xtse",
	".AX": "xasx",
}

// -----------------------------------------------------------------------------

// ExchangeFor returns the MIC a symbol trades on; US listings, ETFs and
// anything unrecognised map to NYSE.
func ExchangeFor(symbol string) string {
	if mic, ok := exchangeBySymbol[strings.ToUpper(symbol)]; ok {
		return mic
	}
	for suffix, mic := range exchangeBySuffix {
		if strings.HasSuffix(strings.ToUpper(symbol), suffix) {
			return mic
		}
	}
	return "xnys"
}

// -----------------------------------------------------------------------------

func GetCalendar(symbol string) *TradingCalendar {
	mic := ExchangeFor(symbol)

	cal := calendar.GetCalendar(mic)
	if cal == nil {
		mic = "xnys"
		cal = calendar.GetCalendar(mic)
	}

	if cal == nil {
		// Mon-Fri 09:30-16:00 New York
		nyLoc, err := time.LoadLocation("America/New_York")
		if err != nil {
			nyLoc = time.UTC
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at t.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}
		minutes := t.Hour()*60 + t.Minute()
		return minutes >= 9*60+30 && minutes < 16*60
	}

	return tc.Calendar.IsOpen(t)
}
