package utils

import (
	"sort"
	"sync"
	"time"

	"market-dashboard/src/logger"
)

// MarketScheduler tracks the exchanges behind the dashboard's symbols and
// reports whether any of them is trading.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar // by MIC
	Logger    *logger.Logger
	Now       func() time.Time
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(symbols []string, l *logger.Logger) *MarketScheduler {
	ms := &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
		Now:       time.Now,
	}
	ms.UpdateSymbols(symbols)
	return ms
}

// -----------------------------------------------------------------------------

// UpdateSymbols replaces the tracked exchanges.
func (ms *MarketScheduler) UpdateSymbols(symbols []string) {
	calendars := make(map[string]*TradingCalendar)
	for _, symbol := range symbols {
		cal := GetCalendar(symbol)
		if _, seen := calendars[cal.MIC]; !seen {
			calendars[cal.MIC] = cal
		}
	}

	ms.mu.Lock()
	ms.Calendars = calendars
	ms.mu.Unlock()

	ms.Logger.Info("MarketScheduler: Mapped %d symbols to %d exchanges.", len(symbols), len(calendars))
}

// -----------------------------------------------------------------------------

// Exchanges lists tracked MIC codes in sorted order.
func (ms *MarketScheduler) Exchanges() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	mics := make([]string, 0, len(ms.Calendars))
	for mic := range ms.Calendars {
		mics = append(mics, mic)
	}
	sort.Strings(mics)
	return mics
}

// -----------------------------------------------------------------------------

// AnyMarketOpen reports whether at least one tracked exchange is open now.
func (ms *MarketScheduler) AnyMarketOpen() bool {
	return ms.AnyMarketOpenAt(ms.Now())
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) AnyMarketOpenAt(t time.Time) bool {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	for _, cal := range ms.Calendars {
		if cal.IsOpenOnMinute(t.UTC()) {
			return true
		}
	}
	return false
}
