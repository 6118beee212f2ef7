package carousel

import (
	"strings"

	"market-dashboard/src/helpers"
	"market-dashboard/src/models"
)

// Navigator is the user-facing side of the carousel.
type Navigator interface {
	Snapshot() models.MCarouselState
	Next() models.MCarouselState
	Prev() models.MCarouselState
	SelectIndex(i int) (models.MCarouselState, error)
	SetCategory(category string) (models.MCarouselState, error)
	SetPeriod(period string) (models.MCarouselState, error)
}

// Action names accepted by Navigate.
const (
	ActionGet      = "get"
	ActionNext     = "next"
	ActionPrev     = "prev"
	ActionSelect   = "select"
	ActionCategory = "category"
	ActionPeriod   = "period"
)

// Navigate applies a named action. index is required for select.
func Navigate(n Navigator, action string, index *int, category, period string) (models.MCarouselState, error) {
	switch strings.ToLower(action) {
	case ActionNext:
		return n.Next(), nil
	case ActionPrev:
		return n.Prev(), nil
	case ActionSelect:
		if index == nil {
			return models.MCarouselState{}, helpers.NewValidationError("index is required")
		}
		return n.SelectIndex(*index)
	case ActionCategory:
		return n.SetCategory(strings.ToLower(category))
	case ActionPeriod:
		return n.SetPeriod(strings.ToUpper(period))
	case "", ActionGet:
		return n.Snapshot(), nil
	}
	return models.MCarouselState{}, helpers.NewValidationError("unknown carousel action %q", action)
}
