package models

// Carousel categories.
const (
	CategoryStocks      = "stocks"
	CategoryCommodities = "commodities"
)

// MAssetState is the per-asset record displayed by the carousel.
type MAssetState struct {
	Symbol        string        `json:"symbol"`
	Name          string        `json:"name"`
	Category      string        `json:"category"`
	CurrentPrice  float64       `json:"current_price"`
	ChangePercent float64       `json:"change_percent"`
	Currency      string        `json:"currency"`
	Chart         *MChartResult `json:"chart,omitempty"`
	Stats         MChartStats   `json:"stats"`
	Loading       bool          `json:"loading"`
}

// MCarouselState is a point-in-time copy of the carousel.
type MCarouselState struct {
	Category string        `json:"category"`
	Index    int           `json:"index"`
	Period   string        `json:"period"`
	Active   *MAssetState  `json:"active,omitempty"`
	Assets   []MAssetState `json:"assets"`
}
