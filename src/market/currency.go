package market

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/shopspring/decimal"

	"market-dashboard/src/helpers"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// Fixed daily changes shown next to each INR cross.
const (
	usdInrChange = 0.2
	eurInrChange = -0.1
	gbpInrChange = 0.3
)

const rupee = "₹"

// CurrencyClient derives INR crosses from USD-based rates. The last good
// result is kept and served when a refresh fails.
type CurrencyClient struct {
	Config  models.MProviderConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger

	mu   sync.RWMutex
	last *models.MCurrencyRates
}

// -----------------------------------------------------------------------------

func NewCurrencyClient(cfg models.MProviderConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *CurrencyClient {
	return &CurrencyClient{Config: cfg, Network: netMgr, Logger: log}
}

// -----------------------------------------------------------------------------

type latestRates struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// -----------------------------------------------------------------------------

// Rates returns fresh crosses, else the last good ones, else the fixed
// fallback. live is false unless the provider answered this time.
func (c *CurrencyClient) Rates(ctx context.Context) (rates models.MCurrencyRates, live bool) {
	fresh, err := c.fetch(ctx)
	if err == nil {
		c.mu.Lock()
		c.last = &fresh
		c.mu.Unlock()
		return fresh, true
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.last != nil {
		c.Logger.Warning("Currency refresh failed, keeping last rates: %v", err)
		return *c.last, false
	}
	c.Logger.Warning("Currency refresh failed, using fallback rates: %v", err)
	return MockCurrencies(), false
}

// -----------------------------------------------------------------------------

func (c *CurrencyClient) fetch(ctx context.Context) (models.MCurrencyRates, error) {
	body, err := c.Network.Get(ctx, c.Config.BaseURL+"/v4/latest/USD", nil)
	if err != nil {
		return models.MCurrencyRates{}, err
	}

	var resp latestRates
	if err := json.Unmarshal(body, &resp); err != nil {
		return models.MCurrencyRates{}, helpers.NewDataSourceError("malformed exchange rates", err)
	}
	return CrossRates(resp.Rates)
}

// -----------------------------------------------------------------------------

// CrossRates computes USD/INR, EUR/INR and GBP/INR from USD-based rates.
func CrossRates(rates map[string]float64) (models.MCurrencyRates, error) {
	inr, eur, gbp := rates["INR"], rates["EUR"], rates["GBP"]
	if inr <= 0 || eur <= 0 || gbp <= 0 {
		return models.MCurrencyRates{}, helpers.NewDataSourceError("missing INR, EUR or GBP rate", nil)
	}

	usdInr := decimal.NewFromFloat(inr)
	return models.MCurrencyRates{
		UsdInr: models.MCurrencyRate{Pair: "USD/INR", Rate: usdInr.StringFixed(2), Change: usdInrChange, Symbol: rupee},
		EurInr: models.MCurrencyRate{Pair: "EUR/INR", Rate: usdInr.Div(decimal.NewFromFloat(eur)).StringFixed(2), Change: eurInrChange, Symbol: rupee},
		GbpInr: models.MCurrencyRate{Pair: "GBP/INR", Rate: usdInr.Div(decimal.NewFromFloat(gbp)).StringFixed(2), Change: gbpInrChange, Symbol: rupee},
	}, nil
}
