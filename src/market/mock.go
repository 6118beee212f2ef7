package market

import "market-dashboard/src/models"

// Mock data served when providers return nothing usable.

func MockIndices() []models.MQuote {
	return []models.MQuote{
		{Symbol: "SPY", Name: "S&P 500", Price: 478.35, Change: 4.23, ChangePercent: 0.89, Currency: "$"},
		{Symbol: "QQQ", Name: "NASDAQ", Price: 396.87, Change: 3.45, ChangePercent: 0.88, Currency: "$"},
		{Symbol: "DIA", Name: "DOW JONES", Price: 373.16, Change: -1.45, ChangePercent: -0.39, Currency: "$"},
		{Symbol: "^NSEI", Name: "NIFTY 50", Price: 24180.25, Change: 178.50, ChangePercent: 0.74, Currency: "₹"},
	}
}

func MockTrending() []models.MQuote {
	return []models.MQuote{
		{Symbol: "NVDA", Name: "NVIDIA Corp", Price: 495.22, Change: 12.34, ChangePercent: 2.56, Currency: "$"},
		{Symbol: "TSLA", Name: "Tesla Inc", Price: 248.48, Change: -3.21, ChangePercent: -1.27, Currency: "$"},
		{Symbol: "AAPL", Name: "Apple Inc", Price: 189.84, Change: 2.15, ChangePercent: 1.15, Currency: "$"},
		{Symbol: "MSFT", Name: "Microsoft Corp", Price: 378.91, Change: 5.67, ChangePercent: 1.52, Currency: "$"},
		{Symbol: "GOOGL", Name: "Alphabet Inc", Price: 141.80, Change: 1.23, ChangePercent: 0.87, Currency: "$"},
	}
}

func MockGainers() []models.MQuote {
	return []models.MQuote{
		{Symbol: "AMD", Name: "Advanced Micro Devices", Price: 145.67, Change: 8.92, ChangePercent: 6.52, Currency: "$"},
		{Symbol: "NFLX", Name: "Netflix Inc", Price: 478.33, Change: 18.45, ChangePercent: 4.01, Currency: "$"},
		{Symbol: "META", Name: "Meta Platforms", Price: 356.78, Change: 12.34, ChangePercent: 3.58, Currency: "$"},
	}
}

func MockLosers() []models.MQuote {
	return []models.MQuote{
		{Symbol: "PYPL", Name: "PayPal Holdings", Price: 62.45, Change: -4.23, ChangePercent: -6.34, Currency: "$"},
		{Symbol: "SNAP", Name: "Snap Inc", Price: 11.23, Change: -0.78, ChangePercent: -6.49, Currency: "$"},
		{Symbol: "UBER", Name: "Uber Technologies", Price: 58.92, Change: -2.34, ChangePercent: -3.82, Currency: "$"},
	}
}

func MockCurrencies() models.MCurrencyRates {
	return models.MCurrencyRates{
		UsdInr: models.MCurrencyRate{Pair: "USD/INR", Rate: "83.15", Change: 0.2, Symbol: "₹"},
		EurInr: models.MCurrencyRate{Pair: "EUR/INR", Rate: "90.45", Change: -0.1, Symbol: "₹"},
		GbpInr: models.MCurrencyRate{Pair: "GBP/INR", Rate: "102.30", Change: 0.3, Symbol: "₹"},
	}
}

// MockOverview assembles every mock section.
func MockOverview() models.MMarketOverview {
	return models.MMarketOverview{
		Indices:    MockIndices(),
		Trending:   MockTrending(),
		Gainers:    MockGainers(),
		Losers:     MockLosers(),
		Currencies: MockCurrencies(),
	}
}
