package main

import (
	"context"
	"strings"
	"time"

	"market-dashboard/src/analysis"
	"market-dashboard/src/carousel"
	datasource "market-dashboard/src/data_source"
	"market-dashboard/src/data_source/alphavantage"
	"market-dashboard/src/data_source/finnhub"
	"market-dashboard/src/data_source/marketaux"
	"market-dashboard/src/data_source/yahoo"
	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/market"
	"market-dashboard/src/metrics"
	"market-dashboard/src/models"
	"market-dashboard/src/network"
	"market-dashboard/src/news"
	"market-dashboard/src/scheduler"
	"market-dashboard/src/storage"
	"market-dashboard/src/utils"
)

// warmWindow bounds how old a stored snapshot may be to seed the cache.
const warmWindow = 24 * time.Hour

// cleanupInterval is how often expired snapshots are pruned.
const cleanupInterval = 6 * time.Hour

// sources groups the provider adapters shared by several components.
type sources struct {
	Registry     *datasource.SourceRegistry
	Finnhub      *finnhub.FinnhubSource
	Yahoo        *yahoo.YahooFinanceSource
	AlphaVantage *alphavantage.AlphaVantageSource
	Marketaux    *marketaux.MarketauxSource
}

// -----------------------------------------------------------------------------

// setupDatabase opens the configured snapshot store; nil when persistence is off.
func setupDatabase(config *models.MConfig, appLogger *logger.Logger) (interfaces.IDatabase, error) {
	db, err := storage.NewDatabase(*config, logger.NewLogger(config, "Storage"))
	if err != nil {
		appLogger.Critical("Failed to init db: %v", err)
		return nil, err
	}
	return db, nil
}

// -----------------------------------------------------------------------------

// setupNetwork initializes the network manager
func setupNetwork(config *models.MConfig) interfaces.INetworkManager {
	return network.NewNetworkManager(config.Network, logger.NewLogger(config, "NetworkManager"))
}

// -----------------------------------------------------------------------------

// setupSources builds the adapters and routes chart categories to them.
func setupSources(config *models.MConfig, netMgr interfaces.INetworkManager, appLogger *logger.Logger) sources {
	p := config.Providers
	s := sources{
		Registry:     datasource.NewSourceRegistry(logger.NewLogger(config, "SourceRegistry")),
		Finnhub:      finnhub.NewFinnhubSource(p.Finnhub, netMgr, logger.NewLogger(config, "Finnhub")),
		Yahoo:        yahoo.NewYahooFinanceSource(p.Yahoo, netMgr, logger.NewLogger(config, "Yahoo")),
		AlphaVantage: alphavantage.NewAlphaVantageSource(p.AlphaVantage, netMgr, logger.NewLogger(config, "AlphaVantage")),
		Marketaux:    marketaux.NewMarketauxSource(p.Marketaux, netMgr, logger.NewLogger(config, "Marketaux")),
	}

	var stocks interfaces.ISourceAdapter = s.Finnhub
	if strings.EqualFold(config.Chart.StockSource, yahoo.SourceName) {
		stocks = s.Yahoo
	}
	s.Registry.Register(models.CategoryStocks, stocks)
	s.Registry.Register(models.CategoryCommodities, s.AlphaVantage)

	// Indian indices are only quoted by Yahoo
	for _, inst := range market.DefaultIndices {
		if inst.Index {
			s.Registry.Override(inst.Symbol, s.Yahoo)
		}
	}

	appLogger.Info("Chart routes: %v", s.Registry.Routes())
	return s
}

// -----------------------------------------------------------------------------

// setupCharts builds the cache-fronted chart facade and warms it from storage.
func setupCharts(ctx context.Context, config *models.MConfig, router interfaces.IChartRouter, db interfaces.IDatabase, m *metrics.Metrics, appLogger *logger.Logger) (*analysis.ChartFacade, *utils.ChartCache) {
	cache := utils.NewChartCache(config.Chart.CacheMaxEntries, time.Duration(config.Chart.CacheTTLSeconds)*time.Second)
	facade := analysis.NewChartFacade(router, cache, config.Chart, logger.NewLogger(config, "Charts"))
	facade.Store = db
	facade.Metrics = m

	if db != nil {
		if _, err := facade.Warm(ctx, time.Now().Add(-warmWindow)); err != nil {
			appLogger.Warning("Failed to warm chart cache: %v", err)
		}
	}
	return facade, cache
}

// -----------------------------------------------------------------------------

// setupOverview wires quotes, currency rates and market hours into the overview.
func setupOverview(config *models.MConfig, src sources, netMgr interfaces.INetworkManager) *market.OverviewService {
	currency := market.NewCurrencyClient(config.Providers.ExchangeRate, netMgr, logger.NewLogger(config, "Currency"))

	var quotes interfaces.IQuoteSource = src.Finnhub
	if strings.EqualFold(config.Chart.StockSource, yahoo.SourceName) {
		quotes = src.Yahoo
	}
	overview := market.NewOverviewService(quotes, src.Yahoo, currency, logger.NewLogger(config, "Overview"))

	marketLogger := logger.NewLogger(config, "MarketHours")
	overview.Market = utils.NewMarketScheduler(overview.Symbols(), marketLogger)
	return overview
}

// -----------------------------------------------------------------------------

// setupNews routes regional categories to Marketaux and the rest to Finnhub.
func setupNews(config *models.MConfig, src sources) *news.Service {
	return news.NewService(src.Finnhub, src.Marketaux, logger.NewLogger(config, "News"))
}

// -----------------------------------------------------------------------------

// setupScheduler registers the polling jobs.
func setupScheduler(
	config *models.MConfig,
	overview *market.OverviewService,
	nav *carousel.Controller,
	newsService *news.Service,
	exchange interfaces.IDataExchanger,
	db interfaces.IDatabase,
	m *metrics.Metrics,
) (*scheduler.Scheduler, error) {
	schedLogger := logger.NewLogger(config, "Scheduler")
	sched := scheduler.NewScheduler(schedLogger)
	sched.Metrics = m

	sc := config.Scheduler
	overviewJob := &scheduler.OverviewJob{
		Overview:        overview,
		Carousel:        nav,
		Exchange:        exchange,
		Market:          overview.Market,
		MarketHoursOnly: sc.MarketHoursOnly,
		Logger:          schedLogger,
	}
	if err := sched.AddJob(time.Duration(sc.OverviewIntervalSeconds)*time.Second, overviewJob); err != nil {
		return nil, err
	}

	for _, category := range sc.NewsCategories {
		job := &scheduler.NewsJob{News: newsService, Category: category, Exchange: exchange}
		if err := sched.AddJob(time.Duration(sc.NewsIntervalSeconds)*time.Second, job); err != nil {
			return nil, err
		}
	}

	if db != nil {
		if err := sched.AddJob(cleanupInterval, &scheduler.CleanupJob{Store: db, Logger: schedLogger}); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
