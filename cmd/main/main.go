package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"market-dashboard/src/carousel"
	"market-dashboard/src/chat"
	"market-dashboard/src/config"
	pb "market-dashboard/src/grpc_control"
	"market-dashboard/src/logger"
	"market-dashboard/src/metrics"
	"market-dashboard/src/models"
	"market-dashboard/src/server"
)

// -----------------------------------------------------------------------------

func main() {

	// Parse command line flags
	configPath := flag.String("config", "config/default.yaml", "path to config file")
	envPath := flag.String("env", ".env", "optional .env file with API keys")
	flag.Parse()

	// Load config from YAML file
	conf, err := config.NewConfig(*configPath, *envPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	appLogger := logger.NewLogger(conf.MConfig, conf.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage and transport
	db, err := setupDatabase(conf.MConfig, appLogger)
	if err != nil {
		os.Exit(1)
	}
	networkManager := setupNetwork(conf.MConfig)
	m := metrics.NewMetrics()

	// 2. Chart pipeline
	src := setupSources(conf.MConfig, networkManager, appLogger)
	charts, cache := setupCharts(ctx, conf.MConfig, src.Registry, db, m, appLogger)
	nav := carousel.NewController(ctx, charts, conf.Chart.DefaultPeriod, logger.NewLogger(conf.MConfig, "Carousel"))

	// 3. Panels
	overview := setupOverview(conf.MConfig, src, networkManager)
	newsService := setupNews(conf.MConfig, src)
	chatClient := chat.NewClient(conf.Chat, networkManager, logger.NewLogger(conf.MConfig, "Chat"))

	// 4. Servers
	srv := server.NewDashboardServer(*conf.MConfig, server.Services{
		Charts:   charts,
		Carousel: nav,
		Overview: overview,
		News:     newsService,
		Chat:     chatClient,
	}, m, logger.NewLogger(conf.MConfig, "Server"))

	nav.OnChange(func(state models.MCarouselState) {
		srv.Broadcast(models.MDashboardUpdate{Topic: models.TopicCarousel, Payload: state})
		if state.Active != nil && state.Active.Chart != nil {
			srv.Broadcast(models.MDashboardUpdate{Topic: models.TopicChart, Payload: charts.View(*state.Active.Chart)})
		}
	})

	control := pb.NewControlService(charts, nav, logger.NewLogger(conf.MConfig, "ControlService"))
	control.Cache = cache
	control.DefaultPeriod = conf.Chart.DefaultPeriod
	control.Routes = src.Registry
	control.Market = overview.Market

	grpcServer, err := startServers(srv, control, conf.MConfig, appLogger)
	if err != nil {
		appLogger.Critical("Failed to start servers: %v", err)
		os.Exit(1)
	}

	// 5. Polling
	sched, err := setupScheduler(conf.MConfig, overview, nav, newsService, srv, db, m)
	if err != nil {
		appLogger.Critical("Failed to configure scheduler: %v", err)
		os.Exit(1)
	}
	sched.Start(ctx)

	appLogger.Info("Dashboard running on %s:%d", conf.Host, conf.Port)
	<-ctx.Done()

	// Graceful shutdown
	appLogger.Info("Shutting down...")
	sched.Stop()
	if grpcServer != nil {
		stopGRPC(grpcServer, 5*time.Second)
	}
	if err := srv.Stop(); err != nil {
		appLogger.Warning("HTTP shutdown: %v", err)
	}
	nav.Wait()
	if db != nil {
		if err := db.Close(); err != nil {
			appLogger.Warning("Closing storage: %v", err)
		}
	}
	appLogger.Info("Shutdown complete.")
}

// -----------------------------------------------------------------------------

// stopGRPC drains in-flight calls, forcing a stop after timeout.
func stopGRPC(s interface {
	GracefulStop()
	Stop()
}, timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		s.Stop()
	}
}
