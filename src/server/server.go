package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"market-dashboard/src/carousel"
	"market-dashboard/src/logger"
	"market-dashboard/src/metrics"
	"market-dashboard/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Service contracts consumed by the HTTP layer
// -----------------------------------------------------------------------------

type ChartService interface {
	Get(ctx context.Context, category, symbol, period string) models.MChartResult
	View(res models.MChartResult) models.MChartView
	Invalidate(symbol string) int
	Clear() int
}

type OverviewProvider interface {
	Latest() models.MMarketOverview
}

type NewsProvider interface {
	Latest(category string) ([]models.MNewsItem, bool)
	Fetch(ctx context.Context, category string) []models.MNewsItem
}

type ChatSender interface {
	Send(ctx context.Context, req models.MChatRequest) models.MChatResponse
}

// Services bundles the backends behind the REST routes.
type Services struct {
	Charts   ChartService
	Carousel carousel.Navigator
	Overview OverviewProvider
	News     NewsProvider
	Chat     ChatSender
}

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config   models.MConfig
	Logger   *logger.Logger
	Metrics  *metrics.Metrics
	Services Services
	engine   *gin.Engine
	http     *http.Server

	// WebSocket clients, owned by the hub loop
	clients     map[*Client]struct{}
	broadcast   chan models.MDashboardUpdate // Buffered queue
	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	done        chan struct{}
	stopOnce    sync.Once
	connections atomic.Int64

	// Latest update per topic, replayed to new subscribers
	latest     map[string]models.MDashboardUpdate
	stateMutex sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(cfg models.MConfig, services Services, m *metrics.Metrics, log *logger.Logger) *DashboardServer {
	if strings.ToUpper(cfg.LogLevel) != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:     cfg,
		Logger:     log,
		Metrics:    m,
		Services:   services,
		engine:     gin.New(),
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan models.MDashboardUpdate, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		done:       make(chan struct{}),
		latest:     make(map[string]models.MDashboardUpdate),
	}

	s.engine.Use(gin.Recovery(), s.requestLogger(), corsMiddleware)
	s.setupRoutes()

	go s.runHub()
	return s
}

// -----------------------------------------------------------------------------

func corsMiddleware(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
	}
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/periods", s.getPeriods)
	api.GET("/chart", s.getChart)
	api.GET("/overview", s.getOverview)
	api.GET("/news", s.getNews)
	api.POST("/chat", s.postChat)
	api.GET("/carousel", s.getCarousel)
	api.POST("/carousel/:action", s.postCarousel)
	api.DELETE("/cache", s.deleteCache)

	if s.Metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------

// Handler exposes the routes for embedding and tests.
func (s *DashboardServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

// Start serves HTTP until Stop is called.
func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.stateMutex.Lock()
	select {
	case <-s.done:
		s.stateMutex.Unlock()
		return nil
	default:
	}
	s.http = &http.Server{Addr: addr, Handler: s.engine, ReadHeaderTimeout: 10 * time.Second}
	srv := s.http
	s.stateMutex.Unlock()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

// Stop shuts the listener down and disconnects every WebSocket client.
func (s *DashboardServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		s.stateMutex.Lock()
		close(s.done)
		srv := s.http
		s.stateMutex.Unlock()

		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			err = srv.Shutdown(ctx)
		}
	})
	return err
}

// -----------------------------------------------------------------------------

// Connections returns the number of live WebSocket clients.
func (s *DashboardServer) Connections() int {
	return int(s.connections.Load())
}
