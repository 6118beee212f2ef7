package server

import (
	"net/http"
	"strings"

	"market-dashboard/src/carousel"
	"market-dashboard/src/chart"
	"market-dashboard/src/helpers"
	"market-dashboard/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	var latest int64
	s.stateMutex.RLock()
	for _, u := range s.latest {
		if u.Timestamp > latest {
			latest = u.Timestamp
		}
	}
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   s.Connections(),
		"latest_update": latest,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getPeriods(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": s.defaultPeriod(),
		"periods": chart.Periods(),
	})
}

// -----------------------------------------------------------------------------

// defaultPeriod is the configured chart period, or the catalog default.
func (s *DashboardServer) defaultPeriod() string {
	if p := s.Config.Chart.DefaultPeriod; chart.IsKnownPeriod(p) {
		return p
	}
	return chart.DefaultPeriod
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getChart(c *gin.Context) {
	symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol")))
	if symbol == "" {
		respondError(c, helpers.NewValidationError("symbol is required"))
		return
	}
	period := c.DefaultQuery("period", s.defaultPeriod())
	category := strings.ToLower(c.DefaultQuery("category", models.CategoryStocks))

	res := s.Services.Charts.Get(c.Request.Context(), category, symbol, period)
	c.JSON(http.StatusOK, s.Services.Charts.View(res))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getOverview(c *gin.Context) {
	c.JSON(http.StatusOK, s.Services.Overview.Latest())
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getNews(c *gin.Context) {
	category := strings.ToLower(c.DefaultQuery("category", "global"))

	items, ok := s.Services.News.Latest(category)
	if !ok {
		items = s.Services.News.Fetch(c.Request.Context(), category)
	}
	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"items":    items,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postChat(c *gin.Context) {
	var req models.MChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, helpers.NewValidationError("invalid chat request: %v", err))
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		respondError(c, helpers.NewValidationError("user_input is required"))
		return
	}
	c.JSON(http.StatusOK, s.Services.Chat.Send(c.Request.Context(), req))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getCarousel(c *gin.Context) {
	c.JSON(http.StatusOK, s.Services.Carousel.Snapshot())
}

// -----------------------------------------------------------------------------

type navigateRequest struct {
	Index    *int   `json:"index"`
	Category string `json:"category"`
	Period   string `json:"period"`
}

func (s *DashboardServer) postCarousel(c *gin.Context) {
	var req navigateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, helpers.NewValidationError("invalid carousel request: %v", err))
			return
		}
	}

	state, err := carousel.Navigate(s.Services.Carousel, c.Param("action"), req.Index, req.Category, req.Period)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) deleteCache(c *gin.Context) {
	var cleared int
	if symbol := strings.ToUpper(strings.TrimSpace(c.Query("symbol"))); symbol != "" {
		cleared = s.Services.Charts.Invalidate(symbol)
	} else {
		cleared = s.Services.Charts.Clear()
	}
	c.JSON(http.StatusOK, gin.H{"cleared": cleared})
}

// -----------------------------------------------------------------------------

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if helpers.IsValidation(err) {
		status = http.StatusBadRequest
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
