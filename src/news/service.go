package news

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
	"market-dashboard/src/utils"
)

// MaxItems caps a category feed.
const MaxItems = 15

// SystemSource marks items produced by the service itself.
const SystemSource = "System"

// DefaultCategories are the feeds refreshed on a schedule.
var DefaultCategories = []string{"global", "india", "forex", "merger"}

// -----------------------------------------------------------------------------
// Service fetches category news. Regional and forex categories go to the
// regional source when set; everything else to the general source.
// -----------------------------------------------------------------------------

type Service struct {
	General  interfaces.INewsSource
	Regional interfaces.INewsSource // optional
	Regions  map[string]bool
	Logger   *logger.Logger
	Now      func() time.Time

	mu     sync.RWMutex
	latest map[string][]models.MNewsItem
}

// -----------------------------------------------------------------------------

func NewService(general, regional interfaces.INewsSource, log *logger.Logger) *Service {
	return &Service{
		General:  general,
		Regional: regional,
		Regions:  map[string]bool{"india": true, "forex": true},
		Logger:   log,
		Now:      time.Now,
		latest:   make(map[string][]models.MNewsItem),
	}
}

// -----------------------------------------------------------------------------

// Fetch returns up to MaxItems cleaned items for category. It never fails:
// errors and empty feeds become a single System item.
func (s *Service) Fetch(ctx context.Context, category string) []models.MNewsItem {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		category = "global"
	}

	source := s.General
	if s.Regions[category] && s.Regional != nil {
		source = s.Regional
	}

	raw, err := source.News(ctx, category)
	var items []models.MNewsItem
	switch {
	case err != nil:
		s.Logger.Error("Error fetching %s news: %v", category, err)
		items = []models.MNewsItem{s.systemItem(category, "Error loading news",
			fmt.Sprintf("Unable to fetch %s news. %v", category, err))}
	default:
		items = s.clean(category, raw)
		if len(items) == 0 {
			items = []models.MNewsItem{s.systemItem(category,
				fmt.Sprintf("No %s news available", category),
				"No news items found for this category.")}
		}
	}

	s.mu.Lock()
	s.latest[category] = items
	s.mu.Unlock()
	return items
}

// -----------------------------------------------------------------------------

// Latest returns the last fetched feed for category, if any.
func (s *Service) Latest(category string) ([]models.MNewsItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.latest[category]
	return items, ok
}

// -----------------------------------------------------------------------------

func (s *Service) clean(category string, raw []models.MNewsItem) []models.MNewsItem {
	now := s.Now()
	items := make([]models.MNewsItem, 0, len(raw))
	for _, item := range raw {
		item.Headline = CleanText(item.Headline)
		item.Summary = CleanText(item.Summary)
		if item.Headline == "" {
			continue
		}
		item.Category = category
		item.TimeAgo = utils.TimeAgo(item.Datetime, now)
		items = append(items, item)
	}
	if len(items) > MaxItems {
		items = items[:MaxItems]
	}
	return items
}

// -----------------------------------------------------------------------------

func (s *Service) systemItem(category, headline, summary string) models.MNewsItem {
	return models.MNewsItem{
		ID:       0,
		Category: category,
		Datetime: s.Now().Unix(),
		Headline: headline,
		Summary:  summary,
		Source:   SystemSource,
		URL:      "#",
	}
}
