package models

// MNewsItem is one cleaned news headline.
type MNewsItem struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Datetime int64  `json:"datetime"`
	Headline string `json:"headline"`
	Summary  string `json:"summary"`
	Source   string `json:"source"`
	URL      string `json:"url"`
	Image    string `json:"image,omitempty"`
	Related  string `json:"related"`
	TimeAgo  string `json:"time_ago,omitempty"`
}
