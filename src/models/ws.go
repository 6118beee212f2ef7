package models

// WebSocket topics.
const (
	TopicOverview = "overview"
	TopicNews     = "news"
	TopicCarousel = "carousel"
	TopicChart    = "chart"
)

// MDashboardUpdate is the envelope pushed to WebSocket clients.
type MDashboardUpdate struct {
	Type      string      `json:"type"` // "INITIAL" or "UPDATE"
	Topic     string      `json:"topic"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MSubscribeCommand for client messages
type MSubscribeCommand struct {
	Command string   `json:"command"`
	Topics  []string `json:"topics"`
}
