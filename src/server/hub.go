package server

import (
	"encoding/json"
	"net/http"
	"time"

	"market-dashboard/src/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Topics clients may subscribe to.
var knownTopics = []string{
	models.TopicOverview,
	models.TopicNews,
	models.TopicCarousel,
	models.TopicChart,
}

type subscription struct {
	client *Client
	topics []string
}

// -----------------------------------------------------------------------------
// Hub Pattern Implementation
// -----------------------------------------------------------------------------

// runHub is the main Hub loop
func (s *DashboardServer) runHub() {
	for {
		select {
		case <-s.done:
			for client := range s.clients {
				s.dropClient(client)
			}
			return

		case client := <-s.register:
			s.clients[client] = struct{}{}
			s.connections.Add(1)
			s.Metrics.ClientConnected()

		case client := <-s.unregister:
			if _, ok := s.clients[client]; ok {
				s.dropClient(client)
			}

		case sub := <-s.subscribe:
			if _, ok := s.clients[sub.client]; !ok {
				continue
			}
			sub.client.topics = make(map[string]bool, len(sub.topics))
			for _, t := range sub.topics {
				sub.client.topics[t] = true
			}
			for _, t := range sub.topics {
				update, ok := s.Latest(t)
				if !ok {
					continue
				}
				update.Type = "INITIAL"
				if !s.deliver(sub.client, update) {
					break
				}
			}

		case message := <-s.broadcast:
			for client := range s.clients {
				if client.topics[message.Topic] {
					s.deliver(client, message)
				}
			}
		}
	}
}

// -----------------------------------------------------------------------------

// deliver queues update for client, dropping clients too slow to keep up.
func (s *DashboardServer) deliver(client *Client, update models.MDashboardUpdate) bool {
	select {
	case client.send <- update:
		return true
	default:
		s.Logger.Warning("WebSocket client too slow, disconnecting")
		s.dropClient(client)
		return false
	}
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) dropClient(client *Client) {
	delete(s.clients, client)
	close(client.send)
	s.connections.Add(-1)
	s.Metrics.ClientDisconnected()
}

// -----------------------------------------------------------------------------
// Data Exchange Interface Implementation
// -----------------------------------------------------------------------------

// Broadcast records update as its topic's latest state and queues it for
// subscribers. Updates are dropped when the queue is full.
func (s *DashboardServer) Broadcast(update models.MDashboardUpdate) {
	if update.Type == "" {
		update.Type = "UPDATE"
	}
	if update.Timestamp == 0 {
		update.Timestamp = time.Now().Unix()
	}

	s.stateMutex.Lock()
	s.latest[update.Topic] = update
	s.stateMutex.Unlock()

	select {
	case <-s.done:
	case s.broadcast <- update:
	default:
		s.Logger.Warning("Broadcast queue full, dropping %s update", update.Topic)
	}
}

// -----------------------------------------------------------------------------

// Latest returns the most recent update broadcast on topic.
func (s *DashboardServer) Latest(topic string) (models.MDashboardUpdate, bool) {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	update, ok := s.latest[topic]
	return update, ok
}

// -----------------------------------------------------------------------------
// WebSocket Handlers
// -----------------------------------------------------------------------------

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Info("Failed to upgrade websocket: %v", err)
		return
	}

	client := &Client{
		hub:  s,
		conn: conn,
		send: make(chan models.MDashboardUpdate, 64),
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// -----------------------------------------------------------------------------
// Client Message Handling
// -----------------------------------------------------------------------------

// HandleClientMessage applies a subscribe command. An empty topic list
// subscribes to every topic; unknown topics are ignored.
func (s *DashboardServer) HandleClientMessage(client *Client, message []byte) {
	var cmd models.MSubscribeCommand
	if err := json.Unmarshal(message, &cmd); err != nil {
		s.Logger.Info("Failed to parse client command: %v, disconnecting client", err)
		client.conn.Close()
		return
	}

	if cmd.Command != "subscribe" {
		return
	}

	select {
	case s.subscribe <- subscription{client: client, topics: filterTopics(cmd.Topics)}:
	case <-s.done:
	}
}

// -----------------------------------------------------------------------------

func filterTopics(requested []string) []string {
	if len(requested) == 0 {
		return knownTopics
	}
	out := make([]string, 0, len(requested))
	for _, t := range requested {
		for _, known := range knownTopics {
			if t == known {
				out = append(out, t)
				break
			}
		}
	}
	return out
}
