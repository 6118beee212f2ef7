package chat

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"market-dashboard/src/interfaces"
	"market-dashboard/src/logger"
	"market-dashboard/src/models"
)

// Apology is shown when the assistant backend cannot be reached.
const Apology = "Sorry, I'm having trouble connecting to the backend."

// Client forwards user messages to the banking assistant backend.
type Client struct {
	BaseURL string
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewClient(cfg models.MChatConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *Client {
	return &Client{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		Network: netMgr,
		Logger:  log,
	}
}

// -----------------------------------------------------------------------------

// Send posts one message. A missing session id is generated. Backend failures
// come back as a Failed response carrying the apology message.
func (c *Client) Send(ctx context.Context, req models.MChatRequest) models.MChatResponse {
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	body, err := c.Network.PostJSON(ctx, c.BaseURL+"/chat", req)
	if err != nil {
		c.Logger.Error("Chat backend request failed for session %s: %v", req.SessionID, err)
		return apology(req.SessionID)
	}

	var resp models.MChatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.Logger.Error("Chat backend sent malformed reply: %v", err)
		return apology(req.SessionID)
	}
	resp.SessionID = req.SessionID
	return resp
}

// -----------------------------------------------------------------------------

// Health probes the backend's /health endpoint.
func (c *Client) Health(ctx context.Context) error {
	_, err := c.Network.Get(ctx, c.BaseURL+"/health", nil)
	return err
}

// -----------------------------------------------------------------------------

func apology(sessionID string) models.MChatResponse {
	return models.MChatResponse{
		SessionID: sessionID,
		Response:  models.MChatReply{Message: Apology},
		Failed:    true,
	}
}
