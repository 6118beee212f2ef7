package models

type MChatRequest struct {
	SessionID string `json:"session_id"`
	UserInput string `json:"user_input"`
}

type MChatWorkflow struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
	Link  string   `json:"link"`
}

type MChatOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// MChatReply holds whichever fields the backend chose to send; none is required.
type MChatReply struct {
	Message        string          `json:"message,omitempty"`
	Workflows      []MChatWorkflow `json:"workflows,omitempty"`
	Options        []MChatOption   `json:"options,omitempty"`
	AvailableBanks []string        `json:"available_banks,omitempty"`
	Type           string          `json:"type,omitempty"`
}

type MChatResponse struct {
	SessionID string     `json:"session_id,omitempty"`
	Response  MChatReply `json:"response"`
	// Failed is set when the backend could not be reached.
	Failed bool `json:"failed,omitempty"`
}
