// scout/utils/types/scrape.go
package types

import (
	"scout/scout/agents/core"
)

type ScrapeRequest struct {
	Query string `json:"query"`
}

type ScrapeResponse struct {
	Success  bool           `json:"success"`
	Data     []core.Record  `json:"data"`
	Message  string         `json:"message"`
	URL      string         `json:"url,omitempty"`
	Strategy *core.Strategy `json:"strategy,omitempty"`
	RunID    string         `json:"run_id,omitempty"`
}

// Event types sent on the scrape websocket.
const (
	EventStage  = "stage"
	EventResult = "result"
	EventError  = "error"
)

type ScrapeEvent struct {
	Type   string          `json:"type"`
	Stage  string          `json:"stage,omitempty"`
	RunID  string          `json:"run_id,omitempty"`
	Data   any             `json:"data,omitempty"`
	Result *ScrapeResponse `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type PageRequest struct {
	URL string `json:"url"`
}

type PageStats struct {
	Size      int `json:"size"`
	Available int `json:"available"`
}

type HealthResponse struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
	Pages      *PageStats      `json:"pages,omitempty"`
}
