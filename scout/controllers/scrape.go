// scout/controllers/scrape.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"scout/scout/agents/core"
	"scout/scout/services/scraper"
	"scout/scout/utils/logging"
	"scout/scout/utils/types"

	"go.uber.org/zap"
)

// Runner executes the scrape pipeline for one query.
type Runner interface {
	Run(ctx context.Context, query string, onStep func(core.Step)) (core.Result, error)
}

// ScrapeController turns pipeline results into API responses.
type ScrapeController struct {
	runner Runner
}

func NewScrapeController(runner Runner) *ScrapeController {
	return &ScrapeController{runner: runner}
}

// Scrape runs the pipeline and returns the response body with its status.
func (c *ScrapeController) Scrape(ctx context.Context, req types.ScrapeRequest) (*types.ScrapeResponse, int) {
	return c.run(ctx, req.Query, nil)
}

// Stream runs the pipeline and reports every stage through send, followed
// by a result or error event.
func (c *ScrapeController) Stream(ctx context.Context, req types.ScrapeRequest, send func(types.ScrapeEvent) error) error {
	var sendErr error
	resp, status := c.run(ctx, req.Query, func(s core.Step) {
		if sendErr != nil {
			return
		}
		sendErr = send(types.ScrapeEvent{Type: types.EventStage, Stage: s.Stage, RunID: s.RunID, Data: s.Data})
	})
	if sendErr != nil {
		return sendErr
	}
	if status != http.StatusOK {
		return send(types.ScrapeEvent{Type: types.EventError, RunID: resp.RunID, Error: resp.Message, Result: resp})
	}
	return send(types.ScrapeEvent{Type: types.EventResult, RunID: resp.RunID, Result: resp})
}

func (c *ScrapeController) run(ctx context.Context, query string, onStep func(core.Step)) (*types.ScrapeResponse, int) {
	res, err := c.runner.Run(ctx, query, onStep)
	if err != nil {
		status := statusFor(err)
		logging.ErrorLogger.Error("Scraping failed",
			zap.String("run_id", res.RunID),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Error(err),
		)
		return failure(res, status, err), status
	}

	resp := &types.ScrapeResponse{
		Success:  true,
		Data:     res.Records,
		Message:  fmt.Sprintf("Successfully scraped %d items from %s", len(res.Records), res.URL),
		URL:      res.URL,
		Strategy: &res.Strategy,
		RunID:    res.RunID,
	}
	if resp.Data == nil {
		resp.Data = []core.Record{}
	}
	logging.AppLogger.Info(resp.Message, zap.String("run_id", res.RunID))
	return resp, http.StatusOK
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrEmptyQuery), errors.Is(err, core.ErrNoUsableURL):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func failure(res core.Result, status int, err error) *types.ScrapeResponse {
	var msg string
	switch {
	case errors.Is(err, core.ErrEmptyQuery):
		msg = "Query must not be empty"
	case errors.Is(err, core.ErrNoUsableURL):
		msg = "Could not determine target URL from query"
	case errors.Is(err, scraper.ErrRenderFailed):
		msg = "Failed to retrieve page content"
	default:
		msg = fmt.Sprintf("Scraping failed: %v", err)
	}
	resp := &types.ScrapeResponse{
		Success: false,
		Data:    []core.Record{},
		Message: msg,
		URL:     res.URL,
		RunID:   res.RunID,
	}
	if status != http.StatusBadRequest && res.Strategy.URL != "" {
		resp.Strategy = &res.Strategy
	}
	return resp
}
