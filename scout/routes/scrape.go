package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"scout/scout/agents/core"
	"scout/scout/controllers"
	"scout/scout/utils/logging"
	"scout/scout/utils/types"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

// scrapeHandler serves POST /scrape.
func scrapeHandler(ctrl *controllers.ScrapeController) http.HandlerFunc {
	return handleJSON(func(r *http.Request) (any, int, error) {
		var req types.ScrapeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return &types.ScrapeResponse{
				Success: false,
				Data:    []core.Record{},
				Message: "Invalid request body: " + err.Error(),
			}, http.StatusBadRequest, nil
		}
		resp, status := ctrl.Scrape(r.Context(), req)
		return resp, status, nil
	})
}

// scrapeStreamHandler serves GET /scrape/ws: the client sends
// {"query": ...} and the server streams stage events followed by a result
// or error event.
func scrapeStreamHandler(ctrl *controllers.ScrapeController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			logging.ErrorLogger.Error("websocket accept error", zap.Error(err))
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		var req types.ScrapeRequest
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			logging.ErrorLogger.Warn("websocket read error", zap.Error(err))
			conn.Close(websocket.StatusUnsupportedData, "expected {\"query\": string}")
			return
		}
		err = ctrl.Stream(ctx, req, func(e types.ScrapeEvent) error {
			return wsjson.Write(ctx, conn, e)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.ErrorLogger.Warn("websocket write error", zap.Error(err))
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	}
}
