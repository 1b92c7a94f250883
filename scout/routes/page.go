package routes

import (
	"encoding/json"
	"net/http"

	"scout/scout/controllers"
	"scout/scout/utils/logging"
	"scout/scout/utils/types"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func PageRoutes(ctrl *controllers.PageController) chi.Router {
	r := chi.NewRouter()

	// POST /page/analyze
	r.Post("/analyze", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.PageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		return ctrl.Analyze(r.Context(), req.URL)
	}))

	// POST /page/screenshot
	r.Post("/screenshot", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.PageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		return ctrl.Screenshot(r.Context(), req.URL)
	}))

	// GET /page/screenshots/{key...}
	r.Get("/screenshots/*", func(w http.ResponseWriter, r *http.Request) {
		key := "screenshots/" + chi.URLParam(r, "*")
		data, status, err := ctrl.GetScreenshot(r.Context(), key)
		if err != nil {
			writeJSON(w, status, errorBody{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(status)
		if _, err := w.Write(data); err != nil {
			logging.ErrorLogger.Warn("Failed to write screenshot", zap.String("key", key), zap.Error(err))
		}
	})
	return r
}
