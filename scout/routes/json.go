package routes

import (
	"encoding/json"
	"net/http"

	"scout/scout/utils/logging"

	"go.uber.org/zap"
)

type errorBody struct {
	Error string `json:"error"`
}

// handleJSON writes the handler result as JSON. A non-nil error becomes
// {"error": ...} with the returned status.
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
			writeJSON(w, status, errorBody{Error: err.Error()})
			return
		}
		writeJSON(w, status, res)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.ErrorLogger.Error("Failed to encode response", zap.Error(err))
	}
}
