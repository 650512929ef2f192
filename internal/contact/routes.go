package contact

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxBodyBytes bounds the size of a submission body.
const maxBodyBytes = 64 << 10

// Response is returned on a successful submission.
type Response struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// RegisterRoutes mounts the contact endpoint on the given router. Only
// submission is exposed; stored messages are read through Store.List.
func RegisterRoutes(r chi.Router, store *Store, logger *zap.Logger) {
	r.Route(Path, func(r chi.Router) {
		r.Post("/", handleSubmit(store, logger))
	})
}

func handleSubmit(store *Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub Submission
		dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
		if err := dec.Decode(&sub); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		if err := sub.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		rec, err := store.Save(r.Context(), sub, r.RemoteAddr)
		if err != nil {
			logger.Error("Failed to store contact message", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "could not store message")
			return
		}

		logger.Info("Contact message received",
			zap.String("id", rec.ID),
			zap.String("subject", sub.Subject))
		writeJSON(w, http.StatusOK, Response{ID: rec.ID, Message: "Message received"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
