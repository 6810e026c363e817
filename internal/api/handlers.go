package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
)

// handleIngest runs one ingestion pass synchronously and returns its summary.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	result, err := s.orchestrator.RunPass(r.Context())
	if err != nil {
		s.log.Error("ingestion pass failed", "error", err)
		// The result still carries cached notifications and the error list.
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(result)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// handleListNotifications returns stored notifications, newest update first.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			jsonError(w, "limit must be between 1 and 500", http.StatusBadRequest)
			return
		}
		limit = n
	}

	notifications, err := s.orchestrator.ListRecent(r.Context(), limit)
	if err != nil {
		jsonError(w, "failed to list notifications: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"count":         len(notifications),
		"notifications": notifications,
	})
}

// handleGetNotification returns one stored notification by canonical key or
// natural identifier.
func (s *Server) handleGetNotification(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	n, err := s.orchestrator.Get(r.Context(), key)
	if err != nil {
		jsonError(w, "failed to load notification: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if n == nil {
		jsonError(w, "notification not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(n)
}

// handleNotificationSummary renders the assistant's markdown summary as HTML
// for embedding clients.
func (s *Server) handleNotificationSummary(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	n, err := s.orchestrator.Get(r.Context(), key)
	if err != nil {
		jsonError(w, "failed to load notification: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if n == nil {
		jsonError(w, "notification not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := goldmark.Convert([]byte(n.AISummary), w); err != nil {
		s.log.Error("summary render failed", "key", key, "error", err)
	}
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
