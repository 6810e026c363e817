package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awinkler/bgblwatch/internal/config"
	"github.com/awinkler/bgblwatch/internal/gazette"
	"github.com/awinkler/bgblwatch/internal/pipeline"
	"github.com/awinkler/bgblwatch/internal/ris"
	"github.com/awinkler/bgblwatch/internal/store"
)

type stubFeed struct{}

func (stubFeed) QueryPublications(ctx context.Context, q ris.Query) ([]gazette.RawDocument, error) {
	return nil, nil
}

func (stubFeed) FetchBody(ctx context.Context, url string) ([]byte, error) { return nil, nil }

type stubRegistry struct{}

func (stubRegistry) SearchLaw(ctx context.Context, title string) ([]ris.RegistryDoc, error) {
	return nil, nil
}

type stubAssistant struct{}

func (stubAssistant) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	return "", nil
}

type stubStore struct {
	records map[string]gazette.Notification
}

func (s *stubStore) Exists(ctx context.Context, naturalID string) (bool, error) {
	_, ok := s.records[store.CanonicalKey(naturalID)]
	return ok, nil
}

func (s *stubStore) Get(ctx context.Context, naturalID string) (*gazette.Notification, error) {
	n, ok := s.records[store.CanonicalKey(naturalID)]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (s *stubStore) SaveAll(ctx context.Context, notifications []gazette.Notification) error {
	return nil
}

func (s *stubStore) ListRecent(ctx context.Context, limit int) ([]gazette.Notification, error) {
	out := make([]gazette.Notification, 0, len(s.records))
	for _, n := range s.records {
		out = append(out, n)
	}
	return out, nil
}

func testServer(records map[string]gazette.Notification) *Server {
	cfg := config.Config{
		ServiceAPIKey:     "test-key",
		Jurisdiction:      "BgblAuth",
		FeedWindowDays:    14,
		FeedLimit:         100,
		MaxConcurrentDocs: 1,
		PassTimeout:       time.Minute,
	}
	log := slog.New(slog.DiscardHandler)
	orch := pipeline.NewOrchestrator(cfg, stubFeed{}, stubRegistry{}, &stubStore{records: records}, stubAssistant{}, log)
	return NewServer(orch, log, cfg)
}

func doRequest(s *Server, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestHealthIsPublic(t *testing.T) {
	s := testServer(nil)
	rec := doRequest(s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestAuthRequired(t *testing.T) {
	s := testServer(nil)

	rec := doRequest(s, http.MethodGet, "/api/notifications", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"missing authorization"}`, rec.Body.String())

	rec = doRequest(s, http.MethodGet, "/api/notifications", "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid api key"}`, rec.Body.String())

	rec = doRequest(s, http.MethodGet, "/api/notifications", "test-key")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListNotifications(t *testing.T) {
	s := testServer(map[string]gazette.Notification{
		"bgbl-i-10-2025": {ID: "bgbl-i-10-2025", Title: "Abgabenänderungsgesetz 2025"},
	})

	rec := doRequest(s, http.MethodGet, "/api/notifications", "test-key")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count         int                    `json:"count"`
		Notifications []gazette.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "bgbl-i-10-2025", body.Notifications[0].ID)
}

func TestListNotificationsLimitValidation(t *testing.T) {
	s := testServer(nil)

	rec := doRequest(s, http.MethodGet, "/api/notifications?limit=0", "test-key")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/notifications?limit=1000", "test-key")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/notifications?limit=abc", "test-key")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetNotification(t *testing.T) {
	s := testServer(map[string]gazette.Notification{
		"bgbl-i-10-2025": {ID: "bgbl-i-10-2025", Title: "Abgabenänderungsgesetz 2025"},
	})

	// Canonical key and natural identifier both resolve.
	rec := doRequest(s, http.MethodGet, "/api/notifications/bgbl-i-10-2025", "test-key")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/notifications/BGBLA_2025_I_10", "test-key")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(s, http.MethodGet, "/api/notifications/bgbl-i-99-2025", "test-key")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotificationSummaryRendersHTML(t *testing.T) {
	s := testServer(map[string]gazette.Notification{
		"bgbl-i-10-2025": {ID: "bgbl-i-10-2025", AISummary: "Die Kundmachung ändert das **Einkommensteuergesetz**."},
	})

	rec := doRequest(s, http.MethodGet, "/api/notifications/bgbl-i-10-2025/summary", "test-key")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<strong>Einkommensteuergesetz</strong>")
}
