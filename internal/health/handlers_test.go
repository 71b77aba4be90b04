package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"courtside/internal/records"
	"courtside/internal/sportspress"
	"courtside/internal/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	client := sportspress.NewClient("http://localhost", time.Second, 1, time.Millisecond, nil)
	st := store.NewStore(filepath.Join(t.TempDir(), "state.json"))
	reconciler := records.NewReconciler(client, st, records.DefaultConfig())
	return NewServer(":0", reconciler, Echo{
		BaseUrl:      "http://localhost",
		PollInterval: "3m0s",
		StatePath:    "data/state.json",
	})
}

func serve(server *Server, method string, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	server.server.Handler.ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
	return recorder
}

func TestHealthCheck(t *testing.T) {

	server := newTestServer(t)
	response := serve(server, http.MethodGet, "/health")
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.Code)
	}
	if !strings.Contains(response.Body.String(), "healthy") {
		t.Errorf("unexpected body: %s", response.Body.String())
	}
}

func TestMetricsListsAllCounters(t *testing.T) {

	server := newTestServer(t)
	response := serve(server, http.MethodGet, "/metrics")
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.Code)
	}
	body := response.Body.String()
	for _, metric := range []string{
		"courtside_polls_total",
		"courtside_poll_failures_total",
		"courtside_events_processed_total",
		"courtside_records_updated_total",
		"courtside_milestones_fired_total",
		"courtside_last_poll_timestamp",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metric %s missing from body:\n%s", metric, body)
		}
	}
}

func TestStatusEchoesConfig(t *testing.T) {

	server := newTestServer(t)
	response := serve(server, http.MethodGet, "/status")
	if response.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.Code)
	}

	var status struct {
		LastPoll       string `json:"lastPoll"`
		ProcessedGames int    `json:"processedGames"`
		Config         Echo   `json:"config"`
	}
	if err := json.Unmarshal(response.Body.Bytes(), &status); err != nil {
		t.Fatalf("could not decode status: %v", err)
	}
	if status.LastPoll != "" {
		t.Errorf("expected empty last poll before the first pass, got %s", status.LastPoll)
	}
	if status.ProcessedGames != 0 {
		t.Errorf("expected 0 processed games, got %d", status.ProcessedGames)
	}
	if status.Config.PollInterval != "3m0s" {
		t.Errorf("config echo lost the poll interval: %+v", status.Config)
	}
}

func TestOnlyGetIsRouted(t *testing.T) {

	server := newTestServer(t)
	response := serve(server, http.MethodPost, "/health")
	if response.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", response.Code)
	}
}
