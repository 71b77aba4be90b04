package health

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"courtside/internal/records"
)

// Echo is the part of the configuration the status endpoint reports
// back. Secrets never go in here
type Echo struct {
	BaseUrl             string `json:"baseUrl"`
	PollInterval        string `json:"pollInterval"`
	RecordsScanInterval string `json:"recordsScanInterval"`
	StatePath           string `json:"statePath"`
}

// Handler contains dependencies for HTTP handlers
type Handler struct {
	reconciler *records.Reconciler
	config     Echo
}

func NewHandler(reconciler *records.Reconciler, config Echo) *Handler {
	return &Handler{
		reconciler: reconciler,
		config:     config,
	}
}

// HealthCheck handles liveness requests
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "courtside",
	})
}

// Metrics reports the reconciler counters in a plain text format
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {

	counters := h.reconciler.Counters().Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "courtside_polls_total %d\n", counters.Polls)
	fmt.Fprintf(w, "courtside_poll_failures_total %d\n", counters.Failures)
	fmt.Fprintf(w, "courtside_events_processed_total %d\n", counters.EventsProcessed)
	fmt.Fprintf(w, "courtside_records_updated_total %d\n", counters.RecordsUpdated)
	fmt.Fprintf(w, "courtside_milestones_fired_total %d\n", counters.MilestonesFired)
	fmt.Fprintf(w, "courtside_last_poll_timestamp %d\n", counters.LastPollUnix)
}

// Status reports the last poll timestamps and echoes the configuration
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {

	state := h.reconciler.Snapshot()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"lastPoll":        formatTime(state.LastPoll),
		"lastRecordsScan": formatTime(state.LastRecordsScan),
		"processedGames":  len(state.ProcessedGames),
		"records":         len(state.Records),
		"config":          h.config,
	})
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
