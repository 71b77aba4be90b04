package sportspress

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClient(url, time.Second, 2, time.Millisecond, nil)
}

func eventsPage(w http.ResponseWriter, ids []int) {
	events := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		events = append(events, map[string]any{
			"id":    id,
			"date":  "2024-01-05T20:00:00",
			"teams": []int{1, 2},
		})
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(events)
}

func TestFetchEventsStopsOnShortPage(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		switch page {
		case 1:
			eventsPage(w, []int{1, 2, 3})
		case 2:
			// Short page, the walk must stop here
			eventsPage(w, []int{4})
		default:
			t.Errorf("page %d should never be requested", page)
			eventsPage(w, nil)
		}
	}))
	defer server.Close()

	events, err := newTestClient(server.URL).FetchEvents(context.Background(), 3, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 4 {
		t.Errorf("expected 4 events, got %d", len(events))
	}
}

func TestFetchEventsStopsOnBadRequest(t *testing.T) {

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page > 2 {
			// WordPress answers past the last page with a 400
			http.Error(w, `{"code":"rest_post_invalid_page_number"}`, http.StatusBadRequest)
			return
		}
		eventsPage(w, []int{page*10 + 1, page*10 + 2})
	}))
	defer server.Close()

	events, err := newTestClient(server.URL).FetchEvents(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 4 {
		t.Errorf("expected 4 events, got %d", len(events))
	}
	// Pages 1, 2 and the terminating 400, with no retries on the 400
	if got := requests.Load(); got != 3 {
		t.Errorf("expected 3 requests, got %d", got)
	}
}

func TestFetchEventsRetriesServerErrors(t *testing.T) {

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		eventsPage(w, []int{1})
	}))
	defer server.Close()

	events, err := newTestClient(server.URL).FetchEvents(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 1 {
		t.Errorf("expected 1 event, got %d", len(events))
	}
	if got := requests.Load(); got != 2 {
		t.Errorf("expected 2 requests, got %d", got)
	}
}

func TestFetchEventsTruncatesDate(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		eventsPage(w, []int{1})
	}))
	defer server.Close()

	events, err := newTestClient(server.URL).FetchEvents(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events[0].Date != "2024-01-05" {
		t.Errorf("date = %q, want the day only", events[0].Date)
	}
}

func TestFetchList(t *testing.T) {

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/lists/7" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, `{"data": {
			"0": {"name": "Player", "pts": "PTS", "rebtwo": "REB"},
			"15": {"name": "Anna", "pts": "120", "rebtwo": 44, "ast": 30, "threepm": 12},
			"16": {"name": "Zoe", "pts": 95}
		}}`)
	}))
	defer server.Close()

	players, err := newTestClient(server.URL).FetchList(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(players))
	}
	byId := map[PlayerId]PlayerSeason{}
	for _, player := range players {
		byId[player.Id] = player
	}
	anna := byId[15]
	if anna.Name != "Anna" || anna.Points != 120 || anna.Rebounds != 44 || anna.Assists != 30 || anna.ThreesMade != 12 {
		t.Errorf("unexpected totals for Anna: %+v", anna)
	}
	if byId[16].Points != 95 {
		t.Errorf("unexpected totals for Zoe: %+v", byId[16])
	}
}

func TestResolvePlayerCachesLookups(t *testing.T) {

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"title": {"rendered": "Anna"}, "link": "https://example.com/player/anna"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 3; i++ {
		name, url := client.Names().ResolvePlayer(context.Background(), 15)
		if name != "Anna" || url != "https://example.com/player/anna" {
			t.Fatalf("unexpected resolution: %q %q", name, url)
		}
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("expected a single request for a cached id, got %d", got)
	}
}

func TestResolvePlayerPermanentFailureCachesPlaceholder(t *testing.T) {

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	for i := 0; i < 3; i++ {
		name, _ := client.Names().ResolvePlayer(context.Background(), 99)
		if name != PlayerPlaceholder(99) {
			t.Fatalf("expected placeholder, got %q", name)
		}
		if !Incomplete(name) {
			t.Fatal("placeholder should be reported as incomplete")
		}
	}
	if got := requests.Load(); got != 1 {
		t.Errorf("a permanent failure should be cached, got %d requests", got)
	}
}

func TestResolveTeamTransientFailureNotCached(t *testing.T) {

	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 3 {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"title": {"rendered": "Ballers"}, "link": "https://example.com/team/ballers"}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	// First resolution exhausts its retries against 503s and degrades
	name, _ := client.Names().ResolveTeam(context.Background(), 4)
	if name != TeamPlaceholder(4) {
		t.Fatalf("expected placeholder under transient failure, got %q", name)
	}

	// The placeholder was not cached, so the next call succeeds
	name, _ = client.Names().ResolveTeam(context.Background(), 4)
	if name != "Ballers" {
		t.Errorf("expected a fresh lookup to succeed, got %q", name)
	}
}
