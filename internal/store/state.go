package store

import (
	"time"

	"courtside/internal/sportspress"
)

// Record is the best single game value observed for one stat, with
// provenance of who set it and in which game
type Record struct {
	Stat      string               `json:"stat"`
	Value     float64              `json:"value"`
	HolderId  sportspress.PlayerId `json:"holderId"`
	TeamId    sportspress.TeamId   `json:"teamId,omitempty"`
	OppTeamId sportspress.TeamId   `json:"oppTeamId,omitempty"`
	GameId    sportspress.EventId  `json:"gameId"`
	Date      string               `json:"date"`
	GameUrl   string               `json:"gameUrl,omitempty"`
}

// Achievement is a double-double or triple-double: one player reaching
// ten or more in several stat categories within a single game
type Achievement struct {
	PlayerId   sportspress.PlayerId `json:"playerId"`
	GameId     sportspress.EventId  `json:"gameId"`
	Date       string               `json:"date"`
	Categories []string             `json:"categories"`
	Values     map[string]float64   `json:"values"`
	GameUrl    string               `json:"gameUrl,omitempty"`
}

// State is the single durable document of the bot. The reconciler works
// on a copy and commits the whole thing atomically after each pass
type State struct {
	// Best single game value per tracked stat
	Records map[string]Record `json:"records"`
	// Highest milestone threshold already announced, per player per stat
	Milestones map[sportspress.PlayerId]map[string]int `json:"milestones"`
	// Career totals as of the last pass, per player per stat
	LastTotals map[sportspress.PlayerId]map[string]float64 `json:"lastTotals"`
	// Games already folded into the tables above
	ProcessedGames []sportspress.EventId `json:"processedGames"`
	DoubleDoubles  []Achievement         `json:"doubleDoubles,omitempty"`
	TripleDoubles  []Achievement         `json:"tripleDoubles,omitempty"`
	// Notification channel per guild
	Channels        map[string]string `json:"channels,omitempty"`
	LastPoll        time.Time         `json:"lastPoll"`
	LastRecordsScan time.Time         `json:"lastRecordsScan"`
	SavedAt         time.Time         `json:"savedAt"`
}

// DefaultState returns an empty state with all containers ready to use
func DefaultState() State {
	return State{
		Records:    map[string]Record{},
		Milestones: map[sportspress.PlayerId]map[string]int{},
		LastTotals: map[sportspress.PlayerId]map[string]float64{},
		Channels:   map[string]string{},
	}
}

// Clone returns a deep copy, so the reconciler can mutate a working copy
// while readers keep seeing the last committed state
func (s *State) Clone() State {

	clone := State{
		Records:         make(map[string]Record, len(s.Records)),
		Milestones:      make(map[sportspress.PlayerId]map[string]int, len(s.Milestones)),
		LastTotals:      make(map[sportspress.PlayerId]map[string]float64, len(s.LastTotals)),
		ProcessedGames:  append([]sportspress.EventId(nil), s.ProcessedGames...),
		DoubleDoubles:   append([]Achievement(nil), s.DoubleDoubles...),
		TripleDoubles:   append([]Achievement(nil), s.TripleDoubles...),
		Channels:        make(map[string]string, len(s.Channels)),
		LastPoll:        s.LastPoll,
		LastRecordsScan: s.LastRecordsScan,
		SavedAt:         s.SavedAt,
	}
	for stat, record := range s.Records {
		clone.Records[stat] = record
	}
	for guild, channel := range s.Channels {
		clone.Channels[guild] = channel
	}
	for player, perStat := range s.Milestones {
		inner := make(map[string]int, len(perStat))
		for stat, threshold := range perStat {
			inner[stat] = threshold
		}
		clone.Milestones[player] = inner
	}
	for player, perStat := range s.LastTotals {
		inner := make(map[string]float64, len(perStat))
		for stat, total := range perStat {
			inner[stat] = total
		}
		clone.LastTotals[player] = inner
	}
	return clone
}

// Processed reports whether a game has already been folded in
func (s *State) Processed(id sportspress.EventId) bool {
	for _, processed := range s.ProcessedGames {
		if processed == id {
			return true
		}
	}
	return false
}
