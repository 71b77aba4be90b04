package records

import (
	"fmt"

	"github.com/google/uuid"

	"courtside/internal/sportspress"
	"courtside/internal/store"
)

// ChangeEvent is anything a reconciliation pass wants announced.
// Events are only produced after the state that gates them has been
// committed, so a consumer may act on them at most once
type ChangeEvent interface {
	// EventId identifies the announcement itself, for logging
	EventId() uuid.UUID
	Describe() string
}

// RecordBroken fires when a single game line beats the stored record
// for a stat. Old is nil when the stat had no holder yet
type RecordBroken struct {
	Id  uuid.UUID
	Old *store.Record
	New store.Record
}

func (e RecordBroken) EventId() uuid.UUID {
	return e.Id
}

func (e RecordBroken) Describe() string {
	if e.Old == nil {
		return fmt.Sprintf("first %s record: %.1f by player %d in game %d",
			e.New.Stat, e.New.Value, e.New.HolderId, e.New.GameId)
	}
	return fmt.Sprintf("%s record broken: %.1f by player %d in game %d (was %.1f by player %d)",
		e.New.Stat, e.New.Value, e.New.HolderId, e.New.GameId, e.Old.Value, e.Old.HolderId)
}

// MilestoneCrossed fires when a player's career total passes a
// threshold for the first time
type MilestoneCrossed struct {
	Id        uuid.UUID
	Player    sportspress.PlayerId
	Stat      string
	Threshold int
	Total     float64
	Date      string
	GameUrl   string
}

func (e MilestoneCrossed) EventId() uuid.UUID {
	return e.Id
}

func (e MilestoneCrossed) Describe() string {
	return fmt.Sprintf("player %d crossed %d career %s (now at %.0f)",
		e.Player, e.Threshold, e.Stat, e.Total)
}

// Achievement kinds
const (
	DOUBLE_DOUBLE = "double-double"
	TRIPLE_DOUBLE = "triple-double"
)

// AchievementEarned fires when a game line holds ten or more in two
// (or three) of the counting categories
type AchievementEarned struct {
	Id          uuid.UUID
	Kind        string
	Achievement store.Achievement
}

func (e AchievementEarned) EventId() uuid.UUID {
	return e.Id
}

func (e AchievementEarned) Describe() string {
	return fmt.Sprintf("player %d earned a %s in game %d",
		e.Achievement.PlayerId, e.Kind, e.Achievement.GameId)
}
