package sportspress

import (
	"encoding/json"
	"fmt"
)

type PlayerId int
type TeamId int
type EventId int

// Event is one played game as returned by the events endpoint.
// The boxscore payloads are kept raw here; the stats package
// decodes them with the upstream field mapping
type Event struct {
	Id          EventId
	Date        string // YYYY-MM-DD
	Link        string
	Teams       []TeamId
	Performance json.RawMessage
	Boxscore    json.RawMessage
}

// HasData reports whether the event carries any boxscore payload at all.
// Scheduled games that have not been played yet come through without one
func (e *Event) HasData() bool {
	return rawPresent(e.Performance) || rawPresent(e.Boxscore)
}

func rawPresent(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	s := string(raw)
	return s != "null" && s != "[]" && s != "{}" && s != `""` && s != "false"
}

// PlayerSeason is one player's accumulated totals for a single season,
// as returned by the players endpoint for a league query
type PlayerSeason struct {
	Id         PlayerId
	Name       string
	Points     float64
	Assists    float64
	Rebounds   float64
	Steals     float64
	Blocks     float64
	ThreesMade float64
}

func (p *PlayerSeason) String() string {
	return fmt.Sprintf("%s (%d)", p.Name, p.Id)
}
