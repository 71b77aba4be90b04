package stats

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"courtside/internal/sportspress"
)

// Canonical stat names used across the whole bot
const (
	POINTS         = "points"
	REBOUNDS       = "rebounds"
	ASSISTS        = "assists"
	STEALS         = "steals"
	BLOCKS         = "blocks"
	THREES_MADE    = "threes_made"
	FG_PERCENT     = "fg_percent"
	THREEP_PERCENT = "threep_percent"
)

// Mapping from canonical stat names to the abbreviations the events
// endpoint uses inside performance and boxscore rows. These are exact:
// the rebound total is "rebtwo" and the three point fields are spelled
// out as "threepm"/"threepa"
var eventKeyMap = map[string]string{
	"points":         "pts",
	"rebounds":       "rebtwo",
	"assists":        "ast",
	"steals":         "stl",
	"blocks":         "blk",
	"turnovers":      "to",
	"fgm":            "fgm",
	"fga":            "fga",
	"threes_made":    "threepm",
	"threes_att":     "threepa",
	"fg_percent":     "fgpercent",
	"threep_percent": "threeppercent",
}

// ExtractionError marks a single event whose payload could not be turned
// into player rows. The event is skipped and retried on the next pass
type ExtractionError struct {
	Event  sportspress.EventId
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract rows from event %d: %s", e.Event, e.Reason)
}

// Line is the normalized stat tuple of one player in one game
type Line struct {
	Points     float64
	Rebounds   float64
	Assists    float64
	Steals     float64
	Blocks     float64
	ThreesMade float64
	Turnovers  float64
	Fgm        float64
	Fga        float64
	ThreesAtt  float64
	FgPercent  float64
	ThreePct   float64
}

// Value returns the stat selected by its canonical name
func (l *Line) Value(stat string) float64 {
	switch stat {
	case POINTS:
		return l.Points
	case REBOUNDS:
		return l.Rebounds
	case ASSISTS:
		return l.Assists
	case STEALS:
		return l.Steals
	case BLOCKS:
		return l.Blocks
	case THREES_MADE:
		return l.ThreesMade
	case FG_PERCENT:
		return l.FgPercent
	case THREEP_PERCENT:
		return l.ThreePct
	default:
		return 0
	}
}

// Row is one player's line in one game, with enough context to build
// notifications later
type Row struct {
	Player  sportspress.PlayerId
	Team    sportspress.TeamId
	Opp     sportspress.TeamId
	Event   sportspress.EventId
	Date    string
	GameUrl string
	Line    Line
}

// ExtractRows turns one event payload into normalized player rows.
// It is a pure function of the event: the same payload always yields the
// same rows. Absent stat fields count as zero; an event without any
// usable payload produces an ExtractionError
func ExtractRows(event sportspress.Event) ([]Row, error) {

	rows := extractPerformance(event)
	if len(rows) == 0 {
		rows = extractBoxscore(event)
	}
	if len(rows) == 0 {
		return nil, &ExtractionError{Event: event.Id, Reason: "no usable performance or boxscore payload"}
	}
	// The payload tables are maps, so fix the order here to keep the
	// whole extraction deterministic
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Team != rows[j].Team {
			return rows[i].Team < rows[j].Team
		}
		return rows[i].Player < rows[j].Player
	})
	return rows, nil
}

// The performance payload is a table keyed by team id, then player id,
// with "0" entries holding column headers
func extractPerformance(event sportspress.Event) []Row {

	if len(event.Performance) == 0 {
		return nil
	}
	var table map[string]map[string]map[string]json.RawMessage
	if json.Unmarshal(event.Performance, &table) != nil {
		return nil
	}

	var rows []Row
	for teamKey, teamTable := range table {
		if teamKey == "0" {
			continue
		}
		teamId, err := strconv.Atoi(teamKey)
		if err != nil {
			continue
		}

		for playerKey, fields := range teamTable {
			if playerKey == "0" {
				continue
			}
			playerId, err := strconv.Atoi(playerKey)
			if err != nil {
				continue
			}
			if !anyStatPresent(fields) {
				continue
			}

			rows = append(rows, Row{
				Player:  sportspress.PlayerId(playerId),
				Team:    sportspress.TeamId(teamId),
				Opp:     opponent(event.Teams, sportspress.TeamId(teamId)),
				Event:   event.Id,
				Date:    event.Date,
				GameUrl: event.Link,
				Line:    extractLine(fields),
			})
		}
	}
	return rows
}

// Older events carry a boxscore instead: either a map of
// {"home": [...], "away": [...]} rows or a flat list
func extractBoxscore(event sportspress.Event) []Row {

	if len(event.Boxscore) == 0 {
		return nil
	}

	var rows []Row
	appendRow := func(side string, fields map[string]json.RawMessage) {
		playerId := extractRowPlayerId(fields)
		if playerId == 0 {
			return
		}
		team, opp := sidesToTeams(event.Teams, side)
		rows = append(rows, Row{
			Player:  playerId,
			Team:    team,
			Opp:     opp,
			Event:   event.Id,
			Date:    event.Date,
			GameUrl: event.Link,
			Line:    extractLine(fields),
		})
	}

	var sides map[string][]map[string]json.RawMessage
	if json.Unmarshal(event.Boxscore, &sides) == nil {
		for side, sideRows := range sides {
			for _, fields := range sideRows {
				appendRow(side, fields)
			}
		}
		return rows
	}

	var flat []map[string]json.RawMessage
	if json.Unmarshal(event.Boxscore, &flat) == nil {
		for _, fields := range flat {
			side := ""
			if raw, ok := fields["team"]; ok {
				json.Unmarshal(raw, &side)
			}
			appendRow(side, fields)
		}
	}
	return rows
}

func extractLine(fields map[string]json.RawMessage) Line {

	line := Line{
		Points:     floatField(fields, eventKeyMap["points"]),
		Rebounds:   floatField(fields, eventKeyMap["rebounds"]),
		Assists:    floatField(fields, eventKeyMap["assists"]),
		Steals:     floatField(fields, eventKeyMap["steals"]),
		Blocks:     floatField(fields, eventKeyMap["blocks"]),
		ThreesMade: floatField(fields, eventKeyMap["threes_made"]),
		Turnovers:  floatField(fields, eventKeyMap["turnovers"]),
		Fgm:        floatField(fields, eventKeyMap["fgm"]),
		Fga:        floatField(fields, eventKeyMap["fga"]),
		ThreesAtt:  floatField(fields, eventKeyMap["threes_att"]),
		FgPercent:  floatField(fields, eventKeyMap["fg_percent"]),
		ThreePct:   floatField(fields, eventKeyMap["threep_percent"]),
	}

	// Some events leave the percentage columns empty, derive them from
	// makes and attempts so percentage records still work
	if line.FgPercent == 0 && line.Fga > 0 {
		line.FgPercent = 100 * line.Fgm / line.Fga
	}
	if line.ThreePct == 0 && line.ThreesAtt > 0 {
		line.ThreePct = 100 * line.ThreesMade / line.ThreesAtt
	}
	return line
}

func anyStatPresent(fields map[string]json.RawMessage) bool {
	for _, key := range []string{"pts", "rebtwo", "ast", "stl", "blk", "fgm", "fga", "threepm", "threepa"} {
		if floatField(fields, key) != 0 {
			return true
		}
		if _, ok := fields[key]; ok {
			return true
		}
	}
	return false
}

func extractRowPlayerId(fields map[string]json.RawMessage) sportspress.PlayerId {
	for _, key := range []string{"id", "player_id", "player"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var id int
		if json.Unmarshal(raw, &id) == nil && id != 0 {
			return sportspress.PlayerId(id)
		}
		var text string
		if json.Unmarshal(raw, &text) == nil {
			if id, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && id != 0 {
				return sportspress.PlayerId(id)
			}
		}
	}
	return 0
}

func opponent(teams []sportspress.TeamId, team sportspress.TeamId) sportspress.TeamId {
	if len(teams) < 2 {
		return 0
	}
	if team == teams[0] {
		return teams[1]
	}
	return teams[0]
}

func sidesToTeams(teams []sportspress.TeamId, side string) (sportspress.TeamId, sportspress.TeamId) {
	if len(teams) < 2 {
		return 0, 0
	}
	switch strings.ToLower(side) {
	case "home", "a", "team_a":
		return teams[0], teams[1]
	default:
		return teams[1], teams[0]
	}
}

// floatField reads a stat the API may serve as a number, a quoted
// number, null or nothing at all. Anything unusable counts as zero
func floatField(fields map[string]json.RawMessage, key string) float64 {

	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var number float64
	if json.Unmarshal(raw, &number) == nil {
		return number
	}
	var text string
	if json.Unmarshal(raw, &text) == nil {
		if value, err := strconv.ParseFloat(strings.TrimSpace(text), 64); err == nil {
			return value
		}
	}
	return 0
}
