package sportspress

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Mapping from canonical stat names to the meta field names used by the
// players endpoint
var statMap = map[string]string{
	"points":      "points",
	"assists":     "assists",
	"rebounds":    "rebounds",
	"steals":      "steals",
	"blocks":      "blocks",
	"threes_made": "threes_made",
}

// Mapping from canonical stat names to the abbreviations used inside
// list tables. Note the rebound total is "rebtwo", not "reb"
var listKeyMap = map[string]string{
	"points":      "pts",
	"assists":     "ast",
	"rebounds":    "rebtwo",
	"steals":      "stl",
	"blocks":      "blk",
	"threes_made": "threepm",
}

func UnmarshalEvents(data []byte) ([]Event, error) {

	var raw []struct {
		Id          EventId
		Date        string
		DateGmt     string `json:"date_gmt"`
		Link        string
		Teams       []TeamId
		Performance json.RawMessage
		Boxscore    json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(raw))
	for _, r := range raw {

		// The API hands out full timestamps, keep the day only
		date := r.Date
		if date == "" {
			date = r.DateGmt
		}
		if len(date) > 10 {
			date = date[:10]
		}

		events = append(events, Event{
			Id:          r.Id,
			Date:        date,
			Link:        r.Link,
			Teams:       r.Teams,
			Performance: r.Performance,
			Boxscore:    r.Boxscore,
		})
	}
	return events, nil
}

// UnmarshalPlayerSeasons decodes one page of the players endpoint.
// Malformed rows are dropped, not surfaced; a season query with a few
// broken entries should still produce totals for everyone else
func UnmarshalPlayerSeasons(data []byte) ([]PlayerSeason, error) {

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	players := make([]PlayerSeason, 0, len(raw))
	for _, item := range raw {

		var id PlayerId
		if rawId, ok := item["id"]; !ok || json.Unmarshal(rawId, &id) != nil || id == 0 {
			continue
		}

		player := PlayerSeason{Id: id, Name: extractName(item, id)}

		// Season totals live in the meta object
		var meta map[string]json.RawMessage
		if rawMeta, ok := item["meta"]; ok {
			json.Unmarshal(rawMeta, &meta)
		}
		player.Points = extractFloat(meta, statMap["points"])
		player.Assists = extractFloat(meta, statMap["assists"])
		player.Rebounds = extractFloat(meta, statMap["rebounds"])
		player.Steals = extractFloat(meta, statMap["steals"])
		player.Blocks = extractFloat(meta, statMap["blocks"])
		player.ThreesMade = extractFloat(meta, statMap["threes_made"])

		players = append(players, player)
	}
	return players, nil
}

// UnmarshalList decodes a list resource (for instance the all time
// statistics table) into player totals. The data object is keyed by
// player id, with a "0" entry holding the column headers
func UnmarshalList(data []byte) ([]PlayerSeason, error) {

	var raw struct {
		Data map[string]map[string]json.RawMessage
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Data == nil {
		return nil, fmt.Errorf("list resource has no data table")
	}

	players := make([]PlayerSeason, 0, len(raw.Data))
	for key, row := range raw.Data {
		if key == "0" {
			// Header row
			continue
		}
		id, err := strconv.Atoi(key)
		if err != nil {
			continue
		}

		player := PlayerSeason{Id: PlayerId(id), Name: extractName(row, PlayerId(id))}
		player.Points = extractFloat(row, listKeyMap["points"])
		player.Assists = extractFloat(row, listKeyMap["assists"])
		player.Rebounds = extractFloat(row, listKeyMap["rebounds"])
		player.Steals = extractFloat(row, listKeyMap["steals"])
		player.Blocks = extractFloat(row, listKeyMap["blocks"])
		player.ThreesMade = extractFloat(row, listKeyMap["threes_made"])

		players = append(players, player)
	}
	return players, nil
}

// UnmarshalTitleLink decodes the display name and public link of a
// player or team resource
func UnmarshalTitleLink(data []byte) (string, string, error) {

	var raw struct {
		Title struct {
			Rendered string
		}
		Name string
		Link string
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", "", err
	}

	name := strings.TrimSpace(raw.Title.Rendered)
	if name == "" {
		name = strings.TrimSpace(raw.Name)
	}
	if name == "" {
		return "", "", fmt.Errorf("resource has no usable display name")
	}
	return name, raw.Link, nil
}

func extractName(item map[string]json.RawMessage, id PlayerId) string {

	// The name shows up under different keys depending on the endpoint
	for _, key := range []string{"name", "title", "post_title", "player_name"} {
		raw, ok := item[key]
		if !ok {
			continue
		}
		var name string
		if json.Unmarshal(raw, &name) == nil && strings.TrimSpace(name) != "" {
			return strings.TrimSpace(name)
		}
		// title may be an object with a rendered field
		var title struct{ Rendered string }
		if json.Unmarshal(raw, &title) == nil && strings.TrimSpace(title.Rendered) != "" {
			return strings.TrimSpace(title.Rendered)
		}
	}
	return fmt.Sprintf("Player %d", id)
}

// extractFloat reads a numeric field that the API may serve as a number,
// a string, null, or not at all. Anything unusable counts as zero
func extractFloat(item map[string]json.RawMessage, key string) float64 {

	raw, ok := item[key]
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
