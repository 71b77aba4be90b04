package stats

import (
	"sort"
	"strings"

	"courtside/internal/sportspress"
)

// Stats that leaderboards are computed for
var LeaderStats = []string{POINTS, ASSISTS, REBOUNDS, STEALS, BLOCKS, THREES_MADE}

type LeaderEntry struct {
	Player sportspress.PlayerId
	Name   string
	Value  float64
}

// Leaders ranks players by one stat: value descending, ties broken by
// display name ascending. The ordering is total, so repeated calls over
// the same players always produce the same ranking regardless of input
// order. Players with a zero total are left out
func Leaders(players []sportspress.PlayerSeason, stat string, n int) []LeaderEntry {

	entries := make([]LeaderEntry, 0, len(players))
	for _, player := range players {
		value := seasonValue(&player, stat)
		if value > 0 {
			entries = append(entries, LeaderEntry{Player: player.Id, Name: player.Name, Value: value})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Value != entries[j].Value {
			return entries[i].Value > entries[j].Value
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// AllLeaders bundles the top n per tracked stat category
func AllLeaders(players []sportspress.PlayerSeason, n int) map[string][]LeaderEntry {

	leaders := make(map[string][]LeaderEntry, len(LeaderStats))
	for _, stat := range LeaderStats {
		leaders[stat] = Leaders(players, stat, n)
	}
	return leaders
}

// AggregateCareer folds per season totals into career totals per player.
// The most recent season wins the display name
func AggregateCareer(seasons [][]sportspress.PlayerSeason) []sportspress.PlayerSeason {

	byId := map[sportspress.PlayerId]*sportspress.PlayerSeason{}
	for _, season := range seasons {
		for _, player := range season {
			existing, ok := byId[player.Id]
			if !ok {
				copy := player
				byId[player.Id] = &copy
				continue
			}
			existing.Points += player.Points
			existing.Assists += player.Assists
			existing.Rebounds += player.Rebounds
			existing.Steals += player.Steals
			existing.Blocks += player.Blocks
			existing.ThreesMade += player.ThreesMade
			existing.Name = player.Name
		}
	}

	career := make([]sportspress.PlayerSeason, 0, len(byId))
	for _, player := range byId {
		career = append(career, *player)
	}
	// Deterministic output order
	sort.Slice(career, func(i, j int) bool { return career[i].Id < career[j].Id })
	return career
}

func seasonValue(player *sportspress.PlayerSeason, stat string) float64 {
	switch stat {
	case POINTS:
		return player.Points
	case ASSISTS:
		return player.Assists
	case REBOUNDS:
		return player.Rebounds
	case STEALS:
		return player.Steals
	case BLOCKS:
		return player.Blocks
	case THREES_MADE:
		return player.ThreesMade
	default:
		return 0
	}
}
