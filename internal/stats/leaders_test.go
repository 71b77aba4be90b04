package stats

import (
	"testing"

	"courtside/internal/sportspress"
)

func TestLeadersStableOrdering(t *testing.T) {

	players := []sportspress.PlayerSeason{
		{Id: 1, Name: "zoe", Points: 100},
		{Id: 2, Name: "Anna", Points: 100},
		{Id: 3, Name: "mike", Points: 250},
		{Id: 4, Name: "Bea", Points: 0},
	}

	// Equal values rank by name ascending, no matter the input order
	for _, input := range [][]sportspress.PlayerSeason{
		players,
		{players[3], players[2], players[1], players[0]},
		{players[1], players[0], players[3], players[2]},
	} {
		leaders := Leaders(input, POINTS, 10)
		if len(leaders) != 3 {
			t.Fatalf("expected 3 leaders, got %d", len(leaders))
		}
		if leaders[0].Name != "mike" {
			t.Errorf("leader = %s, want mike", leaders[0].Name)
		}
		if leaders[1].Name != "Anna" || leaders[2].Name != "zoe" {
			t.Errorf("tie order = %s, %s; want Anna, zoe", leaders[1].Name, leaders[2].Name)
		}
	}
}

func TestLeadersExcludesZeroTotals(t *testing.T) {

	players := []sportspress.PlayerSeason{
		{Id: 1, Name: "a", Blocks: 0},
		{Id: 2, Name: "b", Blocks: 1},
	}
	leaders := Leaders(players, BLOCKS, 10)
	if len(leaders) != 1 || leaders[0].Player != 2 {
		t.Errorf("expected only player 2, got %+v", leaders)
	}
}

func TestLeadersTruncates(t *testing.T) {

	players := []sportspress.PlayerSeason{
		{Id: 1, Name: "a", Points: 10},
		{Id: 2, Name: "b", Points: 20},
		{Id: 3, Name: "c", Points: 30},
	}
	leaders := Leaders(players, POINTS, 2)
	if len(leaders) != 2 {
		t.Fatalf("expected 2 leaders, got %d", len(leaders))
	}
	if leaders[0].Player != 3 || leaders[1].Player != 2 {
		t.Errorf("unexpected top two: %+v", leaders)
	}
}

func TestAllLeadersCoversEveryStat(t *testing.T) {

	players := []sportspress.PlayerSeason{
		{Id: 1, Name: "a", Points: 10, Assists: 5, Rebounds: 4, Steals: 3, Blocks: 2, ThreesMade: 1},
	}
	all := AllLeaders(players, 5)
	for _, stat := range LeaderStats {
		if len(all[stat]) != 1 {
			t.Errorf("stat %s has %d leaders, want 1", stat, len(all[stat]))
		}
	}
}

func TestAggregateCareer(t *testing.T) {

	seasons := [][]sportspress.PlayerSeason{
		{
			{Id: 1, Name: "Old Name", Points: 100, Assists: 10},
			{Id: 2, Name: "B", Points: 50},
		},
		{
			{Id: 1, Name: "New Name", Points: 80, Rebounds: 20},
		},
	}

	career := AggregateCareer(seasons)
	if len(career) != 2 {
		t.Fatalf("expected 2 players, got %d", len(career))
	}
	first := career[0]
	if first.Id != 1 || first.Points != 180 || first.Assists != 10 || first.Rebounds != 20 {
		t.Errorf("unexpected totals for player 1: %+v", first)
	}
	if first.Name != "New Name" {
		t.Errorf("name = %q, want the most recent one", first.Name)
	}
	if career[1].Id != 2 || career[1].Points != 50 {
		t.Errorf("unexpected totals for player 2: %+v", career[1])
	}
}
