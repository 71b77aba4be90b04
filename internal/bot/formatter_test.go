package bot

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"courtside/internal/records"
	"courtside/internal/stats"
	"courtside/internal/store"
)

func firstEmbed(t *testing.T, responses []Response) ResponseEmbed {
	t.Helper()
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	embed, ok := responses[0].(ResponseEmbed)
	if !ok {
		t.Fatalf("expected an embed, got %T", responses[0])
	}
	return embed
}

func TestRecordsMessage(t *testing.T) {

	views := []RecordView{
		{
			Record: store.Record{Stat: stats.POINTS, Value: 55, Date: "2024-01-12", GameUrl: "https://x/g/102"},
			Holder: "Anna",
			Opp:    "Ballers",
		},
		{
			Record: store.Record{Stat: stats.FG_PERCENT, Value: 90},
			Holder: "Zoe",
		},
	}
	embed := firstEmbed(t, RecordsMessage(views))
	if len(embed.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(embed.Fields))
	}
	points := embed.Fields[0]
	if points.Name != "Points" {
		t.Errorf("field name = %q, want Points", points.Name)
	}
	for _, want := range []string{"**55**", "Anna", "vs Ballers", "2024-01-12", "https://x/g/102"} {
		if !strings.Contains(points.Value, want) {
			t.Errorf("points field %q is missing %q", points.Value, want)
		}
	}
	// Percentage records render with a decimal and a percent sign
	if !strings.Contains(embed.Fields[1].Value, "**90.0%**") {
		t.Errorf("percentage field %q should render as a percentage", embed.Fields[1].Value)
	}
}

func TestRecordsMessageEmpty(t *testing.T) {

	responses := RecordsMessage(nil)
	if len(responses) != 1 {
		t.Fatalf("expected 1 response, got %d", len(responses))
	}
	if _, ok := responses[0].(ResponseString); !ok {
		t.Errorf("expected a plain message, got %T", responses[0])
	}
}

func TestMilestonesMessageOrdersStats(t *testing.T) {

	views := []MilestoneView{
		{Player: "Anna", Thresholds: map[string]int{stats.ASSISTS: 250, stats.POINTS: 500}},
	}
	embed := firstEmbed(t, MilestonesMessage(views))
	value := embed.Fields[0].Value
	if !strings.Contains(value, "500 points") || !strings.Contains(value, "250 assists") {
		t.Fatalf("unexpected milestones line: %q", value)
	}
	// Points always render before assists
	if strings.Index(value, "500 points") > strings.Index(value, "250 assists") {
		t.Errorf("stats out of order: %q", value)
	}
}

func TestRecordBrokenMessage(t *testing.T) {

	previous := store.Record{Stat: stats.POINTS, Value: 50}
	event := records.RecordBroken{
		Id:  uuid.New(),
		Old: &previous,
		New: store.Record{Stat: stats.POINTS, Value: 55, Date: "2024-01-12"},
	}
	response := RecordBrokenMessage(event, "Anna", "Zoe")
	embed, ok := response.(ResponseEmbed)
	if !ok {
		t.Fatalf("expected an embed, got %T", response)
	}
	if !strings.Contains(embed.Title, "points record") {
		t.Errorf("unexpected title: %q", embed.Title)
	}
	for _, want := range []string{"Anna", "**55**", "Previous record: 50 by Zoe"} {
		if !strings.Contains(embed.Description, want) {
			t.Errorf("description %q is missing %q", embed.Description, want)
		}
	}
}

func TestMilestoneCrossedMessage(t *testing.T) {

	event := records.MilestoneCrossed{
		Id:        uuid.New(),
		Player:    7,
		Stat:      stats.ASSISTS,
		Threshold: 30,
		Total:     31,
	}
	response := MilestoneCrossedMessage(event, "Anna")
	embed, ok := response.(ResponseEmbed)
	if !ok {
		t.Fatalf("expected an embed, got %T", response)
	}
	if !strings.Contains(embed.Title, "30 career assists") {
		t.Errorf("unexpected title: %q", embed.Title)
	}
	if !strings.Contains(embed.Description, "now at 31") {
		t.Errorf("unexpected description: %q", embed.Description)
	}
}
