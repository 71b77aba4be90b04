package bot

import (
	"testing"

	"courtside/internal/stats"
)

func TestParse(t *testing.T) {

	tests := []struct {
		name      string
		message   string
		command   int
		parseid   int
		arguments interface{}
	}{
		{"not for the bot", "hello there", 0, PARSEID_NO_BOT_PREFIX, nil},
		{"prefix only", "courtside", 0, PARSEID_NO_COMMAND, nil},
		{"prefix and spaces", "courtside   ", 0, PARSEID_NO_COMMAND, nil},
		{"unknown command", "courtside dunk", 0, PARSEID_COMMAND_NOT_RECOGNISED, nil},
		{"records", "courtside records", COMMAND_RECORDS, PARSEID_OK, nil},
		{"milestones", "courtside milestones", COMMAND_MILESTONES, PARSEID_OK, nil},
		{"leaders all", "courtside leaders", COMMAND_LEADERS, PARSEID_OK, ""},
		{"leaders points", "courtside leaders points", COMMAND_LEADERS, PARSEID_OK, stats.POINTS},
		{"leaders alias", "courtside leaders 3pm", COMMAND_LEADERS, PARSEID_OK, stats.THREES_MADE},
		{"leaders alias case", "courtside leaders PTS", COMMAND_LEADERS, PARSEID_OK, stats.POINTS},
		{"leaders bad stat", "courtside leaders dunks", COMMAND_LEADERS, PARSEID_NOT_A_STAT, nil},
		{"player", "courtside player Anna Smith", COMMAND_PLAYER, PARSEID_OK, "Anna Smith"},
		{"player no name", "courtside player", COMMAND_PLAYER, PARSEID_NO_INPUT, nil},
		{"status", "courtside status", COMMAND_STATUS, PARSEID_OK, nil},
		{"channel", "courtside channel scores", COMMAND_CHANNEL, PARSEID_OK, "scores"},
		{"channel no name", "courtside channel", COMMAND_CHANNEL, PARSEID_NO_INPUT, nil},
		{"sync", "courtside sync", COMMAND_SYNC, PARSEID_OK, nil},
		{"announce", "courtside announce game night at 8", COMMAND_ANNOUNCE, PARSEID_OK, "game night at 8"},
		{"announce empty", "courtside announce", COMMAND_ANNOUNCE, PARSEID_NO_INPUT, nil},
		{"poll", "courtside poll Game night? | Friday | Saturday", COMMAND_POLL, PARSEID_OK, "Game night? | Friday | Saturday"},
		{"poll results", "courtside poll results", COMMAND_POLL, PARSEID_OK, "results"},
		{"poll empty", "courtside poll", COMMAND_POLL, PARSEID_NO_INPUT, nil},
		{"help", "courtside help", COMMAND_HELP, PARSEID_OK, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Parse(tt.message)
			if result.parseid != tt.parseid {
				t.Fatalf("parseid = %d, want %d", result.parseid, tt.parseid)
			}
			if tt.parseid != PARSEID_OK {
				if tt.parseid != PARSEID_NO_BOT_PREFIX && result.errorMessage == "" {
					t.Error("expected an error message")
				}
				return
			}
			if result.command != tt.command {
				t.Errorf("command = %d, want %d", result.command, tt.command)
			}
			if tt.arguments != nil && result.arguments != tt.arguments {
				t.Errorf("arguments = %v, want %v", result.arguments, tt.arguments)
			}
		})
	}
}
