package bot

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestParsePollInput(t *testing.T) {

	tests := []struct {
		name     string
		input    string
		question string
		options  []string
		wantErr  bool
	}{
		{
			name:     "two options",
			input:    "Best team name? | Ballers | Dunkers",
			question: "Best team name?",
			options:  []string{"Ballers", "Dunkers"},
		},
		{
			name:     "extra whitespace and empty segments",
			input:    "  Game night?  | Friday || Saturday |",
			question: "Game night?",
			options:  []string{"Friday", "Saturday"},
		},
		{
			name:    "no options",
			input:   "Best team name?",
			wantErr: true,
		},
		{
			name:    "one option",
			input:   "Best team name? | Ballers",
			wantErr: true,
		},
		{
			name:    "no question",
			input:   " | Ballers | Dunkers",
			wantErr: true,
		},
		{
			name:    "too many options",
			input:   "Pick one | a | b | c | d | e | f | g | h | i | j | k",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			question, options, err := parsePollInput(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected an error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if question != tt.question {
				t.Errorf("question = %q, want %q", question, tt.question)
			}
			if len(options) != len(tt.options) {
				t.Fatalf("options = %v, want %v", options, tt.options)
			}
			for i := range options {
				if options[i] != tt.options[i] {
					t.Errorf("option %d = %q, want %q", i, options[i], tt.options[i])
				}
			}
		})
	}
}

func TestCountPollVotes(t *testing.T) {

	reactions := []*discordgo.MessageReactions{
		// Three voters plus the bot's own priming reaction
		{Count: 4, Me: true, Emoji: &discordgo.Emoji{Name: pollEmojis[0]}},
		// Nobody voted beyond the bot
		{Count: 1, Me: true, Emoji: &discordgo.Emoji{Name: pollEmojis[1]}},
		// A reaction that is not a poll option
		{Count: 7, Emoji: &discordgo.Emoji{Name: "🔥"}},
		// An option emoji the bot never primed still counts fully
		{Count: 2, Emoji: &discordgo.Emoji{Name: pollEmojis[2]}},
	}

	counts := countPollVotes(reactions, 3)
	if counts[0] != 3 {
		t.Errorf("option 0 = %d votes, want 3", counts[0])
	}
	if counts[1] != 0 {
		t.Errorf("option 1 = %d votes, want 0", counts[1])
	}
	if counts[2] != 2 {
		t.Errorf("option 2 = %d votes, want 2", counts[2])
	}
}

func TestPollBookLatest(t *testing.T) {

	book := newPollBook()
	if _, ok := book.latest("guild-1"); ok {
		t.Fatal("empty book must not return a poll")
	}

	book.add(Poll{GuildId: "guild-1", Question: "first"})
	book.add(Poll{GuildId: "guild-1", Question: "second"})
	book.add(Poll{GuildId: "guild-2", Question: "other"})

	poll, ok := book.latest("guild-1")
	if !ok || poll.Question != "second" {
		t.Errorf("latest poll = %+v, want the newest of guild-1", poll)
	}
	if _, ok := book.latest("guild-3"); ok {
		t.Error("unknown guild must not return a poll")
	}
}

func TestPollResultsMessage(t *testing.T) {

	poll := Poll{
		Question: "Best team name?",
		Options:  []string{"Ballers", "Dunkers"},
	}
	embed := firstEmbed(t, PollResultsMessage(poll, []int{3, 1}))
	if !strings.Contains(embed.Description, "Best team name?") {
		t.Errorf("description %q should carry the question", embed.Description)
	}
	field := embed.Fields[0]
	if !strings.Contains(field.Name, "4 total") {
		t.Errorf("field name %q should carry the total", field.Name)
	}
	if !strings.Contains(field.Value, "Ballers: **3** (75%)") {
		t.Errorf("unexpected results rendering: %q", field.Value)
	}
	if !strings.Contains(field.Value, "Dunkers: **1** (25%)") {
		t.Errorf("unexpected results rendering: %q", field.Value)
	}
}

func TestPollEmbedListsOptions(t *testing.T) {

	embed := pollEmbed("Game night?", []string{"Friday", "Saturday"}, "anna")
	if !strings.Contains(embed.Fields[0].Value, pollEmojis[0]+" Friday") {
		t.Errorf("options field %q should number the options", embed.Fields[0].Value)
	}
	if !strings.Contains(embed.Footer.Text, "anna") {
		t.Errorf("footer %q should name the creator", embed.Footer.Text)
	}
}
