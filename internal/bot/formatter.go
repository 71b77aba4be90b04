package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"courtside/internal/records"
	"courtside/internal/sportspress"
	"courtside/internal/stats"
	"courtside/internal/store"
)

// Use "teal" color for the bot
const color int = 0x008080

// Human readable labels for the canonical stat names
var statLabels = map[string]string{
	stats.POINTS:         "Points",
	stats.REBOUNDS:       "Rebounds",
	stats.ASSISTS:        "Assists",
	stats.STEALS:         "Steals",
	stats.BLOCKS:         "Blocks",
	stats.THREES_MADE:    "Threes made",
	stats.FG_PERCENT:     "Field goal %",
	stats.THREEP_PERCENT: "Three point %",
}

func StatLabel(stat string) string {
	if label, ok := statLabels[stat]; ok {
		return label
	}
	return stat
}

func Welcome(channelName string) []Response {

	content := fmt.Sprintf("Hi, I will be announcing records and milestones in channel %s\n", channelName)
	content += "You can change this anytime by typing \n> `courtside channel <channel_name>`"
	return []Response{ResponseString{content}}
}

func InputNotValid(errorMessage string) []Response {

	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func TryAgainLater() []Response {

	return []Response{ResponseString{"Something went wrong on my side, please try again later"}}
}

func NotAllowed() []Response {

	return []Response{ResponseString{"You need an admin role to use that command"}}
}

func HelpMessage() []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside records`",
		Value:  "Print the current single game records of the league",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside milestones`",
		Value:  "Print the career milestones players have reached",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside leaders [stat]`",
		Value:  "Print the all time leaders, for one stat or for all of them",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside player <player_name>`",
		Value:  "Print the career numbers and milestones of the provided player",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside status`",
		Value:  "Print when the league was last polled and what has been found so far",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside poll <question> | <option> | <option>`",
		Value:  "Create a reaction poll with up to ten options",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside poll results`",
		Value:  "Print the current vote counts of the newest poll",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside channel <channel_name>`",
		Value:  "Change the channel the bot announces records and milestones to",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside sync` (admin)",
		Value:  "Rescan the complete game history right now",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside announce <message>` (admin)",
		Value:  "Post a message in the announcement channel",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "`courtside help`",
		Value:  "Print the usage of the different commands",
		Inline: false,
	})
	return []Response{ResponseEmbed{embed}}
}

func ChannelDoesNotExist(channelName string) []Response {

	return []Response{ResponseString{fmt.Sprintf("Channel `%s` does not exist in this server", channelName)}}
}

func ChannelChanged(channelName string) []Response {
	return []Response{ResponseString{fmt.Sprintf("From now on, I will be sending announcements to `%s`", channelName)}}
}

// RecordView is a record together with its resolved display names
type RecordView struct {
	Record store.Record
	Holder string
	Team   string
	Opp    string
}

func recordValue(record *store.Record) string {
	switch record.Stat {
	case stats.FG_PERCENT, stats.THREEP_PERCENT:
		return fmt.Sprintf("%.1f%%", record.Value)
	default:
		return fmt.Sprintf("%.0f", record.Value)
	}
}

func RecordsMessage(views []RecordView) []Response {

	if len(views) == 0 {
		return []Response{ResponseString{"No records on the books yet, check back after the first games"}}
	}
	embed := discordgo.MessageEmbed{Title: "Single game records", Color: color}
	for _, view := range views {
		value := fmt.Sprintf("**%s** by %s", recordValue(&view.Record), view.Holder)
		if view.Opp != "" {
			value += fmt.Sprintf(" vs %s", view.Opp)
		}
		if view.Record.Date != "" {
			value += fmt.Sprintf(" (%s)", view.Record.Date)
		}
		if view.Record.GameUrl != "" {
			value += fmt.Sprintf("\n[Box score](%s)", view.Record.GameUrl)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   StatLabel(view.Record.Stat),
			Value:  value,
			Inline: false,
		})
	}
	return []Response{ResponseEmbed{embed}}
}

// MilestoneView is one player's ledger with the resolved display name
type MilestoneView struct {
	Player     string
	Thresholds map[string]int
}

func MilestonesMessage(views []MilestoneView) []Response {

	if len(views) == 0 {
		return []Response{ResponseString{"Nobody has reached a career milestone yet"}}
	}
	embed := discordgo.MessageEmbed{Title: "Career milestones reached", Color: color}
	for _, view := range views {
		parts := []string{}
		for _, stat := range records.MilestoneStats {
			if threshold, ok := view.Thresholds[stat]; ok && threshold > 0 {
				parts = append(parts, fmt.Sprintf("%d %s", threshold, strings.ToLower(StatLabel(stat))))
			}
		}
		if len(parts) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   view.Player,
			Value:  strings.Join(parts, ", "),
			Inline: false,
		})
	}
	return []Response{ResponseEmbed{embed}}
}

func LeadersMessage(stat string, entries []stats.LeaderEntry) []Response {

	if len(entries) == 0 {
		return []Response{ResponseString{fmt.Sprintf("No %s recorded yet", strings.ToLower(StatLabel(stat)))}}
	}
	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("All time leaders, %s", strings.ToLower(StatLabel(stat))), Color: color}
	embed.Fields = append(embed.Fields, leadersField(stat, entries))
	return []Response{ResponseEmbed{embed}}
}

func AllLeadersMessage(leaders map[string][]stats.LeaderEntry) []Response {

	embed := discordgo.MessageEmbed{Title: "All time leaders", Color: color}
	for _, stat := range stats.LeaderStats {
		entries := leaders[stat]
		if len(entries) == 0 {
			continue
		}
		embed.Fields = append(embed.Fields, leadersField(stat, entries))
	}
	if len(embed.Fields) == 0 {
		return []Response{ResponseString{"No stats recorded yet"}}
	}
	return []Response{ResponseEmbed{embed}}
}

func leadersField(stat string, entries []stats.LeaderEntry) *discordgo.MessageEmbedField {

	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = fmt.Sprintf("%d. **%s** %.0f", i+1, entry.Name, entry.Value)
	}
	return &discordgo.MessageEmbedField{
		Name:   StatLabel(stat),
		Value:  strings.Join(lines, "\n"),
		Inline: false,
	}
}

func PlayerNotFound(name string) []Response {

	return []Response{ResponseString{fmt.Sprintf("I could not find a player called `%s`", name)}}
}

func PlayerMessage(career sportspress.PlayerSeason, thresholds map[string]int, url string) []Response {

	embed := discordgo.MessageEmbed{Title: fmt.Sprintf("Career numbers of %s", career.Name), Color: color}
	if url != "" {
		embed.URL = url
	}
	totals := []string{
		fmt.Sprintf("Points: **%.0f**", career.Points),
		fmt.Sprintf("Rebounds: **%.0f**", career.Rebounds),
		fmt.Sprintf("Assists: **%.0f**", career.Assists),
		fmt.Sprintf("Steals: **%.0f**", career.Steals),
		fmt.Sprintf("Blocks: **%.0f**", career.Blocks),
		fmt.Sprintf("Threes made: **%.0f**", career.ThreesMade),
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Totals",
		Value:  strings.Join(totals, "\n"),
		Inline: false,
	})
	milestones := []string{}
	for _, stat := range records.MilestoneStats {
		if threshold, ok := thresholds[stat]; ok && threshold > 0 {
			milestones = append(milestones, fmt.Sprintf("%d %s", threshold, strings.ToLower(StatLabel(stat))))
		}
	}
	value := "None yet"
	if len(milestones) > 0 {
		value = strings.Join(milestones, ", ")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Milestones reached",
		Value:  value,
		Inline: false,
	})
	return []Response{ResponseEmbed{embed}}
}

func StatusMessage(state *store.State, counters records.CountersSnapshot, channelName string) []Response {

	embed := discordgo.MessageEmbed{Title: "League tracker status", Color: color}
	lastPoll := "never"
	if !state.LastPoll.IsZero() {
		lastPoll = state.LastPoll.Format("2006-01-02 15:04:05 MST")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Polling",
		Value: fmt.Sprintf("Last poll: %s\nPasses: %d, failures: %d",
			lastPoll, counters.Polls, counters.Failures),
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Ledger",
		Value: fmt.Sprintf("Games processed: %d\nRecords on the books: %d\nMilestones announced: %d",
			len(state.ProcessedGames), len(state.Records), counters.MilestonesFired),
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Channel for announcements",
		Value:  channelName,
		Inline: false,
	})
	return []Response{ResponseEmbed{embed}}
}

func pollEmbed(question string, options []string, creator string) *discordgo.MessageEmbed {

	lines := make([]string, len(options))
	for i, option := range options {
		lines[i] = fmt.Sprintf("%s %s", pollEmojis[i], option)
	}
	embed := discordgo.MessageEmbed{
		Title:       "Community poll",
		Description: fmt.Sprintf("**%s**", question),
		Color:       color,
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   "Options",
		Value:  strings.Join(lines, "\n"),
		Inline: false,
	})
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Created by %s. React to vote", creator),
	}
	return &embed
}

func PollResultsMessage(poll Poll, counts []int) []Response {

	total := 0
	for _, count := range counts {
		total += count
	}
	lines := make([]string, len(poll.Options))
	for i, option := range poll.Options {
		percent := 0.0
		if total > 0 {
			percent = 100 * float64(counts[i]) / float64(total)
		}
		lines[i] = fmt.Sprintf("%s %s: **%d** (%.0f%%)", pollEmojis[i], option, counts[i], percent)
	}
	embed := discordgo.MessageEmbed{
		Title:       "Poll results",
		Description: fmt.Sprintf("**%s**", poll.Question),
		Color:       color,
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("Votes (%d total)", total),
		Value:  strings.Join(lines, "\n"),
		Inline: false,
	})
	return []Response{ResponseEmbed{embed}}
}

func NoActivePoll() []Response {
	content := "There is no open poll in this server. Create one with\n> `courtside poll <question> | <option> | <option>`"
	return []Response{ResponseString{content}}
}

func SyncStarted() []Response {

	return []Response{ResponseString{"Rescanning the complete game history, this can take a while"}}
}

// Notification formatters, one per change event kind

func RecordBrokenMessage(event records.RecordBroken, holder string, previousHolder string) Response {

	label := strings.ToLower(StatLabel(event.New.Stat))
	embed := discordgo.MessageEmbed{
		Title: fmt.Sprintf("New %s record!", label),
		Color: color,
	}
	description := fmt.Sprintf("**%s** put up **%s** %s", holder, recordValue(&event.New), label)
	if event.New.Date != "" {
		description += fmt.Sprintf(" on %s", event.New.Date)
	}
	if event.Old != nil {
		description += fmt.Sprintf("\nPrevious record: %s by %s", recordValue(event.Old), previousHolder)
	}
	if event.New.GameUrl != "" {
		description += fmt.Sprintf("\n[Box score](%s)", event.New.GameUrl)
	}
	embed.Description = description
	return ResponseEmbed{embed}
}

func MilestoneCrossedMessage(event records.MilestoneCrossed, player string) Response {

	label := strings.ToLower(StatLabel(event.Stat))
	embed := discordgo.MessageEmbed{
		Title: fmt.Sprintf("Milestone: %d career %s", event.Threshold, label),
		Color: color,
	}
	description := fmt.Sprintf("**%s** has reached **%d** career %s (now at %.0f)",
		player, event.Threshold, label, event.Total)
	if event.GameUrl != "" {
		description += fmt.Sprintf("\n[Box score](%s)", event.GameUrl)
	}
	embed.Description = description
	return ResponseEmbed{embed}
}

func AchievementMessage(event records.AchievementEarned, player string) Response {

	embed := discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s with a %s!", player, event.Kind),
		Color: color,
	}
	parts := []string{}
	for _, stat := range event.Achievement.Categories {
		parts = append(parts, fmt.Sprintf("%.0f %s", event.Achievement.Values[stat], strings.ToLower(StatLabel(stat))))
	}
	description := strings.Join(parts, ", ")
	if event.Achievement.Date != "" {
		description += fmt.Sprintf(" on %s", event.Achievement.Date)
	}
	if event.Achievement.GameUrl != "" {
		description += fmt.Sprintf("\n[Box score](%s)", event.Achievement.GameUrl)
	}
	embed.Description = description
	return ResponseEmbed{embed}
}
