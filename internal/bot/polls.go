package bot

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Reaction emojis, one per poll option in order
var pollEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

const MIN_POLL_OPTIONS = 2
const MAX_POLL_OPTIONS = 10

// Poll is one reaction poll posted by the bot. Votes live in the
// reactions of the poll message itself, so the bot only has to remember
// where the message is
type Poll struct {
	Question  string
	Options   []string
	GuildId   string
	ChannelId string
	MessageId string
	Creator   string
	Created   time.Time
}

// pollBook tracks the polls posted by this process, per guild and
// newest last
type pollBook struct {
	mtx     sync.Mutex
	byGuild map[string][]Poll
}

func newPollBook() *pollBook {
	return &pollBook{byGuild: map[string][]Poll{}}
}

func (book *pollBook) add(poll Poll) {
	book.mtx.Lock()
	defer book.mtx.Unlock()
	book.byGuild[poll.GuildId] = append(book.byGuild[poll.GuildId], poll)
}

func (book *pollBook) latest(guildId string) (Poll, bool) {
	book.mtx.Lock()
	defer book.mtx.Unlock()
	polls := book.byGuild[guildId]
	if len(polls) == 0 {
		return Poll{}, false
	}
	return polls[len(polls)-1], true
}

// poll creates a reaction poll, or with the single argument "results"
// reports the vote counts of the newest poll of the guild
func (bot *Bot) poll(discord *discordgo.Session, message *discordgo.MessageCreate, input string) []Response {

	if strings.EqualFold(strings.TrimSpace(input), "results") {
		return bot.pollResults(discord, message.GuildID)
	}

	question, options, err := parsePollInput(input)
	if err != nil {
		return InputNotValid(err.Error())
	}

	sent, err := discord.ChannelMessageSendEmbed(message.ChannelID, pollEmbed(question, options, message.Author.Username))
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not post poll in channel %s: %s", message.ChannelID, err.Error()))
		return TryAgainLater()
	}
	for i := range options {
		// A missing reaction degrades that option, the poll itself
		// still stands
		if err := discord.MessageReactionAdd(message.ChannelID, sent.ID, pollEmojis[i]); err != nil {
			log.Warn().Msg(fmt.Sprintf("Could not add poll reaction %s: %s", pollEmojis[i], err.Error()))
		}
	}

	bot.polls.add(Poll{
		Question:  question,
		Options:   options,
		GuildId:   message.GuildID,
		ChannelId: message.ChannelID,
		MessageId: sent.ID,
		Creator:   message.Author.Username,
		Created:   time.Now(),
	})
	log.Info().Msg(fmt.Sprintf("Poll created in guild %s: %s", message.GuildID, question))
	return nil
}

func (bot *Bot) pollResults(discord *discordgo.Session, guildId string) []Response {

	poll, ok := bot.polls.latest(guildId)
	if !ok {
		return NoActivePoll()
	}
	pollMessage, err := discord.ChannelMessage(poll.ChannelId, poll.MessageId)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not fetch poll message %s: %s", poll.MessageId, err.Error()))
		return TryAgainLater()
	}
	return PollResultsMessage(poll, countPollVotes(pollMessage.Reactions, len(poll.Options)))
}

// parsePollInput splits "question | option | option ..." into its parts
func parsePollInput(input string) (string, []string, error) {

	parts := strings.Split(input, "|")
	question := strings.TrimSpace(parts[0])
	options := []string{}
	for _, part := range parts[1:] {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			options = append(options, trimmed)
		}
	}

	if question == "" {
		return "", nil, fmt.Errorf("a poll needs a question")
	}
	if len(options) < MIN_POLL_OPTIONS {
		return "", nil, fmt.Errorf("a poll needs at least %d options, separated by `|`", MIN_POLL_OPTIONS)
	}
	if len(options) > MAX_POLL_OPTIONS {
		return "", nil, fmt.Errorf("a poll can have at most %d options", MAX_POLL_OPTIONS)
	}
	return question, options, nil
}

// countPollVotes tallies the option reactions of a poll message. The
// bot's own priming reaction does not count as a vote
func countPollVotes(reactions []*discordgo.MessageReactions, optionCount int) []int {

	counts := make([]int, optionCount)
	for _, reaction := range reactions {
		if reaction == nil || reaction.Emoji == nil {
			continue
		}
		for i := 0; i < optionCount; i++ {
			if reaction.Emoji.Name != pollEmojis[i] {
				continue
			}
			count := reaction.Count
			if reaction.Me {
				count--
			}
			if count > 0 {
				counts[i] += count
			}
		}
	}
	return counts
}
