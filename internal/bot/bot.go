package bot

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"

	"courtside/internal/records"
	"courtside/internal/sportspress"
	"courtside/internal/stats"
)

type Bot struct {
	adminRoles     []string
	allTimeListId  int
	seasons        []string
	leadersCount   int
	commandTimeout time.Duration
	client         *sportspress.Client
	reconciler     *records.Reconciler
	discord        *discordgo.Session
	polls          *pollBook
}

// CreateBot builds the bot together with its discord session. The
// session is created here, before the caller spins up any goroutine
// that might dispatch through the bot, and only opened in Run
func CreateBot(token string, adminRoles []string, allTimeListId int, seasons []string, leadersCount int, commandTimeout time.Duration, client *sportspress.Client, reconciler *records.Reconciler) (Bot, error) {

	var bot Bot

	bot.adminRoles = adminRoles
	// List resource holding the all time totals, for leaders and
	// player lookups. Without one, careers are aggregated from the
	// configured season queries instead
	bot.allTimeListId = allTimeListId
	bot.seasons = seasons
	bot.leadersCount = leadersCount
	bot.commandTimeout = commandTimeout
	bot.client = client
	bot.reconciler = reconciler
	bot.polls = newPollBook()

	discord, err := discordgo.New("Bot " + token)
	if err != nil {
		return Bot{}, fmt.Errorf("could not create discord session: %w", err)
	}
	bot.discord = discord

	return bot, nil
}

// Run opens the discord session and blocks until the context is done
func (bot *Bot) Run(ctx context.Context) error {

	// Event handler
	bot.discord.AddHandler(bot.Receive)

	if err := bot.discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer bot.discord.Close()

	log.Info().Msg("Discord session open, waiting for commands")
	<-ctx.Done()
	return nil
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages
	if message.Author.ID == discord.State.User.ID {
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		log.Debug().Msg("Ignoring private message")
		content := "For the time being, I am ignoring private messages"
		bot.sendResponses(discord, message.ChannelID, []Response{ResponseString{content}})
		return
	}

	// Register the guild if it's the first time I see it
	snapshot := bot.reconciler.Snapshot()
	if _, ok := snapshot.Channels[message.GuildID]; !ok {
		log.Info().Msg(fmt.Sprintf("Initialising guild %s", message.GuildID))
		if err := bot.reconciler.SetChannel(message.GuildID, message.ChannelID); err != nil {
			log.Error().Msg(fmt.Sprintf("Could not register guild %s: %s", message.GuildID, err.Error()))
			return
		}
		channelName, err := bot.getChannelName(discord, message.GuildID, message.ChannelID)
		if err != nil {
			log.Error().Msg(fmt.Sprintf("Could not extract channel name for channel id %s", message.ChannelID))
			return
		}
		bot.sendResponses(discord, message.ChannelID, Welcome(channelName))
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(message.Content)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return
	case PARSEID_OK:
		log.Debug().Msg(fmt.Sprintf("Command understood: %s", message.Content))
		var responses []Response
		switch parseResult.command {
		case COMMAND_RECORDS:
			responses = bot.records()
		case COMMAND_MILESTONES:
			responses = bot.milestones()
		case COMMAND_LEADERS:
			switch stat := parseResult.arguments.(type) {
			default:
				panic(fmt.Sprintf("unexpected type of stat %T", stat))
			case string:
				responses = bot.leaders(stat)
			}
		case COMMAND_PLAYER:
			switch name := parseResult.arguments.(type) {
			default:
				panic(fmt.Sprintf("unexpected type of player name %T", name))
			case string:
				responses = bot.player(name)
			}
		case COMMAND_STATUS:
			responses = bot.status(discord, message.GuildID)
		case COMMAND_CHANNEL:
			switch channelName := parseResult.arguments.(type) {
			default:
				panic(fmt.Sprintf("unexpected type of channel name %T", channelName))
			case string:
				responses = bot.channel(discord, channelName, message.GuildID)
			}
		case COMMAND_SYNC:
			responses = bot.sync(message)
		case COMMAND_ANNOUNCE:
			switch announcement := parseResult.arguments.(type) {
			default:
				panic(fmt.Sprintf("unexpected type of announcement %T", announcement))
			case string:
				responses = bot.announce(discord, message, announcement)
			}
		case COMMAND_POLL:
			switch input := parseResult.arguments.(type) {
			default:
				panic(fmt.Sprintf("unexpected type of poll input %T", input))
			case string:
				responses = bot.poll(discord, message, input)
			}
		case COMMAND_HELP:
			responses = HelpMessage()
		default:
			panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
		}
		bot.sendResponses(discord, message.ChannelID, responses)
	default:

		// The command is invalid input, so it contains an error message
		errorMessage := parseResult.errorMessage
		log.Debug().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, errorMessage))
		bot.sendResponses(discord, message.ChannelID, InputNotValid(errorMessage))
	}
}

func (bot *Bot) sendResponses(discord *discordgo.Session, channelId string, responses []Response) {
	for _, response := range responses {
		response.Send(channelId, discord)
	}
}

func (bot *Bot) records() []Response {

	snapshot := bot.reconciler.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), bot.commandTimeout)
	defer cancel()

	views := []RecordView{}
	for _, stat := range records.RecordStats {
		record, ok := snapshot.Records[stat]
		if !ok {
			continue
		}
		holder, _ := bot.client.Names().ResolvePlayer(ctx, record.HolderId)
		view := RecordView{Record: record, Holder: holder}
		if record.TeamId != 0 {
			view.Team, _ = bot.client.Names().ResolveTeam(ctx, record.TeamId)
		}
		if record.OppTeamId != 0 {
			view.Opp, _ = bot.client.Names().ResolveTeam(ctx, record.OppTeamId)
		}
		views = append(views, view)
	}
	return RecordsMessage(views)
}

func (bot *Bot) milestones() []Response {

	snapshot := bot.reconciler.Snapshot()
	ctx, cancel := context.WithTimeout(context.Background(), bot.commandTimeout)
	defer cancel()

	views := []MilestoneView{}
	for playerId, thresholds := range snapshot.Milestones {
		if len(thresholds) == 0 {
			continue
		}
		name, _ := bot.client.Names().ResolvePlayer(ctx, playerId)
		views = append(views, MilestoneView{Player: name, Thresholds: thresholds})
	}
	sort.Slice(views, func(i, j int) bool {
		return strings.ToLower(views[i].Player) < strings.ToLower(views[j].Player)
	})
	return MilestonesMessage(views)
}

// fetchCareer returns the all time totals of every player, from the
// list resource when one is configured, else by summing the season
// queries
func (bot *Bot) fetchCareer(ctx context.Context) ([]sportspress.PlayerSeason, error) {

	if bot.allTimeListId > 0 {
		return bot.client.FetchList(ctx, bot.allTimeListId)
	}
	seasons := make([][]sportspress.PlayerSeason, 0, len(bot.seasons))
	for _, query := range bot.seasons {
		players, err := bot.client.FetchPlayersForSeason(ctx, query)
		if err != nil {
			return nil, err
		}
		seasons = append(seasons, players)
	}
	return stats.AggregateCareer(seasons), nil
}

func (bot *Bot) leaders(stat string) []Response {

	ctx, cancel := context.WithTimeout(context.Background(), bot.commandTimeout)
	defer cancel()

	players, err := bot.fetchCareer(ctx)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not fetch career totals: %s", err.Error()))
		return TryAgainLater()
	}
	if stat == "" {
		return AllLeadersMessage(stats.AllLeaders(players, bot.leadersCount))
	}
	return LeadersMessage(stat, stats.Leaders(players, stat, bot.leadersCount))
}

func (bot *Bot) player(name string) []Response {

	ctx, cancel := context.WithTimeout(context.Background(), bot.commandTimeout)
	defer cancel()

	players, err := bot.fetchCareer(ctx)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Could not fetch career totals: %s", err.Error()))
		return TryAgainLater()
	}
	career, found := matchPlayer(players, name)
	if !found {
		return PlayerNotFound(name)
	}

	snapshot := bot.reconciler.Snapshot()
	_, url := bot.client.Names().ResolvePlayer(ctx, career.Id)
	return PlayerMessage(career, snapshot.Milestones[career.Id], url)
}

// matchPlayer finds a player by name, exact match first and then by
// substring, both case insensitive
func matchPlayer(players []sportspress.PlayerSeason, name string) (sportspress.PlayerSeason, bool) {

	needle := strings.ToLower(strings.TrimSpace(name))
	for _, player := range players {
		if strings.ToLower(player.Name) == needle {
			return player, true
		}
	}
	for _, player := range players {
		if strings.Contains(strings.ToLower(player.Name), needle) {
			return player, true
		}
	}
	return sportspress.PlayerSeason{}, false
}

func (bot *Bot) status(discord *discordgo.Session, guildId string) []Response {

	snapshot := bot.reconciler.Snapshot()
	channelName := "not set"
	if channelId, ok := snapshot.Channels[guildId]; ok {
		if name, err := bot.getChannelName(discord, guildId, channelId); err == nil {
			channelName = name
		}
	}
	return StatusMessage(&snapshot, bot.reconciler.Counters().Snapshot(), channelName)
}

func (bot *Bot) channel(discord *discordgo.Session, channelName string, guildId string) []Response {

	// Try to find the id from the channel name
	channelId, err := bot.getChannelId(discord, guildId, channelName)
	if err != nil {
		log.Debug().Msg(fmt.Sprintf("Could not extract channel id from channel name %s", channelName))
		return ChannelDoesNotExist(channelName)
	}

	log.Info().Msg(fmt.Sprintf("Changing channel used by guild %s to %s", guildId, channelName))
	if err := bot.reconciler.SetChannel(guildId, channelId); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not persist channel change for guild %s: %s", guildId, err.Error()))
		return TryAgainLater()
	}
	return ChannelChanged(channelName)
}

func (bot *Bot) sync(message *discordgo.MessageCreate) []Response {

	if !bot.isAdmin(message) {
		return NotAllowed()
	}
	// The rescan can take a long time, so run it in the background and
	// announce whatever it finds once it is done
	go func() {
		changes, err := bot.reconciler.Reconcile(context.Background(), true)
		if err != nil {
			log.Error().Msg(fmt.Sprintf("Full rescan failed: %s", err.Error()))
			return
		}
		bot.Dispatch(changes)
	}()
	return SyncStarted()
}

func (bot *Bot) announce(discord *discordgo.Session, message *discordgo.MessageCreate, announcement string) []Response {

	if !bot.isAdmin(message) {
		return NotAllowed()
	}
	snapshot := bot.reconciler.Snapshot()
	channelId, ok := snapshot.Channels[message.GuildID]
	if !ok {
		channelId = message.ChannelID
	}
	if err := (ResponseString{announcement}).Send(channelId, discord); err != nil {
		return TryAgainLater()
	}
	return nil
}

// isAdmin checks the author's roles against the configured admin role
// ids. With no roles configured, everybody is an admin
func (bot *Bot) isAdmin(message *discordgo.MessageCreate) bool {

	if len(bot.adminRoles) == 0 {
		return true
	}
	if message.Member == nil {
		return false
	}
	for _, role := range message.Member.Roles {
		for _, admin := range bot.adminRoles {
			if role == admin {
				return true
			}
		}
	}
	return false
}

func (bot *Bot) getChannelName(discord *discordgo.Session, guildid string, channelid string) (string, error) {

	channels, err := discord.GuildChannels(guildid)
	if err != nil {
		return "", fmt.Errorf("could not extract list of channels of guild id %s", guildid)
	}
	for _, ch := range channels {
		if ch.ID == channelid {
			return ch.Name, nil
		}
	}
	return "", fmt.Errorf("no channel name found for channel id %s", channelid)
}

func (bot *Bot) getChannelId(discord *discordgo.Session, guildid string, channelName string) (string, error) {

	channels, err := discord.GuildChannels(guildid)
	if err != nil {
		return "", fmt.Errorf("could not extract list of channels of guild id %s", guildid)
	}
	for _, ch := range channels {
		if ch.Name == channelName {
			return ch.ID, nil
		}
	}
	return "", fmt.Errorf("no channel id found for channel name %s", channelName)
}
