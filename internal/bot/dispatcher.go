package bot

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"courtside/internal/records"
)

// Dispatch renders each change event and posts it to every registered
// announcement channel. Events are isolated from each other: a render
// panic or a failed send is logged and the remaining events still go
// out. The underlying state is committed before events reach this
// point, so nothing is retried and nothing fires twice
func (bot *Bot) Dispatch(changes []records.ChangeEvent) {

	if len(changes) == 0 {
		return
	}
	if bot.discord == nil {
		log.Warn().Msg(fmt.Sprintf("Discord session not ready, dropping %d announcements", len(changes)))
		return
	}

	snapshot := bot.reconciler.Snapshot()
	channelIds := make([]string, 0, len(snapshot.Channels))
	for _, channelId := range snapshot.Channels {
		channelIds = append(channelIds, channelId)
	}
	if len(channelIds) == 0 {
		log.Warn().Msg(fmt.Sprintf("No announcement channels registered, dropping %d announcements", len(changes)))
		return
	}

	log.Info().Msg(fmt.Sprintf("Dispatching %d announcements to %d channels", len(changes), len(channelIds)))
	for _, change := range changes {
		bot.dispatchOne(change, channelIds)
	}
}

func (bot *Bot) dispatchOne(change records.ChangeEvent, channelIds []string) {

	defer func() {
		if r := recover(); r != nil {
			log.Error().Msg(fmt.Sprintf("Could not dispatch announcement %s: %v", change.EventId(), r))
		}
	}()

	response := bot.render(change)
	if response == nil {
		log.Error().Msg(fmt.Sprintf("Do not know how to render change event %s", change.EventId()))
		return
	}
	log.Info().Msg(fmt.Sprintf("Announcing: %s", change.Describe()))
	for _, channelId := range channelIds {
		// Send failures are already logged, keep going with the
		// other channels
		response.Send(channelId, bot.discord)
	}
}

func (bot *Bot) render(change records.ChangeEvent) Response {

	ctx, cancel := context.WithTimeout(context.Background(), bot.commandTimeout)
	defer cancel()

	switch event := change.(type) {
	case records.RecordBroken:
		holder, _ := bot.client.Names().ResolvePlayer(ctx, event.New.HolderId)
		previousHolder := ""
		if event.Old != nil {
			previousHolder, _ = bot.client.Names().ResolvePlayer(ctx, event.Old.HolderId)
		}
		return RecordBrokenMessage(event, holder, previousHolder)
	case records.MilestoneCrossed:
		player, _ := bot.client.Names().ResolvePlayer(ctx, event.Player)
		return MilestoneCrossedMessage(event, player)
	case records.AchievementEarned:
		player, _ := bot.client.Names().ResolvePlayer(ctx, event.Achievement.PlayerId)
		return AchievementMessage(event, player)
	default:
		return nil
	}
}
