package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

type ResponseString struct {
	string
}
type ResponseEmbed struct {
	discordgo.MessageEmbed
}

type Response interface {
	Send(channelid string, discord *discordgo.Session) error
}

func (response ResponseString) Send(channelid string, discord *discordgo.Session) error {
	if _, err := discord.ChannelMessageSend(channelid, response.string); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not send message to channel %s: %s", channelid, err.Error()))
		return err
	}
	return nil
}

func (response ResponseEmbed) Send(channelid string, discord *discordgo.Session) error {
	if _, err := discord.ChannelMessageSendEmbed(channelid, &response.MessageEmbed); err != nil {
		log.Error().Msg(fmt.Sprintf("Could not send embed to channel %s: %s", channelid, err.Error()))
		return err
	}
	return nil
}
