package bot

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"courtside/internal/stats"
)

const prefix string = "courtside"

const (
	COMMAND_RECORDS    = iota
	COMMAND_MILESTONES = iota
	COMMAND_LEADERS    = iota
	COMMAND_PLAYER     = iota
	COMMAND_STATUS     = iota
	COMMAND_CHANNEL    = iota
	COMMAND_SYNC       = iota
	COMMAND_ANNOUNCE   = iota
	COMMAND_POLL       = iota
	COMMAND_HELP       = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_NOT_A_STAT             = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_NOT_A_STAT:             "`%s` is not a stat I keep leaders for",
}

// Aliases accepted for the leaders command
var statAliases = map[string]string{
	"points":   stats.POINTS,
	"pts":      stats.POINTS,
	"rebounds": stats.REBOUNDS,
	"reb":      stats.REBOUNDS,
	"assists":  stats.ASSISTS,
	"ast":      stats.ASSISTS,
	"steals":   stats.STEALS,
	"stl":      stats.STEALS,
	"blocks":   stats.BLOCKS,
	"blk":      stats.BLOCKS,
	"threes":   stats.THREES_MADE,
	"3pm":      stats.THREES_MADE,
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

func Parse(message string) ParseResult {

	noInput := func(command int, commandString string) ParseResult {
		parseid := PARSEID_NO_INPUT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Split(strings.TrimSpace(message[len(prefix):]), " ")
	if len(words) == 1 && words[0] == "" {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := words[0]
	words = words[1:]

	// Match the command

	switch commandString {
	case "records":
		// courtside records
		return ParseResult{command: COMMAND_RECORDS, parseid: PARSEID_OK}
	case "milestones":
		// courtside milestones
		return ParseResult{command: COMMAND_MILESTONES, parseid: PARSEID_OK}
	case "leaders":
		// courtside leaders [stat]
		command := COMMAND_LEADERS
		if len(words) == 0 {
			// No stat means all of them
			return ParseResult{command: command, parseid: PARSEID_OK, arguments: ""}
		}
		return parseStat(command, words)
	case "player":
		// courtside player <player_name>
		command := COMMAND_PLAYER
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: strings.Join(words, " ")}
	case "status":
		// courtside status
		return ParseResult{command: COMMAND_STATUS, parseid: PARSEID_OK}
	case "channel":
		// courtside channel <channel_name>
		command := COMMAND_CHANNEL
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: strings.Join(words, " ")}
	case "sync":
		// courtside sync
		return ParseResult{command: COMMAND_SYNC, parseid: PARSEID_OK}
	case "announce":
		// courtside announce <message>
		command := COMMAND_ANNOUNCE
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: strings.Join(words, " ")}
	case "poll":
		// courtside poll <question> | <option> | <option> ...
		// courtside poll results
		command := COMMAND_POLL
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: strings.Join(words, " ")}
	case "help":
		// courtside help
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}

func parseStat(command int, words []string) ParseResult {

	word := strings.ToLower(strings.Join(words, ""))
	stat, ok := statAliases[word]
	if !ok {
		parseid := PARSEID_NOT_A_STAT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], word)}
	}
	return ParseResult{command: command, parseid: PARSEID_OK, arguments: stat}
}
