package sportspress

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"courtside/internal/common"

	"github.com/rs/zerolog/log"
)

// Names resolves player and team ids to display names and public urls.
// Lookups are memoized for the lifetime of the process, so each id costs
// at most one request. When the API will never answer for an id, the
// deterministic placeholder is cached instead: commands and
// notifications keep working with degraded output rather than failing
type Names struct {
	mtx        sync.Mutex
	client     *Client
	playerName map[PlayerId]string
	playerUrl  map[PlayerId]string
	teamName   map[TeamId]string
	teamUrl    map[TeamId]string
}

func NewNames(client *Client) *Names {
	return &Names{
		client:     client,
		playerName: map[PlayerId]string{},
		playerUrl:  map[PlayerId]string{},
		teamName:   map[TeamId]string{},
		teamUrl:    map[TeamId]string{},
	}
}

// ResolvePlayer returns the display name and profile url for a player id.
// On permanent failure the placeholder is cached and returned; on
// transient failure the placeholder is returned but not cached, so the
// next pass tries again
func (names *Names) ResolvePlayer(ctx context.Context, id PlayerId) (string, string) {

	names.mtx.Lock()
	if name, ok := names.playerName[id]; ok {
		url := names.playerUrl[id]
		names.mtx.Unlock()
		return name, url
	}
	names.mtx.Unlock()

	url := names.client.base + fmt.Sprintf(ROUTE_PLAYER, id)
	data, err := names.client.request(ctx, url, false)
	if err != nil {
		return names.playerFailure(id, err)
	}

	name, link, err := UnmarshalTitleLink(data)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not decode player %d: %v", id, err))
		return PlayerPlaceholder(id), ""
	}

	names.mtx.Lock()
	names.playerName[id] = name
	names.playerUrl[id] = link
	names.mtx.Unlock()
	return name, link
}

// ResolveTeam returns the display name and page url for a team id,
// with the same failure behaviour as ResolvePlayer
func (names *Names) ResolveTeam(ctx context.Context, id TeamId) (string, string) {

	names.mtx.Lock()
	if name, ok := names.teamName[id]; ok {
		url := names.teamUrl[id]
		names.mtx.Unlock()
		return name, url
	}
	names.mtx.Unlock()

	url := names.client.base + fmt.Sprintf(ROUTE_TEAM, id)
	data, err := names.client.request(ctx, url, false)
	if err != nil {
		return names.teamFailure(id, err)
	}

	name, link, err := UnmarshalTitleLink(data)
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not decode team %d: %v", id, err))
		return TeamPlaceholder(id), ""
	}

	names.mtx.Lock()
	names.teamName[id] = name
	names.teamUrl[id] = link
	names.mtx.Unlock()
	return name, link
}

func (names *Names) playerFailure(id PlayerId, err error) (string, string) {

	placeholder := PlayerPlaceholder(id)
	var permanent *common.PermanentError
	if errors.As(err, &permanent) {
		// This id will never resolve, remember the placeholder
		// so we do not keep asking
		names.mtx.Lock()
		names.playerName[id] = placeholder
		names.mtx.Unlock()
		log.Warn().Msg(fmt.Sprintf("Player %d does not resolve, caching placeholder", id))
	} else {
		log.Debug().Msg(fmt.Sprintf("Could not resolve player %d this pass: %v", id, err))
	}
	return placeholder, ""
}

func (names *Names) teamFailure(id TeamId, err error) (string, string) {

	placeholder := TeamPlaceholder(id)
	var permanent *common.PermanentError
	if errors.As(err, &permanent) {
		names.mtx.Lock()
		names.teamName[id] = placeholder
		names.mtx.Unlock()
		log.Warn().Msg(fmt.Sprintf("Team %d does not resolve, caching placeholder", id))
	} else {
		log.Debug().Msg(fmt.Sprintf("Could not resolve team %d this pass: %v", id, err))
	}
	return placeholder, ""
}

func PlayerPlaceholder(id PlayerId) string {
	return fmt.Sprintf("Player %d", id)
}

func TeamPlaceholder(id TeamId) string {
	return fmt.Sprintf("Team %d", id)
}

// Incomplete reports whether a display name is a placeholder,
// so downstream output can be marked as degraded
func Incomplete(name string) bool {
	return strings.HasPrefix(name, "Player ") || strings.HasPrefix(name, "Team ")
}
