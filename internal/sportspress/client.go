package sportspress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courtside/internal/common"

	"github.com/rs/zerolog/log"
)

// Default base of a SportsPress installation
const DEFAULT_BASE = "https://2kcompleague.com/wp-json/sportspress/v2"

// Routes inside the SportsPress API
const ROUTE_EVENTS = "/events?per_page=%d&page=%d"
const ROUTE_PLAYERS = "/players?%s&per_page=%d&page=%d"
const ROUTE_PLAYER = "/players/%d"
const ROUTE_TEAM = "/teams/%d"
const ROUTE_LIST = "/lists/%d"

// Hard ceiling on pages per fetch, so a misbehaving endpoint
// cannot keep us paginating forever
const MAX_PAGES = 50

type Client struct {
	base  string
	proxy common.Proxy
	names *Names
}

func NewClient(base string, timeout time.Duration, retries int, retryDelay time.Duration, restrictions []common.Restriction) *Client {

	if base == "" {
		base = DEFAULT_BASE
	}
	header := map[string]string{
		"User-Agent": "courtside/1.0",
		"Accept":     "application/json",
	}
	client := &Client{base: base, proxy: common.NewProxy(header, restrictions, timeout, retries, retryDelay)}
	client.names = NewNames(client)
	return client
}

func (client *Client) Names() *Names {
	return client.names
}

// FetchEvents walks the events endpoint page by page until a short page
// signals the end. The WordPress API answers a page past the last one
// with a 400, which also terminates the walk cleanly
func (client *Client) FetchEvents(ctx context.Context, perPage int, maxPages int) ([]Event, error) {

	if maxPages <= 0 || maxPages > MAX_PAGES {
		maxPages = MAX_PAGES
	}

	var events []Event
	for page := 1; page <= maxPages; page++ {

		url := client.base + fmt.Sprintf(ROUTE_EVENTS, perPage, page)
		data, err := client.request(ctx, url, true)
		if err != nil {
			if endOfPagination(err) {
				break
			}
			return nil, err
		}

		pageEvents, err := UnmarshalEvents(data)
		if err != nil {
			return nil, fmt.Errorf("could not decode events page %d: %w", page, err)
		}
		if len(pageEvents) == 0 {
			break
		}
		events = append(events, pageEvents...)
		if len(pageEvents) < perPage {
			break
		}
	}

	log.Debug().Msg(fmt.Sprintf("Fetched %d events", len(events)))
	return events, nil
}

// FetchPlayersForSeason returns the accumulated totals of every player
// for the season selected by the provided query, e.g. "league=nba2k25s1"
func (client *Client) FetchPlayersForSeason(ctx context.Context, seasonQuery string) ([]PlayerSeason, error) {

	var players []PlayerSeason
	const perPage = 100
	for page := 1; page <= MAX_PAGES; page++ {

		url := client.base + fmt.Sprintf(ROUTE_PLAYERS, seasonQuery, perPage, page)
		data, err := client.request(ctx, url, true)
		if err != nil {
			if endOfPagination(err) {
				break
			}
			return nil, err
		}

		pagePlayers, err := UnmarshalPlayerSeasons(data)
		if err != nil {
			return nil, fmt.Errorf("could not decode players page %d for season %s: %w", page, seasonQuery, err)
		}
		if len(pagePlayers) == 0 {
			break
		}
		players = append(players, pagePlayers...)
		if len(pagePlayers) < perPage {
			break
		}
	}

	log.Debug().Msg(fmt.Sprintf("Fetched %d players for season %s", len(players), seasonQuery))
	return players, nil
}

// FetchList returns the player totals held by a list resource,
// for instance an all time statistics table
func (client *Client) FetchList(ctx context.Context, listId int) ([]PlayerSeason, error) {

	url := client.base + fmt.Sprintf(ROUTE_LIST, listId)
	data, err := client.request(ctx, url, true)
	if err != nil {
		return nil, err
	}
	return UnmarshalList(data)
}

func (client *Client) request(ctx context.Context, url string, vital bool) ([]byte, error) {
	log.Debug().Msg(fmt.Sprintf("Requesting url %s", url))
	return client.proxy.Request(ctx, url, vital)
}

// A 400 past the last page is how this API says "no more pages"
func endOfPagination(err error) bool {
	var permanent *common.PermanentError
	return errors.As(err, &permanent) && permanent.Status == common.BAD_REQUEST
}
