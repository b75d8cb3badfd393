// Package fivem fetches the public status of a FiveM server from the cfx.re server list api.
package fivem

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/leighmacdonald/roster-tui/internal/network"
	"github.com/leighmacdonald/roster-tui/internal/network/encoding"
	"github.com/leighmacdonald/roster-tui/internal/roster"
)

var (
	ErrNetwork = errors.New("failed to reach server list api")

	colourCodes = regexp.MustCompile(`\^[0-9]`)
)

type player struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Ping        int      `json:"ping"`
	Identifiers []string `json:"identifiers"`
	Endpoint    string   `json:"endpoint"`
}

type statusResponse struct {
	EndPoint string `json:"EndPoint"`
	Data     struct {
		Hostname   string            `json:"hostname"`
		Clients    int               `json:"clients"`
		MaxClients int               `json:"sv_maxclients"`
		MapName    string            `json:"mapname"`
		Players    []player          `json:"players"`
		Vars       map[string]string `json:"vars"`
	} `json:"Data"`
}

// Status is the decoded server status.
type Status struct {
	Hostname   string
	Clients    int
	MaxClients int
	Players    []roster.PlayerRecord
	FetchedAt  time.Time
}

// Fetcher is implemented by anything capable of returning the current server status.
type Fetcher interface {
	Fetch(ctx context.Context) (Status, error)
}

type Client struct {
	http *network.Client
	url  string
	now  func() time.Time
}

func New(http *network.Client, statusURL string) *Client {
	return &Client{http: http, url: statusURL, now: time.Now}
}

// Fetch queries the status endpoint. Transport failures and non 2xx responses are returned joined with
// ErrNetwork, a malformed body with encoding.ErrDecodeJSON. A response without a player list decodes to an
// empty roster.
func (c *Client) Fetch(ctx context.Context) (Status, error) {
	resp, err := network.FetchJSON[statusResponse](ctx, c.http, c.url)
	if err != nil {
		if errors.Is(err, encoding.ErrDecodeJSON) {
			return Status{}, err
		}

		return Status{}, errors.Join(err, ErrNetwork)
	}

	return decode(*resp, c.now()), nil
}

func decode(resp statusResponse, fetchedAt time.Time) Status {
	players := make([]roster.PlayerRecord, len(resp.Data.Players))
	for idx, entry := range resp.Data.Players {
		players[idx] = roster.PlayerRecord{
			ID:          entry.ID,
			Name:        entry.Name,
			Ping:        max(0, entry.Ping),
			Identifiers: entry.Identifiers,
			Endpoint:    entry.Endpoint,
		}
	}

	hostname := resp.Data.Hostname
	if projectName := resp.Data.Vars["sv_projectName"]; projectName != "" {
		hostname = projectName
	}

	return Status{
		Hostname:   CleanHostname(hostname),
		Clients:    resp.Data.Clients,
		MaxClients: resp.Data.MaxClients,
		Players:    players,
		FetchedAt:  fetchedAt,
	}
}

// CleanHostname removes the ^0-^9 colour codes used by FiveM server names.
func CleanHostname(hostname string) string {
	return strings.TrimSpace(colourCodes.ReplaceAllString(hostname, ""))
}
