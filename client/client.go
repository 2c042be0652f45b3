package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/game"
	"github.com/Yuxi1001/IntroToAI-ChineseCheckers/server"

	"github.com/google/uuid"
)

// Client talks to a game server over HTTP.
type Client struct {
	serverURL string
	http      *http.Client
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.Status, e.Message)
}

// New initializes and returns a new Client. A nil httpClient uses http.DefaultClient.
func New(serverURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		http:      httpClient,
	}
}

func (c *Client) NewGame(ctx context.Context) (server.GameView, error) {
	var view server.GameView
	err := c.do(ctx, http.MethodPost, "/games", nil, &view)
	return view, err
}

func (c *Client) Game(ctx context.Context, id uuid.UUID) (server.GameView, error) {
	var view server.GameView
	err := c.do(ctx, http.MethodGet, "/games/"+id.String(), nil, &view)
	return view, err
}

func (c *Client) LegalMoves(ctx context.Context, id uuid.UUID, from game.Coord) ([]game.Coord, error) {
	var view server.MovesView
	path := fmt.Sprintf("/games/%s/cells/%d/%d/moves", id, from.X, from.Y)
	err := c.do(ctx, http.MethodGet, path, nil, &view)
	return view.Destinations, err
}

// Jumps lists the hops that continue a jump chain standing at at, skipping visited cells.
func (c *Client) Jumps(ctx context.Context, id uuid.UUID, at game.Coord, visited []game.Coord) ([]game.Coord, error) {
	var view server.JumpsView
	query := url.Values{}
	for _, v := range visited {
		query.Add("visited", fmt.Sprintf("%d,%d", v.X, v.Y))
	}
	path := fmt.Sprintf("/games/%s/cells/%d/%d/jumps", id, at.X, at.Y)
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	err := c.do(ctx, http.MethodGet, path, nil, &view)
	return view.Continuations, err
}

func (c *Client) Play(ctx context.Context, id uuid.UUID, move game.Move) (server.PlayView, error) {
	var view server.PlayView
	err := c.do(ctx, http.MethodPost, "/games/"+id.String()+"/moves", move, &view)
	return view, err
}

// Search asks the server to search and play for the side to move.
func (c *Client) Search(ctx context.Context, id uuid.UUID) (server.PlayView, error) {
	var view server.PlayView
	err := c.do(ctx, http.MethodPost, "/games/"+id.String()+"/ai", nil, &view)
	return view, err
}

func (c *Client) Reset(ctx context.Context, id uuid.UUID) (server.GameView, error) {
	var view server.GameView
	err := c.do(ctx, http.MethodPost, "/games/"+id.String()+"/reset", nil, &view)
	return view, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.serverURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var envelope struct {
		Status int             `json:"status"`
		Body   json.RawMessage `json:"body"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e server.ErrorResponse
		_ = json.Unmarshal(envelope.Body, &e)
		return &StatusError{Status: resp.StatusCode, Message: e.Error}
	}
	if out != nil {
		if err = json.Unmarshal(envelope.Body, out); err != nil {
			return fmt.Errorf("failed to decode response body: %w", err)
		}
	}
	return nil
}
