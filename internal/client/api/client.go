// FILE: internal/client/api/client.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"tilechess/internal/client/display"
	"tilechess/internal/core"
)

// Client talks to a chess server's JSON API and traces every exchange
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Verbose    bool
	Out        io.Writer
}

// APIError is a non-2xx reply, carrying the server's error body when it
// could be decoded
type APIError struct {
	Status int
	Body   core.ErrorResponse
}

func (e *APIError) Error() string {
	if e.Body.Error == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	msg := fmt.Sprintf("%s (%s)", e.Body.Error, e.Body.Code)
	if e.Body.Details != "" {
		msg += ": " + e.Body.Details
	}
	return msg
}

// HealthResponse mirrors the server's /health body
type HealthResponse struct {
	Status  string `json:"status"`
	Time    int64  `json:"time"`
	Storage string `json:"storage"`
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			// Long polls hold for up to 25s on the server
			Timeout: 30 * time.Second,
		},
		Out: os.Stdout,
	}
}

func (c *Client) SetVerbose(v bool) {
	c.Verbose = v
}

// SetBaseURL updates the API base URL for the client
func (c *Client) SetBaseURL(base string) {
	c.BaseURL = strings.TrimRight(base, "/")
}

func (c *Client) doRequest(method, path string, body any, result any) error {
	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonData)
		bodyStr = string(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	fmt.Fprintf(c.Out, "%s[API] %s %s%s\n", display.Blue, method, path, display.Reset)
	if bodyStr != "" {
		if c.Verbose {
			fmt.Fprintf(c.Out, "%sRequest Body:%s\n", display.Cyan, display.Reset)
			display.PrettyPrintJSON(c.Out, json.RawMessage(bodyStr))
		} else {
			fmt.Fprintf(c.Out, "%s%s%s\n", display.Blue, bodyStr, display.Reset)
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		fmt.Fprintf(c.Out, "%s[ERROR] %s%s\n", display.Red, err.Error(), display.Reset)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	statusColor := display.Green
	if resp.StatusCode >= 400 {
		statusColor = display.Red
	}
	fmt.Fprintf(c.Out, "%s[%d %s]%s\n", statusColor, resp.StatusCode, http.StatusText(resp.StatusCode), display.Reset)

	if c.Verbose && len(respBody) > 0 {
		fmt.Fprintf(c.Out, "%sResponse Body:%s\n", display.Cyan, display.Reset)
		if json.Valid(respBody) {
			display.PrettyPrintJSON(c.Out, json.RawMessage(respBody))
		} else {
			fmt.Fprintln(c.Out, string(respBody))
		}
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(respBody, &apiErr.Body)
		return apiErr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			fmt.Fprintf(c.Out, "%sRaw response: %s%s\n", display.Red, string(respBody), display.Reset)
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

func gamePath(gameID string) string {
	return "/api/v1/games/" + url.PathEscape(gameID)
}

func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	err := c.doRequest(http.MethodGet, "/health", nil, &resp)
	return &resp, err
}

// CreateGame starts a game, resuming from history when it is not empty
func (c *Client) CreateGame(history string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, "/api/v1/games", &core.CreateGameRequest{History: history}, &resp)
	return &resp, err
}

func (c *Client) GetGame(gameID string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID), nil, &resp)
	return &resp, err
}

// GetGameWithPoll blocks on the server until the game has more than
// moveCount moves or the poll times out
func (c *Client) GetGameWithPoll(gameID string, moveCount int) (*core.GameResponse, error) {
	var resp core.GameResponse
	path := fmt.Sprintf("%s?wait=true&moveCount=%d", gamePath(gameID), moveCount)
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

func (c *Client) DeleteGame(gameID string) error {
	return c.doRequest(http.MethodDelete, gamePath(gameID), nil, nil)
}

func (c *Client) MakeMove(gameID, move string) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID)+"/moves", &core.MoveRequest{Move: move}, &resp)
	return &resp, err
}

func (c *Client) UndoMoves(gameID string, count int) (*core.GameResponse, error) {
	var resp core.GameResponse
	err := c.doRequest(http.MethodPost, gamePath(gameID)+"/undo", &core.UndoRequest{Count: count}, &resp)
	return &resp, err
}

func (c *Client) GetBoard(gameID string) (*core.BoardResponse, error) {
	var resp core.BoardResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID)+"/board", nil, &resp)
	return &resp, err
}

// TileMoves lists the legal destinations of the piece on a coordinate
func (c *Client) TileMoves(gameID, coord string) (*core.TileMovesResponse, error) {
	var resp core.TileMovesResponse
	err := c.doRequest(http.MethodGet, gamePath(gameID)+"/tiles/"+url.PathEscape(coord)+"/moves", nil, &resp)
	return &resp, err
}

// Control returns per-tile attack counts; the server defaults an empty color to white
func (c *Client) Control(gameID, color string) (*core.ControlResponse, error) {
	var resp core.ControlResponse
	path := gamePath(gameID) + "/control"
	if color != "" {
		path += "?color=" + url.QueryEscape(color)
	}
	err := c.doRequest(http.MethodGet, path, nil, &resp)
	return &resp, err
}

// RawRequest performs a raw HTTP request for debugging purposes
func (c *Client) RawRequest(method, path string, body string) error {
	var bodyData any
	if body != "" {
		if err := json.Unmarshal([]byte(body), &bodyData); err != nil {
			// Send as a JSON string
			bodyData = body
		}
	}
	return c.doRequest(method, path, bodyData, nil)
}
