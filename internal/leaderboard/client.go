// Package leaderboard is the client side of the leaderboard API, used
// by frontends and tooling that talk to a deployed server.
package leaderboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lastchamber/internal/models"
)

// Config holds configuration for the leaderboard client
type Config struct {
	// BaseURL is the server root, e.g. https://game.example.com
	BaseURL string

	// HTTPClient defaults to http.DefaultClient
	HTTPClient *http.Client
}

// Client talks to a server's leaderboard endpoints
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a leaderboard client
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL cannot be empty")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
	}, nil
}

// Qualifies reports whether a finished run is worth submitting. Dying
// before surviving a single round is not.
func Qualifies(roundsSurvived int) bool {
	return roundsSurvived > 0
}

// QualifiesFor reports whether a run would place on the given board,
// sorted best first: there is room left, or the run beats the current
// lowest entry.
func QualifiesFor(entries []*models.LeaderboardEntry, roundsSurvived int) bool {
	if !Qualifies(roundsSurvived) {
		return false
	}
	if len(entries) < models.MaxLeaderboardEntries {
		return true
	}
	return roundsSurvived > entries[len(entries)-1].Rounds
}

// Get fetches the full leaderboard, best first
func (c *Client) Get(ctx context.Context) ([]*models.LeaderboardEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/leaderboard", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leaderboard fetch returned status %d", resp.StatusCode)
	}

	var body struct {
		Leaderboard []*models.LeaderboardEntry `json:"leaderboard"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}

	return body.Leaderboard, nil
}

// SubmitResult is the server's response to a score submission
type SubmitResult struct {
	Success     bool                       `json:"success"`
	Entry       *models.LeaderboardEntry   `json:"entry"`
	Rank        int                        `json:"rank"`
	Leaderboard []*models.LeaderboardEntry `json:"leaderboard"`
}

// Submit records a finished run
func (c *Client) Submit(ctx context.Context, name string, rounds int) (*SubmitResult, error) {
	body, err := json.Marshal(map[string]any{
		"name":   name,
		"rounds": rounds,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/leaderboard", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to submit score: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("score submission returned status %d", resp.StatusCode)
	}

	var result SubmitResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode submission response: %w", err)
	}

	return &result, nil
}
