package leaderboard

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lastchamber/internal/models"
)

func TestQualifies(t *testing.T) {
	assert.False(t, Qualifies(0))
	assert.True(t, Qualifies(1))
	assert.True(t, Qualifies(42))
}

func TestQualifiesFor(t *testing.T) {
	assert.False(t, QualifiesFor(nil, 0))
	assert.True(t, QualifiesFor(nil, 1))

	board := make([]*models.LeaderboardEntry, 0, models.MaxLeaderboardEntries)
	for i := 0; i < models.MaxLeaderboardEntries; i++ {
		board = append(board, &models.LeaderboardEntry{Rounds: 100 - i})
	}

	// A full board only admits runs beating its lowest entry.
	assert.True(t, QualifiesFor(board[:50], 1))
	assert.False(t, QualifiesFor(board, board[len(board)-1].Rounds))
	assert.True(t, QualifiesFor(board, board[len(board)-1].Rounds+1))
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(&Config{})
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/leaderboard", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"leaderboard": []*models.LeaderboardEntry{
				{ID: "1", Name: "Avery", Rounds: 7, Date: "2025-04-05T10:00:00.000Z"},
			},
		})
	}))
	defer server.Close()

	client, err := New(&Config{BaseURL: server.URL})
	require.NoError(t, err)

	entries, err := client.Get(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Avery", entries[0].Name)
}

func TestGetServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"storage_failed"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := New(&Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Get(context.Background())
	assert.Error(t, err)
}

func TestSubmit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Avery", body["name"])
		require.Equal(t, float64(7), body["rounds"])

		_ = json.NewEncoder(w).Encode(SubmitResult{
			Success: true,
			Entry:   &models.LeaderboardEntry{ID: "1", Name: "Avery", Rounds: 7},
			Rank:    2,
		})
	}))
	defer server.Close()

	client, err := New(&Config{BaseURL: server.URL})
	require.NoError(t, err)

	result, err := client.Submit(context.Background(), "Avery", 7)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Rank)
	assert.Equal(t, "Avery", result.Entry.Name)
}
