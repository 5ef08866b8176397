// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/bradai-tui/internal/model"
	"github.com/jeranaias/bradai-tui/internal/testutil"
)

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(nil)
	assert.Equal(t, DefaultBaseURL, c.BaseURL())

	c = NewClient(&ClientConfig{BaseURL: "http://example.test/api/"})
	assert.Equal(t, "http://example.test/api", c.BaseURL())
}

// =============================================================================
// MODELS
// =============================================================================

func TestClient_Models_PreservesOrder(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SetModels("b",
		model.ModelDescriptor{ID: "z", Name: "Zed", Version: "3"},
		model.ModelDescriptor{ID: "a", Name: "Ay", Version: "1"},
		model.ModelDescriptor{ID: "b", Name: "Bee", Version: "2"},
	)

	c := NewClient(&ClientConfig{BaseURL: backend.URL()})
	resp, err := c.Models(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "b"}, resp.Models.IDs())
	assert.Equal(t, "b", resp.DefaultModel)

	bee, ok := resp.Models.Get("b")
	require.True(t, ok)
	assert.Equal(t, "Bee", bee.Name)
	assert.Equal(t, "b", bee.ID)
}

func TestClient_Models_ServerError(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.FailModels(http.StatusInternalServerError)

	c := NewClient(&ClientConfig{BaseURL: backend.URL()})
	_, err := c.Models(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to get models", err.Error())
}

func TestClient_Models_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error","models":{}}`))
	}))
	defer srv.Close()

	_, err := NewClient(&ClientConfig{BaseURL: srv.URL}).Models(context.Background())
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrTypeInvalidResponse, ce.Type)
}

// =============================================================================
// CHAT
// =============================================================================

func TestClient_Chat(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.OnChat(func(call testutil.ChatCall) testutil.ChatReply {
		return testutil.ChatReply{
			Response:     "Hello!",
			ModelVersion: "1.12.2x",
			Insights:     &model.MLInsight{Sentiment: "positive", Topics: []string{"greeting"}, Complexity: 0.1},
		}
	})

	c := NewClient(&ClientConfig{BaseURL: backend.URL()})
	resp, err := c.Chat(context.Background(), ChatRequest{Message: "hi", Model: "m1", UserID: "user_abc"})
	require.NoError(t, err)

	assert.Equal(t, "Hello!", resp.Response)
	assert.Equal(t, "m1", resp.Model)
	assert.Equal(t, "1.12.2x", resp.ModelVersion)
	require.NotNil(t, resp.MLInsights)
	assert.Equal(t, "positive", resp.MLInsights.Sentiment)

	calls := backend.ChatCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, testutil.ChatCall{Message: "hi", Model: "m1", UserID: "user_abc"}, calls[0])

	ts := resp.Time()
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 12, ts.Hour())
}

func TestClient_Chat_BackendError(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"rate limited 429", http.StatusTooManyRequests},
		{"error with 200", http.StatusOK},
		{"error with 500", http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			backend := testutil.NewBackend(t)
			backend.OnChat(func(testutil.ChatCall) testutil.ChatReply {
				return testutil.ChatReply{Status: tc.status, Error: "rate limited"}
			})

			_, err := NewClient(&ClientConfig{BaseURL: backend.URL()}).
				Chat(context.Background(), ChatRequest{Message: "hi", Model: "m1", UserID: "u"})
			require.Error(t, err)
			assert.Equal(t, "rate limited", err.Error())
			assert.True(t, IsBackendError(err))
		})
	}
}

func TestClient_Chat_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(&ClientConfig{BaseURL: srv.URL}).Chat(context.Background(), ChatRequest{Message: "x"})
	var ce *ClientError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrTypeInvalidResponse, ce.Type)
	assert.Equal(t, http.StatusBadGateway, ce.StatusCode)
	assert.False(t, IsBackendError(err))
}

func TestClient_Chat_NotReachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(&ClientConfig{BaseURL: url}).Chat(context.Background(), ChatRequest{Message: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotReachable), "got %v", err)
}

func TestClient_Chat_Timeout(t *testing.T) {
	backend := testutil.NewBackend(t)
	release := backend.HoldChat()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient(&ClientConfig{BaseURL: backend.URL()}).Chat(ctx, ChatRequest{Message: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout), "got %v", err)
}

// =============================================================================
// PROFILE / HEALTH / HISTORY
// =============================================================================

func TestClient_Profile(t *testing.T) {
	backend := testutil.NewBackend(t)
	last := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	backend.SetProfile("user_abc", model.UserProfile{
		InteractionCount: 7,
		Topics:           []string{"go", "ai"},
		AverageSentiment: 0.25,
		LastInteraction:  last,
	})

	c := NewClient(&ClientConfig{BaseURL: backend.URL()})
	resp, err := c.Profile(context.Background(), "user_abc")
	require.NoError(t, err)

	prof := resp.Profile.UserProfile("user_abc")
	assert.Equal(t, 7, prof.InteractionCount)
	assert.Equal(t, []string{"go", "ai"}, prof.Topics)
	assert.InDelta(t, 0.25, prof.AverageSentiment, 1e-9)
	assert.True(t, prof.LastInteraction.Equal(last))
}

func TestClient_Profile_Unknown(t *testing.T) {
	backend := testutil.NewBackend(t)

	resp, err := NewClient(&ClientConfig{BaseURL: backend.URL()}).Profile(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Profile.InteractionCount)
	assert.True(t, resp.Profile.UserProfile("nobody").LastInteraction.IsZero())
}

func TestClient_Health(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SetHealth("healthy", 3)

	resp, err := NewClient(&ClientConfig{BaseURL: backend.URL()}).Health(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Healthy())
	assert.Equal(t, 3, resp.ActiveUsers)
	assert.Equal(t, 1, resp.ModelsLoaded)

	backend.SetHealth("degraded", 0)
	resp, err = NewClient(&ClientConfig{BaseURL: backend.URL()}).Health(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Healthy())
}

func TestClient_Health_Failure(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.FailHealth(http.StatusServiceUnavailable)

	_, err := NewClient(&ClientConfig{BaseURL: backend.URL()}).Health(context.Background())
	require.Error(t, err)
}

func TestClient_History(t *testing.T) {
	backend := testutil.NewBackend(t)
	c := NewClient(&ClientConfig{BaseURL: backend.URL()})

	_, err := c.Chat(context.Background(), ChatRequest{Message: "ping", Model: "m1", UserID: "user_h"})
	require.NoError(t, err)

	resp, err := c.History(context.Background(), "user_h")
	require.NoError(t, err)
	require.Len(t, resp.History, 2)
	assert.Equal(t, 2, resp.TotalMessages)
	assert.Equal(t, "user", resp.History[0].Role)
	assert.Equal(t, "ping", resp.History[0].Message)
	assert.Equal(t, "assistant", resp.History[1].Role)
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in     string
		ok     bool
		year   int
		minute int
	}{
		{"2024-05-01T12:34:56Z", true, 2024, 34},
		{"2024-05-01T12:34:56.123456+02:00", true, 2024, 34},
		{"2024-05-01T12:34:56.123456", true, 2024, 34},
		{"2024-05-01T12:34:56", true, 2024, 34},
		{"", false, 0, 0},
		{"yesterday", false, 0, 0},
	}

	for _, tc := range tests {
		got, ok := ParseTimestamp(tc.in)
		if ok != tc.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if got.Year() != tc.year || got.Minute() != tc.minute {
			t.Errorf("ParseTimestamp(%q) = %v", tc.in, got)
		}
	}
}

func TestChatResponse_Time_FallsBackToNow(t *testing.T) {
	before := time.Now()
	got := (&ChatResponse{Timestamp: "garbage"}).Time()
	assert.False(t, got.Before(before))
}
