// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/session"
)

// healthStub is an in-memory Backend that only answers health checks.
type healthStub struct {
	calls  atomic.Int32
	health func(n int32) (*api.HealthResponse, error)
}

func (s *healthStub) Models(context.Context) (*api.ModelsResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *healthStub) Chat(context.Context, api.ChatRequest) (*api.ChatResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *healthStub) Profile(context.Context, string) (*api.ProfileResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *healthStub) History(context.Context, string) (*api.HistoryResponse, error) {
	return nil, errors.New("not implemented")
}

func (s *healthStub) Health(ctx context.Context) (*api.HealthResponse, error) {
	n := s.calls.Add(1)
	return s.health(n)
}

func TestPollHealth(t *testing.T) {
	eng, rec, backend := newTestEngine(t, "m1")

	backend.SetHealth("healthy", 3)
	st := eng.PollHealth(context.Background())
	assert.True(t, st.Connected)
	assert.Equal(t, "connected, 3 users", st.Label())
	assert.Equal(t, "Brad AI Chatbot API", st.Service)

	backend.SetHealth("degraded", 3)
	st = eng.PollHealth(context.Background())
	assert.False(t, st.Connected)
	assert.Equal(t, "disconnected", st.Label())

	backend.FailHealth(http.StatusServiceUnavailable)
	st = eng.PollHealth(context.Background())
	assert.False(t, st.Connected)

	require.Len(t, rec.status, 3)
	assert.True(t, rec.status[0].Connected)
	assert.False(t, rec.status[2].Connected)
}

func TestPollHealth_NoRenderAfterCancel(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	stub := &healthStub{health: func(int32) (*api.HealthResponse, error) {
		cancel()
		return nil, context.Canceled
	}}
	eng := New(session.NewWithID("user_x", "m1"), stub, rec, Options{})

	eng.PollHealth(ctx)
	assert.Empty(t, rec.status)
}

func TestHealthPoller_ReschedulesAndStops(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	rec := &recorder{}
	stub := &healthStub{health: func(n int32) (*api.HealthResponse, error) {
		if n%2 == 0 {
			return nil, errors.New("connection refused")
		}
		return &api.HealthResponse{Status: api.StatusHealthy, ActiveUsers: int(n)}, nil
	}}
	eng := New(session.NewWithID("user_poll", "m1"), stub, rec, Options{})

	poller := eng.StartHealthPoller(context.Background(), 5*time.Millisecond)
	require.Eventually(t, func() bool { return stub.calls.Load() >= 4 }, 2*time.Second, time.Millisecond)

	poller.Stop()
	poller.Stop()

	select {
	case <-poller.Done():
	default:
		t.Fatal("Done() not closed after Stop")
	}

	stopped := stub.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, stub.calls.Load(), "poller kept running after Stop")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.GreaterOrEqual(t, len(rec.status), 2)
	assert.True(t, rec.status[0].Connected)
	assert.False(t, rec.status[1].Connected)
}

func TestHealthPoller_StopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	stub := &healthStub{health: func(int32) (*api.HealthResponse, error) {
		return &api.HealthResponse{Status: api.StatusHealthy}, nil
	}}
	eng := New(session.NewWithID("user_ctx", "m1"), stub, &recorder{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	poller := eng.StartHealthPoller(ctx, time.Hour)
	require.Eventually(t, func() bool { return stub.calls.Load() == 1 }, time.Second, time.Millisecond)

	cancel()
	select {
	case <-poller.Done():
	case <-time.After(time.Second):
		t.Fatal("poller did not exit on context cancel")
	}
}
