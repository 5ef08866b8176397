// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DefaultHealthInterval is the delay between health polls.
const DefaultHealthInterval = 30 * time.Second

// PollHealth checks the backend once and shows the result. Only a
// "healthy" status counts as connected. If ctx is already done when the
// request returns, nothing is rendered.
func (e *Engine) PollHealth(ctx context.Context) Status {
	resp, err := e.backend.Health(ctx)

	status := Status{CheckedAt: time.Now()}
	switch {
	case err != nil:
		e.log.Debug("health check failed", zap.Error(err))
	case !resp.Healthy():
		e.log.Debug("backend unhealthy", zap.String("status", resp.Status))
	default:
		status.Connected = true
		status.ActiveUsers = resp.ActiveUsers
		status.Service = resp.Service
		status.ModelsLoaded = resp.ModelsLoaded
	}

	if ctx.Err() != nil {
		return status
	}

	e.mu.Lock()
	e.render.ShowStatus(status)
	e.mu.Unlock()
	return status
}

// HealthPoller is the handle of a running health poll loop.
type HealthPoller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartHealthPoller polls immediately, then again interval after each poll
// completes, until ctx is done or Stop is called. A non-positive interval
// uses DefaultHealthInterval.
func (e *Engine) StartHealthPoller(ctx context.Context, interval time.Duration) *HealthPoller {
	if interval <= 0 {
		interval = DefaultHealthInterval
	}
	ctx, cancel := context.WithCancel(ctx)
	p := &HealthPoller{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(p.done)

		timer := time.NewTimer(0)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}
			e.PollHealth(ctx)
			timer.Reset(interval)
		}
	}()

	return p
}

// Stop cancels the loop and waits for it to exit. Safe to call more than
// once.
func (p *HealthPoller) Stop() {
	p.cancel()
	<-p.done
}

// Done is closed when the loop has exited.
func (p *HealthPoller) Done() <-chan struct{} {
	return p.done
}
