// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/api"
	"github.com/jeranaias/bradai-tui/internal/model"
)

// RefreshProfile replaces the profile mirror with the backend's copy.
// Failures are logged only.
func (e *Engine) RefreshProfile(ctx context.Context) error {
	id := e.sess.ID()
	resp, err := e.backend.Profile(ctx, id)
	if err != nil {
		e.log.Debug("profile refresh failed", zap.Error(err))
		return err
	}

	prof := resp.Profile.UserProfile(id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.Profile = prof
	e.render.ShowProfile(prof)
	return nil
}

// Profile returns the current profile mirror.
func (e *Engine) Profile() model.UserProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.sess.Profile
	p.Topics = append([]string(nil), p.Topics...)
	return p
}

// historyPreviewCount is how many server-side entries ShowHistory lists.
const historyPreviewCount = 5

// ShowHistory fetches the server-side history for this session and appends
// a summary as a system message. On failure an error message is appended.
func (e *Engine) ShowHistory(ctx context.Context) error {
	resp, err := e.backend.History(ctx, e.sess.ID())
	if err != nil {
		e.log.Debug("history fetch failed", zap.Error(err))
		e.NotifyError("Error: " + err.Error())
		return err
	}
	e.Notify(historySummary(resp))
	return nil
}

func historySummary(resp *api.HistoryResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Server history: %d messages", resp.TotalMessages)

	entries := resp.History
	if len(entries) > historyPreviewCount {
		entries = entries[len(entries)-historyPreviewCount:]
	}
	for _, h := range entries {
		m := model.Message{Content: strings.ReplaceAll(h.Message, "\n", " ")}
		fmt.Fprintf(&b, "\n  %s: %s", h.Role, m.Preview(60))
	}
	return b.String()
}
