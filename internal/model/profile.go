// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// UserProfile mirrors what the backend reports about this session.
// It is replaced wholesale on refresh and never edited locally.
type UserProfile struct {
	SessionID        string
	InteractionCount int
	Topics           []string
	AverageSentiment float64
	LastInteraction  time.Time
}

// TopTopics returns at most n topics.
func (p UserProfile) TopTopics(n int) []string {
	if n <= 0 || len(p.Topics) == 0 {
		return nil
	}
	if len(p.Topics) < n {
		n = len(p.Topics)
	}
	return append([]string(nil), p.Topics[:n]...)
}
