// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"strings"
	"time"

	"github.com/jeranaias/bradai-tui/internal/model"
)

// StatusSuccess is the "status" value of a successful models/profile/history
// response.
const StatusSuccess = "success"

// StatusHealthy is the "status" value of a healthy /health response.
const StatusHealthy = "healthy"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// ChatRequest is the request body for the /chat endpoint.
type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
	UserID  string `json:"user_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ModelsResponse is the response from the /models endpoint.
type ModelsResponse struct {
	Status       string            `json:"status"`
	Models       model.Descriptors `json:"models"`
	DefaultModel string            `json:"default_model,omitempty"`
}

// ChatResponse is the response from the /chat endpoint. Either Error is set
// or the remaining fields are.
type ChatResponse struct {
	Response     string           `json:"response"`
	Timestamp    string           `json:"timestamp"`
	Model        string           `json:"model"`
	ModelVersion string           `json:"model_version"`
	MLInsights   *model.MLInsight `json:"ml_insights,omitempty"`
	Error        string           `json:"error,omitempty"`
}

// Time parses the response timestamp, falling back to now.
func (r *ChatResponse) Time() time.Time {
	if t, ok := ParseTimestamp(r.Timestamp); ok {
		return t
	}
	return time.Now()
}

// ProfileResponse is the response from the /profile/{user_id} endpoint.
type ProfileResponse struct {
	Status  string      `json:"status"`
	UserID  string      `json:"user_id"`
	Profile ProfileBody `json:"profile"`
}

// ProfileBody is the backend's per-user profile. Unknown users get an
// empty object, which decodes to the zero value.
type ProfileBody struct {
	InteractionCount int      `json:"interaction_count"`
	Topics           []string `json:"topics"`
	AverageSentiment float64  `json:"average_sentiment"`
	PreferredModel   string   `json:"preferred_model,omitempty"`
	LastInteraction  string   `json:"last_interaction,omitempty"`
}

// UserProfile converts the body to the client-side mirror.
func (p ProfileBody) UserProfile(sessionID string) model.UserProfile {
	prof := model.UserProfile{
		SessionID:        sessionID,
		InteractionCount: p.InteractionCount,
		Topics:           append([]string(nil), p.Topics...),
		AverageSentiment: p.AverageSentiment,
	}
	if t, ok := ParseTimestamp(p.LastInteraction); ok {
		prof.LastInteraction = t
	}
	return prof
}

// HealthResponse is the response from the /health endpoint.
type HealthResponse struct {
	Status       string `json:"status"`
	Service      string `json:"service,omitempty"`
	Timestamp    string `json:"timestamp,omitempty"`
	ActiveUsers  int    `json:"active_users"`
	ModelsLoaded int    `json:"models_loaded,omitempty"`
}

// Healthy reports whether the backend described itself as healthy.
func (h *HealthResponse) Healthy() bool {
	return h != nil && h.Status == StatusHealthy
}

// HistoryEntry is one server-side history record.
type HistoryEntry struct {
	Role      string `json:"role"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Model     string `json:"model"`
}

// HistoryResponse is the response from the /history/{user_id} endpoint.
type HistoryResponse struct {
	Status        string         `json:"status"`
	UserID        string         `json:"user_id"`
	History       []HistoryEntry `json:"history"`
	TotalMessages int            `json:"total_messages"`
}

// errorBody is the shape of an error reply from any endpoint.
type errorBody struct {
	Error string `json:"error"`
}

// =============================================================================
// TIMESTAMPS
// =============================================================================

// timestampLayouts covers RFC 3339 and the zone-less ISO-8601 form the
// backend emits (e.g. "2024-05-01T12:00:00.123456").
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp. Zone-less values are read
// as local time.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
