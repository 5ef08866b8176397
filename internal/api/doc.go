// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the HTTP client for the Brad AI chat backend.
//
// Every endpoint speaks JSON over HTTP under a single base URL
// (default http://localhost:5000/api).
//
// # Key Types
//
//   - Client: HTTP client for the backend
//   - ClientError: typed error with an ErrorType for handling
//   - ChatRequest / ChatResponse: one conversational turn
//   - ModelsResponse: the ordered model catalog
//   - ProfileResponse, HealthResponse, HistoryResponse: auxiliary reads
//
// # Usage
//
//	client := api.NewClient(api.DefaultConfig())
//	resp, err := client.Chat(ctx, api.ChatRequest{
//	    Message: "Hello",
//	    Model:   "brad-ai-1.12.2x",
//	    UserID:  sess.ID(),
//	})
//	if api.IsBackendError(err) {
//	    // err.Error() is the backend's own "error" text
//	}
//
// Errors from the transport are classified as ErrNotReachable or
// ErrTimeout and can be checked with errors.Is.
package api
