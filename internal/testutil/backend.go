// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package testutil provides an in-process fake of the chat backend for
// tests across packages.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jeranaias/bradai-tui/internal/model"
)

// Timestamp is the fixed, zone-less timestamp the fake stamps on replies.
const Timestamp = "2024-05-01T12:00:00.123456"

// ChatCall records one /chat request body.
type ChatCall struct {
	Message string `json:"message"`
	Model   string `json:"model"`
	UserID  string `json:"user_id"`
}

// ChatReply is what the fake answers a /chat call with. A non-empty Error
// is sent as {"error": ...} with Status.
type ChatReply struct {
	Status       int
	Response     string
	ModelVersion string
	Insights     *model.MLInsight
	Error        string
}

// Backend is a fake chat backend served over httptest.
//
// Zero configuration serves a one-model catalog, a healthy /health, an echo
// /chat and per-user history built from chat calls.
type Backend struct {
	server *httptest.Server

	mu           sync.Mutex
	models       model.Descriptors
	defaultModel string
	modelsStatus int
	healthStatus string
	healthCode   int
	activeUsers  int
	chatFn       func(ChatCall) ChatReply
	chatGate     chan struct{}
	releases     []func()
	chatCalls    []ChatCall
	profiles     map[string]model.UserProfile
	history      map[string][]map[string]string
	hits         map[string]int
}

// NewBackend starts a fake backend and closes it when the test ends.
func NewBackend(t testing.TB) *Backend {
	t.Helper()

	b := &Backend{
		models: model.NewDescriptors(model.ModelDescriptor{
			ID:            "brad-ai-1.12.2x",
			Name:          "Brad AI",
			Version:       "1.12.2x",
			Description:   "Default model",
			ContextLength: 4096,
		}),
		defaultModel: "brad-ai-1.12.2x",
		healthStatus: "healthy",
		activeUsers:  1,
		profiles:     make(map[string]model.UserProfile),
		history:      make(map[string][]map[string]string),
		hits:         make(map[string]int),
	}

	b.server = httptest.NewServer(b.router())
	t.Cleanup(func() {
		b.mu.Lock()
		releases := b.releases
		b.mu.Unlock()
		for _, release := range releases {
			release()
		}
		b.server.Close()
	})
	return b
}

func (b *Backend) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", b.handleModels)
		r.Post("/chat", b.handleChat)
		r.Get("/profile/{userID}", b.handleProfile)
		r.Get("/health", b.handleHealth)
		r.Get("/history/{userID}", b.handleHistory)
	})
	return r
}

// URL returns the API base URL, including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

// =============================================================================
// CONFIGURATION
// =============================================================================

// SetModels replaces the catalog served by /models.
func (b *Backend) SetModels(defaultID string, models ...model.ModelDescriptor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.models = model.NewDescriptors(models...)
	b.defaultModel = defaultID
}

// FailModels makes /models answer with the given status code.
func (b *Backend) FailModels(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.modelsStatus = status
}

// SetHealth sets the /health status string and active user count.
func (b *Backend) SetHealth(status string, activeUsers int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.healthStatus = status
	b.activeUsers = activeUsers
	b.healthCode = 0
}

// FailHealth makes /health answer with the given status code.
func (b *Backend) FailHealth(status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.healthCode = status
}

// OnChat installs a reply function for /chat.
func (b *Backend) OnChat(fn func(ChatCall) ChatReply) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chatFn = fn
}

// HoldChat blocks /chat handlers until the returned release func is called.
func (b *Backend) HoldChat() (release func()) {
	gate := make(chan struct{})
	var once sync.Once
	release = func() {
		once.Do(func() {
			b.mu.Lock()
			if b.chatGate == gate {
				b.chatGate = nil
			}
			b.mu.Unlock()
			close(gate)
		})
	}

	b.mu.Lock()
	b.chatGate = gate
	b.releases = append(b.releases, release)
	b.mu.Unlock()
	return release
}

// SetProfile sets the profile returned for userID.
func (b *Backend) SetProfile(userID string, p model.UserProfile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles[userID] = p
}

// =============================================================================
// INSPECTION
// =============================================================================

// ChatCalls returns the /chat requests received so far.
func (b *Backend) ChatCalls() []ChatCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]ChatCall(nil), b.chatCalls...)
}

// Hits returns how many requests reached the named route, e.g. "health".
func (b *Backend) Hits(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.hits[route]
}

func (b *Backend) hit(route string) {
	b.mu.Lock()
	b.hits[route]++
	b.mu.Unlock()
}

// =============================================================================
// HANDLERS
// =============================================================================

func (b *Backend) handleModels(w http.ResponseWriter, r *http.Request) {
	b.hit("models")

	b.mu.Lock()
	status := b.modelsStatus
	models := b.models
	def := b.defaultModel
	b.mu.Unlock()

	if status != 0 {
		respondWithError(w, status, "Failed to get models")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":        "success",
		"models":        models,
		"default_model": def,
	})
}

func (b *Backend) handleChat(w http.ResponseWriter, r *http.Request) {
	b.hit("chat")

	var call ChatCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	b.mu.Lock()
	b.chatCalls = append(b.chatCalls, call)
	gate := b.chatGate
	fn := b.chatFn
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	reply := echoReply(call)
	if fn != nil {
		reply = fn(call)
	}

	if reply.Error != "" {
		status := reply.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		respondWithError(w, status, reply.Error)
		return
	}

	b.mu.Lock()
	b.history[call.UserID] = append(b.history[call.UserID],
		map[string]string{"role": "user", "message": call.Message, "timestamp": Timestamp, "model": call.Model},
		map[string]string{"role": "assistant", "message": reply.Response, "timestamp": Timestamp, "model": call.Model},
	)
	b.mu.Unlock()

	body := map[string]any{
		"response":      reply.Response,
		"timestamp":     Timestamp,
		"model":         call.Model,
		"model_version": reply.ModelVersion,
	}
	if reply.Insights != nil {
		body["ml_insights"] = reply.Insights
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	respondWithJSON(w, status, body)
}

func (b *Backend) handleProfile(w http.ResponseWriter, r *http.Request) {
	b.hit("profile")
	userID := chi.URLParam(r, "userID")

	b.mu.Lock()
	p, ok := b.profiles[userID]
	b.mu.Unlock()

	profile := map[string]any{}
	if ok {
		profile = map[string]any{
			"interaction_count": p.InteractionCount,
			"topics":            p.Topics,
			"average_sentiment": p.AverageSentiment,
			"last_interaction":  p.LastInteraction.Format(time.RFC3339),
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"user_id": userID,
		"profile": profile,
	})
}

func (b *Backend) handleHealth(w http.ResponseWriter, r *http.Request) {
	b.hit("health")

	b.mu.Lock()
	code := b.healthCode
	status := b.healthStatus
	users := b.activeUsers
	loaded := b.models.Len()
	b.mu.Unlock()

	if code != 0 {
		respondWithError(w, code, "unavailable")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":        status,
		"service":       "Brad AI Chatbot API",
		"active_users":  users,
		"models_loaded": loaded,
		"timestamp":     Timestamp,
	})
}

func (b *Backend) handleHistory(w http.ResponseWriter, r *http.Request) {
	b.hit("history")
	userID := chi.URLParam(r, "userID")

	b.mu.Lock()
	entries := append([]map[string]string{}, b.history[userID]...)
	b.mu.Unlock()

	respondWithJSON(w, http.StatusOK, map[string]any{
		"status":         "success",
		"user_id":        userID,
		"history":        entries,
		"total_messages": len(entries),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func echoReply(call ChatCall) ChatReply {
	return ChatReply{
		Response:     "Echo: " + call.Message,
		ModelVersion: "1.0",
		Insights: &model.MLInsight{
			Sentiment:  "neutral",
			Topics:     []string{"general"},
			Complexity: 0.2,
		},
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
