// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestRole_DisplayName(t *testing.T) {
	tests := []struct {
		role Role
		want string
	}{
		{RoleUser, "You"},
		{RoleAssistant, "Assistant"},
		{RoleSystem, "System"},
		{Role("other"), "other"},
	}

	for _, tc := range tests {
		if got := tc.role.DisplayName(); got != tc.want {
			t.Errorf("Role(%q).DisplayName() = %q, want %q", tc.role, got, tc.want)
		}
	}
}

func TestNewMessage_AssignsIdentity(t *testing.T) {
	a := NewUserMessage("hello")
	b := NewUserMessage("hello")

	if a.ID == "" || b.ID == "" {
		t.Fatal("NewUserMessage() should assign an ID")
	}
	if a.ID == b.ID {
		t.Errorf("message IDs should be unique, both %q", a.ID)
	}
	if a.Timestamp.IsZero() {
		t.Error("NewUserMessage() should set a timestamp")
	}
}

func TestNewAssistantMessage_CopiesInsights(t *testing.T) {
	ins := &MLInsight{Sentiment: "positive", Topics: []string{"go", "tui"}, Complexity: 0.4}
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	msg := NewAssistantMessage("hi", "Brad AI 1.12.2x", "1.12.2x", ts, ins)
	ins.Topics[0] = "mutated"

	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, ts, msg.Timestamp)
	assert.Equal(t, "Brad AI 1.12.2x", msg.Model)
	assert.Equal(t, "1.12.2x", msg.ModelVersion)
	require.NotNil(t, msg.Insights)
	assert.Equal(t, []string{"go", "tui"}, msg.Insights.Topics)
}

func TestNewErrorMessage_IsFlagged(t *testing.T) {
	msg := NewErrorMessage("Error: rate limited")
	assert.Equal(t, RoleSystem, msg.Role)
	assert.True(t, msg.IsError)
	assert.False(t, NewSystemMessage("Switched").IsError)
}

func TestMessage_Preview(t *testing.T) {
	msg := Message{Content: "héllo wörld"}
	assert.Equal(t, "héllo wörld", msg.Preview(20))
	assert.Equal(t, "hél...", msg.Preview(6))
	assert.Equal(t, "hé", msg.Preview(2))
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestConversation_AppendKeepsOrder(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserMessage("one"))
	conv.Append(NewSystemMessage("two"))
	conv.Append(NewUserMessage("three"))

	var got []string
	for _, m := range conv.Messages() {
		got = append(got, m.Content)
	}
	if diff := cmp.Diff([]string{"one", "two", "three"}, got); diff != "" {
		t.Errorf("Messages() order mismatch (-want +got):\n%s", diff)
	}
}

func TestConversation_MessagesAreCopies(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewAssistantMessage("a", "m", "v", time.Time{}, &MLInsight{Topics: []string{"x"}}))

	msgs := conv.Messages()
	msgs[0].Content = "changed"
	msgs[0].Insights.Topics[0] = "changed"

	last, ok := conv.Last()
	require.True(t, ok)
	assert.Equal(t, "a", last.Content)
	assert.Equal(t, "x", last.Insights.Topics[0])
}

func TestConversation_Clear(t *testing.T) {
	conv := NewConversation()
	conv.Append(NewUserMessage("one"))
	conv.Append(NewUserMessage("two"))

	conv.Clear()

	assert.Zero(t, conv.Len())
	assert.Equal(t, 0, conv.Len())
	_, ok := conv.Last()
	assert.False(t, ok)
}

// =============================================================================
// DESCRIPTOR TESTS
// =============================================================================

func TestDescriptors_UnmarshalKeepsOrder(t *testing.T) {
	raw := `{
		"zeta": {"name": "Zeta", "version": "3", "context_length": 2048},
		"alpha": {"name": "Alpha", "version": "1.0", "special_features": ["Fast"], "training_data": "10B", "parameters": "7B", "context_length": 4096},
		"mid": {"name": "Mid"}
	}`

	var d Descriptors
	require.NoError(t, json.Unmarshal([]byte(raw), &d))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, d.IDs())
	alpha, ok := d.Get("alpha")
	require.True(t, ok)
	assert.Equal(t, "alpha", alpha.ID)
	assert.Equal(t, 4096, alpha.ContextLength)
	assert.Equal(t, []string{"Fast"}, alpha.SpecialFeatures)
}

func TestDescriptors_UnmarshalRejectsNonObject(t *testing.T) {
	var d Descriptors
	assert.Error(t, json.Unmarshal([]byte(`["a","b"]`), &d))
	assert.Error(t, json.Unmarshal([]byte(`{"a": 5}`), &d))
}

func TestDescriptors_RoundTripOrder(t *testing.T) {
	d := NewDescriptors(
		ModelDescriptor{ID: "b", Name: "B"},
		ModelDescriptor{ID: "a", Name: "A"},
	)
	data, err := json.Marshal(d)
	require.NoError(t, err)

	var back Descriptors
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []string{"b", "a"}, back.IDs())
}

// =============================================================================
// CATALOG TESTS
// =============================================================================

func testDescriptors() Descriptors {
	return NewDescriptors(
		ModelDescriptor{ID: "m1", Name: "Alpha", Version: "1.0", TrainingData: "10B", Parameters: "7B", ContextLength: 4096},
		ModelDescriptor{ID: "m2", Name: "Beta", Version: "2.0", TrainingData: "20B", Parameters: "13B", ContextLength: 8192},
	)
}

func TestCatalog_ReplaceKeepsValidSelection(t *testing.T) {
	cat := NewCatalog("m2")
	cat.Replace(testDescriptors(), "m1")

	assert.True(t, cat.Loaded())
	assert.Equal(t, "m2", cat.CurrentID())
}

func TestCatalog_ReplaceFallbacks(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		fallbacks []string
		want      string
	}{
		{"first fallback", "gone", []string{"m1", "m2"}, "m1"},
		{"skips missing fallback", "gone", []string{"nope", "m2"}, "m2"},
		{"first listed when nothing matches", "gone", []string{"nope"}, "m1"},
		{"no fallbacks", "", nil, "m1"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cat := NewCatalog(tc.current)
			cat.Replace(testDescriptors(), tc.fallbacks...)
			if got := cat.CurrentID(); got != tc.want {
				t.Errorf("CurrentID() = %q, want %q", got, tc.want)
			}
			if _, ok := cat.Current(); !ok {
				t.Error("Current() should resolve once loaded")
			}
		})
	}
}

func TestCatalog_ReplaceEmpty(t *testing.T) {
	cat := NewCatalog("m1")
	cat.Replace(testDescriptors())
	cat.Replace(Descriptors{})

	assert.False(t, cat.Loaded())
	assert.Equal(t, "m1", cat.CurrentID())
}

func TestCatalog_Select(t *testing.T) {
	cat := NewCatalog("m1")
	cat.Replace(testDescriptors())

	m, ok := cat.Select("m2")
	require.True(t, ok)
	assert.Equal(t, "Beta", m.Name)
	assert.True(t, cat.IsActive("m2"))
	assert.False(t, cat.IsActive("m1"))

	_, ok = cat.Select("unknown")
	assert.False(t, ok)
	assert.Equal(t, "m2", cat.CurrentID(), "unknown id must not change the selection")

	_, ok = cat.Select("m2")
	assert.True(t, ok, "reselecting the active model is allowed")
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func TestUserProfile_TopTopics(t *testing.T) {
	p := UserProfile{Topics: []string{"a", "b", "c"}}
	assert.Equal(t, []string{"a", "b"}, p.TopTopics(2))
	assert.Equal(t, []string{"a", "b", "c"}, p.TopTopics(5))
	assert.Nil(t, p.TopTopics(0))
	assert.Nil(t, UserProfile{}.TopTopics(3))
}
