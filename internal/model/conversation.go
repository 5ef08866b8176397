// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is an append-only, chronologically ordered message log.
// Insertion order is render order. The only removal is Clear, which drops
// every message at once.
//
// Conversation is not safe for concurrent use; the owning session guards it.
type Conversation struct {
	messages []Message
}

// NewConversation creates an empty conversation.
func NewConversation() *Conversation {
	return &Conversation{messages: make([]Message, 0, 16)}
}

// Append adds a message to the end of the log and returns the stored copy.
func (c *Conversation) Append(msg Message) Message {
	stored := msg.clone()
	c.messages = append(c.messages, stored)
	return stored.clone()
}

// Messages returns a copy of the log in chronological order.
func (c *Conversation) Messages() []Message {
	out := make([]Message, len(c.messages))
	for i, m := range c.messages {
		out[i] = m.clone()
	}
	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

// Last returns the most recent message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.messages) == 0 {
		return Message{}, false
	}
	return c.messages[len(c.messages)-1].clone(), true
}

// Clear discards all messages.
func (c *Conversation) Clear() {
	c.messages = make([]Message, 0, 16)
}
