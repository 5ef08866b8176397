// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// This package defines the core domain types shared by the engine, the API
// client and the UI.
//
// # Key Types
//
//   - Conversation: append-only message log, cleared only as a whole
//   - Message: single message with role, content, timestamp and, for
//     assistant replies, model identity and ML insights
//   - ModelDescriptor: metadata for one selectable backend model
//   - Descriptors: id -> descriptor set that keeps backend order
//   - Catalog: Descriptors plus the selected model id
//   - UserProfile: read-only mirror of the backend's session profile
//   - MLInsight: sentiment, topics and complexity for one turn
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.NewUserMessage("Hello!"))
//
//	cat := model.NewCatalog("brad-ai-1.12.2x")
//	cat.Replace(descriptors, "brad-ai-1.12.2x")
//	if m, ok := cat.Select("brad-ai-2.0.1a"); ok {
//	    fmt.Println("now using", m.Name)
//	}
package model
