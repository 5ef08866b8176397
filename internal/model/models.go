// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// =============================================================================
// MODEL DESCRIPTOR
// =============================================================================

// ModelDescriptor describes one selectable backend model.
type ModelDescriptor struct {
	// ID is the catalog key; it is filled from the map key, not the body.
	ID string `json:"-"`

	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Description     string   `json:"description"`
	SpecialFeatures []string `json:"special_features"`
	TrainingData    string   `json:"training_data"`
	Parameters      string   `json:"parameters"`
	ContextLength   int      `json:"context_length"`
	ReleaseDate     string   `json:"release_date,omitempty"`
}

// DisplayName returns the name, falling back to the id.
func (d ModelDescriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// =============================================================================
// ORDERED DESCRIPTOR SET
// =============================================================================

// Descriptors is an id -> descriptor mapping that remembers the order the
// backend listed the ids in. Keys are unique; a repeated key keeps its first
// position and its last value.
type Descriptors struct {
	order []string
	byID  map[string]ModelDescriptor
}

// NewDescriptors builds a set from descriptors in the given order.
// Each descriptor's ID is its key.
func NewDescriptors(list ...ModelDescriptor) Descriptors {
	d := Descriptors{byID: make(map[string]ModelDescriptor, len(list))}
	for _, m := range list {
		d.put(m.ID, m)
	}
	return d
}

func (d *Descriptors) put(id string, m ModelDescriptor) {
	if d.byID == nil {
		d.byID = make(map[string]ModelDescriptor)
	}
	m.ID = id
	if _, exists := d.byID[id]; !exists {
		d.order = append(d.order, id)
	}
	d.byID[id] = m
}

// Len returns the number of descriptors.
func (d Descriptors) Len() int {
	return len(d.order)
}

// IDs returns the ids in backend order.
func (d Descriptors) IDs() []string {
	return append([]string(nil), d.order...)
}

// Get looks up a descriptor by id.
func (d Descriptors) Get(id string) (ModelDescriptor, bool) {
	m, ok := d.byID[id]
	return m, ok
}

// List returns the descriptors in backend order.
func (d Descriptors) List() []ModelDescriptor {
	out := make([]ModelDescriptor, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out
}

// UnmarshalJSON decodes a JSON object while keeping key order, which a
// plain Go map would lose.
func (d *Descriptors) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*d = Descriptors{}
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("models: expected object, got %v", tok)
	}

	out := Descriptors{byID: make(map[string]ModelDescriptor)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("models: expected string key, got %v", keyTok)
		}
		var m ModelDescriptor
		if err := dec.Decode(&m); err != nil {
			return fmt.Errorf("models: decode %q: %w", key, err)
		}
		out.put(key, m)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*d = out
	return nil
}

// MarshalJSON encodes the set as a JSON object in backend order.
func (d Descriptors) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range d.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(d.byID[id])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// =============================================================================
// MODEL CATALOG
// =============================================================================

// Catalog holds the fetched model descriptors and the selected model id.
// Once Loaded, CurrentID always names a present descriptor.
type Catalog struct {
	models    Descriptors
	currentID string
}

// NewCatalog creates an empty catalog whose selection starts at defaultID.
func NewCatalog(defaultID string) *Catalog {
	return &Catalog{currentID: defaultID}
}

// Loaded reports whether the catalog holds any descriptors.
func (c *Catalog) Loaded() bool {
	return c.models.Len() > 0
}

// CurrentID returns the selected model id.
func (c *Catalog) CurrentID() string {
	return c.currentID
}

// Current returns the selected descriptor.
func (c *Catalog) Current() (ModelDescriptor, bool) {
	return c.models.Get(c.currentID)
}

// Get looks up a descriptor by id.
func (c *Catalog) Get(id string) (ModelDescriptor, bool) {
	return c.models.Get(id)
}

// List returns all descriptors in backend order.
func (c *Catalog) List() []ModelDescriptor {
	return c.models.List()
}

// Len returns the number of descriptors.
func (c *Catalog) Len() int {
	return c.models.Len()
}

// Replace swaps in a freshly fetched descriptor set and repairs the
// selection. When the current id is not present, the first of the
// fallbacks that is present wins; if none is, the first listed id is used.
// An empty set clears the catalog and leaves the selection untouched.
func (c *Catalog) Replace(models Descriptors, fallbacks ...string) {
	c.models = models
	if models.Len() == 0 {
		return
	}
	if _, ok := models.Get(c.currentID); ok {
		return
	}
	for _, id := range fallbacks {
		if _, ok := models.Get(id); ok {
			c.currentID = id
			return
		}
	}
	c.currentID = models.order[0]
}

// Reset empties the catalog, keeping the selection.
func (c *Catalog) Reset() {
	c.models = Descriptors{}
}

// Select makes id current if it is a known key. Unknown ids are ignored.
func (c *Catalog) Select(id string) (ModelDescriptor, bool) {
	m, ok := c.models.Get(id)
	if !ok {
		return ModelDescriptor{}, false
	}
	c.currentID = id
	return m, true
}

// IsActive reports whether id is the current selection.
func (c *Catalog) IsActive(id string) bool {
	return id == c.currentID
}
