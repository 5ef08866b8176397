// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/bradai-tui/internal/engine"
	"github.com/jeranaias/bradai-tui/internal/ui/styles"
	"github.com/jeranaias/bradai-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Brand is the application title shown in the header.
const Brand = "Brad AI"

// Header shows the current model's name, description and metadata.
type Header struct {
	Model    engine.ModelInfo
	HasModel bool
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a new Header component with default values
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// SetModel updates the current model
func (h *Header) SetModel(info engine.ModelInfo) {
	h.Model = info
	h.HasModel = true
}

// View renders the header. Every line is cut to the available width.
func (h *Header) View() string {
	t := h.theme
	inner := h.Width - t.Header.GetHorizontalFrameSize()
	if inner < 10 {
		inner = 10
	}

	if !h.HasModel {
		title := t.HeaderTitle.Render(Brand) + "  " + t.HeaderSubtitle.Render("Loading models...")
		return t.Header.Width(h.Width - t.Header.GetHorizontalBorderSize()).Render(title)
	}

	m := h.Model
	title := t.HeaderTitle.Render(util.TruncateWidth(m.Name, inner/2))
	if m.Version != "" {
		title += " " + t.HeaderMeta.Render("v"+m.Version)
	}
	lines := []string{title}

	if m.Description != "" {
		lines = append(lines, t.HeaderSubtitle.Render(util.TruncateWidth(m.Description, inner)))
	}
	if meta := h.metaLine(); meta != "" {
		lines = append(lines, t.HeaderMeta.Render(util.TruncateWidth(meta, inner)))
	}
	if len(m.SpecialFeatures) > 0 {
		features := "Features: " + strings.Join(m.SpecialFeatures, ", ")
		lines = append(lines, t.HeaderMeta.Render(util.TruncateWidth(features, inner)))
	}

	return t.Header.Width(h.Width - t.Header.GetHorizontalBorderSize()).Render(strings.Join(lines, "\n"))
}

// metaLine is "Parameters: 7B | Context: 4,096 | Training: 10B".
func (h *Header) metaLine() string {
	m := h.Model
	var parts []string
	if m.Parameters != "" {
		parts = append(parts, "Parameters: "+m.Parameters)
	}
	if m.ContextLength != "" {
		parts = append(parts, "Context: "+m.ContextLength)
	}
	if m.TrainingData != "" {
		parts = append(parts, "Training: "+m.TrainingData)
	}
	return strings.Join(parts, " | ")
}
