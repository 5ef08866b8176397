// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/jeranaias/bradai-tui/internal/model"
)

// CatalogLoadFailed is appended when the model catalog cannot be loaded.
const CatalogLoadFailed = "Failed to load models. Using default configuration."

// LoadCatalog fetches the model catalog and renders it. On failure the
// catalog is left empty and a warning message is appended; the error is
// returned but the session stays usable.
func (e *Engine) LoadCatalog(ctx context.Context) error {
	resp, err := e.backend.Models(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()

	cat := e.sess.Catalog
	if err != nil {
		e.log.Warn("load models failed", zap.Error(err))
		cat.Reset()
		e.render.RenderCatalog(nil)
		e.appendLocked(model.NewSystemMessage(CatalogLoadFailed))
		return err
	}

	cat.Replace(resp.Models, e.defaultModel, resp.DefaultModel)
	e.log.Debug("models loaded",
		zap.Int("count", cat.Len()),
		zap.Strings("ids", resp.Models.IDs()),
		zap.String("current", cat.CurrentID()))

	e.render.RenderCatalog(e.catalogEntriesLocked())
	if d, ok := cat.Current(); ok {
		e.render.ShowModel(e.modelInfo(d))
	}
	return nil
}

// SelectModel makes id the current model, re-renders the listing, announces
// the switch and shows the model's metadata. Re-selecting the current model
// announces again. An unknown id is ignored and returns false.
func (e *Engine) SelectModel(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	d, ok := e.sess.Catalog.Select(id)
	if !ok {
		e.log.Debug("select unknown model ignored", zap.String("model", id))
		return false
	}

	e.render.RenderCatalog(e.catalogEntriesLocked())
	e.appendLocked(model.NewSystemMessage("Switched to " + d.DisplayName()))
	e.render.ShowModel(e.modelInfo(d))
	return true
}

// CurrentModel returns the selected model id.
func (e *Engine) CurrentModel() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Catalog.CurrentID()
}

// CatalogLoaded reports whether the last catalog load produced any models.
func (e *Engine) CatalogLoaded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.Catalog.Loaded()
}

// CatalogEntries returns the listing rows in backend order.
func (e *Engine) CatalogEntries() []CatalogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.catalogEntriesLocked()
}

// CurrentModelInfo returns the header metadata for the current model.
func (e *Engine) CurrentModelInfo() (ModelInfo, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	d, ok := e.sess.Catalog.Current()
	if !ok {
		return ModelInfo{}, false
	}
	return e.modelInfo(d), true
}

func (e *Engine) catalogEntriesLocked() []CatalogEntry {
	cat := e.sess.Catalog
	list := cat.List()
	out := make([]CatalogEntry, 0, len(list))
	for _, d := range list {
		out = append(out, CatalogEntry{
			ID:          d.ID,
			Name:        d.DisplayName(),
			Version:     d.Version,
			Description: d.Description,
			Active:      cat.IsActive(d.ID),
		})
	}
	return out
}

func (e *Engine) modelInfo(d model.ModelDescriptor) ModelInfo {
	return ModelInfo{
		ID:              d.ID,
		Name:            d.DisplayName(),
		Version:         d.Version,
		Description:     d.Description,
		TrainingData:    d.TrainingData,
		Parameters:      d.Parameters,
		ContextLength:   e.printer.Sprintf("%d", d.ContextLength),
		SpecialFeatures: append([]string(nil), d.SpecialFeatures...),
	}
}
