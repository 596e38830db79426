// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-graph-analyzer R4 (cache lifecycle).
package graph

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/petar-djukic/depscope/internal/extract"
	"github.com/petar-djukic/depscope/pkg/types"
)

// indexTTL is how long a built import index is reused. A stale-but-unexpired
// index can miss very recent edits; that is an accepted tradeoff against
// rescanning the whole project on every reverse query. Callers needing
// freshness clear the caches explicitly.
const indexTTL = 30 * time.Minute

// AnalysisContext owns the process-wide caches shared by traversals: the
// per-file extraction cache (mtime-invalidated, no TTL) and the import
// index cache (TTL-expired). It has an explicit New/Clear lifecycle instead
// of caches scattered across methods.
type AnalysisContext struct {
	Extractor  *extract.Extractor
	indexCache *expirable.LRU[string, *types.ImportIndex]
}

// NewAnalysisContext creates a context with empty caches.
func NewAnalysisContext() *AnalysisContext {
	return &AnalysisContext{
		Extractor:  extract.NewExtractor(),
		indexCache: expirable.NewLRU[string, *types.ImportIndex](4, nil, indexTTL),
	}
}

// CachedIndex returns the unexpired index for a project root, if any.
func (c *AnalysisContext) CachedIndex(root string) (*types.ImportIndex, bool) {
	return c.indexCache.Get(root)
}

// StoreIndex caches a freshly built index for a project root.
func (c *AnalysisContext) StoreIndex(root string, ix *types.ImportIndex) {
	c.indexCache.Add(root, ix)
}

// Clear drops the extraction cache and every cached index.
func (c *AnalysisContext) Clear() {
	c.Extractor.Clear()
	c.indexCache.Purge()
}
