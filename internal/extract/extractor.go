// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package extract turns one source file into structural metadata: classes,
// interfaces, members, imports, and exports. Results are cached per file,
// keyed by modification time.
// Implements: prd003-structural-extractor R1, R4, R5;
//
//	docs/ARCHITECTURE § Structural Extraction.
package extract

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/petar-djukic/depscope/internal/parser"
	"github.com/petar-djukic/depscope/pkg/types"
)

// cacheSize bounds the per-file result cache. Entries are evicted LRU;
// an evicted file is simply re-parsed on next sight.
const cacheSize = 4096

// cacheEntry stores one file's analysis keyed by its modification time.
type cacheEntry struct {
	modTime time.Time
	result  types.FileAnalysisResult
}

// Stats tracks extraction work, used by tests to observe cache behavior.
type Stats struct {
	ParseCount int
	CacheHits  int
}

// Extractor analyzes single files with an mtime-invalidated cache.
// Safe for concurrent use.
//
// Implements: prd003-structural-extractor R1.1-R1.4.
type Extractor struct {
	mu    sync.Mutex
	cache *lru.Cache[string, cacheEntry]
	stats Stats
}

// NewExtractor creates an Extractor with an empty cache.
func NewExtractor() *Extractor {
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size.
		panic(err)
	}
	return &Extractor{cache: cache}
}

// AnalyzeFile returns structural metadata for the file at path, recorded at
// the given traversal depth. A cache hit whose stored mtime matches the
// file's current mtime returns the cached result with only the depth
// rewritten; a differing mtime evicts and re-parses. A file that fails to
// parse is recorded with empty metadata rather than failing the call.
//
// Implements: prd003-structural-extractor R1.1-R1.6, R4.1-R4.3.
func (e *Extractor) AnalyzeFile(ctx context.Context, path string, depth int) (*types.FileAnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	e.mu.Lock()
	if entry, ok := e.cache.Get(path); ok && entry.modTime.Equal(info.ModTime()) {
		e.stats.CacheHits++
		e.mu.Unlock()
		result := entry.result
		result.Depth = depth
		return &result, nil
	}
	e.mu.Unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	result := types.FileAnalysisResult{FilePath: path, Depth: depth}

	root, err := parser.Parse(ctx, content, path)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Unparseable file: record it empty and keep going.
	} else {
		result.Classes = collectClasses(root, content)
		result.Imports = collectImports(root, content)
		result.Exports = collectExports(root, content)
	}

	e.mu.Lock()
	e.stats.ParseCount++
	e.cache.Add(path, cacheEntry{modTime: info.ModTime(), result: result})
	e.mu.Unlock()

	return &result, nil
}

// Stats returns a snapshot of extraction statistics.
func (e *Extractor) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Clear drops all cached results and resets statistics.
//
// Implements: prd003-structural-extractor R5.3.
func (e *Extractor) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cache.Purge()
	e.stats = Stats{}
}
