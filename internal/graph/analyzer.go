// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package graph orchestrates forward, reverse, and bidirectional dependency
// traversals over a project's import graph, wiring the resolver, extractor,
// index builder, and relationship inferencer.
// Implements: prd006-graph-analyzer R1, R2, R3;
//
//	docs/ARCHITECTURE § Dependency Graph Analysis.
package graph

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/depscope/internal/index"
	"github.com/petar-djukic/depscope/internal/relate"
	"github.com/petar-djukic/depscope/internal/resolve"
	"github.com/petar-djukic/depscope/pkg/types"
)

const (
	// MinDepth and MaxDepth bound every traversal request.
	MinDepth = 1
	MaxDepth = 3
)

// Validation errors are fatal to the call and never retried.
//
// Implements: prd006-graph-analyzer R5.1-R5.2.
var (
	ErrInvalidDepth = fmt.Errorf("depth must be between %d and %d", MinDepth, MaxDepth)
	ErrFileNotFound = errors.New("target file not found in project")
)

// Analyzer runs dependency traversals. It is safe for concurrent use: the
// shared caches live in the AnalysisContext and every traversal owns its
// visited set.
type Analyzer struct {
	resolver *resolve.Resolver
	builder  *index.Builder
	state    *AnalysisContext
	revision string // VCS revision stamped onto built indexes, may be empty

	onProgress func(float64) // Index build progress, may be nil
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithIndexProgress registers a callback for fractional index-build progress.
func WithIndexProgress(fn func(float64)) Option {
	return func(a *Analyzer) { a.onProgress = fn }
}

// WithRevision stamps built indexes with the project revision under review.
func WithRevision(rev string) Option {
	return func(a *Analyzer) { a.revision = rev }
}

// NewAnalyzer creates an Analyzer over the given project resolver with
// fresh caches.
func NewAnalyzer(resolver *resolve.Resolver, opts ...Option) *Analyzer {
	state := NewAnalysisContext()
	a := &Analyzer{
		resolver: resolver,
		builder:  index.NewBuilder(resolver, state.Extractor),
		state:    state,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ClearCaches drops the per-file cache and any cached import index. Needed
// when the caller edited files and wants reverse queries to see the change
// before the index TTL expires.
func (a *Analyzer) ClearCaches() {
	a.state.Clear()
}

// validateTarget checks the depth bound and canonicalizes the target file.
//
// Implements: prd006-graph-analyzer R1.1-R1.2.
func (a *Analyzer) validateTarget(path string, maxDepth int) (string, error) {
	if maxDepth < MinDepth || maxDepth > MaxDepth {
		return "", fmt.Errorf("%w: got %d", ErrInvalidDepth, maxDepth)
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if !a.resolver.IsWithinProject(path) {
		return "", fmt.Errorf("%w: %s is outside the project root", ErrFileNotFound, path)
	}

	canonical, err := canonicalPath(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	return canonical, nil
}

// canonicalPath returns the symlink-resolved absolute form of a path. Every
// traversal keys files by this form.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// analyzeOne extracts one file and augments it with relationship edges.
// Import specifiers are resolved relative to the file itself, so externality
// tagging matches what the traversal will actually follow.
func (a *Analyzer) analyzeOne(ctx context.Context, file string, depth int) (*types.FileAnalysisResult, error) {
	result, err := a.state.Extractor.AnalyzeFile(ctx, file, depth)
	if err != nil {
		return nil, err
	}

	inf := relate.NewInferencer(func(source string) bool {
		_, ok := a.resolver.ResolveImportPath(file, source)
		return ok
	})
	result.Relationships = inf.Analyze(result.Classes, result.Imports)
	return result, nil
}

// importIndex returns the cached import index for the project, building it
// when missing or expired.
//
// Implements: prd004-import-index R2.1-R2.3.
func (a *Analyzer) importIndex(ctx context.Context) (*types.ImportIndex, error) {
	root := a.resolver.Root()
	if ix, ok := a.state.CachedIndex(root); ok {
		logrus.WithField("built_at", ix.BuiltAt).Debug("reusing cached import index")
		return ix, nil
	}

	ix, err := a.builder.BuildIndex(ctx, a.onProgress)
	if err != nil {
		return nil, err
	}
	ix.Revision = a.revision
	a.state.StoreIndex(root, ix)
	return ix, nil
}
