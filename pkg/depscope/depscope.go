// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package depscope defines the public interface for depscope, a cross-file
// dependency analysis library for TypeScript and JavaScript projects.
// Implements: prd001-analyzer-interface R1, R2, R3;
//
//	docs/ARCHITECTURE § Analyzer Interface.
package depscope

import (
	"context"
	"errors"

	"github.com/petar-djukic/depscope/internal/graph"
	"github.com/petar-djukic/depscope/pkg/types"
)

// Error types for the Analyzer API.
//
// Implements: prd001-analyzer-interface R3.1-R3.3.
var (
	ErrInvalidConfig = errors.New("invalid config")

	// ErrInvalidDepth and ErrFileNotFound are the fatal per-call errors;
	// anything recoverable (unparseable files, unresolvable imports) degrades
	// the result instead of failing the call.
	ErrInvalidDepth = graph.ErrInvalidDepth
	ErrFileNotFound = graph.ErrFileNotFound
)

// Config configures an Analyzer instance.
//
// Implements: prd001-analyzer-interface R1.1-R1.4.
type Config struct {
	ProjectRoot   string        // Directory the analysis is sandboxed to (required)
	IndexProgress func(float64) // Fractional progress of index builds (optional)
}

// Analyzer answers dependency queries about one project. Implementations are
// safe for concurrent use.
//
// Implements: prd001-analyzer-interface R2.1-R2.5.
type Analyzer interface {
	// AnalyzeForward returns the target file and everything it transitively
	// imports, up to maxDepth levels away. The target is at depth 0.
	AnalyzeForward(ctx context.Context, path string, maxDepth int) (map[string]*types.FileAnalysisResult, error)

	// AnalyzeReverse returns the target file and everything that transitively
	// imports it, up to maxDepth levels away. The first call builds a
	// whole-project import index; later calls reuse it.
	AnalyzeReverse(ctx context.Context, path string, maxDepth int) (map[string]*types.FileAnalysisResult, error)

	// AnalyzeBidirectional merges both directions into one deduplicated
	// result with summary statistics.
	AnalyzeBidirectional(ctx context.Context, path string, maxDepth int) (*types.BidirectionalResult, error)

	// Revision reports the version-control revision the analyzer detected at
	// construction, for example "main@1a2b3c4d5e6f", or empty when the
	// project is not a git repository.
	Revision() string

	// ClearCaches drops the per-file analysis cache and any cached import
	// index, forcing the next query to re-read the project.
	ClearCaches()
}
