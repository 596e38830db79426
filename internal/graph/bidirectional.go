// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-graph-analyzer R3 (bidirectional merge).
package graph

import (
	"context"
	"sort"

	"github.com/petar-djukic/depscope/pkg/types"
)

// AnalyzeBidirectional runs the forward and reverse traversals
// independently and merges them. The target is excluded from both
// dependency lists; classes are deduplicated by filePath:className and
// relationships by their edge key; a file reached by both traversals keeps
// the minimum observed depth. Stats are recomputed over the union.
//
// Implements: prd006-graph-analyzer R3.1-R3.5.
func (a *Analyzer) AnalyzeBidirectional(ctx context.Context, path string, maxDepth int) (*types.BidirectionalResult, error) {
	target, err := a.validateTarget(path, maxDepth)
	if err != nil {
		return nil, err
	}

	forward, err := a.AnalyzeForward(ctx, target, maxDepth)
	if err != nil {
		return nil, err
	}
	reverse, err := a.AnalyzeReverse(ctx, target, maxDepth)
	if err != nil {
		return nil, err
	}

	union := make(map[string]*types.FileAnalysisResult, len(forward)+len(reverse))
	for file, result := range forward {
		union[file] = result
	}
	for file, result := range reverse {
		if existing, ok := union[file]; ok {
			if result.Depth < existing.Depth {
				existing.Depth = result.Depth
			}
			continue
		}
		union[file] = result
	}

	out := &types.BidirectionalResult{TargetFile: target}

	for file := range forward {
		if file != target {
			out.ForwardDeps = append(out.ForwardDeps, file)
		}
	}
	for file := range reverse {
		if file != target {
			out.ReverseDeps = append(out.ReverseDeps, file)
		}
	}
	sort.Strings(out.ForwardDeps)
	sort.Strings(out.ReverseDeps)

	files := make([]string, 0, len(union))
	for file := range union {
		files = append(files, file)
	}
	sort.Strings(files)

	seenClass := make(map[string]bool)
	seenEdge := make(map[string]bool)
	maxObserved := 0

	for _, file := range files {
		result := union[file]
		if result.Depth > maxObserved {
			maxObserved = result.Depth
		}
		for _, c := range result.Classes {
			key := file + ":" + c.Name
			if seenClass[key] {
				continue
			}
			seenClass[key] = true
			out.AllClasses = append(out.AllClasses, c)
		}
		for _, e := range result.Relationships {
			if seenEdge[e.Key()] {
				continue
			}
			seenEdge[e.Key()] = true
			out.Relationships = append(out.Relationships, e)
		}
	}

	out.Stats = types.AnalysisStats{
		TotalFiles:         len(union),
		TotalClasses:       len(out.AllClasses),
		TotalRelationships: len(out.Relationships),
		MaxDepth:           maxObserved,
	}

	return out, nil
}
