// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-graph-analyzer R2 (reverse traversal).
package graph

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/depscope/pkg/types"
)

// AnalyzeReverse walks the import graph toward the target file: the target
// at depth 0, its direct importers at depth 1, and so on up to maxDepth.
// Importers come from the cached whole-project index (§ Import Index)
// rather than a rescan per node; files within one BFS layer are analyzed
// on a bounded worker pool.
//
// Implements: prd006-graph-analyzer R2.1-R2.5.
func (a *Analyzer) AnalyzeReverse(ctx context.Context, path string, maxDepth int) (map[string]*types.FileAnalysisResult, error) {
	target, err := a.validateTarget(path, maxDepth)
	if err != nil {
		return nil, err
	}

	targetResult, err := a.analyzeOne(ctx, target, 0)
	if err != nil {
		return nil, err
	}

	ix, err := a.importIndex(ctx)
	if err != nil {
		return nil, err
	}

	results := map[string]*types.FileAnalysisResult{target: targetResult}
	visited := map[string]bool{target: true}
	frontier := []string{target}

	var mu sync.Mutex

	for depth := 1; depth <= maxDepth && len(frontier) > 0; depth++ {
		// Collect the next BFS layer before analyzing it; check-and-insert
		// on the visited set stays single-threaded here.
		var layer []string
		for _, file := range frontier {
			for _, importer := range ix.Importers(file) {
				if visited[importer] {
					continue
				}
				visited[importer] = true
				layer = append(layer, importer)
			}
		}
		sort.Strings(layer)

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(runtime.NumCPU())
		for _, file := range layer {
			file := file
			g.Go(func() error {
				result, err := a.analyzeOne(gctx, file, depth)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					return nil // Unreadable importer: no node, keep going.
				}
				mu.Lock()
				results[file] = result
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		frontier = layer
	}

	return results, nil
}
