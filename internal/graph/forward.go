// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-graph-analyzer R1 (forward traversal).
package graph

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/petar-djukic/depscope/pkg/types"
)

// workItem is one pending node of the forward traversal.
type workItem struct {
	file  string
	depth int
}

// AnalyzeForward walks the import graph away from the target file: the
// target at depth 0, everything it imports at depth 1, and so on up to
// maxDepth. An explicit worklist replaces recursion so very deep graphs
// cannot exhaust the stack; the per-traversal visited set makes cyclic
// imports terminate.
//
// Implements: prd006-graph-analyzer R1.3-R1.6.
func (a *Analyzer) AnalyzeForward(ctx context.Context, path string, maxDepth int) (map[string]*types.FileAnalysisResult, error) {
	target, err := a.validateTarget(path, maxDepth)
	if err != nil {
		return nil, err
	}

	results := make(map[string]*types.FileAnalysisResult)
	visited := make(map[string]bool)
	stack := []workItem{{file: target, depth: 0}}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[item.file] {
			continue
		}
		visited[item.file] = true

		result, err := a.analyzeOne(ctx, item.file, item.depth)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// A file that disappeared mid-traversal yields no node and no
			// further recursion down that path.
			logrus.WithError(err).WithField("file", item.file).Debug("skipping unreadable file")
			continue
		}
		results[item.file] = result

		if item.depth >= maxDepth {
			continue
		}

		// Push imports in reverse so they pop in declaration order.
		imports := result.Imports
		for i := len(imports) - 1; i >= 0; i-- {
			resolved, ok := a.resolver.ResolveImportPath(item.file, imports[i].Source)
			if !ok || visited[resolved] {
				continue
			}
			stack = append(stack, workItem{file: resolved, depth: item.depth + 1})
		}
	}

	return results, nil
}
