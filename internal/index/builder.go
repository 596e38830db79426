// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package index builds a whole-project bidirectional import index used to
// answer reverse-dependency queries without re-walking imports per node.
// Implements: prd004-import-index R1, R2, R3;
//
//	docs/ARCHITECTURE § Import Index.
package index

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/depscope/internal/extract"
	"github.com/petar-djukic/depscope/internal/parser"
	"github.com/petar-djukic/depscope/internal/resolve"
	"github.com/petar-djukic/depscope/pkg/types"
)

// skipDirs are directory names excluded from the project walk.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
	".next":        true,
	"out":          true,
}

// Builder scans a project tree and produces an ImportIndex. Per-file
// extraction runs on a bounded worker pool and shares the extractor's
// mtime cache with the rest of the analysis.
type Builder struct {
	resolver  *resolve.Resolver
	extractor *extract.Extractor
}

// NewBuilder creates a Builder over the given resolver and extractor.
func NewBuilder(resolver *resolve.Resolver, extractor *extract.Extractor) *Builder {
	return &Builder{resolver: resolver, extractor: extractor}
}

// BuildIndex walks the project root, extracts relative import specifiers
// from every source file, and populates both the forward map and its
// inverse. onProgress, when non-nil, receives fractional progress in [0,1].
// On cancellation the partial index is discarded.
//
// Implements: prd004-import-index R1.1-R1.6.
func (b *Builder) BuildIndex(ctx context.Context, onProgress func(float64)) (*types.ImportIndex, error) {
	files, err := b.listSourceFiles(ctx)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"root":  b.resolver.Root(),
		"files": len(files),
	}).Debug("building import index")

	ix := &types.ImportIndex{
		FileToImports: make(map[string][]string, len(files)),
		ImportToFiles: make(map[string][]string, len(files)),
		FileCount:     len(files),
		BuiltAt:       time.Now(),
	}

	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, file := range files {
		file := file
		g.Go(func() error {
			result, err := b.extractor.AnalyzeFile(gctx, file, 0)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				// A file that vanished mid-walk is skipped, not fatal.
				return nil
			}

			var targets []string
			for _, imp := range result.Imports {
				if target, ok := b.resolver.ResolveImportPath(file, imp.Source); ok {
					targets = append(targets, target)
				}
			}

			mu.Lock()
			for _, target := range targets {
				ix.FileToImports[file] = append(ix.FileToImports[file], target)
				ix.ImportToFiles[target] = append(ix.ImportToFiles[target], file)
			}
			done++
			if onProgress != nil {
				onProgress(float64(done) / float64(len(files)))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Worker completion order is nondeterministic; sort for stable output.
	for _, m := range []map[string][]string{ix.FileToImports, ix.ImportToFiles} {
		for k := range m {
			sort.Strings(m[k])
		}
	}

	return ix, nil
}

// listSourceFiles walks the project tree and returns the canonical paths of
// all supported source files, skipping configured directories.
func (b *Builder) listSourceFiles(ctx context.Context) ([]string, error) {
	var files []string

	err := filepath.Walk(b.resolver.Root(), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip files we cannot stat.
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if info.IsDir() {
			if skipDirs[filepath.Base(path)] && path != b.resolver.Root() {
				return filepath.SkipDir
			}
			return nil
		}
		if parser.Supported(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
