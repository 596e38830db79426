// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-analyzer-interface R4;
//
//	docs/ARCHITECTURE § Analyzer Interface.
package depscope

import (
	"errors"
	"fmt"
	"os"

	"github.com/petar-djukic/depscope/internal/graph"
	"github.com/petar-djukic/depscope/internal/project"
	"github.com/petar-djukic/depscope/internal/resolve"
)

// New validates the config, detects project metadata, and returns a
// ready-to-use Analyzer. It does not scan the project; indexing happens
// lazily on the first reverse or bidirectional query.
//
// Implements: prd001-analyzer-interface R4.1-R4.3.
func New(cfg Config) (Analyzer, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	resolver, err := resolve.New(cfg.ProjectRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	// A project without git is still analyzable; the revision stays empty.
	revision := ""
	if md, err := project.Describe(resolver.Root()); err == nil {
		revision = md.String()
	} else if !errors.Is(err, project.ErrNoGit) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	opts := []graph.Option{graph.WithRevision(revision)}
	if cfg.IndexProgress != nil {
		opts = append(opts, graph.WithIndexProgress(cfg.IndexProgress))
	}

	return &analyzerAdapter{
		Analyzer: graph.NewAnalyzer(resolver, opts...),
		revision: revision,
	}, nil
}

// analyzerAdapter adapts internal/graph.Analyzer to the public Analyzer
// interface. Embedding promotes the traversal methods and ClearCaches; only
// Revision is local.
type analyzerAdapter struct {
	*graph.Analyzer
	revision string
}

var _ Analyzer = (*analyzerAdapter)(nil)

func (a *analyzerAdapter) Revision() string {
	return a.revision
}

// validateConfig checks that required fields are present.
func validateConfig(cfg Config) error {
	if cfg.ProjectRoot == "" {
		return fmt.Errorf("ProjectRoot is required")
	}
	if info, err := os.Stat(cfg.ProjectRoot); err != nil || !info.IsDir() {
		return fmt.Errorf("ProjectRoot %q does not exist or is not a directory", cfg.ProjectRoot)
	}
	return nil
}
