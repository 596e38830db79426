// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package resolve maps relative import specifiers to real files inside a
// sandboxed project root.
// Implements: prd002-path-resolver R1, R2;
//
//	docs/ARCHITECTURE § Path Resolution.
package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// extensions is the resolution priority order for extensionless specifiers.
var extensions = []string{".ts", ".tsx", ".js", ".jsx"}

// Resolver resolves import specifiers against a canonicalized project root.
// A Resolver is safe for concurrent use; it holds no mutable state.
type Resolver struct {
	root string // Canonical absolute project root, no trailing separator
}

// New creates a Resolver for the given project root. The root must exist;
// it is canonicalized (symlinks resolved) once at construction.
//
// Implements: prd002-path-resolver R1.1.
func New(projectRoot string) (*Resolver, error) {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("project root %q does not exist: %w", projectRoot, err)
	}
	return &Resolver{root: strings.TrimSuffix(canonical, string(filepath.Separator))}, nil
}

// Root returns the canonical project root.
func (r *Resolver) Root() string {
	return r.root
}

// ResolveImportPath resolves a relative import specifier from the importing
// file to a canonical absolute path inside the project. Only "./" and "../"
// specifiers are resolved; bare package names and alias specifiers ("@/",
// "~/") yield no result. Resolution order: the specifier as given
// when it already carries an extension, then each of .ts/.tsx/.js/.jsx, then
// index.{ext} inside a directory of that name.
//
// Implements: prd002-path-resolver R1.2-R1.6.
func (r *Resolver) ResolveImportPath(fromFile, spec string) (string, bool) {
	if spec == "" {
		return "", false
	}
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return "", false
	}
	if _, err := os.Stat(fromFile); err != nil {
		return "", false
	}

	base := filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(spec))

	// Specifier already has an extension.
	if ext := filepath.Ext(base); ext != "" {
		if p, ok := r.acceptFile(base); ok {
			return p, true
		}
	}

	// Append each known extension in priority order.
	for _, ext := range extensions {
		if p, ok := r.acceptFile(base + ext); ok {
			return p, true
		}
	}

	// Treat the specifier as a directory with an index file.
	for _, ext := range extensions {
		if p, ok := r.acceptFile(filepath.Join(base, "index"+ext)); ok {
			return p, true
		}
	}

	return "", false
}

// acceptFile checks that the candidate is an existing regular file inside
// the project and returns its canonical path.
func (r *Resolver) acceptFile(candidate string) (string, bool) {
	info, err := os.Stat(candidate)
	if err != nil || info.IsDir() {
		return "", false
	}
	if !r.IsWithinProject(candidate) {
		return "", false
	}
	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", false
	}
	return canonical, true
}

// IsWithinProject reports whether the path is contained in the project root.
// Both sides are canonicalized before comparison; for paths that do not
// exist yet, the nearest existing ancestor is canonicalized and the
// remaining suffix reappended. Containment is checked per path component,
// not by naive string prefix, so "../" escapes, symlinks pointing outside
// the root, and sibling directories sharing a name prefix are all rejected.
//
// Implements: prd002-path-resolver R2.1-R2.4.
func (r *Resolver) IsWithinProject(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	canonical := canonicalize(abs)

	if canonical == r.root {
		return true
	}
	return strings.HasPrefix(canonical, r.root+string(filepath.Separator))
}

// canonicalize resolves symlinks for the deepest existing ancestor of path
// and reappends the non-existent suffix.
func canonicalize(abs string) string {
	abs = filepath.Clean(abs)

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}

	var suffix []string
	current := abs
	for {
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		suffix = append([]string{filepath.Base(current)}, suffix...)
		current = parent
		if resolved, err := filepath.EvalSymlinks(current); err == nil {
			return filepath.Join(append([]string{resolved}, suffix...)...)
		}
	}
	return abs
}
