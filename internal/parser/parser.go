// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package parser wraps tree-sitter for the TypeScript and JavaScript
// grammars. It is the only package that touches tree-sitter directly;
// callers receive the parsed root node and walk it themselves.
// Implements: prd003-structural-extractor R2 (parser collaborator).
package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupported indicates the file extension has no registered grammar.
var ErrUnsupported = errors.New("unsupported file type")

// languages maps file extensions to their tree-sitter grammar.
var languages = map[string]*sitter.Language{
	".ts":  typescript.GetLanguage(),
	".tsx": tsx.GetLanguage(),
	".js":  javascript.GetLanguage(),
	".jsx": javascript.GetLanguage(),
}

// Supported reports whether the file can be parsed.
func Supported(path string) bool {
	_, ok := languages[filepath.Ext(path)]
	return ok
}

// Parse parses source content with the grammar selected by the file
// extension and returns the root node. Tree-sitter is error-tolerant;
// syntactically broken sources still yield a (partial) tree, so a non-nil
// error here means the grammar is missing or parsing was cancelled.
func Parse(ctx context.Context, content []byte, path string) (*sitter.Node, error) {
	lang, ok := languages[filepath.Ext(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}

	root, err := sitter.ParseCtx(ctx, content, lang)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return root, nil
}
