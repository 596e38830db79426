// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupported(t *testing.T) {
	for _, path := range []string{"a.ts", "b.tsx", "c.js", "d.jsx", "/src/models/user.ts"} {
		assert.True(t, Supported(path), path)
	}
	for _, path := range []string{"a.go", "b.py", "c.d.css", "README.md", "noext"} {
		assert.False(t, Supported(path), path)
	}
}

func TestParse_TypeScript(t *testing.T) {
	root, err := Parse(context.Background(), []byte(`export class User { name: string; }`), "user.ts")
	require.NoError(t, err)
	assert.Equal(t, "program", root.Type())
}

func TestParse_TSXSelectsTsxGrammar(t *testing.T) {
	src := []byte(`export function Banner() { return <div>hello</div>; }`)
	root, err := Parse(context.Background(), src, "banner.tsx")
	require.NoError(t, err)
	assert.False(t, root.HasError(), "JSX must parse under the tsx grammar")
}

func TestParse_BrokenSourceStillYieldsTree(t *testing.T) {
	root, err := Parse(context.Background(), []byte(`class {{{{ not valid`), "broken.ts")
	require.NoError(t, err)
	assert.True(t, root.HasError())
}

func TestParse_UnsupportedExtension(t *testing.T) {
	_, err := Parse(context.Background(), []byte(`package main`), "main.go")
	assert.ErrorIs(t, err, ErrUnsupported)
}
