// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package project

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe_ValidRepo(t *testing.T) {
	dir := initTestRepo(t)

	md, err := Describe(dir)
	require.NoError(t, err)

	assert.Equal(t, "master", md.Branch)
	assert.Len(t, md.Revision, shortHashLen)
	assert.False(t, md.Dirty)
}

func TestDescribe_NotARepo(t *testing.T) {
	dir := t.TempDir()

	_, err := Describe(dir)
	assert.ErrorIs(t, err, ErrNoGit)
}

func TestDescribe_Subdirectory(t *testing.T) {
	dir := initTestRepo(t)
	sub := filepath.Join(dir, "src", "models")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	md, err := Describe(sub)
	require.NoError(t, err)
	assert.NotEmpty(t, md.Revision)
}

func TestDescribe_DirtyWorkTree(t *testing.T) {
	dir := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.ts"), []byte("export class Extra {}\n"), 0o644))

	md, err := Describe(dir)
	require.NoError(t, err)
	assert.True(t, md.Dirty)
}

func TestDescribe_EmptyRepo(t *testing.T) {
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	md, err := Describe(dir)
	require.NoError(t, err)
	assert.Empty(t, md.Revision)
	assert.Empty(t, md.String())
}

func TestMetadata_String(t *testing.T) {
	tests := []struct {
		name string
		md   Metadata
		want string
	}{
		{"branch and revision", Metadata{Branch: "main", Revision: "1a2b3c4d5e6f"}, "main@1a2b3c4d5e6f"},
		{"dirty", Metadata{Branch: "main", Revision: "1a2b3c4d5e6f", Dirty: true}, "main@1a2b3c4d5e6f+dirty"},
		{"detached head", Metadata{Revision: "1a2b3c4d5e6f"}, "1a2b3c4d5e6f"},
		{"no metadata", Metadata{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.md.String())
		})
	}
}

// initTestRepo creates a temp dir with a git repo and an initial commit.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	r, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := r.Worktree()
	require.NoError(t, err)

	userTs := filepath.Join(dir, "user.ts")
	require.NoError(t, os.WriteFile(userTs, []byte("export class User {}\n"), 0o644))

	_, err = wt.Add("user.ts")
	require.NoError(t, err)

	_, err = wt.Commit("initial commit", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@test.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return dir
}
