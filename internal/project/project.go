// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package project reads version-control metadata for the project under
// analysis. Import indexes and review reports are stamped with the revision
// so stale results are attributable to the commit they were computed from.
// Implements: prd007-project-metadata R1, R2;
//
//	docs/ARCHITECTURE § Project Metadata.
package project

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// shortHashLen matches the abbreviated hash git itself prints.
const shortHashLen = 12

// ErrNoGit is returned when the project root is not inside a git repository.
var ErrNoGit = errors.New("not a git repository")

// Metadata describes the version-control state of a project root.
type Metadata struct {
	Branch   string // Current branch name, empty on detached HEAD
	Revision string // Abbreviated HEAD commit hash
	Dirty    bool   // Uncommitted changes exist in the working tree
}

// Describe reads the git metadata for the given project root. Returns
// ErrNoGit when the root is not a repository; callers treat that as "no
// metadata" rather than a failure, since analysis works on plain directories.
//
// Implements: prd007-project-metadata R1.1-R1.4.
func Describe(root string) (*Metadata, error) {
	repo, err := gogit.PlainOpenWithOptions(root, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoGit, err)
	}

	head, err := repo.Head()
	if err != nil {
		// Repository with no commits yet.
		return &Metadata{}, nil
	}

	md := &Metadata{Revision: head.Hash().String()[:shortHashLen]}
	if head.Name().IsBranch() {
		md.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return md, nil
	}
	status, err := wt.Status()
	if err != nil {
		return md, nil
	}
	md.Dirty = !status.IsClean()

	return md, nil
}

// String renders the metadata the way it appears in reports, for example
// "main@1a2b3c4d5e6f" or "main@1a2b3c4d5e6f+dirty".
func (m *Metadata) String() string {
	if m.Revision == "" {
		return ""
	}
	s := m.Revision
	if m.Branch != "" {
		s = m.Branch + "@" + s
	}
	if m.Dirty {
		s += "+dirty"
	}
	return s
}
