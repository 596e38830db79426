// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd004-import-index R1.4, R2;
//
//	docs/ARCHITECTURE § Import Index.
package types

import "time"

// ImportIndex is a whole-project bidirectional import map. Keys are
// canonical absolute file paths.
type ImportIndex struct {
	FileToImports map[string][]string // file -> files it imports
	ImportToFiles map[string][]string // file -> files that import it
	FileCount     int                 // Source files scanned
	BuiltAt       time.Time
	Revision      string // VCS revision the index was built at, if known
}

// Importers returns the files that import the given file.
func (ix *ImportIndex) Importers(path string) []string {
	return ix.ImportToFiles[path]
}

// AnalysisStats summarizes a bidirectional analysis.
type AnalysisStats struct {
	TotalFiles         int
	TotalClasses       int
	TotalRelationships int
	MaxDepth           int
}

// BidirectionalResult merges a forward and a reverse traversal over the
// same target. The target file itself is excluded from both dependency
// lists; classes and relationships are deduplicated over the union.
//
// Implements: prd001-analyzer-interface R5.2.
type BidirectionalResult struct {
	TargetFile    string
	ForwardDeps   []string
	ReverseDeps   []string
	AllClasses    []ClassInfo
	Relationships []RelationshipEdge
	Stats         AnalysisStats
}
