// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types defines shared types used across depscope packages.
// Implements: prd001-analyzer-interface R5 (shared types).
package types

// ClassKind identifies the category of a class-like declaration.
type ClassKind int

const (
	Class     ClassKind = iota // Class declaration
	Interface                  // Interface declaration
)

// String returns the human-readable name of the class kind.
func (k ClassKind) String() string {
	switch k {
	case Class:
		return "class"
	case Interface:
		return "interface"
	default:
		return "unknown"
	}
}

// Visibility is the access level of a class member.
type Visibility string

const (
	Public    Visibility = "public"
	Private   Visibility = "private"
	Protected Visibility = "protected"
)

// PropertyInfo describes a class property or interface field.
// Implements: prd003-structural-extractor R3.2.
type PropertyInfo struct {
	Name       string
	Type       string // Resolved type name; "unknown" when unresolvable
	Visibility Visibility
	IsStatic   bool
	IsReadonly bool
	IsOptional bool
	OwnsValue  bool // Initializer constructs the value (new expression)
}

// ParameterInfo describes a function, method, or constructor parameter.
type ParameterInfo struct {
	Name       string
	Type       string
	Visibility Visibility // Set only for parameter properties
	IsProperty bool       // Parameter property: declares a same-named field
	IsOptional bool
}

// MethodInfo describes a method or interface method signature.
// Implements: prd003-structural-extractor R3.3.
type MethodInfo struct {
	Name       string
	ReturnType string
	Visibility Visibility
	IsStatic   bool
	IsAbstract bool
	Params     []ParameterInfo
}

// ClassInfo describes one class or interface declaration found in a file.
//
// Implements: prd003-structural-extractor R3.1.
type ClassInfo struct {
	Name       string
	Kind       ClassKind
	Extends    string   // Parent class or interface name, empty if none
	Implements []string // Implemented interface names
	IsAbstract bool
	Properties []PropertyInfo
	Methods    []MethodInfo
	CtorParams []ParameterInfo
	CtorStores []string // Constructor params stored into same-named fields
}

// ImportInfo describes one import statement.
type ImportInfo struct {
	Source  string   // Raw specifier as written in the source
	Symbols []string // Imported symbol names (empty for side-effect imports)
	Line    int      // Line number (1-based)
}

// ExportInfo describes one exported symbol.
type ExportInfo struct {
	Name      string
	Line      int
	IsDefault bool
}

// FileAnalysisResult is the per-file output of structural analysis.
// Depth records the traversal depth at which the file was reached; it is
// overwritten on cache re-use without re-parsing.
//
// Implements: prd001-analyzer-interface R5.1; prd003-structural-extractor R1.
type FileAnalysisResult struct {
	FilePath      string
	Classes       []ClassInfo
	Imports       []ImportInfo
	Exports       []ExportInfo
	Relationships []RelationshipEdge
	Depth         int
}
