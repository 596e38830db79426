// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd005-relationships R1 (edge model);
//
//	docs/ARCHITECTURE § Relationship Inference.
package types

// RelationKind is the UML-style relationship between two classes, ordered by
// ownership strength. When several signals apply to the same (from, to) pair
// the strongest kind wins.
type RelationKind int

const (
	Inheritance RelationKind = iota // extends
	Realization                     // implements
	Composition                     // owned singular instance
	Aggregation                     // collection or externally supplied instance
	Association                     // retained reference
	Dependency                      // transient reference
	Injection                       // constructor-injected service
)

// String returns the human-readable name of the relation kind.
func (k RelationKind) String() string {
	switch k {
	case Inheritance:
		return "inheritance"
	case Realization:
		return "realization"
	case Composition:
		return "composition"
	case Aggregation:
		return "aggregation"
	case Association:
		return "association"
	case Dependency:
		return "dependency"
	case Injection:
		return "injection"
	default:
		return "unknown"
	}
}

// RelationshipEdge is a directed relationship between two classes.
//
// Implements: prd005-relationships R1.1-R1.4.
type RelationshipEdge struct {
	From        string       // Source class name
	To          string       // Target class name
	Kind        RelationKind
	Cardinality string // "1", "*", or empty when not applicable
	Context     string // Member or parameter that produced the edge
	IsExternal  bool   // Target could not be resolved to a project file
}

// Key returns the deduplication key for the edge.
func (e RelationshipEdge) Key() string {
	return e.From + ":" + e.To + ":" + e.Kind.String() + ":" + e.Context
}
