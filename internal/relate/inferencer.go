// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package relate derives UML-style relationship edges between classes from
// structural metadata and import information.
// Implements: prd005-relationships R2, R3, R4;
//
//	docs/ARCHITECTURE § Relationship Inference.
package relate

import (
	"strings"

	"github.com/petar-djukic/depscope/pkg/types"
)

// builtins are primitive and standard library type names that never count
// as class references, even though some start with an uppercase letter.
var builtins = map[string]bool{
	"string": true, "number": true, "boolean": true, "any": true,
	"void": true, "null": true, "undefined": true, "never": true,
	"unknown": true, "object": true, "symbol": true, "bigint": true,
	"String": true, "Number": true, "Boolean": true, "Object": true,
	"Array": true, "Map": true, "Set": true, "WeakMap": true, "WeakSet": true,
	"Promise": true, "Date": true, "RegExp": true, "Error": true,
	"Function": true, "Record": true, "Partial": true, "Readonly": true,
	"Required": true, "Pick": true, "Omit": true, "JSON": true, "Math": true,
}

// Inferencer turns one file's classes and imports into relationship edges.
// resolveSource reports whether an import specifier maps to a project file;
// references that do not are tagged external but retained.
type Inferencer struct {
	resolveSource func(source string) bool
}

// NewInferencer creates an Inferencer. resolveSource may be nil, in which
// case every imported reference is considered external.
func NewInferencer(resolveSource func(string) bool) *Inferencer {
	if resolveSource == nil {
		resolveSource = func(string) bool { return false }
	}
	return &Inferencer{resolveSource: resolveSource}
}

// Analyze derives relationship edges for every class in the file.
// Inheritance and realization are taken directly from extends/implements
// clauses. Member-driven kinds are classified per (from, to) pair with
// composition > aggregation > association > dependency > injection; when
// several signals hit the same pair only the strongest kind survives.
// Edges are deduplicated by (from, to, kind, context).
//
// Implements: prd005-relationships R2.1-R2.6, R3.1-R3.3.
func (inf *Inferencer) Analyze(classes []types.ClassInfo, imports []types.ImportInfo) []types.RelationshipEdge {
	known := make(map[string]bool, len(classes))
	for _, c := range classes {
		known[c.Name] = true
	}

	importSource := make(map[string]string)
	for _, imp := range imports {
		for _, sym := range imp.Symbols {
			importSource[sym] = imp.Source
		}
	}

	external := func(name string) bool {
		if known[name] {
			return false
		}
		source, imported := importSource[name]
		if !imported {
			return true
		}
		return !inf.resolveSource(source)
	}

	var structural, member []types.RelationshipEdge

	for _, c := range classes {
		structural = append(structural, inf.heritageEdges(c, external)...)
		member = append(member, inf.memberEdges(c, external)...)
	}

	return dedupe(append(structural, applyPrecedence(member)...))
}

// heritageEdges emits inheritance and realization edges. Interface
// heritage is inheritance throughout; only class implements-clauses
// produce realization.
func (inf *Inferencer) heritageEdges(c types.ClassInfo, external func(string) bool) []types.RelationshipEdge {
	var edges []types.RelationshipEdge

	if c.Extends != "" {
		edges = append(edges, types.RelationshipEdge{
			From: c.Name, To: c.Extends, Kind: types.Inheritance,
			Context: "extends", IsExternal: external(c.Extends),
		})
	}

	kind := types.Realization
	context := "implements"
	if c.Kind == types.Interface {
		kind = types.Inheritance
		context = "extends"
	}
	for _, target := range c.Implements {
		edges = append(edges, types.RelationshipEdge{
			From: c.Name, To: target, Kind: kind,
			Context: context, IsExternal: external(target),
		})
	}

	return edges
}

// memberEdges emits the heuristic edges driven by properties, constructor
// parameters, and method signatures.
func (inf *Inferencer) memberEdges(c types.ClassInfo, external func(string) bool) []types.RelationshipEdge {
	var edges []types.RelationshipEdge

	stored := make(map[string]bool, len(c.CtorStores))
	for _, name := range c.CtorStores {
		stored[name] = true
	}

	add := func(to string, kind types.RelationKind, cardinality, context string) {
		if to == c.Name {
			return // Self-references carry no ownership information.
		}
		edges = append(edges, types.RelationshipEdge{
			From: c.Name, To: to, Kind: kind,
			Cardinality: cardinality, Context: context, IsExternal: external(to),
		})
	}

	for _, p := range c.Properties {
		if elem, isArray := arrayElement(p.Type); isArray {
			for _, name := range classNames(elem) {
				add(name, types.Aggregation, "*", p.Name)
			}
			continue
		}
		for _, name := range classNames(p.Type) {
			switch {
			case p.OwnsValue:
				add(name, types.Composition, "1", p.Name)
			case stored[p.Name]:
				add(name, types.Injection, "1", p.Name)
			default:
				add(name, types.Association, "", p.Name)
			}
		}
	}

	// Constructor parameters that are not stored are transient.
	for _, param := range c.CtorParams {
		if stored[param.Name] {
			continue
		}
		if elem, isArray := arrayElement(param.Type); isArray {
			for _, name := range classNames(elem) {
				add(name, types.Aggregation, "*", "constructor")
			}
			continue
		}
		for _, name := range classNames(param.Type) {
			add(name, types.Dependency, "", "constructor")
		}
	}

	for _, m := range c.Methods {
		for _, param := range m.Params {
			for _, name := range classNames(param.Type) {
				add(name, types.Dependency, "", m.Name)
			}
		}
		for _, name := range classNames(m.ReturnType) {
			add(name, types.Dependency, "", m.Name)
		}
	}

	return edges
}

// applyPrecedence keeps, for each (from, to) pair, only edges of the
// strongest kind observed. Kinds are declared in precedence order, so the
// smallest numeric kind wins.
func applyPrecedence(edges []types.RelationshipEdge) []types.RelationshipEdge {
	strongest := make(map[string]types.RelationKind)
	for _, e := range edges {
		pair := e.From + ":" + e.To
		if current, ok := strongest[pair]; !ok || e.Kind < current {
			strongest[pair] = e.Kind
		}
	}

	kept := edges[:0]
	for _, e := range edges {
		if strongest[e.From+":"+e.To] == e.Kind {
			kept = append(kept, e)
		}
	}
	return kept
}

// dedupe removes edges with a duplicate (from, to, kind, context) key,
// preserving first-seen order.
func dedupe(edges []types.RelationshipEdge) []types.RelationshipEdge {
	seen := make(map[string]bool, len(edges))
	var out []types.RelationshipEdge
	for _, e := range edges {
		if seen[e.Key()] {
			continue
		}
		seen[e.Key()] = true
		out = append(out, e)
	}
	return out
}

// arrayElement returns the element type of an array annotation: "Wheel[]",
// "Array<Wheel>", or "ReadonlyArray<Wheel>".
func arrayElement(t string) (string, bool) {
	t = strings.TrimSpace(t)
	if strings.HasSuffix(t, "[]") {
		return strings.TrimSpace(strings.TrimSuffix(t, "[]")), true
	}
	for _, prefix := range []string{"Array<", "ReadonlyArray<"} {
		if strings.HasPrefix(t, prefix) && strings.HasSuffix(t, ">") {
			return strings.TrimSpace(t[len(prefix) : len(t)-1]), true
		}
	}
	return "", false
}

// classNames extracts class-name references from a type annotation.
// Unions are split and inspected per branch; generic arguments reduce to
// their base name. A name counts as a class when it starts with an
// uppercase letter and is not a known builtin.
func classNames(t string) []string {
	var names []string
	for _, part := range strings.Split(t, "|") {
		part = strings.TrimSpace(part)
		if elem, isArray := arrayElement(part); isArray {
			part = elem
		}
		name := baseName(part)
		if isClassName(name) {
			names = append(names, name)
			continue
		}
		// Builtin generics wrap real references: Promise<Engine>, Map<string, User>.
		if builtins[name] {
			for _, arg := range genericArgs(part) {
				names = append(names, classNames(arg)...)
			}
		}
	}
	return names
}

// genericArgs returns the comma-separated arguments of a generic type.
func genericArgs(t string) []string {
	open := strings.IndexByte(t, '<')
	end := strings.LastIndexByte(t, '>')
	if open < 0 || end <= open {
		return nil
	}
	return strings.Split(t[open+1:end], ",")
}

// baseName strips generic arguments and surrounding parentheses.
func baseName(t string) string {
	t = strings.Trim(strings.TrimSpace(t), "()")
	if i := strings.IndexByte(t, '<'); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}

// isClassName reports whether a type name syntactically refers to a class:
// leading uppercase and not in the builtin list.
func isClassName(name string) bool {
	if name == "" || builtins[name] {
		return false
	}
	first := name[0]
	if first < 'A' || first > 'Z' {
		return false
	}
	// Qualified names (React.Component) and literals are not class refs.
	return !strings.ContainsAny(name, ". \"'{}[]")
}
