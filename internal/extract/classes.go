// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-structural-extractor R2, R3 (declaration walk).
package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/petar-djukic/depscope/pkg/types"
)

// unknownType is recorded when a member carries no resolvable annotation.
const unknownType = "unknown"

// collectClasses walks the top level of the tree and returns every class
// and interface declaration, including those nested in export statements.
func collectClasses(root *sitter.Node, content []byte) []types.ClassInfo {
	var classes []types.ClassInfo

	forEachDeclaration(root, func(node *sitter.Node) {
		switch node.Type() {
		case "class_declaration", "abstract_class_declaration":
			if c, ok := readClass(node, content); ok {
				c.IsAbstract = node.Type() == "abstract_class_declaration"
				classes = append(classes, c)
			}
		case "interface_declaration":
			if c, ok := readInterface(node, content); ok {
				classes = append(classes, c)
			}
		}
	})

	return classes
}

// forEachDeclaration visits every top-level declaration, unwrapping export
// statements one level.
func forEachDeclaration(root *sitter.Node, visit func(*sitter.Node)) {
	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		if child.Type() == "export_statement" {
			for j := 0; j < int(child.ChildCount()); j++ {
				visit(child.Child(j))
			}
			continue
		}
		visit(child)
	}
}

// readClass extracts one class declaration.
func readClass(node *sitter.Node, content []byte) (types.ClassInfo, bool) {
	c := types.ClassInfo{Kind: types.Class}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier", "identifier":
			if c.Name == "" {
				c.Name = text(child, content)
			}
		case "class_heritage":
			c.Extends, c.Implements = readHeritage(child, content)
		case "class_body":
			readClassBody(child, content, &c)
		}
	}

	return c, c.Name != ""
}

// readHeritage extracts extends and implements clauses from class heritage.
func readHeritage(node *sitter.Node, content []byte) (extends string, implements []string) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "extends_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "identifier" || gc.Type() == "type_identifier" || gc.Type() == "generic_type" {
					extends = baseTypeName(text(gc, content))
				}
			}
		case "implements_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "type_identifier" || gc.Type() == "generic_type" {
					implements = append(implements, baseTypeName(text(gc, content)))
				}
			}
		}
	}
	return
}

// readClassBody extracts fields, methods, and the constructor.
func readClassBody(body *sitter.Node, content []byte, c *types.ClassInfo) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "public_field_definition", "field_definition":
			if p, ok := readField(child, content); ok {
				c.Properties = append(c.Properties, p)
			}
		case "method_definition":
			m, params, ok := readMethod(child, content)
			if !ok {
				continue
			}
			if m.Name == "constructor" {
				c.CtorParams = params
				readConstructor(child, content, c)
				continue
			}
			c.Methods = append(c.Methods, m)
		case "abstract_method_signature":
			m, _, ok := readMethod(child, content)
			if ok {
				m.IsAbstract = true
				c.Methods = append(c.Methods, m)
			}
		}
	}
}

// readField extracts one class field.
func readField(node *sitter.Node, content []byte) (types.PropertyInfo, bool) {
	p := types.PropertyInfo{Type: unknownType, Visibility: types.Public}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "accessibility_modifier":
			p.Visibility = types.Visibility(text(child, content))
		case "static":
			p.IsStatic = true
		case "readonly":
			p.IsReadonly = true
		case "property_identifier":
			p.Name = text(child, content)
		case "private_property_identifier":
			// #name syntax: private unless an explicit modifier said otherwise.
			p.Name = strings.TrimPrefix(text(child, content), "#")
			if p.Visibility == types.Public {
				p.Visibility = types.Private
			}
		case "?":
			p.IsOptional = true
		case "type_annotation":
			p.Type = annotationType(child, content)
		case "new_expression":
			p.OwnsValue = true
		}
	}

	return p, p.Name != ""
}

// readMethod extracts a method definition or signature. The parameter list
// is returned separately so constructors can be handled by the caller.
func readMethod(node *sitter.Node, content []byte) (types.MethodInfo, []types.ParameterInfo, bool) {
	m := types.MethodInfo{ReturnType: unknownType, Visibility: types.Public}
	var params []types.ParameterInfo

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "accessibility_modifier":
			m.Visibility = types.Visibility(text(child, content))
		case "static":
			m.IsStatic = true
		case "property_identifier":
			m.Name = text(child, content)
		case "private_property_identifier":
			m.Name = strings.TrimPrefix(text(child, content), "#")
			if m.Visibility == types.Public {
				m.Visibility = types.Private
			}
		case "formal_parameters":
			params = readParameters(child, content)
		case "type_annotation":
			m.ReturnType = annotationType(child, content)
		}
	}

	m.Params = params
	return m, params, m.Name != ""
}

// readParameters extracts a formal parameter list.
func readParameters(node *sitter.Node, content []byte) []types.ParameterInfo {
	var params []types.ParameterInfo

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != "required_parameter" && child.Type() != "optional_parameter" {
			continue
		}

		p := types.ParameterInfo{
			Type:       unknownType,
			IsOptional: child.Type() == "optional_parameter",
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			gc := child.Child(j)
			switch gc.Type() {
			case "accessibility_modifier":
				// Parameter property: constructor(private engine: Engine)
				// declares a same-named field.
				p.Visibility = types.Visibility(text(gc, content))
				p.IsProperty = true
			case "readonly":
				p.IsProperty = true
			case "identifier":
				p.Name = text(gc, content)
			case "type_annotation":
				p.Type = annotationType(gc, content)
			}
		}
		if p.Name != "" {
			params = append(params, p)
		}
	}

	return params
}

// readConstructor records which constructor parameters end up stored as
// fields: parameter properties, plus `this.x = x` assignments in the body.
func readConstructor(node *sitter.Node, content []byte, c *types.ClassInfo) {
	for _, p := range c.CtorParams {
		if p.IsProperty {
			c.CtorStores = append(c.CtorStores, p.Name)
			vis := p.Visibility
			if vis == "" {
				vis = types.Public
			}
			c.Properties = append(c.Properties, types.PropertyInfo{
				Name:       p.Name,
				Type:       p.Type,
				Visibility: vis,
			})
		}
	}

	body := childOfType(node, "statement_block")
	if body == nil {
		return
	}

	paramNames := make(map[string]bool, len(c.CtorParams))
	for _, p := range c.CtorParams {
		paramNames[p.Name] = true
	}

	walkAssignments(body, content, func(field, value string) {
		if field == value && paramNames[value] && !contains(c.CtorStores, value) {
			c.CtorStores = append(c.CtorStores, value)
		}
	})
}

// walkAssignments finds `this.<field> = <identifier>` assignments and
// reports the field and right-hand identifier names.
func walkAssignments(node *sitter.Node, content []byte, report func(field, value string)) {
	if node.Type() == "assignment_expression" && node.ChildCount() >= 3 {
		left := node.Child(0)
		right := node.Child(int(node.ChildCount()) - 1)
		if left.Type() == "member_expression" && right.Type() == "identifier" {
			obj := left.Child(0)
			prop := left.Child(int(left.ChildCount()) - 1)
			if obj != nil && obj.Type() == "this" && prop != nil {
				report(strings.TrimPrefix(text(prop, content), "#"), text(right, content))
			}
		}
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkAssignments(node.Child(i), content, report)
	}
}

// readInterface extracts one interface declaration.
func readInterface(node *sitter.Node, content []byte) (types.ClassInfo, bool) {
	c := types.ClassInfo{Kind: types.Interface}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "type_identifier":
			if c.Name == "" {
				c.Name = text(child, content)
			}
		case "extends_type_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "type_identifier" || gc.Type() == "generic_type" {
					name := baseTypeName(text(gc, content))
					if c.Extends == "" {
						c.Extends = name
					} else {
						c.Implements = append(c.Implements, name)
					}
				}
			}
		case "interface_body", "object_type":
			readInterfaceBody(child, content, &c)
		}
	}

	return c, c.Name != ""
}

// readInterfaceBody extracts property and method signatures.
func readInterfaceBody(body *sitter.Node, content []byte, c *types.ClassInfo) {
	for i := 0; i < int(body.ChildCount()); i++ {
		child := body.Child(i)
		switch child.Type() {
		case "property_signature":
			p := types.PropertyInfo{Type: unknownType, Visibility: types.Public}
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				switch gc.Type() {
				case "readonly":
					p.IsReadonly = true
				case "property_identifier":
					p.Name = text(gc, content)
				case "?":
					p.IsOptional = true
				case "type_annotation":
					p.Type = annotationType(gc, content)
				}
			}
			if p.Name != "" {
				c.Properties = append(c.Properties, p)
			}
		case "method_signature":
			if m, _, ok := readMethod(child, content); ok {
				c.Methods = append(c.Methods, m)
			}
		}
	}
}

// annotationType returns the type text of a type_annotation node, which is
// the annotation's first child after the ":" token.
func annotationType(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() != ":" {
			if t := strings.TrimSpace(text(child, content)); t != "" {
				return t
			}
		}
	}
	return unknownType
}

// baseTypeName strips generic arguments: "Repository<User>" -> "Repository".
func baseTypeName(s string) string {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return strings.TrimSpace(s)
}

// childOfType returns the first direct child with the given node type.
func childOfType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		if child := node.Child(i); child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// text returns the source text covered by a node.
func text(node *sitter.Node, content []byte) string {
	return node.Content(content)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
