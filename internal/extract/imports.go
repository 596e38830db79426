// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-structural-extractor R3.4-R3.5 (imports and exports).
package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/petar-djukic/depscope/pkg/types"
)

// collectImports extracts ES module imports, re-export sources, and
// CommonJS require bindings from the top level of the tree.
func collectImports(root *sitter.Node, content []byte) []types.ImportInfo {
	var imports []types.ImportInfo

	for i := 0; i < int(root.ChildCount()); i++ {
		child := root.Child(i)
		switch child.Type() {
		case "import_statement":
			if imp, ok := readImport(child, content); ok {
				imports = append(imports, imp)
			}
		case "export_statement":
			// Re-export: export { Foo } from './foo'.
			if src := childOfType(child, "string"); src != nil {
				imports = append(imports, types.ImportInfo{
					Source:  stringContent(src, content),
					Symbols: exportClauseNames(child, content),
					Line:    line(child),
				})
			}
		case "lexical_declaration", "variable_declaration":
			imports = append(imports, readRequires(child, content)...)
		}
	}

	return imports
}

// readImport extracts one ES import statement.
func readImport(node *sitter.Node, content []byte) (types.ImportInfo, bool) {
	imp := types.ImportInfo{Line: line(node)}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "import_clause":
			imp.Symbols = append(imp.Symbols, importClauseNames(child, content)...)
		case "string":
			imp.Source = stringContent(child, content)
		}
	}

	return imp, imp.Source != ""
}

// importClauseNames returns the bound names of an import clause: the
// default binding, a namespace alias, or the named import list.
func importClauseNames(node *sitter.Node, content []byte) []string {
	var names []string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "identifier":
			names = append(names, text(child, content))
		case "namespace_import":
			if id := childOfType(child, "identifier"); id != nil {
				names = append(names, text(id, content))
			}
		case "named_imports":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "import_specifier" {
					if id := childOfType(gc, "identifier"); id != nil {
						names = append(names, text(id, content))
					}
				}
			}
		}
	}

	return names
}

// readRequires extracts `const x = require('...')` bindings.
func readRequires(node *sitter.Node, content []byte) []types.ImportInfo {
	var imports []types.ImportInfo

	for i := 0; i < int(node.ChildCount()); i++ {
		decl := node.Child(i)
		if decl.Type() != "variable_declarator" {
			continue
		}

		var name, source string
		for j := 0; j < int(decl.ChildCount()); j++ {
			gc := decl.Child(j)
			switch gc.Type() {
			case "identifier":
				name = text(gc, content)
			case "call_expression":
				source = requireSource(gc, content)
			}
		}
		if name != "" && source != "" {
			imports = append(imports, types.ImportInfo{
				Source:  source,
				Symbols: []string{name},
				Line:    line(node),
			})
		}
	}

	return imports
}

// requireSource returns the argument of a require() call, or empty.
func requireSource(call *sitter.Node, content []byte) string {
	var fn, source string
	for i := 0; i < int(call.ChildCount()); i++ {
		child := call.Child(i)
		switch child.Type() {
		case "identifier":
			fn = text(child, content)
		case "arguments":
			for j := 0; j < int(child.ChildCount()); j++ {
				if arg := child.Child(j); arg.Type() == "string" {
					source = stringContent(arg, content)
				}
			}
		}
	}
	if fn != "require" {
		return ""
	}
	return source
}

// collectExports extracts exported symbol names.
func collectExports(root *sitter.Node, content []byte) []types.ExportInfo {
	var exports []types.ExportInfo

	for i := 0; i < int(root.ChildCount()); i++ {
		node := root.Child(i)
		if node.Type() != "export_statement" {
			continue
		}

		isDefault := childOfType(node, "default") != nil

		if name := exportedDeclarationName(node, content); name != "" {
			exports = append(exports, types.ExportInfo{Name: name, Line: line(node), IsDefault: isDefault})
			continue
		}

		for _, name := range exportClauseNames(node, content) {
			exports = append(exports, types.ExportInfo{Name: name, Line: line(node), IsDefault: isDefault})
		}
	}

	return exports
}

// exportedDeclarationName returns the name of a declaration wrapped in an
// export statement, or empty when the export has no inline declaration.
func exportedDeclarationName(node *sitter.Node, content []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "class_declaration", "abstract_class_declaration", "function_declaration",
			"interface_declaration", "type_alias_declaration", "enum_declaration",
			"generator_function_declaration":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "identifier" || gc.Type() == "type_identifier" {
					return text(gc, content)
				}
			}
		case "lexical_declaration", "variable_declaration":
			for j := 0; j < int(child.ChildCount()); j++ {
				gc := child.Child(j)
				if gc.Type() == "variable_declarator" {
					if id := childOfType(gc, "identifier"); id != nil {
						return text(id, content)
					}
				}
			}
		}
	}
	return ""
}

// exportClauseNames returns names listed in an export clause:
// export { a, b as c }.
func exportClauseNames(node *sitter.Node, content []byte) []string {
	var names []string
	clause := childOfType(node, "export_clause")
	if clause == nil {
		return nil
	}
	for i := 0; i < int(clause.ChildCount()); i++ {
		spec := clause.Child(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		if id := childOfType(spec, "identifier"); id != nil {
			names = append(names, text(id, content))
		}
	}
	return names
}

// stringContent returns the content of a string literal without quotes.
func stringContent(node *sitter.Node, content []byte) string {
	if frag := childOfType(node, "string_fragment"); frag != nil {
		return text(frag, content)
	}
	return strings.Trim(text(node, content), `"'`)
}

// line returns the 1-based line of a node.
func line(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}
