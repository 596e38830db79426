// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd008-ai-review R4 (prompt construction).
package review

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/petar-djukic/depscope/pkg/types"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// TemplateData holds the values injected into the system prompt template.
type TemplateData struct {
	ProjectRoot string
	Revision    string
}

// RenderSystemPrompt renders the review system prompt with the given data.
//
// Implements: prd008-ai-review R4.1.
func RenderSystemPrompt(data TemplateData) (string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/system.tmpl")
	if err != nil {
		return "", fmt.Errorf("parsing system template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing system template: %w", err)
	}

	return buf.String(), nil
}

// RenderAnalysis formats a bidirectional analysis result as the user prompt:
// the dependency lists, the declared classes per file, and the relationship
// edges in a compact text form the model can reason over.
//
// Implements: prd008-ai-review R4.2-R4.4.
func RenderAnalysis(result *types.BidirectionalResult, targetSource string) string {
	var buf strings.Builder

	buf.WriteString("## Target File\n\n")
	buf.WriteString(result.TargetFile + "\n")

	if targetSource != "" {
		buf.WriteString("\n```\n")
		buf.WriteString(targetSource)
		if !strings.HasSuffix(targetSource, "\n") {
			buf.WriteString("\n")
		}
		buf.WriteString("```\n")
	}

	buf.WriteString("\n## Files It Depends On\n\n")
	writeFileList(&buf, result.ForwardDeps)

	buf.WriteString("\n## Files That Depend On It\n\n")
	writeFileList(&buf, result.ReverseDeps)

	buf.WriteString("\n## Declared Classes\n\n")
	for _, c := range result.AllClasses {
		buf.WriteString(formatClass(c))
	}

	buf.WriteString("\n## Relationships\n\n")
	if len(result.Relationships) == 0 {
		buf.WriteString("(none inferred)\n")
	}
	for _, e := range result.Relationships {
		buf.WriteString(formatEdge(e))
	}

	buf.WriteString(fmt.Sprintf("\n## Scope\n\n%d files, %d classes, %d relationships, depth %d.\n",
		result.Stats.TotalFiles, result.Stats.TotalClasses,
		result.Stats.TotalRelationships, result.Stats.MaxDepth))

	return buf.String()
}

func writeFileList(buf *strings.Builder, files []string) {
	if len(files) == 0 {
		buf.WriteString("(none)\n")
		return
	}
	for _, f := range files {
		buf.WriteString("- " + f + "\n")
	}
}

// formatClass renders one class with its members, one line per member.
func formatClass(c types.ClassInfo) string {
	var buf strings.Builder

	kind := "class"
	if c.Kind == types.Interface {
		kind = "interface"
	} else if c.IsAbstract {
		kind = "abstract class"
	}
	buf.WriteString(fmt.Sprintf("### %s %s", kind, c.Name))
	if c.Extends != "" {
		buf.WriteString(" extends " + c.Extends)
	}
	if len(c.Implements) > 0 {
		buf.WriteString(" implements " + strings.Join(c.Implements, ", "))
	}
	buf.WriteString("\n")

	for _, p := range c.Properties {
		buf.WriteString(fmt.Sprintf("- %s %s: %s\n", p.Visibility, p.Name, p.Type))
	}
	for _, m := range c.Methods {
		var params []string
		for _, p := range m.Params {
			params = append(params, p.Name+": "+p.Type)
		}
		buf.WriteString(fmt.Sprintf("- %s %s(%s): %s\n", m.Visibility, m.Name, strings.Join(params, ", "), m.ReturnType))
	}
	buf.WriteString("\n")

	return buf.String()
}

// formatEdge renders one relationship edge, for example
// "Car *-- Engine (composition, 1)".
func formatEdge(e types.RelationshipEdge) string {
	line := fmt.Sprintf("- %s -> %s (%s", e.From, e.To, e.Kind)
	if e.Cardinality != "" {
		line += ", " + e.Cardinality
	}
	if e.Context != "" {
		line += ", via " + e.Context
	}
	if e.IsExternal {
		line += ", external"
	}
	return line + ")\n"
}
