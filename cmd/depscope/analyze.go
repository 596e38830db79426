// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-technology-stack R4.3-R4.7.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/depscope/pkg/depscope"
	"github.com/petar-djukic/depscope/pkg/types"
)

// newAnalyzeCmd creates the "analyze" command.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze the dependency neighborhood of a source file",
		Long:  "Analyze walks the import graph around the target file in the requested direction and prints the structural result as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}

	cmd.Flags().StringP("direction", "d", "bidirectional", "Traversal direction (forward, reverse, bidirectional)")

	return cmd
}

// runAnalyze executes one analysis query and prints the result.
func runAnalyze(cmd *cobra.Command, args []string) error {
	direction, _ := cmd.Flags().GetString("direction")

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	target := args[0]
	depth := viper.GetInt("depth")

	switch direction {
	case "forward":
		results, err := analyzer.AnalyzeForward(ctx, target, depth)
		if err != nil {
			return err
		}
		return printJSON(sortedResults(results))
	case "reverse":
		results, err := analyzer.AnalyzeReverse(ctx, target, depth)
		if err != nil {
			return err
		}
		return printJSON(sortedResults(results))
	case "bidirectional":
		result, err := analyzer.AnalyzeBidirectional(ctx, target, depth)
		if err != nil {
			return err
		}
		return printJSON(result)
	default:
		return fmt.Errorf("unknown direction %q (want forward, reverse, or bidirectional)", direction)
	}
}

// newAnalyzer builds the analyzer from global configuration, reporting index
// build progress on stderr so JSON output on stdout stays clean.
func newAnalyzer() (depscope.Analyzer, error) {
	return depscope.New(depscope.Config{
		ProjectRoot: viper.GetString("project"),
		IndexProgress: func(f float64) {
			fmt.Fprintf(os.Stderr, "\rindexing project: %3.0f%%", f*100)
			if f >= 1.0 {
				fmt.Fprintln(os.Stderr)
			}
		},
	})
}

// sortedResults flattens the per-file map into a path-ordered slice so the
// JSON output is stable across runs.
func sortedResults(results map[string]*types.FileAnalysisResult) []*types.FileAnalysisResult {
	files := make([]string, 0, len(results))
	for file := range results {
		files = append(files, file)
	}
	sort.Strings(files)

	out := make([]*types.FileAnalysisResult, 0, len(files))
	for _, file := range files {
		out = append(out, results[file])
	}
	return out
}

// printJSON writes the value as indented JSON to stdout.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
