// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command depscope analyzes cross-file dependencies in TypeScript and
// JavaScript projects and optionally sends the result to an AI reviewer.
// Implements: prd009-technology-stack R4.1-R4.10;
//
//	docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "depscope",
		Short: "Cross-file dependency analysis for TypeScript/JavaScript",
		Long:  "depscope builds the dependency neighborhood of a source file: what it imports, what imports it, and how the classes involved relate.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(viper.GetString("log-level"))
		},
	}

	// Global flags.
	rootCmd.PersistentFlags().String("project", ".", "Project root directory")
	rootCmd.PersistentFlags().Int("depth", 2, "Traversal depth (1-3)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	// Bind flags to viper.
	viper.BindPFlag("project", rootCmd.PersistentFlags().Lookup("project"))
	viper.BindPFlag("depth", rootCmd.PersistentFlags().Lookup("depth"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))

	// Env vars: DEPSCOPE_PROJECT, DEPSCOPE_DEPTH, etc.
	viper.SetEnvPrefix("DEPSCOPE")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".depscope")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newReviewCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureLogging applies the requested logrus level, defaulting to warn on
// an unparseable value.
func configureLogging(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.WarnLevel
	}
	logrus.SetLevel(parsed)
	logrus.SetOutput(os.Stderr)
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print depscope version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("depscope %s\n", version)
		},
	}
}
