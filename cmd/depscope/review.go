// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd009-technology-stack R4.8-R4.10.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/depscope/internal/review"
)

// newReviewCmd creates the "review" command.
func newReviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review <file>",
		Short: "AI-review a source file with its dependency context",
		Long:  "Review runs a bidirectional analysis around the target file and sends the structural context plus the file itself to an AWS Bedrock model for review.",
		Args:  cobra.ExactArgs(1),
		RunE:  runReview,
	}

	cmd.Flags().String("model", "", "Bedrock model ID (required)")
	cmd.Flags().String("region", "", "AWS region for Bedrock (required)")
	cmd.Flags().String("profile", "", "AWS credential profile")
	cmd.Flags().Int("max-tokens", 4096, "Maximum tokens for the review response")
	cmd.MarkFlagRequired("model")
	cmd.MarkFlagRequired("region")

	return cmd
}

// runReview analyzes the target and asks the model to review it.
func runReview(cmd *cobra.Command, args []string) error {
	model, _ := cmd.Flags().GetString("model")
	region, _ := cmd.Flags().GetString("region")
	profile, _ := cmd.Flags().GetString("profile")
	maxTokens, _ := cmd.Flags().GetInt("max-tokens")

	analyzer, err := newAnalyzer()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	target := args[0]
	result, err := analyzer.AnalyzeBidirectional(ctx, target, viper.GetInt("depth"))
	if err != nil {
		return err
	}

	source, err := os.ReadFile(result.TargetFile)
	if err != nil {
		return fmt.Errorf("reading target file: %w", err)
	}

	systemPrompt, err := review.RenderSystemPrompt(review.TemplateData{
		ProjectRoot: viper.GetString("project"),
		Revision:    analyzer.Revision(),
	})
	if err != nil {
		return err
	}

	client, err := review.NewClient(ctx, review.ClientConfig{
		ModelID:   model,
		Region:    region,
		Profile:   profile,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return err
	}

	text, err := client.Review(ctx, systemPrompt, review.RenderAnalysis(result, string(source)))
	if err != nil {
		return err
	}

	fmt.Println(text)

	usage := client.CumulativeUsage()
	fmt.Fprintf(os.Stderr, "tokens: %d in, %d out\n", usage.InputTokens, usage.OutputTokens)
	return nil
}
