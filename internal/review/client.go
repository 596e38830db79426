// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package review sends dependency analysis context to an AWS Bedrock model
// and returns its code review. The analysis engine stays local; only the
// review step talks to the network, and only when the caller asks for it.
// Implements: prd008-ai-review R1, R2, R3;
//
//	docs/ARCHITECTURE § AI Review.
package review

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultMaxTokens = 4096
	maxRetryAttempts = 3
	baseRetryDelay   = 1 * time.Second
)

// ErrReviewFailure indicates the review call failed (network, auth, rate limit).
var ErrReviewFailure = errors.New("review failure")

// ClientConfig configures the Bedrock review client.
type ClientConfig struct {
	ModelID   string        // Bedrock model ID (required)
	Region    string        // AWS region (required)
	Profile   string        // AWS credential profile (optional, default chain if empty)
	Timeout   time.Duration // Request timeout (default 120s)
	MaxTokens int           // Max tokens for the response (default 4096)
}

// BedrockAPI abstracts the Bedrock Converse call for testing.
type BedrockAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// Usage is the token cost of review calls, accumulated across Review calls.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Client wraps the AWS Bedrock runtime client for review access.
type Client struct {
	api       BedrockAPI
	modelID   string
	timeout   time.Duration
	maxTokens int
	usage     Usage
}

// NewClient creates a Bedrock review client using the standard AWS
// credential chain.
//
// Implements: prd008-ai-review R1.1-R1.4.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: model ID is required", ErrReviewFailure)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: region is required", ErrReviewFailure)
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.Profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: loading AWS config: %v", ErrReviewFailure, err)
	}

	return NewClientWithAPI(bedrockruntime.NewFromConfig(awsCfg), cfg), nil
}

// NewClientWithAPI creates a client over a pre-configured API implementation.
// Used for testing with mock clients.
func NewClientWithAPI(api BedrockAPI, cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		api:       api,
		modelID:   cfg.ModelID,
		timeout:   timeout,
		maxTokens: maxTokens,
	}
}

// Review sends the rendered prompt to Bedrock and returns the model's
// review text. Throttling errors are retried with exponential backoff.
//
// Implements: prd008-ai-review R2.1-R2.4, R3.1-R3.3.
func (c *Client) Review(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	system := []brtypes.SystemContentBlock{
		&brtypes.SystemContentBlockMemberText{Value: systemPrompt},
	}
	messages := []brtypes.Message{{
		Role: brtypes.ConversationRoleUser,
		Content: []brtypes.ContentBlock{
			&brtypes.ContentBlockMemberText{Value: userPrompt},
		},
	}}

	var lastErr error
	for attempt := 0; attempt <= maxRetryAttempts; attempt++ {
		if attempt > 0 {
			delay := baseRetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: context cancelled during retry: %v", ErrReviewFailure, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		output, err := c.api.Converse(callCtx, &bedrockruntime.ConverseInput{
			ModelId:  aws.String(c.modelID),
			System:   system,
			Messages: messages,
			InferenceConfig: &brtypes.InferenceConfiguration{
				MaxTokens: aws.Int32(int32(c.maxTokens)),
			},
		})
		cancel()
		if err != nil {
			var throttle *brtypes.ThrottlingException
			if errors.As(err, &throttle) {
				lastErr = err
				continue
			}
			return "", c.classifyError(err)
		}

		if output.Usage != nil {
			c.usage.InputTokens += int(aws.ToInt32(output.Usage.InputTokens))
			c.usage.OutputTokens += int(aws.ToInt32(output.Usage.OutputTokens))
		}
		return extractText(output), nil
	}

	return "", fmt.Errorf("%w: rate limited after %d retries: %v", ErrReviewFailure, maxRetryAttempts, lastErr)
}

// CumulativeUsage returns the total token usage across all Review calls.
func (c *Client) CumulativeUsage() Usage {
	return c.usage
}

// extractText concatenates the text blocks of the model response.
func extractText(output *bedrockruntime.ConverseOutput) string {
	msg, ok := output.Output.(*brtypes.ConverseOutputMemberMessage)
	if !ok {
		return ""
	}
	var text string
	for _, block := range msg.Value.Content {
		if t, ok := block.(*brtypes.ContentBlockMemberText); ok {
			text += t.Value
		}
	}
	return text
}

// classifyError wraps Bedrock errors into ErrReviewFailure with descriptive
// messages.
func (c *Client) classifyError(err error) error {
	var accessDenied *brtypes.AccessDeniedException
	if errors.As(err, &accessDenied) {
		return fmt.Errorf("%w: credential or permission issue: %v", ErrReviewFailure, err)
	}

	var notFound *brtypes.ResourceNotFoundException
	if errors.As(err, &notFound) {
		return fmt.Errorf("%w: model not found: %s", ErrReviewFailure, c.modelID)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: request timed out after %s", ErrReviewFailure, c.timeout)
	}

	return fmt.Errorf("%w: %v", ErrReviewFailure, err)
}
