// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/depscope/pkg/types"
)

// mockBedrockAPI implements BedrockAPI for testing.
type mockBedrockAPI struct {
	text         string
	inputTokens  int
	outputTokens int
	throttleN    int // Number of ThrottlingExceptions before success
	callCount    int
	failWithErr  error // Return this error on every call
}

func (m *mockBedrockAPI) Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error) {
	m.callCount++

	if m.failWithErr != nil {
		return nil, m.failWithErr
	}
	if m.callCount <= m.throttleN {
		return nil, &brtypes.ThrottlingException{Message: aws.String("Rate exceeded")}
	}

	return &bedrockruntime.ConverseOutput{
		Output: &brtypes.ConverseOutputMemberMessage{
			Value: brtypes.Message{
				Role: brtypes.ConversationRoleAssistant,
				Content: []brtypes.ContentBlock{
					&brtypes.ContentBlockMemberText{Value: m.text},
				},
			},
		},
		Usage: &brtypes.TokenUsage{
			InputTokens:  aws.Int32(int32(m.inputTokens)),
			OutputTokens: aws.Int32(int32(m.outputTokens)),
			TotalTokens:  aws.Int32(int32(m.inputTokens + m.outputTokens)),
		},
	}, nil
}

func TestNewClient_MissingConfig(t *testing.T) {
	ctx := context.Background()

	_, err := NewClient(ctx, ClientConfig{Region: "us-east-1"})
	assert.ErrorIs(t, err, ErrReviewFailure)

	_, err = NewClient(ctx, ClientConfig{ModelID: "anthropic.claude-3-5-sonnet-20241022-v2:0"})
	assert.ErrorIs(t, err, ErrReviewFailure)
}

func TestReview_ReturnsModelText(t *testing.T) {
	mock := &mockBedrockAPI{text: "The Car class owns its Engine.", inputTokens: 100, outputTokens: 20}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "test-model"})

	text, err := client.Review(context.Background(), "system", "analysis")
	require.NoError(t, err)
	assert.Equal(t, "The Car class owns its Engine.", text)
	assert.Equal(t, 1, mock.callCount)

	usage := client.CumulativeUsage()
	assert.Equal(t, 100, usage.InputTokens)
	assert.Equal(t, 20, usage.OutputTokens)
}

func TestReview_AccumulatesUsage(t *testing.T) {
	mock := &mockBedrockAPI{text: "ok", inputTokens: 50, outputTokens: 10}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "test-model"})

	_, err := client.Review(context.Background(), "system", "first")
	require.NoError(t, err)
	_, err = client.Review(context.Background(), "system", "second")
	require.NoError(t, err)

	usage := client.CumulativeUsage()
	assert.Equal(t, 100, usage.InputTokens)
	assert.Equal(t, 20, usage.OutputTokens)
}

func TestReview_RetriesThrottling(t *testing.T) {
	mock := &mockBedrockAPI{text: "done", throttleN: 2}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "test-model"})

	text, err := client.Review(context.Background(), "system", "analysis")
	require.NoError(t, err)
	assert.Equal(t, "done", text)
	assert.Equal(t, 3, mock.callCount)
}

func TestReview_GivesUpAfterMaxRetries(t *testing.T) {
	mock := &mockBedrockAPI{throttleN: maxRetryAttempts + 1}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "test-model"})

	_, err := client.Review(context.Background(), "system", "analysis")
	assert.ErrorIs(t, err, ErrReviewFailure)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestReview_AccessDenied(t *testing.T) {
	mock := &mockBedrockAPI{failWithErr: &brtypes.AccessDeniedException{Message: aws.String("no access")}}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "test-model"})

	_, err := client.Review(context.Background(), "system", "analysis")
	assert.ErrorIs(t, err, ErrReviewFailure)
	assert.Contains(t, err.Error(), "credential or permission")
}

func TestReview_ModelNotFound(t *testing.T) {
	mock := &mockBedrockAPI{failWithErr: &brtypes.ResourceNotFoundException{Message: aws.String("nope")}}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "missing-model"})

	_, err := client.Review(context.Background(), "system", "analysis")
	assert.ErrorIs(t, err, ErrReviewFailure)
	assert.Contains(t, err.Error(), "missing-model")
}

func TestReview_CancelledDuringRetry(t *testing.T) {
	mock := &mockBedrockAPI{throttleN: maxRetryAttempts + 1}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "test-model"})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := client.Review(ctx, "system", "analysis")
	assert.ErrorIs(t, err, ErrReviewFailure)
}

func TestReview_OtherErrorNotRetried(t *testing.T) {
	mock := &mockBedrockAPI{failWithErr: errors.New("connection refused")}
	client := NewClientWithAPI(mock, ClientConfig{ModelID: "test-model"})

	_, err := client.Review(context.Background(), "system", "analysis")
	assert.ErrorIs(t, err, ErrReviewFailure)
	assert.Equal(t, 1, mock.callCount)
}

func TestRenderSystemPrompt(t *testing.T) {
	prompt, err := RenderSystemPrompt(TemplateData{ProjectRoot: "/src/shop", Revision: "main@1a2b3c4d5e6f"})
	require.NoError(t, err)
	assert.Contains(t, prompt, "/src/shop")
	assert.Contains(t, prompt, "main@1a2b3c4d5e6f")
	assert.Contains(t, prompt, "ripple effects")
}

func TestRenderSystemPrompt_NoRevision(t *testing.T) {
	prompt, err := RenderSystemPrompt(TemplateData{ProjectRoot: "/src/shop"})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "Revision:")
}

func TestRenderAnalysis(t *testing.T) {
	result := &types.BidirectionalResult{
		TargetFile:  "/src/car.ts",
		ForwardDeps: []string{"/src/engine.ts"},
		ReverseDeps: []string{"/src/garage.ts"},
		AllClasses: []types.ClassInfo{
			{
				Name: "Car",
				Kind: types.Class,
				Properties: []types.PropertyInfo{
					{Name: "engine", Type: "Engine", Visibility: types.Private},
				},
				Methods: []types.MethodInfo{
					{Name: "start", ReturnType: "void", Visibility: types.Public},
				},
			},
			{Name: "Vehicle", Kind: types.Interface},
		},
		Relationships: []types.RelationshipEdge{
			{From: "Car", To: "Engine", Kind: types.Composition, Cardinality: "1", Context: "engine"},
		},
		Stats: types.AnalysisStats{TotalFiles: 3, TotalClasses: 2, TotalRelationships: 1, MaxDepth: 1},
	}

	prompt := RenderAnalysis(result, "export class Car {}")

	assert.Contains(t, prompt, "/src/car.ts")
	assert.Contains(t, prompt, "export class Car {}")
	assert.Contains(t, prompt, "- /src/engine.ts")
	assert.Contains(t, prompt, "- /src/garage.ts")
	assert.Contains(t, prompt, "### class Car")
	assert.Contains(t, prompt, "### interface Vehicle")
	assert.Contains(t, prompt, "private engine: Engine")
	assert.Contains(t, prompt, "public start(): void")
	assert.Contains(t, prompt, "Car -> Engine (composition, 1, via engine)")
	assert.Contains(t, prompt, "3 files, 2 classes, 1 relationships, depth 1.")
}

func TestRenderAnalysis_EmptyLists(t *testing.T) {
	result := &types.BidirectionalResult{TargetFile: "/src/leaf.ts"}

	prompt := RenderAnalysis(result, "")
	assert.Contains(t, prompt, "(none)")
	assert.Contains(t, prompt, "(none inferred)")
	assert.NotContains(t, prompt, "```")
}
