// Package advisor wraps the optional text and image providers. Every call
// degrades to a fixed fallback; callers never see a provider error.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Fallbacks returned when the provider is unconfigured or fails.
const (
	FallbackInsight  = "Operations look stable. Keep reconciling daily records promptly and watch stations close to their low-stock threshold."
	FallbackImageURL = "https://images.unsplash.com/photo-1545262810-77515befe149?q=80&w=800&auto=format&fit=crop"
)

// Client is the subset of the OpenAI client used here.
type Client interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

// Config tunes the provider calls.
type Config struct {
	Model       string
	ImageModel  string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Advisor produces advisory text and station imagery.
type Advisor struct {
	client Client
	cfg    Config
	logger *zap.Logger
}

// New returns an Advisor. A nil client always yields the fallbacks.
func New(client Client, cfg Config, logger *zap.Logger) *Advisor {
	return &Advisor{client: client, cfg: cfg, logger: logger}
}

// NewOpenAI builds an Advisor backed by the OpenAI API, or a fallback-only one when apiKey is empty.
func NewOpenAI(apiKey string, cfg Config, logger *zap.Logger) *Advisor {
	if apiKey == "" {
		return New(nil, cfg, logger)
	}
	return New(openai.NewClient(apiKey), cfg, logger)
}

func (a *Advisor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

// Insight returns a short operational recommendation for the metrics summary.
func (a *Advisor) Insight(ctx context.Context, summary string) string {
	if a.client == nil {
		return FallbackInsight
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.cfg.Model,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an operations analyst for a chain of fuel stations. Give two or three concise, actionable recommendations in plain text.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: summary,
			},
		},
	})
	if err != nil {
		a.logger.Warn("Insight provider failed, using fallback", zap.Error(err))
		return FallbackInsight
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		a.logger.Warn("Insight provider returned no content, using fallback")
		return FallbackInsight
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// StationImage returns an image URL for the prompt.
func (a *Advisor) StationImage(ctx context.Context, prompt string) string {
	if a.client == nil || strings.TrimSpace(prompt) == "" {
		return FallbackImageURL
	}
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         fmt.Sprintf("Photorealistic modern fuel station: %s", prompt),
		Model:          a.cfg.ImageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		a.logger.Warn("Image provider failed, using placeholder", zap.Error(err))
		return FallbackImageURL
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return FallbackImageURL
	}
	return resp.Data[0].URL
}
