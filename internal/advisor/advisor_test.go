package advisor

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeClient struct {
	ChatFn  func(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	ImageFn func(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error)
}

func (f *fakeClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return f.ChatFn(ctx, req)
}

func (f *fakeClient) CreateImage(ctx context.Context, req openai.ImageRequest) (openai.ImageResponse, error) {
	return f.ImageFn(ctx, req)
}

func TestInsightUsesProviderText(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := &fakeClient{ChatFn: func(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		got = req
		return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "  Refill Port Harcourt PMS. "}},
		}}, nil
	}}
	a := New(client, Config{Model: "gpt-4o-mini"}, zap.NewNop())

	assert.Equal(t, "Refill Port Harcourt PMS.", a.Insight(context.Background(), "sales: 1"))
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "sales: 1", got.Messages[1].Content)
	assert.Equal(t, "gpt-4o-mini", got.Model)
}

func TestInsightFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		client Client
	}{
		{"no client", nil},
		{"provider error", &fakeClient{ChatFn: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, errors.New("401 unauthorized")
		}}},
		{"empty choices", &fakeClient{ChatFn: func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
			return openai.ChatCompletionResponse{}, nil
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New(tt.client, Config{}, zap.NewNop())
			assert.Equal(t, FallbackInsight, a.Insight(context.Background(), "x"))
		})
	}
}

func TestStationImage(t *testing.T) {
	ok := &fakeClient{ImageFn: func(context.Context, openai.ImageRequest) (openai.ImageResponse, error) {
		return openai.ImageResponse{Data: []openai.ImageResponseDataInner{{URL: "https://img.example/1.png"}}}, nil
	}}
	assert.Equal(t, "https://img.example/1.png", New(ok, Config{}, zap.NewNop()).StationImage(context.Background(), "Lagos at dusk"))

	failing := &fakeClient{ImageFn: func(context.Context, openai.ImageRequest) (openai.ImageResponse, error) {
		return openai.ImageResponse{}, errors.New("rate limited")
	}}
	assert.Equal(t, FallbackImageURL, New(failing, Config{}, zap.NewNop()).StationImage(context.Background(), "Lagos"))
	assert.Equal(t, FallbackImageURL, New(ok, Config{}, zap.NewNop()).StationImage(context.Background(), " "))
}
