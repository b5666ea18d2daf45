package imagerecognizer

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-pkgz/repeater"
	"github.com/sashabaranov/go-openai"

	"github.com/umputun/scam-spotter/lib/scam"
)

//go:generate moq --out mocks/openai_client.go --pkg mocks --skip-ensure --with-resets . OpenAIClient

// OpenAIClient is a subset of openai.Client used for recognition
type OpenAIClient interface {
	CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIConfig is a set of parameters for OpenAI recognizer
type OpenAIConfig struct {
	Model             string // vision capable model, gpt-4o if not set
	MaxTokensResponse int
	Retries           int
	RetryDelay        time.Duration
}

// OpenAI recognizes words with a vision model
type OpenAI struct {
	client OpenAIClient
	params OpenAIConfig
}

// NewOpenAI makes OpenAI recognizer
func NewOpenAI(client OpenAIClient, params OpenAIConfig) *OpenAI {
	if params.Model == "" {
		params.Model = "gpt-4o"
	}
	if params.MaxTokensResponse == 0 {
		params.MaxTokensResponse = 4096
	}
	if params.Retries < 1 {
		params.Retries = 1
	}
	return &OpenAI{client: client, params: params}
}

// Extract sends the image to the model and parses the word list
func (o *OpenAI) Extract(ctx context.Context, path string) ([]scam.OCRToken, error) {
	data, mimeType, err := readImage(path)
	if err != nil {
		return nil, err
	}
	req := openai.ChatCompletionRequest{
		Model:          o.params.Model,
		MaxTokens:      o.params.MaxTokensResponse,
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: ocrPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: []openai.ChatMessagePart{{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data),
					Detail: openai.ImageURLDetailHigh,
				},
			}}},
		},
	}

	var resp openai.ChatCompletionResponse
	err = repeater.NewDefault(o.params.Retries, o.params.RetryDelay).Do(ctx, func() error {
		var e error
		resp, e = o.client.CreateChatCompletion(ctx, req)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("openai request for %s failed: %w", path, err)
	}

	// only the first choice is used
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices in openai response")
	}
	tokens, err := parseAnswer(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] openai recognized %d words on %s", len(tokens), path)
	return tokens, nil
}
