package imagerecognizer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-pkgz/repeater"
	"google.golang.org/genai"

	"github.com/umputun/scam-spotter/lib/scam"
)

//go:generate moq --out mocks/gemini_client.go --pkg mocks --skip-ensure --with-resets . GeminiClient

// GeminiClient is a subset of genai.Models used for recognition
type GeminiClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig is a set of parameters for Gemini recognizer
type GeminiConfig struct {
	Model      string // gemini-2.0-flash if not set
	Retries    int
	RetryDelay time.Duration
}

// Gemini recognizes words with Google Gemini
type Gemini struct {
	client GeminiClient
	params GeminiConfig
}

// NewGeminiClient makes the api client for the key
func NewGeminiClient(ctx context.Context, apiKey string) (GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	cl, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("can't make gemini client: %w", err)
	}
	return cl.Models, nil
}

// NewGemini makes Gemini recognizer
func NewGemini(client GeminiClient, params GeminiConfig) *Gemini {
	if params.Model == "" {
		params.Model = "gemini-2.0-flash"
	}
	if params.Retries < 1 {
		params.Retries = 1
	}
	return &Gemini{client: client, params: params}
}

// Extract sends the image to the model and parses the word list
func (g *Gemini) Extract(ctx context.Context, path string) ([]scam.OCRToken, error) {
	data, mimeType, err := readImage(path)
	if err != nil {
		return nil, err
	}
	contents := []*genai.Content{genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText("Recognize the words on this image."),
		genai.NewPartFromBytes(data, mimeType),
	}, genai.RoleUser)}
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0),
		ResponseMIMEType:  "application/json",
		SystemInstruction: genai.NewContentFromText(ocrPrompt, genai.RoleUser),
	}

	var resp *genai.GenerateContentResponse
	err = repeater.NewDefault(g.params.Retries, g.params.RetryDelay).Do(ctx, func() error {
		var e error
		resp, e = g.client.GenerateContent(ctx, g.params.Model, contents, cfg)
		return e
	})
	if err != nil {
		return nil, fmt.Errorf("gemini request for %s failed: %w", path, err)
	}
	if resp == nil {
		return nil, errors.New("empty gemini response")
	}
	tokens, err := parseAnswer(resp.Text())
	if err != nil {
		return nil, err
	}
	log.Printf("[DEBUG] gemini recognized %d words on %s", len(tokens), path)
	return tokens, nil
}
