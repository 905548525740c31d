package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var errNoText = errors.New("model returned no text")

// ErrModelUnavailable is returned by the model used when no API key is set.
var ErrModelUnavailable = errors.New("generation model is not configured")

// GeminiModel calls Google's Gemini API.
type GeminiModel struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiModel connects to Gemini with apiKey and selects modelName.
func NewGeminiModel(ctx context.Context, apiKey, modelName string) (*GeminiModel, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiModel{client: client, model: client.GenerativeModel(modelName)}, nil
}

func (g *GeminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return textFromResponse(resp)
}

func (g *GeminiModel) Close() error {
	return g.client.Close()
}

// textFromResponse concatenates the text parts of the first candidate.
func textFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", errNoText
	}
	c := resp.Candidates[0]
	if c.Content == nil || len(c.Content.Parts) == 0 {
		return "", errNoText
	}

	var b strings.Builder
	for _, p := range c.Content.Parts {
		t, ok := p.(genai.Text)
		if !ok {
			return "", fmt.Errorf("unexpected part type %T", p)
		}
		b.WriteString(string(t))
	}
	if b.Len() == 0 {
		return "", errNoText
	}
	return b.String(), nil
}

// UnavailableModel fails every call. It stands in when no API key is
// configured so the rest of the server still runs.
type UnavailableModel struct{}

func (UnavailableModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", ErrModelUnavailable
}
