package quizgen

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// Model is the minimal LLM surface the quiz service needs: one prompt in,
// one JSON text out.
type Model interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiModel implements Model using the Google Gemini SDK with JSON output.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini-backed model.
func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	return &GeminiModel{client: client, model: model}, nil
}

func (m *GeminiModel) GenerateContent(ctx context.Context, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}

	result, err := m.client.Models.GenerateContent(ctx, m.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

// MockResponse is a canned response for the MockModel.
type MockResponse struct {
	Text string
	Err  error
}

// MockModel is a deterministic Model for testing. It returns canned
// responses in FIFO order and records all prompts.
type MockModel struct {
	mu        sync.Mutex
	responses []MockResponse
	Prompts   []string
}

// NewMockModel creates a MockModel with the given canned responses.
func NewMockModel(responses ...MockResponse) *MockModel {
	return &MockModel{responses: responses}
}

// GenerateContent returns the next canned response, or an error when the
// queue is empty.
func (m *MockModel) GenerateContent(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Prompts = append(m.Prompts, prompt)

	if len(m.responses) == 0 {
		return "", fmt.Errorf("mock model exhausted")
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]

	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Text, nil
}

// CallCount returns how many times GenerateContent was invoked.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Prompts)
}
