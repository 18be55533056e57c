package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-2.5-flash"

	instruction = `You are an expert mobile device technician. Analyze the answers of the diagnostic questionnaire and provide:
1. A health score from 0 to 100
2. A short analysis of the problems found
3. Specific recommendations

Reply ONLY with valid JSON using this structure:
{"score": number, "analysis": "text", "recommendations": ["recommendation1", "recommendation2"]}`
)

type GeminiDelegate struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiDelegate(ctx context.Context, apiKey, model string) (*GeminiDelegate, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiDelegate{client: client, model: model, temperature: 0.2}, nil
}

func (g *GeminiDelegate) Generate(ctx context.Context, responses map[string]any) (string, error) {
	payload, err := json.Marshal(responses)
	if err != nil {
		return "", fmt.Errorf("encode responses: %w", err)
	}

	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(g.temperature)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(instruction)}}

	resp, err := model.GenerateContent(ctx, genai.Text("Questionnaire answers: "+string(payload)))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		fmt.Fprintf(&sb, "%v", part)
	}
	return sb.String(), nil
}

func (g *GeminiDelegate) Close() error {
	return g.client.Close()
}
