// Package gcp adapts Google Cloud and Workspace APIs to the pipeline's
// collaborator interfaces.
package gcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"github.com/dgallion1/studybuddy/internal/simplify"
)

const DefaultGeminiModel = "gemini-1.5-pro"

// Gemini generates text with a Gemini model on Vertex AI. It implements
// simplify.Generator.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	log    *slog.Logger
}

func NewGemini(ctx context.Context, projectID, region, modelName string, log *slog.Logger) (*Gemini, error) {
	if projectID == "" || region == "" {
		return nil, errors.New("gemini: project and region are required")
	}
	if modelName == "" {
		modelName = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.Temperature = genai.Ptr[float32](0.7)

	return &Gemini{client: client, model: model, log: log.With("model", modelName)}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", classify("gemini generate", err)
	}
	text := responseText(resp)
	if text == "" {
		return "", &simplify.ModelError{Op: "gemini generate", Err: errors.New("response contained no text")}
	}
	if resp.UsageMetadata != nil {
		g.log.Debug("gemini usage",
			"prompt_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount,
		)
	}
	return text, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// responseText returns the text parts of the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}
