// Package generate provides the fallback answer generator used when
// retrieval defers: a thin wrapper around an OpenAI-compatible chat API.
package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"github.com/campushq/askuni/internal/models"
)

var (
	// ErrEmptyQuestion is returned when Generate is called with an empty question.
	ErrEmptyQuestion = errors.New("generate: question is empty")
	// ErrNoCompletion is returned when the API response contains no choices.
	ErrNoCompletion = errors.New("generate: no completion in response")
)

const defaultTemperature = 0.3

const systemPrompt = `You are a helpful assistant answering questions about a university:
its admissions, programs, fees, facilities, and contacts. Answer concisely
and factually. When reference answers are provided, prefer their facts over
your own knowledge. If you do not know the answer, say so plainly instead
of guessing.`

// Generator produces an answer when no indexed record is confident enough.
type Generator struct {
	sdk         openaisdk.Client
	model       string
	temperature float64
}

// Option configures the Generator.
type Option func(*Generator)

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// New creates a Generator. baseURL may point at any OpenAI-compatible
// endpoint (a local Ollama instance included); empty means the default
// OpenAI API host.
func New(apiKey, baseURL, model string, opts ...Option) *Generator {
	sdkOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(baseURL))
	}
	g := &Generator{
		sdk:         openaisdk.NewClient(sdkOpts...),
		model:       model,
		temperature: defaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate asks the model for an answer. The retrieved references and the
// learned pattern hint, when present, are folded into the prompt so the
// model grounds its answer in indexed material.
func (g *Generator) Generate(ctx context.Context, question string, refs []models.Reference, patternHint string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}

	resp, err := g.sdk.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(g.model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.SystemMessage(systemPrompt),
			openaisdk.UserMessage(buildPrompt(question, refs, patternHint)),
		},
		Temperature: param.NewOpt(g.temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoCompletion
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrNoCompletion
	}
	return answer, nil
}

// buildPrompt assembles the user message: the question, the retrieved
// references in rank order, and the accepted-answer pattern for the
// question's category when one has been learned.
func buildPrompt(question string, refs []models.Reference, patternHint string) string {
	var b strings.Builder
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n")

	if len(refs) > 0 {
		b.WriteString("\nRelated indexed questions, closest first:\n")
		for _, r := range refs {
			fmt.Fprintf(&b, "%d. %s\n", r.Rank, r.Question)
		}
	}
	if patternHint != "" {
		b.WriteString("\nA previously accepted answer on this topic, for style and facts:\n")
		b.WriteString(patternHint)
		b.WriteString("\n")
	}
	return b.String()
}
