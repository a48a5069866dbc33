// Package openai provides the LLM-backed SQL generator using the official
// OpenAI SDK against any compatible chat-completion endpoint. It converts a
// natural-language question plus schema context into a single cleaned SQL
// statement and the name of the target database.
package openai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/datachat/internal/domain"
	"github.com/davidbz/datachat/internal/observability"
)

const (
	systemPrompt        = "You are an expert SQL query generator."
	generationMaxTokens = 1024
)

// Generator implements the domain.SQLGenerator interface.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a new SQL generator.
func NewGenerator(config Config) (*Generator, error) {
	if config.APIKey == "" {
		return nil, errors.New("SQL generator API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	if config.MaxRetries > 0 {
		opts = append(opts, option.WithMaxRetries(config.MaxRetries))
	}

	return &Generator{
		client: openai.NewClient(opts...),
		model:  config.Model,
	}, nil
}

// Generate produces SQL for the question against one of the owner's target
// databases. A functional failure (no databases, unusable model output) is
// returned as an error for the pipeline to capture into the task record.
func (g *Generator) Generate(
	ctx context.Context,
	_ string,
	question string,
	schema *domain.SchemaContext,
) (*domain.GeneratedSQL, error) {
	if question == "" {
		return nil, errors.New("question cannot be empty")
	}
	if schema == nil || len(schema.Databases) == 0 {
		return nil, errors.New("no accessible databases")
	}

	logger := observability.FromContext(ctx)

	preferred := PreferredDatabase(question, schema.Databases)
	if preferred == "" {
		preferred = schema.Databases[0]
	}

	prompt := buildPrompt(question, schema.Formatted, schema.Databases, preferred)

	logger.Debug("calling SQL generation model",
		observability.String("model", g.model),
		observability.String("preferred_database", preferred))

	//nolint:exhaustruct // OpenAI SDK struct has many optional fields
	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0),
		MaxTokens:   openai.Int(generationMaxTokens),
	})
	if err != nil {
		logger.Error("SQL generation call failed", observability.Error(err))
		return nil, fmt.Errorf("SQL generation failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("model returned no choices")
	}

	sql := CleanSQL(resp.Choices[0].Message.Content, preferred)
	if sql == "" {
		return nil, errors.New("model output contained no SQL statement")
	}

	logger.Debug("SQL generation succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)))

	return &domain.GeneratedSQL{
		SQL:      sql,
		Database: preferred,
	}, nil
}
