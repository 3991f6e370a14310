package narrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/julianstephens/lifemap/internal/constants"
	"github.com/julianstephens/lifemap/internal/logger"
)

// SystemPrompt sets the coach persona for every completion.
const SystemPrompt = `You are LifeMap AI Coach, a supportive, friendly and reflective personal growth assistant.
Help users reflect on their journal entries, moods and habits. Be encouraging and empathetic,
keep responses short and clear, and use emojis sparingly to connect.
Do not diagnose mental health. If a user is in distress, suggest talking to a professional.
When asked for a weekly summary, reply with the requested JSON object only.`

// API key environment variables, checked in order.
var apiKeyEnv = []string{"LIFEMAP_NARRATOR_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"}

var ErrNoAPIKey = errors.New("narrator API key not set")

// Completer produces a chat completion for a system and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// OpenAIClient calls any OpenAI-compatible chat completions endpoint.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
}

// APIKeyFromEnv returns the first API key found in the environment.
func APIKeyFromEnv() string {
	for _, name := range apiKeyEnv {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w (set %s or store it with 'lifemap keyring set narrator')", ErrNoAPIKey, apiKeyEnv[0])
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultNarratorBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = constants.DefaultNarratorModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")

	logger.Debug("Initializing narrator client", "model", cfg.Model, "base_url", clientCfg.BaseURL)
	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: o.cfg.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: o.cfg.Temperature,
	}
	if o.cfg.MaxTokens > 0 {
		req.MaxTokens = o.cfg.MaxTokens
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	logger.Debug("Received completion", "finish_reason", resp.Choices[0].FinishReason)
	return resp.Choices[0].Message.Content, nil
}

// CompleterProcessor adapts a Completer to the Processor interface.
type CompleterProcessor struct {
	completer Completer
	system    string
}

func NewCompleterProcessor(c Completer) *CompleterProcessor {
	return &CompleterProcessor{completer: c, system: SystemPrompt}
}

func (p *CompleterProcessor) Process(ctx context.Context, input, userID string) (Result, error) {
	if strings.TrimSpace(input) == "" {
		return Result{}, errors.New("no input provided")
	}
	logger.Debug("Processing narrator input", "user", userID, "length", len(input))
	text, err := p.completer.Complete(ctx, p.system, input)
	if err != nil {
		return Result{}, err
	}
	return ParseCompletion(text), nil
}
