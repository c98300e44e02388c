package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alchemorsel/kitchen/internal/domain/recipe"
	"github.com/alchemorsel/kitchen/internal/domain/shopping"
	"github.com/alchemorsel/kitchen/internal/infrastructure/config"
	"github.com/alchemorsel/kitchen/internal/ports/outbound"
	"github.com/alchemorsel/kitchen/pkg/errors"
	"github.com/alchemorsel/kitchen/pkg/validation"
	"go.uber.org/zap"
)

// Client talks to an OpenAI compatible chat completions endpoint
type Client struct {
	apiKey    string
	baseURL   string
	model     string
	client    *http.Client
	validator *validation.Validator
	logger    *zap.Logger
}

// NewClient creates a new chat completions client
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		model:     cfg.Model,
		client:    &http.Client{Timeout: timeout},
		validator: validation.New(),
		logger:    logger.Named("ai-client"),
	}
}

// Chat completion wire types
type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

type ideasPayload struct {
	Ideas []outbound.RecipeIdea `json:"ideas" validate:"required,min=1,dive"`
}

type shoppingPayload struct {
	Items []shopping.Candidate `json:"items" validate:"required,dive"`
}

// GenerateIdeas asks for three short recipe ideas
func (c *Client) GenerateIdeas(ctx context.Context, req outbound.GenerationRequest) ([]outbound.RecipeIdea, error) {
	content, err := c.complete(ctx, ideasSystemPrompt, userPrompt(req))
	if err != nil {
		return nil, err
	}

	var payload ideasPayload
	if err := c.decode(content, &payload); err != nil {
		return nil, err
	}
	return payload.Ideas, nil
}

// GenerateRecipe expands an idea into a full, unsaved recipe
func (c *Client) GenerateRecipe(ctx context.Context, idea outbound.RecipeIdea, req outbound.GenerationRequest) (*recipe.Recipe, error) {
	prompt := fmt.Sprintf("Idee: %s\n%s\n\n%s", idea.Title, idea.Description, userPrompt(req))
	content, err := c.complete(ctx, recipeSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}

	var r recipe.Recipe
	if err := c.decode(content, &r); err != nil {
		return nil, err
	}
	r.ID = 0
	r.IsFavorite = false
	r.UpdatedAt = nil
	return &r, nil
}

// GenerateShoppingList turns a free-text goal into shopping candidates
func (c *Client) GenerateShoppingList(ctx context.Context, req outbound.GenerationRequest) ([]shopping.Candidate, error) {
	content, err := c.complete(ctx, shoppingSystemPrompt, userPrompt(req))
	if err != nil {
		return nil, err
	}

	var payload shoppingPayload
	if err := c.decode(content, &payload); err != nil {
		return nil, err
	}
	return payload.Items, nil
}

// complete makes the chat completions call and returns the first choice's content
func (c *Client) complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.7,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", errors.NewExternalKindError(errors.KindAPIError, err.Error())
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.NewExternalKindError(errors.KindAPIError, "failed to read response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return "", errors.NewExternalKindError(errors.KindAPIKeyMissing, "API key rejected")
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.NewExternalKindError(errors.KindAPIError, fmt.Sprintf("status %d: %s", resp.StatusCode, truncate(string(raw), 200)))
	}

	var chat chatResponse
	if err := json.Unmarshal(raw, &chat); err != nil {
		return "", errors.NewExternalKindError(errors.KindInvalidResponse, err.Error())
	}
	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return "", errors.NewExternalKindError(errors.KindInvalidResponse, "no choices returned")
	}

	c.logger.Info("Chat completion succeeded",
		zap.Int("prompt_tokens", chat.Usage.PromptTokens),
		zap.Int("completion_tokens", chat.Usage.CompletionTokens),
		zap.Int("total_tokens", chat.Usage.TotalTokens),
	)
	return chat.Choices[0].Message.Content, nil
}

// decode pulls the JSON object out of the content and validates it
func (c *Client) decode(content string, target interface{}) error {
	content = strings.TrimSpace(content)
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end <= start {
		return errors.NewExternalKindError(errors.KindInvalidJSON, "no JSON object in response")
	}

	if err := json.Unmarshal([]byte(content[start:end+1]), target); err != nil {
		c.logger.Warn("Failed to parse generator response", zap.Error(err))
		return errors.NewExternalKindError(errors.KindInvalidJSON, err.Error())
	}
	if err := c.validator.Struct(target); err != nil {
		return errors.NewExternalKindError(errors.KindInvalidStructure, err.Error())
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
