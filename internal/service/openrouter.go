package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/healthymeal/backend/internal/types"
)

const (
	defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"
	chatCompletionsPath      = "/chat/completions"
	draftToolName            = "recipe_draft_formatter"
	maxAPIAttempts           = 3
)

// RecipeGenerator produces a validated recipe draft from a prompt.
// Handlers depend on this interface so tests can swap the upstream.
type RecipeGenerator interface {
	GenerateDraft(ctx context.Context, prompt string) (*types.RecipeDraft, error)
}

// APIError is a non-2xx answer from the upstream API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("openrouter api error (status %d): %s", e.Status, e.Message)
}

// NetworkError is a transport-level failure that survived all retries.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("openrouter network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// InvalidJSONError means the upstream body could not be decoded or was
// missing the expected tool-call structure.
type InvalidJSONError struct {
	Message string
}

func (e *InvalidJSONError) Error() string {
	return fmt.Sprintf("invalid openrouter response: %s", e.Message)
}

// SchemaValidationError means the generated draft decoded fine but
// violates the draft schema; Issues carries the validator's findings.
type SchemaValidationError struct {
	Issues []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("generated draft failed schema validation: %v", e.Issues)
}

// OpenRouterConfig configures the structured-response client. BaseURL
// is the API root; the chat-completions path is appended to it.
type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	SiteURL string
	AppName string
}

// OpenRouterService calls a chat-completion API with a forced tool
// call whose parameters are the JSON schema of the recipe draft,
// retrying transient failures with exponential backoff.
type OpenRouterService struct {
	config   OpenRouterConfig
	endpoint string
	client   *http.Client
	validate *validator.Validate
	logger   *zap.Logger

	// backoffBase is overridable in tests to keep retries fast.
	backoffBase time.Duration
}

func NewOpenRouterService(config OpenRouterConfig, logger *zap.Logger) (*OpenRouterService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is not configured")
	}
	if config.BaseURL == "" {
		config.BaseURL = defaultOpenRouterBaseURL
	}
	if config.Model == "" {
		config.Model = "meta-llama/llama-3.3-70b-instruct:free"
	}
	if config.AppName == "" {
		config.AppName = "HealthyMeal"
	}

	return &OpenRouterService{
		config:      config,
		endpoint:    strings.TrimSuffix(config.BaseURL, "/") + chatCompletionsPath,
		client:      &http.Client{Timeout: 60 * time.Second},
		validate:    validator.New(),
		logger:      logger,
		backoffBase: time.Second,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateDraft sends the prompt and returns the schema-validated
// draft extracted from the first tool call.
func (s *OpenRouterService) GenerateDraft(ctx context.Context, prompt string) (*types.RecipeDraft, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt cannot be empty")
	}

	payload, err := json.Marshal(s.buildPayload(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := s.callAPI(ctx, payload)
	if err != nil {
		return nil, err
	}
	return s.parseAndValidate(body)
}

func (s *OpenRouterService) buildPayload(prompt string) map[string]interface{} {
	return map[string]interface{}{
		"model":       s.config.Model,
		"tool_choice": map[string]interface{}{"type": "function", "function": map[string]interface{}{"name": draftToolName}},
		"tools": []map[string]interface{}{
			{
				"type": "function",
				"function": map[string]interface{}{
					"name":        draftToolName,
					"description": "Formats the response into a structured recipe draft based on the provided schema.",
					"parameters":  draftJSONSchema(),
				},
			},
		},
		"messages": []chatMessage{
			{
				Role: "system",
				Content: "You are a helpful assistant that only responds with structured JSON that adheres to " +
					"the provided tool schema. Always use the provided function to format your response.",
			},
			{Role: "user", Content: prompt},
		},
	}
}

// draftJSONSchema is the tool-call parameter schema mirroring
// types.RecipeDraft and the manual recipe limits.
func draftJSONSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{
				"type":      "string",
				"maxLength": 50,
			},
			"mealType": map[string]interface{}{
				"type": "string",
				"enum": []string{"breakfast", "lunch", "dinner", "dessert", "snack"},
			},
			"difficulty": map[string]interface{}{
				"type": "string",
				"enum": []string{"easy", "medium", "hard"},
			},
			"instructions": map[string]interface{}{
				"type":      "string",
				"maxLength": 5000,
			},
			"ingredients": map[string]interface{}{
				"type":     "array",
				"minItems": 1,
				"maxItems": 50,
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":   map[string]interface{}{"type": "string"},
						"amount": map[string]interface{}{"type": "number", "exclusiveMinimum": 0},
						"unit":   map[string]interface{}{"type": "string"},
					},
					"required":             []string{"name", "amount", "unit"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []string{"name", "mealType", "difficulty", "instructions", "ingredients"},
		"additionalProperties": false,
	}
}

// callAPI posts the payload, retrying up to maxAPIAttempts with
// exponential backoff (1s, 2s) between attempts. Both transport
// failures and non-2xx answers are retried; the last error surfaces
// once the budget is spent.
func (s *OpenRouterService) callAPI(ctx context.Context, payload []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt < maxAPIAttempts; attempt++ {
		if attempt > 0 {
			delay := s.backoffBase << (attempt - 1)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, &NetworkError{Err: ctx.Err()}
			}
		}

		body, err := s.doRequest(ctx, payload)
		if err == nil {
			return body, nil
		}
		lastErr = err
		s.logger.Warn("openrouter request failed",
			zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return nil, lastErr
}

func (s *OpenRouterService) doRequest(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	if s.config.SiteURL != "" {
		req.Header.Set("HTTP-Referer", s.config.SiteURL)
	}
	req.Header.Set("X-Title", s.config.AppName)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Status: resp.StatusCode, Message: resp.Status}
	}
	return body, nil
}

// parseAndValidate extracts the first tool call's arguments, decodes
// them and validates against the draft schema.
func (s *OpenRouterService) parseAndValidate(body []byte) (*types.RecipeDraft, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &InvalidJSONError{Message: "failed to parse API response as JSON"}
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, &InvalidJSONError{Message: "missing tool_calls in response"}
	}

	args := resp.Choices[0].Message.ToolCalls[0].Function.Arguments
	if args == "" {
		return nil, &InvalidJSONError{Message: "missing function arguments"}
	}

	var draft types.RecipeDraft
	if err := json.Unmarshal([]byte(args), &draft); err != nil {
		return nil, &InvalidJSONError{Message: "failed to parse function arguments as JSON"}
	}

	if err := s.validate.Struct(&draft); err != nil {
		var issues []string
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				issues = append(issues, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
			}
		} else {
			issues = append(issues, err.Error())
		}
		return nil, &SchemaValidationError{Issues: issues}
	}
	return &draft, nil
}
