package gemini

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"draftcoach/internal/draft"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when no model is configured
	DefaultModel = "gemini-2.5-pro"
	// DefaultPatch is assumed when neither the request nor the text names one
	DefaultPatch = "26.4"
)

var patchPattern = regexp.MustCompile(`(?i)\bpatch\s*:?\s*(\d{1,2}\.\d{1,2})\b`)

// StatusError carries the upstream HTTP status of a failed call
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini API returned status %d: %s", e.Code, e.Message)
}

// StatusCode exposes the HTTP status for retry classification
func (e *StatusError) StatusCode() int {
	return e.Code
}

// Config configures the generation client
type Config struct {
	APIKey       string
	Model        string
	BaseURL      string
	DefaultPatch string
}

// Client asks Gemini for builds with Google Search grounding enabled
type Client struct {
	genai        *genai.Client
	model        string
	defaultPatch string
	logger       *zap.Logger
}

// NewClient creates a generation client
func NewClient(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultModel
	}
	patch := cfg.DefaultPatch
	if patch == "" {
		patch = DefaultPatch
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gc, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		genai:        gc,
		model:        model,
		defaultPatch: patch,
		logger:       logger.Named("gemini"),
	}, nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Generate runs one grounded generation for req using the given prompt variant
func (c *Client) Generate(ctx context.Context, req draft.Request, variant draft.PromptVariant) (draft.Generation, error) {
	patch := req.Patch
	if patch == "" {
		patch = c.defaultPatch
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(variant, patch), genai.RoleUser),
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}

	c.logger.Debug("Generating build",
		zap.String("model", c.model),
		zap.String("champion", req.ChampionID),
		zap.String("role", string(req.Role)),
		zap.Stringer("prompt", variant))

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, genai.Text(UserMessage(req, patch)), config)
	if err != nil {
		return draft.Generation{}, wrapError(err)
	}

	text := resp.Text()
	return draft.Generation{
		Text:          text,
		PatchDetected: DetectPatch(text, patch),
	}, nil
}

// DetectPatch returns the first patch label mentioned in text, or fallback
func DetectPatch(text, fallback string) string {
	if m := patchPattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return fallback
}

// wrapError converts SDK API errors into a StatusError so callers can
// classify them without importing the SDK
func wrapError(err error) error {
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := any(e).(type) {
		case genai.APIError:
			return &StatusError{Code: v.Code, Message: v.Message}
		case *genai.APIError:
			if v != nil {
				return &StatusError{Code: v.Code, Message: v.Message}
			}
		}
	}
	return fmt.Errorf("gemini request failed: %w", err)
}
