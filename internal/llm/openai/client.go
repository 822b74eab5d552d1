package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"docanalyzer-backend/internal/doctype"
	"docanalyzer-backend/internal/llm"
)

const apiURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Classifier and llm.Extractor using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient constructs a new OpenAI client. requestsPerSec paces upstream
// calls to respect the API's rate limits; <= 0 disables pacing.
func NewClient(apiKey, model string, requestsPerSec float64) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	var limiter *rate.Limiter
	if requestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSec), 1)
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

type classificationPayload struct {
	DocumentType  string            `json:"document_type"`
	Confidence    float64           `json:"confidence"`
	Justification string            `json:"justification"`
	Alternatives  []llm.Alternative `json:"alternatives"`
}

// Classify asks the model for a document type with a 0-100 confidence and
// scales it into [0,1].
func (c *Client) Classify(ctx context.Context, text string) (llm.ClassificationResult, error) {
	raw, err := c.complete(ctx, llm.ClassificationMessages(text))
	if err != nil {
		return llm.ClassificationResult{}, err
	}

	var payload classificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return llm.ClassificationResult{}, fmt.Errorf("openai classification parse: %w", err)
	}

	result := llm.ClassificationResult{
		Type:          payload.DocumentType,
		Confidence:    payload.Confidence / 100.0,
		Justification: payload.Justification,
	}
	for _, alt := range payload.Alternatives {
		result.Alternatives = append(result.Alternatives, llm.Alternative{
			Type:       alt.Type,
			Confidence: alt.Confidence / 100.0,
		})
	}
	return result, nil
}

// Extract asks the model for the type-specific metadata object.
func (c *Client) Extract(ctx context.Context, text string, t doctype.Type) (llm.ExtractionResult, error) {
	messages, ok := llm.ExtractionMessages(t, text)
	if !ok {
		return llm.ExtractionResult{}, fmt.Errorf("no extraction template for type %q", t)
	}

	raw, err := c.complete(ctx, messages)
	if err != nil {
		return llm.ExtractionResult{}, err
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return llm.ExtractionResult{}, fmt.Errorf("openai extraction parse: %w", err)
	}
	return llm.ExtractionResult{Fields: fields, Method: llm.MethodLLM}, nil
}

func (c *Client) complete(ctx context.Context, messages []llm.Message) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	temp := float32(0)
	reqMessages := make([]chatMessage, 0, len(messages))
	for _, m := range messages {
		reqMessages = append(reqMessages, chatMessage{Role: m.Role, Content: m.Content})
	}
	reqBody := chatRequest{
		Model:    c.model,
		Messages: reqMessages,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	reqBody.Temperature = &temp
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("openai request timeout: %w", err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, fmt.Errorf("openai response empty content")
	}
	if !json.Valid([]byte(content)) {
		return nil, fmt.Errorf("invalid JSON from OpenAI")
	}
	return json.RawMessage(content), nil
}

var (
	_ llm.Classifier = (*Client)(nil)
	_ llm.Extractor  = (*Client)(nil)
)
