package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"promptpack/pkg/bundle"
)

const (
	defaultDeepseekURL = "https://api.deepseek.com/v1/chat/completions"
	deepseekModel      = "deepseek-chat"
)

// Deepseek implements the Provider interface for Deepseek's
// OpenAI-compatible chat completions API.
type Deepseek struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewDeepseek creates a Deepseek provider. An empty model selects the
// default chat model.
func NewDeepseek(model string) (*Deepseek, error) {
	key := os.Getenv("DEEPSEEK_API_KEY")
	if key == "" {
		return nil, fmt.Errorf("%w: DEEPSEEK_API_KEY environment variable is not set", bundle.ErrConfig)
	}
	baseURL := os.Getenv("PROMPTPACK_DEEPSEEK_BASE_URL")
	if baseURL == "" {
		baseURL = defaultDeepseekURL
	}
	if model == "" {
		model = deepseekModel
	}
	return &Deepseek{
		apiKey:  key,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}, nil
}

func (d *Deepseek) Name() string { return "deepseek" }

func (d *Deepseek) Complete(ctx context.Context, req Request) (Response, error) {
	body := deepseekRequest{
		Model: d.model,
		Messages: []deepseekMessage{
			{Role: "user", Content: req.Prompt},
		},
		Stream: false,
	}
	if req.MaxTokens > 0 {
		body.MaxTokens = &req.MaxTokens
	}
	if req.Temperature > 0 {
		body.Temperature = &req.Temperature
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return Response{}, fmt.Errorf("marshaling request: %w", err)
	}

	var resp Response
	err = retryWithBackoff(ctx, maxRetries, func() error {
		httpReq, err := http.NewRequestWithContext(ctx, "POST", d.baseURL, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		httpReq.Header.Set("Content-Type", "application/json")
		httpReq.Header.Set("Authorization", "Bearer "+d.apiKey)

		httpResp, err := d.client.Do(httpReq)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer httpResp.Body.Close()

		respBody, err := io.ReadAll(httpResp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if httpResp.StatusCode == 429 {
			return &rateLimitError{}
		}
		if httpResp.StatusCode == 401 || httpResp.StatusCode == 403 {
			return &authError{message: string(respBody)}
		}
		if httpResp.StatusCode >= 500 {
			return &serverError{statusCode: httpResp.StatusCode, body: string(respBody)}
		}
		if httpResp.StatusCode != 200 {
			return fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, string(respBody))
		}

		var result deepseekResponse
		if err := json.Unmarshal(respBody, &result); err != nil {
			return fmt.Errorf("parsing response: %w", err)
		}

		if len(result.Choices) == 0 {
			return fmt.Errorf("no choices in response")
		}

		resp = Response{
			Content:    result.Choices[0].Message.Content,
			TokensUsed: result.Usage.TotalTokens,
		}
		return nil
	})

	return resp, err
}

type deepseekRequest struct {
	Model       string            `json:"model"`
	Messages    []deepseekMessage `json:"messages"`
	Temperature *float64          `json:"temperature,omitempty"`
	MaxTokens   *int              `json:"max_tokens,omitempty"`
	Stream      bool              `json:"stream"`
}

type deepseekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepseekResponse struct {
	Choices []deepseekChoice `json:"choices"`
	Usage   deepseekUsage    `json:"usage"`
}

type deepseekChoice struct {
	Message deepseekMessage `json:"message"`
}

type deepseekUsage struct {
	TotalTokens int `json:"total_tokens"`
}
