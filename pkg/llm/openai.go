package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/joss/lawchat/internal/domain"
)

const openaiAPIURL = "https://api.openai.com/v1/chat/completions"

// HTTPClient interface for HTTP requests (enables testing)
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Verify http.Client implements HTTPClient
var _ HTTPClient = (*http.Client)(nil)

// OpenAI talks to the OpenAI chat completions API or any compatible
// endpoint.
type OpenAI struct {
	apiKey  string
	baseURL string
	client  HTTPClient
}

var _ Provider = (*OpenAI)(nil)

func NewOpenAI(apiKey string, baseURLOverride string) *OpenAI {
	return NewOpenAIWithClient(apiKey, baseURLOverride, &http.Client{})
}

func NewOpenAIWithClient(apiKey string, baseURLOverride string, client HTTPClient) *OpenAI {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	baseURL := baseURLOverride
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = openaiAPIURL
	} else {
		baseURL = strings.TrimSuffix(baseURL, "/")
		if !strings.HasSuffix(baseURL, "/chat/completions") {
			if strings.HasSuffix(baseURL, "/v1") {
				baseURL = baseURL + "/chat/completions"
			} else {
				baseURL = baseURL + "/v1/chat/completions"
			}
		}
	}
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
	}
}

func (o *OpenAI) ID() string   { return "openai" }
func (o *OpenAI) Name() string { return "OpenAI" }

type openaiRequest struct {
	Model       string          `json:"model"`
	Messages    []openaiMessage `json:"messages"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
}

type openaiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openaiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (o *OpenAI) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	msgs := make([]openaiMessage, 0, len(req.History)+1)
	if req.SystemPrompt != "" {
		msgs = append(msgs, openaiMessage{Role: "system", Content: req.SystemPrompt})
	}
	for _, m := range req.History {
		role := "user"
		if m.Sender == domain.SenderAssistant {
			role = "assistant"
		}
		msgs = append(msgs, openaiMessage{Role: role, Content: m.Text})
	}

	body, err := json.Marshal(openaiRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("completion status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed openaiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
