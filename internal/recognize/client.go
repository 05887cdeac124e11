package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client calls the Mistral chat-completion and OCR endpoints.
//
// The API key is resolved per request through a provider func so a key set at
// runtime (via the key endpoints) is picked up without rebuilding the client.
type Client struct {
	baseURL    string
	apiKey     func() string
	httpClient *http.Client
	stats      *CallStats
}

func NewClient(baseURL string, apiKey func() string, stats *CallStats) *Client {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		stats: stats,
	}
}

type contentChunk struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type chatMessage struct {
	Role    string         `json:"role"`
	Content []contentChunk `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ChatComplete sends a system+user exchange and returns the assistant text.
// imageDataURL is optional; when set it is attached to the user turn as an
// image chunk, which is how the vision models receive the page image.
func (c *Client) ChatComplete(ctx context.Context, model, system, user, imageDataURL string) (string, error) {
	userContent := []contentChunk{{Type: "text", Text: user}}
	if imageDataURL != "" {
		userContent = append(userContent, contentChunk{Type: "image_url", ImageURL: imageDataURL})
	}
	reqBody := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: []contentChunk{{Type: "text", Text: system}}},
			{Role: "user", Content: userContent},
		},
	}

	respBody, err := c.post(ctx, model, "/v1/chat/completions", reqBody)
	if err != nil {
		return "", err
	}

	var apiResp chatResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(apiResp.Choices) == 0 {
		return "", ErrNoRecognizedContent
	}

	text, ok := extractContent(apiResp.Choices[0].Message.Content)
	if !ok || text == "" {
		return "", ErrNoRecognizedContent
	}
	return text, nil
}

// extractContent pulls the assistant text out of message.content, in
// precedence order: list of typed chunks, plain string, and as a last resort
// the raw JSON text of whatever shape the backend produced.
func extractContent(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", false
	}

	var chunks []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &chunks); err == nil {
		parts := make([]string, 0, len(chunks))
		for _, ch := range chunks {
			if ch.Text != "" {
				parts = append(parts, ch.Text)
			}
		}
		return strings.Join(parts, "\n"), len(parts) > 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, s != ""
	}

	// Unexpected shape; degrade to its string representation rather than
	// failing the whole recognition.
	return string(raw), true
}

// OCRPage is one recognized page of an OCR request.
type OCRPage struct {
	Index    int    `json:"index"`
	Markdown string `json:"markdown"`
}

// OCRResponse is the document-level result of an OCR request.
type OCRResponse struct {
	Pages []OCRPage `json:"pages"`
}

type ocrDocument struct {
	Type     string `json:"type"`
	ImageURL string `json:"image_url"`
}

type ocrRequest struct {
	Model    string      `json:"model"`
	Document ocrDocument `json:"document"`
}

// OCRProcess runs the dedicated OCR model over a single image data URL.
func (c *Client) OCRProcess(ctx context.Context, model, imageDataURL string) (*OCRResponse, error) {
	reqBody := ocrRequest{
		Model: model,
		Document: ocrDocument{
			Type:     "image_url",
			ImageURL: imageDataURL,
		},
	}

	respBody, err := c.post(ctx, model, "/v1/ocr", reqBody)
	if err != nil {
		return nil, err
	}

	var apiResp OCRResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode ocr response: %w", err)
	}
	if len(apiResp.Pages) == 0 {
		return nil, ErrNoRecognizedContent
	}
	return &apiResp, nil
}

func (c *Client) post(ctx context.Context, model, path string, reqBody any) ([]byte, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey())

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("mistral api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		// The backend reports capacity exhaustion with varying status codes,
		// so the body is checked alongside the canonical 429.
		if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(strings.ToLower(string(respBody)), "capacity") {
			return nil, &RateLimitError{
				StatusCode: resp.StatusCode,
				Message:    string(respBody),
			}
		}
		return nil, fmt.Errorf("mistral api status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	if c.stats != nil {
		c.stats.Record(model, time.Since(start).Milliseconds())
	}
	return respBody, nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
