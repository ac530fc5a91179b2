// Package embedding turns text into fixed-dimension vectors via an
// OpenAI-compatible embeddings API.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client generates embedding vectors for text.
type Client interface {
	// Embed generates the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates vectors for several texts in one call, in input
	// order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the vector dimension.
	Dimension() int
}

// Options configures an OpenAI-compatible embedding client.
type Options struct {
	BaseURL        string
	APIKey         string
	Model          string
	Dimension      int
	TimeoutSeconds int
	MaxRetries     int
}

// OpenAIClient calls an OpenAI-compatible /v1/embeddings endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	httpClient *http.Client
	maxRetries int
}

// NewOpenAIClient creates an embedding client.
func NewOpenAIClient(opts Options) *OpenAIClient {
	if opts.TimeoutSeconds <= 0 {
		opts.TimeoutSeconds = 30
	}
	return &OpenAIClient{
		baseURL:   opts.BaseURL,
		apiKey:    opts.APIKey,
		model:     opts.Model,
		dimension: opts.Dimension,
		httpClient: &http.Client{
			Timeout: time.Duration(opts.TimeoutSeconds) * time.Second,
		},
		maxRetries: opts.MaxRetries,
	}
}

// embeddingRequest embeddings API request
type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embeddingResponse embeddings API response
type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
}

// Embed generates the vector for a single text.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || vectors[0] == nil {
		return nil, fmt.Errorf("embedding API returned no vector")
	}
	return vectors[0], nil
}

// EmbedBatch generates vectors for several texts, retrying with exponential
// backoff on failure.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var lastErr error
	for retry := 0; retry <= c.maxRetries; retry++ {
		vectors, err := c.doEmbed(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err

		if retry < c.maxRetries {
			select {
			case <-time.After(time.Duration(1<<retry) * time.Second):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("embedding request failed after %d retries: %w", c.maxRetries, lastErr)
}

// doEmbed performs one embeddings API call.
func (c *OpenAIClient) doEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	reqBody := embeddingRequest{
		Model: c.model,
		Input: texts,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}

	url := c.baseURL + "/v1/embeddings"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned error status %d: %s", resp.StatusCode, string(body))
	}

	var embResp embeddingResponse
	if err := json.Unmarshal(body, &embResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Results keep input order via the index field
	vectors := make([][]float32, len(texts))
	for _, data := range embResp.Data {
		if data.Index < len(vectors) {
			vectors[data.Index] = data.Embedding
		}
	}

	return vectors, nil
}

// Dimension returns the vector dimension.
func (c *OpenAIClient) Dimension() int {
	return c.dimension
}
