// Package whatsapp talks to the WhatsApp Business (Graph) API: outbound text
// messages and inbound webhook payload parsing.
package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the Graph API base.
const DefaultBaseURL = "https://graph.facebook.com/v17.0"

// Client sends messages through the WhatsApp Business API.
type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
}

// NewClient creates a WhatsApp client. An empty baseURL falls back to the
// Graph API default.
func NewClient(baseURL, accessToken, phoneNumberID string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// sendRequest outbound message payload
type sendRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             sendText `json:"text"`
}

type sendText struct {
	Body string `json:"body"`
}

// sendResponse outbound message response
type sendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// SendMessage delivers a text message to the given number and returns the
// provider's message ID.
func (c *Client) SendMessage(ctx context.Context, to, body string) (string, error) {
	payload := sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             sendText{Body: body},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to serialize message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API returned error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var parsed sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to parse send response: %w", err)
	}
	if len(parsed.Messages) == 0 {
		return "", fmt.Errorf("send response carried no message id")
	}

	return parsed.Messages[0].ID, nil
}

// Inbound is one parsed inbound text message.
type Inbound struct {
	From      string
	Text      string
	Timestamp string
	MessageID string
}

// webhookPayload mirrors the Graph API webhook envelope.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					From      string `json:"from"`
					ID        string `json:"id"`
					Timestamp string `json:"timestamp"`
					Text      struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// ParseWebhook extracts the first text message from a webhook payload.
func ParseWebhook(data []byte) (*Inbound, error) {
	var payload webhookPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if len(payload.Entry) == 0 || len(payload.Entry[0].Changes) == 0 {
		return nil, fmt.Errorf("webhook payload carries no changes")
	}
	messages := payload.Entry[0].Changes[0].Value.Messages
	if len(messages) == 0 {
		return nil, fmt.Errorf("webhook payload carries no messages")
	}

	msg := messages[0]
	if msg.From == "" || msg.Text.Body == "" {
		return nil, fmt.Errorf("webhook message is missing sender or text")
	}

	return &Inbound{
		From:      msg.From,
		Text:      msg.Text.Body,
		Timestamp: msg.Timestamp,
		MessageID: msg.ID,
	}, nil
}
