package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client delivers messages to a fixed Telegram channel via the Bot API.
type Client struct {
	token      string
	chatID     string
	apiURL     string
	httpClient *http.Client
}

// sendPhotoRequest is the Bot API sendPhoto payload. The photo is
// passed by URL; Telegram fetches it server-side.
type sendPhotoRequest struct {
	ChatID    string `json:"chat_id"`
	Photo     string `json:"photo"`
	Caption   string `json:"caption"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// apiResponse is the Bot API envelope common to all methods.
type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
}

// NewClient creates a Telegram Bot API client bound to one destination
// chat. timeout is in seconds.
func NewClient(token, chatID, apiURL string, timeout int) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	if apiURL == "" {
		apiURL = "https://api.telegram.org"
	}

	return &Client{
		token:  token,
		chatID: chatID,
		apiURL: apiURL,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

// SendPhoto delivers one image-with-caption message. The caption is
// rendered with Telegram's HTML parse mode.
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption string) error {
	return c.call(ctx, "sendPhoto", sendPhotoRequest{
		ChatID:    c.chatID,
		Photo:     photoURL,
		Caption:   caption,
		ParseMode: "HTML",
	})
}

// SendMessage delivers a text-only message with HTML parse mode.
// Used when a movie has no poster to attach.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	return c.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:    c.chatID,
		Text:      text,
		ParseMode: "HTML",
	})
}

func (c *Client) call(ctx context.Context, method string, payload interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.apiURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return fmt.Errorf("failed to parse response (status %d): %s", resp.StatusCode, string(body))
	}

	if !apiResp.OK {
		return fmt.Errorf("%s failed (code %d): %s", method, apiResp.ErrorCode, apiResp.Description)
	}
	return nil
}
