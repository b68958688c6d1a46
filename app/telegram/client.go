package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is a minimal Bot API client. Captions and bodies are pre-rendered
// HTML; the client never retries — delivery fallback is the caller's job.
type Client struct {
	token   string
	chatID  string
	baseURL string
	http    *http.Client
}

// NewClient creates a Bot API client posting to the given chat or channel.
func NewClient(token, chatID string, httpClient *http.Client) *Client {
	return &Client{
		token:   token,
		chatID:  chatID,
		baseURL: "https://api.telegram.org",
		http:    httpClient,
	}
}

// ChatID returns the configured chat identifier (numeric id or @channel).
func (c *Client) ChatID() string {
	return c.chatID
}

// SendPhoto posts an image with an HTML caption and inline link buttons.
// An obviously unusable image URL fails fast so the caller can fall back to
// a text post without burning an API call.
func (c *Client) SendPhoto(ctx context.Context, imageURL, caption string, buttons [][]Button) (Message, error) {
	if len(imageURL) < 10 {
		return Message{}, fmt.Errorf("invalid image URL %q", imageURL)
	}
	return c.call(ctx, "sendPhoto", photoPayload{
		ChatID:      c.chatID,
		Photo:       imageURL,
		Caption:     caption,
		ParseMode:   "HTML",
		ReplyMarkup: markup(buttons),
	})
}

// SendMessage posts a plain HTML message with optional inline link buttons.
func (c *Client) SendMessage(ctx context.Context, text string, buttons [][]Button) (Message, error) {
	return c.call(ctx, "sendMessage", messagePayload{
		ChatID:      c.chatID,
		Text:        text,
		ParseMode:   "HTML",
		ReplyMarkup: markup(buttons),
	})
}

// PinMessage pins a previously sent message without notifying members.
func (c *Client) PinMessage(ctx context.Context, messageID int) error {
	_, err := c.call(ctx, "pinChatMessage", pinPayload{
		ChatID:              c.chatID,
		MessageID:           messageID,
		DisableNotification: true,
	})
	return err
}

func markup(buttons [][]Button) *replyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	return &replyMarkup{InlineKeyboard: buttons}
}

func (c *Client) call(ctx context.Context, method string, payload interface{}) (Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("failed to encode %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return Message{}, fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Message{}, fmt.Errorf("%s returned non-JSON (status %d)", method, resp.StatusCode)
	}
	if !parsed.OK {
		return Message{}, fmt.Errorf("%s rejected (status %d): %s", method, resp.StatusCode, parsed.Description)
	}
	return parsed.Result, nil
}
