// Package telegram is the chat front end: a thin Bot API client over
// net/http long polling plus the command and button handlers.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/planbot/internal/gateway"
)

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token:   token,
		baseURL: "https://api.telegram.org",
		// Longer than any long-poll timeout we request.
		http: &http.Client{Timeout: 70 * time.Second},
	}
}

type Update struct {
	UpdateID int            `json:"update_id"`
	Message  *InboundMsg    `json:"message"`
	Callback *CallbackQuery `json:"callback_query"`
}

type InboundMsg struct {
	MessageID int    `json:"message_id"`
	From      *From  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type CallbackQuery struct {
	ID      string      `json:"id"`
	From    *From       `json:"from"`
	Message *InboundMsg `json:"message"`
	Data    string      `json:"data"`
}

type From struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type replyMarkup struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

// GetUpdates long-polls for inbound messages and button presses.
func (c *Client) GetUpdates(ctx context.Context, offset int, timeout time.Duration) ([]Update, error) {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	payload := map[string]any{
		"timeout":         int(timeout.Seconds()),
		"allowed_updates": []string{"message", "callback_query"},
	}
	if offset > 0 {
		payload["offset"] = offset
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// Send delivers an outbound message, attaching buttons two per row the way
// the quick-add keyboard lays out.
func (c *Client) Send(ctx context.Context, msg gateway.Message) error {
	payload := map[string]any{
		"chat_id": msg.UserID,
		"text":    msg.Text,
	}
	if len(msg.Buttons) > 0 {
		var rows [][]inlineButton
		var row []inlineButton
		for _, b := range msg.Buttons {
			row = append(row, inlineButton{Text: b.Label, CallbackData: b.Callback})
			if len(row) == 2 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		payload["reply_markup"] = replyMarkup{InlineKeyboard: rows}
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// AnswerCallback acknowledges a button press so the client stops showing
// the progress spinner.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{"callback_query_id": callbackID}, nil)
}

type apiResponse struct {
	Ok          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method),
		bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("telegram http status: %s", resp.Status)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return err
	}
	if !envelope.Ok {
		return errors.New(envelope.Description)
	}
	if result != nil {
		return json.Unmarshal(envelope.Result, result)
	}
	return nil
}
