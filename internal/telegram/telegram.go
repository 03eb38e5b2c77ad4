// Package telegram is a minimal Bot API client covering the two calls
// the bot needs: sendMessage and sendPhoto.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const defaultAPIBase = "https://api.telegram.org"

// Client talks to the Telegram Bot API for one bot token.
type Client struct {
	token   string
	apiBase string
	client  *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		token:   token,
		apiBase: defaultAPIBase,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.token, method)
}

// checkResponse decodes the standard Bot API envelope and turns an
// ok=false reply into an error.
func checkResponse(resp *http.Response) error {
	defer resp.Body.Close()

	var envelope struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding telegram response (HTTP %d): %w", resp.StatusCode, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram HTTP %d: %s", resp.StatusCode, envelope.Description)
	}
	return nil
}

// SendMessage posts an HTML-formatted text message to chatID.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	payload, err := json.Marshal(map[string]string{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage: %w", err)
	}
	return checkResponse(resp)
}

// SendPhoto uploads the image file at path to chatID with an
// HTML-formatted caption.
func (c *Client) SendPhoto(ctx context.Context, chatID, path, caption string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening photo: %w", err)
	}
	defer file.Close()

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("chat_id", chatID); err != nil {
		return fmt.Errorf("building photo form: %w", err)
	}
	if err := form.WriteField("caption", caption); err != nil {
		return fmt.Errorf("building photo form: %w", err)
	}
	if err := form.WriteField("parse_mode", "HTML"); err != nil {
		return fmt.Errorf("building photo form: %w", err)
	}
	part, err := form.CreateFormFile("photo", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("building photo form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("reading photo: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("building photo form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &body)
	if err != nil {
		return fmt.Errorf("building sendPhoto request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendPhoto: %w", err)
	}
	return checkResponse(resp)
}
