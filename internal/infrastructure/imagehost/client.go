package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"carenet/internal/config"
)

// Client uploads public images (profile and cover photos) with an unsigned upload preset.
type Client struct {
	endpoint string
	preset   string
	client   *http.Client
	logger   *log.Logger
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func NewClient(cfg config.ImageHostConfig, logger *log.Logger) *Client {
	if !cfg.Enabled() {
		return nil
	}
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	return &Client{
		endpoint: fmt.Sprintf("%s/%s/image/upload", base, cfg.CloudName),
		preset:   cfg.UploadPreset,
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
	}
}

func (c *Client) UploadImage(ctx context.Context, filename string, body io.Reader) (string, error) {
	if c == nil || c.client == nil {
		return "", errors.New("nil image host client")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out uploadResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(rb))
		if json.Unmarshal(rb, &out) == nil && out.Error != nil {
			msg = out.Error.Message
		}
		if c.logger != nil {
			c.logger.Printf("[ImageHost] Upload error endpoint=%s status=%d body=%q", c.endpoint, resp.StatusCode, msg)
		}
		return "", fmt.Errorf("image upload failed: status=%d message=%s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.SecureURL == "" {
		return "", errors.New("image upload failed: empty secure_url")
	}
	return out.SecureURL, nil
}
