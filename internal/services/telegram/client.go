// Package telegram sends clip files to a Telegram channel through the Bot
// API and returns permalinks to the posted messages.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// maxVideoSize is the Bot API limit for direct video uploads.
const maxVideoSize = 50 * 1024 * 1024

// ErrFileTooLarge indicates the clip exceeds the Bot API upload limit.
var ErrFileTooLarge = errors.New("telegram: file exceeds 50MB upload limit")

// Client defines the distribution send operation.
type Client interface {
	SendVideo(ctx context.Context, path, caption string) (string, error)
}

// HTTP talks to the Telegram Bot API.
type HTTP struct {
	botToken   string
	channelID  string
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTP)(nil)

// Option configures an HTTP client.
type Option func(*HTTP)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *HTTP) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Telegram Bot API client posting to the given channel.
func New(botToken, channelID, baseURL string, opts ...Option) (*HTTP, error) {
	botToken = strings.TrimSpace(botToken)
	if botToken == "" {
		return nil, errors.New("telegram bot token required")
	}
	channelID = strings.TrimSpace(channelID)
	if channelID == "" {
		return nil, errors.New("telegram channel id required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("telegram base url required")
	}
	client := &HTTP{
		botToken:   botToken,
		channelID:  channelID,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type sendVideoResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
	} `json:"result"`
}

// SendVideo posts the file at path to the channel with the given caption and
// returns a permalink to the message.
func (c *HTTP) SendVideo(ctx context.Context, path, caption string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > maxVideoSize {
		return "", fmt.Errorf("%w: %s is %d bytes", ErrFileTooLarge, filepath.Base(path), info.Size())
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)
	go func() {
		err := c.writeSendVideoForm(writer, file, filepath.Base(path), caption)
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		pipeWriter.CloseWithError(err)
	}()

	endpoint := fmt.Sprintf("%s/bot%s/sendVideo", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pipeReader)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send video: %w", err)
	}
	defer resp.Body.Close()

	var payload sendVideoResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if !payload.OK {
		description := payload.Description
		if description == "" {
			description = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("send video rejected: %s", description)
	}

	return c.MessageLink(payload.Result.MessageID), nil
}

func (c *HTTP) writeSendVideoForm(writer *multipart.Writer, file io.Reader, filename, caption string) error {
	fields := map[string]string{
		"chat_id":            c.channelID,
		"caption":            caption,
		"parse_mode":         "HTML",
		"supports_streaming": "true",
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile("video", filename)
	if err != nil {
		return fmt.Errorf("create video part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy video: %w", err)
	}
	return nil
}

// MessageLink builds the t.me permalink for a message in the channel.
// Private channel ids carry a -100 prefix that the link format drops.
func (c *HTTP) MessageLink(messageID int64) string {
	channel := strings.TrimPrefix(c.channelID, "-100")
	return "https://t.me/c/" + channel + "/" + strconv.FormatInt(messageID, 10)
}
