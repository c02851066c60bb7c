// Package keep2share uploads video files to the Keep2Share remote storage
// API and returns durable share links.
package keep2share

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// linkPrefix is the short-domain share link format returned to callers.
const linkPrefix = "https://k2s.cc/file/"

// Client defines the remote-storage upload operation.
type Client interface {
	Upload(ctx context.Context, path string) (string, error)
}

// HTTP talks to the Keep2Share v2 API. Uploading is a three-step flow: fetch
// a signed upload form, post the file to the returned form action, then move
// the stored file into the configured folder with premium access.
type HTTP struct {
	accessToken string
	folderID    string
	baseURL     string
	httpClient  *http.Client
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

// New creates a Keep2Share client.
func New(accessToken, folderID, baseURL string, opts ...Option) (*HTTP, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, errors.New("keep2share access token required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("keep2share base url required")
	}
	client := &HTTP{
		accessToken: accessToken,
		folderID:    strings.TrimSpace(folderID),
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  &http.Client{Timeout: 30 * time.Minute},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type uploadFormData struct {
	FormAction string `json:"form_action"`
	FileField  string `json:"file_field"`
	FormData   struct {
		Ajax      json.RawMessage `json:"ajax"`
		Params    json.RawMessage `json:"params"`
		Signature json.RawMessage `json:"signature"`
	} `json:"form_data"`
}

type uploadResult struct {
	Status     string `json:"status"`
	UserFileID string `json:"user_file_id"`
}

// Upload sends the file at path to Keep2Share and returns its share link.
func (c *HTTP) Upload(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("file path required")
	}

	var form uploadFormData
	if err := c.postJSON(ctx, "/getUploadFormData", map[string]any{
		"access_token": c.accessToken,
	}, &form); err != nil {
		return "", fmt.Errorf("get upload form: %w", err)
	}
	if form.FormAction == "" || form.FileField == "" {
		return "", errors.New("upload form response missing form_action or file_field")
	}

	result, err := c.postFile(ctx, form, path)
	if err != nil {
		return "", err
	}
	if result.UserFileID == "" {
		return "", errors.New("upload response missing user_file_id")
	}

	if err := c.postJSON(ctx, "/updateFile", map[string]any{
		"access_token": c.accessToken,
		"id":           result.UserFileID,
		"new_access":   "premium",
		"new_parent":   nullableID(c.folderID),
	}, nil); err != nil {
		return "", fmt.Errorf("update file %s: %w", result.UserFileID, err)
	}

	return linkPrefix + result.UserFileID, nil
}

func (c *HTTP) postFile(ctx context.Context, form uploadFormData, path string) (*uploadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	pipeReader, pipeWriter := io.Pipe()
	writer := multipart.NewWriter(pipeWriter)
	go func() {
		err := writeUploadForm(writer, form, file, filepath.Base(path))
		if closeErr := writer.Close(); err == nil {
			err = closeErr
		}
		pipeWriter.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, form.FormAction, pipeReader)
	if err != nil {
		return nil, fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("upload returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result uploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	return &result, nil
}

func writeUploadForm(writer *multipart.Writer, form uploadFormData, file io.Reader, filename string) error {
	fields := map[string]json.RawMessage{
		"ajax":      form.FormData.Ajax,
		"params":    form.FormData.Params,
		"signature": form.FormData.Signature,
	}
	for name, raw := range fields {
		if err := writer.WriteField(name, rawFieldValue(raw)); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}

	part, err := writer.CreateFormFile(form.FileField, filename)
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy file: %w", err)
	}
	return nil
}

// rawFieldValue renders a JSON value as a plain form field: strings are
// unquoted, everything else keeps its JSON text.
func rawFieldValue(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (c *HTTP) postJSON(ctx context.Context, endpoint string, payload map[string]any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("api returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func nullableID(id string) any {
	if id == "" {
		return nil
	}
	return id
}
