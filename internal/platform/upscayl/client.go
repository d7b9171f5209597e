package upscayl

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/upscayl-gateway/internal/domain"
)

// maxResponseBytes bounds how much of a remote response body is read.
const maxResponseBytes = 4 << 20

// Options configures the remote API client.
type Options struct {
	// BaseURL is the root of the remote API, e.g. https://api.upscayl.org.
	BaseURL string

	// AssetBaseURL is joined with relative file paths to build download URLs.
	AssetBaseURL string

	// APIKey is sent in the X-API-Key header of every request.
	APIKey string

	// StartTimeout bounds a single start-task call.
	// Default: 30s
	StartTimeout time.Duration

	// StatusTimeout bounds a single get-task-status call.
	// Default: 10s
	StatusTimeout time.Duration

	// MaxIdleConnsPerHost sets the maximum idle connections kept to the API.
	// Default: 16
	MaxIdleConnsPerHost int
}

// DefaultOptions returns options with the remote service's public endpoints
// and the default per-call timeouts. APIKey must still be set.
func DefaultOptions() Options {
	return Options{
		BaseURL:             "https://api.upscayl.org",
		AssetBaseURL:        "https://upscayl.org",
		StartTimeout:        30 * time.Second,
		StatusTimeout:       10 * time.Second,
		MaxIdleConnsPerHost: 16,
	}
}

// Client talks to the remote Upscayl API. It holds no per-task state and is
// safe for concurrent use.
type Client struct {
	httpClient *http.Client
	opts       Options
	logger     *slog.Logger
	normalizer *Normalizer
}

// NewClient creates a client from the given options.
//
// Parameters:
//   - opts: endpoint, credentials and timeouts
//   - logger: structured logger for request diagnostics
//
// Returns:
//   - A ready client, or an error wrapping ErrInvalidConfig
func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	defaults := DefaultOptions()
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("%w: base URL cannot be empty", ErrInvalidConfig)
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", ErrInvalidConfig)
	}
	if opts.AssetBaseURL == "" {
		opts.AssetBaseURL = defaults.AssetBaseURL
	}
	if opts.StartTimeout <= 0 {
		opts.StartTimeout = defaults.StartTimeout
	}
	if opts.StatusTimeout <= 0 {
		opts.StatusTimeout = defaults.StatusTimeout
	}
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = defaults.MaxIdleConnsPerHost
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		opts:       opts,
		logger:     logger,
		normalizer: NewNormalizer(opts.AssetBaseURL, logger),
	}, nil
}

// Normalizer returns the status normalizer configured with this client's
// asset base URL.
func (c *Client) Normalizer() *Normalizer {
	return c.normalizer
}

// Close releases idle connections to the remote API.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// StartTask validates the images and parameters, then submits them to the
// remote start-task endpoint and returns the new task's handle. Every call
// creates a new remote task, even for identical input.
func (c *Client) StartTask(
	ctx context.Context,
	files []domain.UploadedImage,
	params domain.UpscaleRequest,
) (domain.TaskHandle, error) {
	if err := domain.ValidateImages(files); err != nil {
		return "", err
	}
	if err := params.Validate(); err != nil {
		return "", err
	}

	body, contentType, err := encodeStartTaskForm(files, params)
	if err != nil {
		return "", fmt.Errorf("failed to encode start-task form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.StartTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL+startTaskPath, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(apiKeyHeader, c.opts.APIKey)

	c.logger.DebugContext(ctx, "starting remote upscale task",
		"file_count", len(files),
		"model", params.Model,
		"scale", params.Scale,
		"save_image_as", params.SaveImageAs,
		"url_count", len(params.URLs))

	raw, err := c.do(req)
	if err != nil {
		return "", err
	}

	var resp startTaskResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("%w: failed to parse start-task response: %v", ErrProtocol, err)
	}
	if resp.Data == nil || resp.Data.TaskID == "" {
		return "", fmt.Errorf("%w: start-task response has no data.taskId", ErrProtocol)
	}

	handle := domain.TaskHandle(resp.Data.TaskID)
	c.logger.InfoContext(ctx, "remote upscale task started", "task_id", handle)

	return handle, nil
}

// GetStatus fetches the raw status payload of a task.
func (c *Client) GetStatus(ctx context.Context, handle domain.TaskHandle) (StatusPayload, error) {
	if handle == "" {
		return nil, domain.NewValidationError("task_id", "is required", domain.ErrEmptyTaskHandle)
	}

	payload, err := json.Marshal(getTaskStatusRequest{Data: taskRef{TaskID: handle.String()}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode get-task-status request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.StatusTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.opts.BaseURL+getTaskStatusPath,
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.opts.APIKey)

	raw, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var status StatusPayload
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("%w: failed to parse get-task-status response: %v", ErrProtocol, err)
	}
	if status == nil {
		return nil, fmt.Errorf("%w: get-task-status response is empty", ErrProtocol)
	}

	return status, nil
}

// do sends the request and returns the body of a 2xx response.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", ErrTransport, context.Canceled)
		}
		return nil, fmt.Errorf("%w: %s %s: %w", ErrTransport, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s response: %v", ErrTransport, req.URL.Path, err)
	}

	if err := checkStatusCode(resp.StatusCode); err != nil {
		c.logger.WarnContext(req.Context(), "remote API returned an error status",
			"path", req.URL.Path,
			"status_code", resp.StatusCode,
			"body_length", len(raw))
		return nil, fmt.Errorf("%w: %s returned %d %s", err, req.URL.Path, resp.StatusCode, snippet(raw))
	}

	return raw, nil
}

// checkStatusCode returns ErrProtocol for non-success status codes.
func checkStatusCode(code int) error {
	if code >= 200 && code < 300 {
		return nil
	}
	return ErrProtocol
}

// snippet returns a short, single-line excerpt of a response body for
// error messages.
func snippet(raw []byte) string {
	const limit = 200
	s := strings.Join(strings.Fields(string(raw)), " ")
	if len(s) > limit {
		s = s[:limit] + "..."
	}
	return s
}

// encodeStartTaskForm builds the multipart body of a start-task request.
// Files are sent as parts named "{index}.file".
func encodeStartTaskForm(
	files []domain.UploadedImage,
	params domain.UpscaleRequest,
) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for i, f := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%d.file"; filename="%s"`,
			i, escapeQuotes(f.Filename)))
		header.Set("Content-Type", f.ContentType)

		part, err := w.CreatePart(header)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", err
		}
	}

	fields := []struct{ name, value string }{
		{"model", params.Model},
		{"scale", params.Scale},
		{"saveImageAs", params.SaveImageAs},
		{"enhanceFace", strconv.FormatBool(params.EnhanceFace)},
	}
	if len(params.URLs) > 0 {
		urls, err := json.Marshal(params.URLs)
		if err != nil {
			return nil, "", err
		}
		fields = append(fields, struct{ name, value string }{"urls", string(urls)})
	}

	for _, f := range fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
