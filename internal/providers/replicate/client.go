package replicate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"uniformgen/internal/infra"
)

// ErrMissingAPIToken indicates that the client was configured without credentials.
var ErrMissingAPIToken = errors.New("replicate: api token is required")

const (
	defaultBaseURL      = "https://api.replicate.com/v1"
	defaultPollInterval = time.Second
	defaultWaitSeconds  = 60
)

// Options configures the Replicate HTTP client.
type Options struct {
	APIToken       string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
	PollInterval   time.Duration
	WaitSeconds    int
}

// Client performs HTTP calls against the Replicate predictions API.
type Client struct {
	token        string
	baseURL      string
	httpClient   *http.Client
	logger       *infra.Logger
	pollInterval time.Duration
	waitSeconds  int
}

// Version is one published version of a model.
type Version struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

// Prediction mirrors the subset of the prediction resource the client relies on.
type Prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  json.RawMessage `json:"error"`
	URLs   struct {
		Get    string `json:"get"`
		Cancel string `json:"cancel"`
	} `json:"urls"`
}

type versionsResponse struct {
	Results []Version `json:"results"`
	Next    *string   `json:"next"`
}

type predictionRequest struct {
	Version string         `json:"version"`
	Input   map[string]any `json:"input"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	poll := opts.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	wait := opts.WaitSeconds
	if wait <= 0 {
		wait = defaultWaitSeconds
	}
	logger := opts.Logger
	if logger == nil {
		l := infra.Logger(zerolog.Nop())
		logger = &l
	}
	return &Client{
		token:        strings.TrimSpace(opts.APIToken),
		baseURL:      baseURL,
		httpClient:   httpClient,
		logger:       logger,
		pollInterval: poll,
		waitSeconds:  wait,
	}
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c != nil && c.token != ""
}

// ListVersions returns the published versions of owner/name, newest first as the API
// orders them. Models that do not expose their versions answer with a 404, which is
// surfaced as an error.
func (c *Client) ListVersions(ctx context.Context, slug string) ([]Version, error) {
	owner, name, err := splitSlug(slug)
	if err != nil {
		return nil, err
	}
	endpoint := fmt.Sprintf("%s/models/%s/%s/versions", c.baseURL, url.PathEscape(owner), url.PathEscape(name))
	var out versionsResponse
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Run creates a prediction for the given version and blocks until it reaches a
// terminal state, returning the raw output value.
func (c *Client) Run(ctx context.Context, version string, input map[string]any) (json.RawMessage, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return nil, errors.New("replicate: version is required")
	}
	header := http.Header{}
	header.Set("Prefer", fmt.Sprintf("wait=%d", c.waitSeconds))
	var pred Prediction
	if err := c.doJSON(ctx, http.MethodPost, c.baseURL+"/predictions", predictionRequest{Version: version, Input: input}, header, &pred); err != nil {
		return nil, err
	}
	c.logger.Debug().Str("prediction_id", pred.ID).Str("status", pred.Status).Msg("replicate: prediction created")

	for !isTerminal(pred.Status) {
		getURL := strings.TrimSpace(pred.URLs.Get)
		if getURL == "" {
			getURL = c.baseURL + "/predictions/" + url.PathEscape(pred.ID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.pollInterval):
		}
		if err := c.doJSON(ctx, http.MethodGet, getURL, nil, nil, &pred); err != nil {
			return nil, err
		}
	}

	switch pred.Status {
	case "succeeded":
		return pred.Output, nil
	case "canceled":
		return nil, fmt.Errorf("replicate: prediction %s canceled", pred.ID)
	default:
		return nil, fmt.Errorf("replicate: prediction %s failed: %s", pred.ID, predictionError(pred.Error))
	}
}

// Download fetches the bytes behind an output locator. data: URIs are decoded inline.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, string, error) {
	imageURL = strings.TrimSpace(imageURL)
	if strings.HasPrefix(imageURL, "data:") {
		return decodeDataURI(imageURL)
	}
	parsed, err := url.Parse(imageURL)
	if err != nil || parsed.Scheme == "" {
		return nil, "", fmt.Errorf("replicate: invalid image url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("replicate: download status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: read image: %w", err)
	}
	format := resp.Header.Get("Content-Type")
	if format == "" {
		format = http.DetectContentType(data)
	}
	return data, format, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body any, header http.Header, out any) error {
	if !c.HasCredentials() {
		return ErrMissingAPIToken
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("replicate: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("replicate: build request: %w", err)
	}
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("replicate: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("replicate: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		var detail errorResponse
		if err := json.Unmarshal(raw, &detail); err == nil && detail.Detail != "" {
			return fmt.Errorf("replicate: status %d: %s", resp.StatusCode, detail.Detail)
		}
		return fmt.Errorf("replicate: status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("replicate: decode response: %w", err)
	}
	return nil
}

func splitSlug(slug string) (string, string, error) {
	slug = strings.TrimSpace(slug)
	owner, name, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("replicate: invalid model identifier %q", slug)
	}
	return owner, name, nil
}

func isTerminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	default:
		return false
	}
}

func predictionError(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return "unknown error"
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg
	}
	return string(raw)
}

func decodeDataURI(uri string) ([]byte, string, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", errors.New("replicate: malformed data uri")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	if !strings.HasSuffix(meta, ";base64") {
		unescaped, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("replicate: decode data uri: %w", err)
		}
		return []byte(unescaped), mime, nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("replicate: decode data uri: %w", err)
	}
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return data, mime, nil
}
