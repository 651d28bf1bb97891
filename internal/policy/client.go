package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mauricioroteta/CalculadoraCaucion/internal/schemas"
	"github.com/mauricioroteta/CalculadoraCaucion/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "CalculadoraCaucion/1.0"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 1 << 20

// Gateway is the pair of remote calls the quote workflow depends on.
type Gateway interface {
	GetPolicyHolder(ctx context.Context, applicationID string, totalAmount float64, dayCount int) (*types.PolicyHolder, error)
	CalculateQuote(ctx context.Context, req QuoteRequest) (*types.QuoteDetails, error)
}

// Options configures the client behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Token     string
	Headers   map[string]string
	// SkipSchemaCheck disables JSON Schema validation of success bodies.
	SkipSchemaCheck bool
	Logger          *slog.Logger
	HTTPClient      *http.Client
}

// DefaultOptions returns sensible defaults for the client.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to the registry and quote services over HTTP GET.
type Client struct {
	baseURL     string
	http        *http.Client
	userAgent   string
	token       string
	headers     map[string]string
	checkSchema bool
	logger      *slog.Logger
}

var _ Gateway = (*Client)(nil)

// NewClient creates a client rooted at baseURL (scheme and host, optional path prefix).
func NewClient(baseURL string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        httpClient,
		userAgent:   userAgent,
		token:       opts.Token,
		headers:     opts.Headers,
		checkSchema: !opts.SkipSchemaCheck,
		logger:      logger,
	}
}

// GetPolicyHolder resolves the holder for an application. Any failure is
// returned as *HolderLookupError carrying the best available message.
func (c *Client) GetPolicyHolder(ctx context.Context, applicationID string, totalAmount float64, dayCount int) (*types.PolicyHolder, error) {
	if applicationID == "" {
		return nil, &HolderLookupError{
			Message: MsgHolderLookupFailed,
			Cause:   &RequestError{URL: c.baseURL, Message: "application id is empty"},
		}
	}

	resp, err := c.get(ctx, HolderPath(applicationID, totalAmount, dayCount))
	if err != nil {
		return nil, &HolderLookupError{Message: MsgHolderLookupFailed, Cause: err}
	}

	if !resp.ok() {
		return nil, &HolderLookupError{
			Message:    serverMessage(resp.body, MsgHolderLookupFailed),
			StatusCode: resp.status,
		}
	}

	if c.checkSchema {
		if err := schemas.ValidateDocument(schemas.PolicyHolder, resp.body); err != nil {
			c.logger.Error("registry response does not match schema", "url", resp.url, "error", err)
			return nil, &HolderLookupError{Message: MsgHolderLookupFailed, StatusCode: resp.status, Cause: err}
		}
	}

	var holder types.PolicyHolder
	if err := json.Unmarshal(resp.body, &holder); err != nil {
		return nil, &HolderLookupError{
			Message:    MsgHolderLookupFailed,
			StatusCode: resp.status,
			Cause:      fmt.Errorf("failed to decode policy holder: %w", err),
		}
	}
	return &holder, nil
}

// CalculateQuote requests a quote. Any failure is returned as
// *QuoteCalculationError with the fixed generic message.
func (c *Client) CalculateQuote(ctx context.Context, req QuoteRequest) (*types.QuoteDetails, error) {
	if req.ApplicationID == "" {
		return nil, &QuoteCalculationError{
			Message: MsgQuoteFailed,
			Cause:   &RequestError{URL: c.baseURL, Message: "application id is empty"},
		}
	}

	resp, err := c.get(ctx, QuotePath(req))
	if err != nil {
		return nil, &QuoteCalculationError{Message: MsgQuoteFailed, Cause: err}
	}

	if !resp.ok() {
		return nil, &QuoteCalculationError{
			Message:    MsgQuoteFailed,
			StatusCode: resp.status,
			Cause:      &RequestError{URL: resp.url, Message: fmt.Sprintf("HTTP status %d", resp.status)},
		}
	}

	if c.checkSchema {
		if err := schemas.ValidateDocument(schemas.QuoteDetails, resp.body); err != nil {
			c.logger.Error("quote response does not match schema", "url", resp.url, "error", err)
			return nil, &QuoteCalculationError{Message: MsgQuoteFailed, StatusCode: resp.status, Cause: err}
		}
	}

	var quote types.QuoteDetails
	if err := json.Unmarshal(resp.body, &quote); err != nil {
		return nil, &QuoteCalculationError{
			Message:    MsgQuoteFailed,
			StatusCode: resp.status,
			Cause:      fmt.Errorf("failed to decode quote details: %w", err),
		}
	}
	return &quote, nil
}

type response struct {
	url    string
	status int
	body   []byte
}

func (r *response) ok() bool {
	return r.status >= 200 && r.status < 300
}

func (c *Client) get(ctx context.Context, path string) (*response, error) {
	urlStr := c.baseURL + path
	requestID := uuid.New().String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &RequestError{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("request failed", "request_id", requestID, "url", urlStr, "error", err)
		return nil, &RequestError{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		c.logger.Error("reading response failed", "request_id", requestID, "url", urlStr, "error", err)
		return nil, &RequestError{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	c.logger.Debug("request completed",
		"request_id", requestID,
		"url", urlStr,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)
	if resp.StatusCode >= http.StatusBadRequest {
		c.logger.Warn("service returned error status",
			"request_id", requestID,
			"url", urlStr,
			"status", resp.StatusCode,
			"body", snippet(body),
		)
	}

	return &response{url: urlStr, status: resp.StatusCode, body: body}, nil
}

// serverMessage extracts {"message": "..."} from an error body, or returns fallback.
func serverMessage(body []byte, fallback string) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return fallback
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return fallback
}

func snippet(body []byte) string {
	const limit = 512
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
