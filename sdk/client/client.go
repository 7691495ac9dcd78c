package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dangerclosesec/siren/program/model"
)

// Config represents the configuration for the Siren API client
type Config struct {
	// BaseURL is the base URL of the Siren API server
	BaseURL string
	// Token is an optional bearer token sent with every request
	Token string
	// HTTPClient is an optional custom HTTP client
	HTTPClient *http.Client
	// Timeout is the default request timeout
	Timeout time.Duration
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8080",
		HTTPClient: http.DefaultClient,
		Timeout:    10 * time.Second,
	}
}

// Client is the Siren API client
type Client struct {
	config *Config
	client *http.Client
}

// NewClient creates a new client with the given configuration
func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	client := config.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &Client{
		config: config,
		client: client,
	}
}

// CheckRequest is a program submitted for checking
type CheckRequest struct {
	Name   string `json:"name,omitempty"`
	Source string `json:"source"`
}

// Diagnostic describes why a program was rejected
type Diagnostic struct {
	Phase   string `json:"phase"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Text    string `json:"text,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// CheckResult is the server's verdict. Exactly one of Report and Diagnostic is set.
type CheckResult struct {
	Ok         bool          `json:"ok"`
	RunID      string        `json:"run_id,omitempty"`
	Cached     bool          `json:"cached"`
	Report     *model.Report `json:"report,omitempty"`
	Error      string        `json:"error,omitempty"`
	Diagnostic *Diagnostic   `json:"diagnostic,omitempty"`
}

// Run is a recorded check
type Run struct {
	ID         string    `json:"id"`
	SourceName string    `json:"source_name"`
	SourceHash string    `json:"source_hash"`
	Accepted   bool      `json:"accepted"`
	Phase      string    `json:"phase,omitempty"`
	Diagnostic string    `json:"diagnostic,omitempty"`
	Line       int       `json:"line,omitempty"`
	Column     int       `json:"column,omitempty"`
	Statements int       `json:"statements"`
	DurationUS int64     `json:"duration_us"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListRunsRequest filters the run history
type ListRunsRequest struct {
	Name     string
	Hash     string
	Accepted *bool
	Limit    int
	Offset   int
}

// ListRunsResponse is a page of the run history
type ListRunsResponse struct {
	Runs  []Run `json:"runs"`
	Total int64 `json:"total"`
}

// Check submits a program. A rejected program is not an error; inspect result.Ok.
func (c *Client) Check(ctx context.Context, req *CheckRequest) (*CheckResult, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}
	if req.Source == "" {
		return nil, errors.New("source is required")
	}

	endpoint := fmt.Sprintf("%s/api/check", c.config.BaseURL)
	var resp CheckResult
	if err := c.do(ctx, http.MethodPost, endpoint, req, &resp, http.StatusUnprocessableEntity); err != nil {
		return nil, err
	}

	return &resp, nil
}

// ListRuns retrieves recorded runs
func (c *Client) ListRuns(ctx context.Context, req *ListRunsRequest) (*ListRunsResponse, error) {
	query := url.Values{}
	if req != nil {
		if req.Name != "" {
			query.Set("name", req.Name)
		}
		if req.Hash != "" {
			query.Set("hash", req.Hash)
		}
		if req.Accepted != nil {
			query.Set("accepted", strconv.FormatBool(*req.Accepted))
		}
		if req.Limit > 0 {
			query.Set("limit", strconv.Itoa(req.Limit))
		}
		if req.Offset > 0 {
			query.Set("offset", strconv.Itoa(req.Offset))
		}
	}

	endpoint := fmt.Sprintf("%s/api/runs", c.config.BaseURL)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var resp ListRunsResponse
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// GetRun retrieves a recorded run by ID
func (c *Client) GetRun(ctx context.Context, id string) (*Run, error) {
	if id == "" {
		return nil, errors.New("id is required")
	}

	endpoint := fmt.Sprintf("%s/api/runs/%s", c.config.BaseURL, url.PathEscape(id))
	var resp Run
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}

	return &resp, nil
}

// APIError defines a standardized error response from the API
type APIError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (Status: %d)", e.Message, e.StatusCode)
}

// do performs a request and unmarshals the response into resp. Statuses
// listed in accept are decoded like a success.
func (c *Client) do(ctx context.Context, method, endpoint string, req interface{}, resp interface{}, accept ...int) error {
	// Set up context with timeout
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var body io.Reader
	if req != nil {
		reqBody, err := json.Marshal(req)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(reqBody)
	}

	// Create HTTP request
	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	// Send request
	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer httpResp.Body.Close()

	// Check for non-success status code
	if !accepted(httpResp.StatusCode, accept) {
		// Try to decode error response
		var apiErr APIError
		if err := json.NewDecoder(httpResp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			return &APIError{
				StatusCode: httpResp.StatusCode,
				Message:    fmt.Sprintf("request failed with status code %d", httpResp.StatusCode),
			}
		}

		apiErr.StatusCode = httpResp.StatusCode
		return &apiErr
	}

	// Decode response
	if err := json.NewDecoder(httpResp.Body).Decode(resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func accepted(status int, accept []int) bool {
	if status >= 200 && status < 300 {
		return true
	}
	for _, code := range accept {
		if status == code {
			return true
		}
	}
	return false
}
