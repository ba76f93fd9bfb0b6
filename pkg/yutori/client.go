package yutori

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
)

// Default base URL for the Yutori v1 API.
const defaultBaseURL = "https://api.yutori.com/v1"

// Client defines the Yutori task API operations. Research tasks answer a
// free-form query; browsing tasks drive an agent through a start URL. Both
// are asynchronous: creation returns a task ID that must be polled.
type Client interface {
	CreateResearchTask(ctx context.Context, req ResearchRequest) (*TaskCreated, error)
	GetResearchTask(ctx context.Context, id string) (*TaskStatus, error)
	CreateBrowsingTask(ctx context.Context, req BrowsingRequest) (*TaskCreated, error)
	GetBrowsingTask(ctx context.Context, id string) (*TaskStatus, error)
}

// ResearchRequest is the body for POST /research/tasks.
type ResearchRequest struct {
	Query string `json:"query"`
}

// BrowsingRequest is the body for POST /browsing/tasks.
type BrowsingRequest struct {
	Task     string `json:"task"`
	StartURL string `json:"start_url"`
}

// TaskCreated is the response from task creation.
type TaskCreated struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// TaskStatus is the response from GET /research/tasks/{id} and
// GET /browsing/tasks/{id}.
type TaskStatus struct {
	TaskID  string     `json:"task_id"`
	Status  string     `json:"status"`
	Result  TaskResult `json:"result"`
	Error   string     `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

// TaskResult carries the task output. Research tasks populate Content;
// browsing tasks populate Text.
type TaskResult struct {
	Content string `json:"content,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Output returns whichever result field the task populated.
func (r TaskResult) Output() string {
	if r.Content != "" {
		return r.Content
	}
	return r.Text
}

// FailureReason returns the task's error message, preferring the error
// field over the generic message.
func (s *TaskStatus) FailureReason() string {
	if s.Error != "" {
		return s.Error
	}
	if s.Message != "" {
		return s.Message
	}
	return "unknown error"
}

// APIError is returned when Yutori responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yutori: HTTP %d: %s", e.StatusCode, e.Body)
}

// Option configures the httpClient.
type Option func(*httpClient)

// WithBaseURL overrides the default base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// httpClient implements Client using net/http.
type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a new Yutori client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) CreateResearchTask(ctx context.Context, req ResearchRequest) (*TaskCreated, error) {
	var resp TaskCreated
	if err := c.post(ctx, "/research/tasks", req, &resp); err != nil {
		return nil, eris.Wrap(err, "yutori: create research task")
	}
	return &resp, nil
}

func (c *httpClient) GetResearchTask(ctx context.Context, id string) (*TaskStatus, error) {
	var resp TaskStatus
	if err := c.get(ctx, fmt.Sprintf("/research/tasks/%s", id), &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("yutori: get research task %s", id))
	}
	return &resp, nil
}

func (c *httpClient) CreateBrowsingTask(ctx context.Context, req BrowsingRequest) (*TaskCreated, error) {
	var resp TaskCreated
	if err := c.post(ctx, "/browsing/tasks", req, &resp); err != nil {
		return nil, eris.Wrap(err, "yutori: create browsing task")
	}
	return &resp, nil
}

func (c *httpClient) GetBrowsingTask(ctx context.Context, id string) (*TaskStatus, error) {
	var resp TaskStatus
	if err := c.get(ctx, fmt.Sprintf("/browsing/tasks/%s", id), &resp); err != nil {
		return nil, eris.Wrap(err, fmt.Sprintf("yutori: get browsing task %s", id))
	}
	return &resp, nil
}

func (c *httpClient) post(ctx context.Context, path string, body any, out any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return eris.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return eris.Wrap(err, "create request")
	}
	req.Header.Set("X-API-Key", c.apiKey)

	return c.do(req, out)
}

func (c *httpClient) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "execute request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
		}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return eris.Wrap(err, "decode response")
	}

	return nil
}
