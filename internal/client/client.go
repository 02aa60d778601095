// Package client provides an HTTP client for the smartvisit API.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/evcraddock/smartvisit/internal/advisor"
	"github.com/evcraddock/smartvisit/internal/visitor"
)

// Client is an HTTP client for the smartvisit API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New creates a new API client. token is the staff session token and may
// be empty for the public endpoints.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the server.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// Register submits a visit request.
func (c *Client) Register(in visitor.Input) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.post("/api/visitors", in, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Lookup returns the newest registration for phone.
func (c *Client) Lookup(phone string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.get("/api/lookup?phone="+url.QueryEscape(phone), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Ask sends a question to the help assistant.
func (c *Client) Ask(question string) (string, error) {
	var resp struct {
		Answer string `json:"answer"`
	}
	if err := c.post("/api/help", map[string]string{"question": question}, &resp); err != nil {
		return "", err
	}
	return resp.Answer, nil
}

// Login exchanges the staff password for a session token.
func (c *Client) Login(password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.post("/auth/login", map[string]string{"password": password}, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("server returned no session token")
	}
	return resp.Token, nil
}

// Logout ends the current staff session.
func (c *Client) Logout() error {
	return c.post("/auth/logout", nil, nil)
}

// ListOptions controls filtering for ListVisitors.
type ListOptions struct {
	View   string // pending, history, all (empty = pending)
	Search string
}

// ListResponse is the response from GET /api/staff/visitors.
type ListResponse struct {
	Visitors     []visitor.Visitor `json:"visitors"`
	PendingCount int               `json:"pending_count"`
}

// ListVisitors returns the staff view of visit requests.
func (c *Client) ListVisitors(opts ListOptions) (*ListResponse, error) {
	params := url.Values{}
	if opts.View != "" {
		params.Set("view", opts.View)
	}
	if opts.Search != "" {
		params.Set("q", opts.Search)
	}
	path := "/api/staff/visitors"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp ListResponse
	if err := c.get(path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetVisitor returns one visit request.
func (c *Client) GetVisitor(id string) (*visitor.Visitor, error) {
	var v visitor.Visitor
	if err := c.get("/api/staff/visitors/"+url.PathEscape(id), &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// StatusResponse is the response from POST /api/staff/visitors/{id}/status.
type StatusResponse struct {
	ID      string         `json:"id"`
	Status  visitor.Status `json:"status"`
	Updated bool           `json:"updated"`
}

// SetStatus records a staff decision.
func (c *Client) SetStatus(id string, status visitor.Status) (*StatusResponse, error) {
	body := map[string]visitor.Status{"status": status}
	var resp StatusResponse
	if err := c.post("/api/staff/visitors/"+url.PathEscape(id)+"/status", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Analyze returns the advisory classification of a request's purpose.
func (c *Client) Analyze(id string) (*advisor.Classification, error) {
	var cl advisor.Classification
	if err := c.get("/api/staff/visitors/"+url.PathEscape(id)+"/analysis", &cl); err != nil {
		return nil, err
	}
	return &cl, nil
}

// Health checks that the server is reachable.
func (c *Client) Health() error {
	return c.get("/health", nil)
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result any) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, result)
}

// do executes an HTTP request with auth header and handles errors.
func (c *Client) do(req *http.Request, result any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			fmt.Printf("warning: closing response body: %v\n", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		msg := "server error: " + http.StatusText(resp.StatusCode)
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
