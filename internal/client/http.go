package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alfredjeanlab/configs/internal/model"
)

// HTTPClient implements ConfigsClient using the HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080"). When token is non-empty, an Authorization
// header is set on every request.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Close is a no-op for the HTTP client.
func (c *HTTPClient) Close() error { return nil }

func configurationPath(id int64) string {
	return "/v1/configurations/" + strconv.FormatInt(id, 10)
}

func (c *HTTPClient) ListConfigurations(ctx context.Context) ([]*model.Configuration, error) {
	var cfgs []*model.Configuration
	if err := c.doJSON(ctx, http.MethodGet, "/v1/configurations", nil, &cfgs); err != nil {
		return nil, err
	}
	return cfgs, nil
}

func (c *HTTPClient) GetConfiguration(ctx context.Context, id int64) (*model.Configuration, error) {
	var cfg model.Configuration
	if err := c.doJSON(ctx, http.MethodGet, configurationPath(id), nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) CreateConfiguration(ctx context.Context, in *model.ConfigurationInput) (*model.Configuration, error) {
	var cfg model.Configuration
	if err := c.doJSON(ctx, http.MethodPost, "/v1/configurations", in, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) UpdateConfiguration(ctx context.Context, id int64, in *model.ConfigurationInput) (*model.Configuration, error) {
	var cfg model.Configuration
	if err := c.doJSON(ctx, http.MethodPut, configurationPath(id), in, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) DeleteConfiguration(ctx context.Context, id int64) error {
	return c.doJSON(ctx, http.MethodDelete, configurationPath(id), nil, nil)
}

func (c *HTTPClient) GetToken(ctx context.Context, id int64) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.doJSON(ctx, http.MethodGet, configurationPath(id)+"/token", nil, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *HTTPClient) DecodeToken(ctx context.Context, token string) (*model.Configuration, error) {
	q := url.Values{"token": {token}}
	var cfg model.Configuration
	if err := c.doJSON(ctx, http.MethodGet, "/v1/configurations/decode?"+q.Encode(), nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *HTTPClient) Health(ctx context.Context) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/v1/health", nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: errResp.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
