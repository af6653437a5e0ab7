package hooksdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/docqa/pkg/idx"
	"github.com/aussiebroadwan/docqa/pkg/webhookx"
)

// Client talks to the claims service. Hook calls are signed with HookSecret
// exactly as the identity provider would sign them.
type Client struct {
	BaseURL    string
	HookSecret string
	HTTPClient *http.Client
}

func NewClient(baseURL, hookSecret string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HookSecret: hookSecret,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CustomAccessToken replays the access-token hook and returns the enriched
// claims.
func (c *Client) CustomAccessToken(ctx context.Context, req AccessTokenHookRequest) (map[string]any, error) {
	resp, err := c.postHook(ctx, "/v1/hooks/custom-access-token", req)
	if err != nil {
		return nil, err
	}

	var out AccessTokenHookResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Claims, nil
}

// UserCreated replays the user-created hook.
func (c *Client) UserCreated(ctx context.Context, req UserCreatedHookRequest) error {
	resp, err := c.postHook(ctx, "/v1/hooks/user-created", req)
	if err != nil {
		return err
	}
	var out struct{}
	return decodeJSON(resp, &out, http.StatusOK)
}

// Me returns the user info derived from accessToken.
func (c *Client) Me(ctx context.Context, accessToken string) (*UserInfoResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/me", nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	var info UserInfoResponse
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) postHook(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	h := http.Header{}
	if err := webhookx.SetHeaders(h, c.HookSecret, "msg_"+idx.New().String(), time.Now(), body); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	for k := range h {
		headers[k] = h.Get(k)
	}
	return c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), headers)
}

func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

// decodeJSON decodes a response into target, or returns a typed error when
// the status is not expectedStatus.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp.StatusCode, bodyBytes)
	}

	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseErrorResponse(status int, body []byte) error {
	var hookErr struct {
		Error *HookError `json:"error"`
	}
	if err := json.Unmarshal(body, &hookErr); err == nil && hookErr.Error != nil {
		return hookErr.Error
	}

	var bearer BearerError
	if err := json.Unmarshal(body, &bearer); err == nil && bearer.Code != "" {
		bearer.StatusCode = status
		return &bearer
	}

	return fmt.Errorf("request failed with status %d: %s", status, string(body))
}
