// Shelfwise - Library Catalog Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/tomtom215/shelfwise/internal/models"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// RemoteError is a non-2xx answer from the server.
type RemoteError struct {
	Status  int
	Code    string
	Message string
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s: %s", e.Status, e.Code, e.Message)
}

type apiClient struct {
	base  string
	token string
	http  *http.Client
}

// newAPIClient reads the root flags of cmd.
func newAPIClient(cmd *cli.Command) (*apiClient, error) {
	base := strings.TrimRight(cmd.String("server"), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid --server %q", base)
	}
	timeout := cmd.Duration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &apiClient{
		base:  base,
		token: cmd.String("token"),
		http:  &http.Client{Timeout: timeout},
	}, nil
}

// do sends one request. A non-nil body is encoded as JSON. On success the
// raw response body is returned.
func (c *apiClient) do(ctx context.Context, method, path string, query url.Values, body interface{}) ([]byte, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, decodeRemoteError(resp.StatusCode, data)
	}
	return data, nil
}

func decodeRemoteError(status int, data []byte) error {
	remote := &RemoteError{Status: status}
	var envelope models.APIResponse
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
		remote.Code = envelope.Error.Code
		remote.Message = envelope.Error.Message
	}
	return remote
}

func (c *apiClient) recommend(ctx context.Context, userID string, count int) (*models.RecommendResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/recommend", nil,
		models.RecommendRequest{UserID: userID, NumRecommendations: count})
	if err != nil {
		return nil, err
	}
	var out models.RecommendResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode recommendations: %w", err)
	}
	return &out, nil
}

func (c *apiClient) click(ctx context.Context, model string, userIndex int) (*models.MessageResponse, error) {
	query := url.Values{}
	query.Set("model_name", model)
	query.Set("user_id", fmt.Sprint(userIndex))
	data, err := c.do(ctx, http.MethodPost, "/api/v1/click", query, nil)
	if err != nil {
		return nil, err
	}
	return decodeMessage(data)
}

func (c *apiClient) reset(ctx context.Context) (*models.MessageResponse, error) {
	data, err := c.do(ctx, http.MethodPost, "/api/v1/reset_metrics", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeMessage(data)
}

func (c *apiClient) metrics(ctx context.Context) (string, error) {
	data, err := c.do(ctx, http.MethodGet, "/metrics", nil, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeMessage(data []byte) (*models.MessageResponse, error) {
	var out models.MessageResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
