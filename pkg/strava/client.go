// Package strava is a minimal client for the Strava REST API and its
// OAuth token endpoint.
package strava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// DefaultPerPage is the largest page size Strava accepts.
const DefaultPerPage = 200

// Client talks to the Strava v3 API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a Strava API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// APIError is a non-success answer from Strava.
type APIError struct {
	StatusCode int
	Message    string
	Errors     []ErrorDetail
}

// ErrorDetail is one entry of Strava's "errors" array.
type ErrorDetail struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("strava error: %s", e.Message)
	}
	return fmt.Sprintf("strava error (%d): %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether the access token was rejected.
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// ListParams selects one page of the athlete's activities. After and
// Before are epoch seconds; zero means unbounded.
type ListParams struct {
	After   int64
	Before  int64
	Page    int
	PerPage int
}

// ListActivities fetches one page of the authenticated athlete's activities
// and returns the raw JSON array. A response that is neither an array nor
// an error object yields an empty page.
func (c *Client) ListActivities(ctx context.Context, accessToken string, params ListParams) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/athlete/activities", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	q := req.URL.Query()
	if params.After > 0 {
		q.Set("after", strconv.FormatInt(params.After, 10))
	}
	if params.Before > 0 {
		q.Set("before", strconv.FormatInt(params.Before, 10))
	}
	perPage := params.PerPage
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(max(params.Page, 1)))
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", accessToken))
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		apiErr := decodeError(body)
		apiErr.StatusCode = resp.StatusCode
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return nil, apiErr
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return trimmed, nil
	}
	if apiErr := decodeError(trimmed); apiErr.Message != "" || len(apiErr.Errors) > 0 {
		return nil, apiErr
	}
	return json.RawMessage("[]"), nil
}

func decodeError(body []byte) *APIError {
	var payload struct {
		Message string        `json:"message"`
		Errors  []ErrorDetail `json:"errors"`
	}
	apiErr := &APIError{}
	if err := json.Unmarshal(body, &payload); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		return apiErr
	}
	apiErr.Message = payload.Message
	apiErr.Errors = payload.Errors
	return apiErr
}
