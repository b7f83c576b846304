// Package directory implements the REST client for the directory service:
// accounts, devices, groups, document metadata and wrapped key rows. The
// directory only ever sees public keys and ciphertext.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"relay/internal/common"
)

// Session identifies the authenticated caller. It is passed explicitly on
// every call; the client keeps no ambient current-user state.
type Session struct {
	AccessToken string
	UserID      string
}

// DirectoryError is a non-2xx or malformed response from the directory.
type DirectoryError struct {
	Status  int
	Message string
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory: %s (status %d)", e.Message, e.Status)
}

// Is maps HTTP status classes onto the shared sentinel errors so callers
// can use errors.Is without inspecting status codes.
func (e *DirectoryError) Is(target error) bool {
	switch {
	case errors.Is(target, common.ErrorNotFound):
		return e.Status == http.StatusNotFound
	case errors.Is(target, common.ErrorUnauthorized):
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// Client talks to one directory service instance.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// do sends a JSON request and decodes a JSON response into out (skipped
// when out is nil). No retries; retry policy belongs to the caller.
func (c *Client) do(ctx context.Context, sess *Session, method, path string, query url.Values, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req.Header.Set("Authorization", "Bearer "+sess.AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("directory request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &DirectoryError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DirectoryError{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response body: %v", err)}
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&e); err == nil && e.Message != "" {
		return e.Message
	}
	return "request failed"
}
