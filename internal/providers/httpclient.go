package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultHTTPTimeout is the per-request timeout clients use unless the
// caller supplies a shorter context deadline.
const DefaultHTTPTimeout = 120 * time.Second

// NewHTTPClient returns the http.Client answer API clients share.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: DefaultHTTPTimeout,
	}
}

// DoJSON executes an HTTP request with a JSON body, checks the status
// code, and decodes the response into a generic map. The raw body is
// returned alongside so callers can persist the untouched payload.
func DoJSON(ctx context.Context, client *http.Client, method, url string, headers map[string]string, payload interface{}) (map[string]interface{}, []byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, respBody, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var data map[string]interface{}
	if err := json.Unmarshal(respBody, &data); err != nil {
		return nil, respBody, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return data, respBody, nil
}
