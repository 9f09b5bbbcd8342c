// Package taxgw is the HTTP gateway to the external tax logging service.
package taxgw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"duplo-orders/domain/taxjob"
	"duplo-orders/infrastructure/retry"
	"duplo-orders/pkg/logger"

	"go.uber.org/zap"
)

// maxResponseBytes caps how much of the tax service response is read.
const maxResponseBytes = 1 << 20

// Client calls the tax service with a bounded per-call timeout and a
// call-level retry budget. This retry layer is independent of queue
// redelivery; both together bound the total number of external calls.
type Client struct {
	httpClient *http.Client
	url        string
	retryCfg   retry.Config
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient Create tax gateway client
func NewClient(url string, timeout time.Duration, maxAttempts int, opts ...Option) *Client {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	c := &Client{
		httpClient: &http.Client{Timeout: timeout},
		url:        url,
		retryCfg: retry.Config{
			MaxAttempts:   maxAttempts,
			InitialDelay:  500 * time.Millisecond,
			MaxDelay:      5 * time.Second,
			BackoffFactor: 2.0,
			JitterEnabled: true,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LogTax posts the order data to the tax service and returns the decoded
// response body. Every failure mode, including HTTP error statuses, is
// retried up to the configured attempt budget.
func (c *Client) LogTax(ctx context.Context, data taxjob.OrderData) (map[string]interface{}, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tax request: %w", err)
	}

	var response map[string]interface{}
	err = retry.Do(ctx, c.retryCfg, func(ctx context.Context) error {
		result, callErr := c.call(ctx, body)
		if callErr != nil {
			logger.Warn("Tax service call failed",
				zap.String("order_id", data.OrderID),
				zap.Error(callErr),
			)
			return callErr
		}
		response = result
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

func (c *Client) call(ctx context.Context, body []byte) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build tax request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tax service request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read tax response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("tax service returned status %d", resp.StatusCode)
	}

	result := map[string]interface{}{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			// Non-JSON bodies are kept verbatim rather than discarded.
			result = map[string]interface{}{"raw": string(raw)}
		}
	}
	return result, nil
}
