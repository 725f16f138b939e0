package actionapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Client talks to an upstream action API: GET ?action=<name>&k=v... or
// POST {action, ...body}, both answered with the {success, data, error}
// envelope. Shared by the equipment proxy and the water meter fetcher.
type Client struct {
	baseURL        string
	token          string
	timeout        time.Duration
	maxRetries     int
	retryBaseDelay time.Duration
	httpClient     *http.Client

	// replaced in tests to observe backoff without waiting it out
	sleep func(ctx context.Context, d time.Duration) error
}

type Config struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// envelope is the upstream wire format.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *string         `json:"error,omitempty"`
}

func NewClient(config Config) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	retryBaseDelay := config.RetryBaseDelay
	if retryBaseDelay <= 0 {
		retryBaseDelay = time.Second
	}

	return &Client{
		baseURL:        config.BaseURL,
		token:          config.Token,
		timeout:        timeout,
		maxRetries:     config.MaxRetries,
		retryBaseDelay: retryBaseDelay,
		httpClient:     &http.Client{},
		sleep:          sleepContext,
	}
}

// Get issues an action request with params serialized as query members.
// Params with an empty value are skipped.
func (c *Client) Get(ctx context.Context, action string, params map[string]string) (json.RawMessage, error) {
	query := url.Values{}
	query.Set("action", action)
	for key, value := range params {
		if value == "" {
			continue
		}
		query.Set(key, value)
	}
	requestURL := c.baseURL + "?" + query.Encode()

	return c.doWithRetry(ctx, action, func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, requestURL, nil)
	})
}

// Post issues an action request with the action name merged into the
// JSON body.
func (c *Client) Post(ctx context.Context, action string, body map[string]interface{}) (json.RawMessage, error) {
	payload := make(map[string]interface{}, len(body)+1)
	for key, value := range body {
		payload[key] = value
	}
	payload["action"] = action

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %v", err)
	}

	return c.doWithRetry(ctx, action, func() (*http.Request, error) {
		req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(jsonData))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
}

// doWithRetry runs one attempt plus up to maxRetries retries for 5xx and
// network failures. Timeouts, 4xx and business errors surface on the
// first occurrence.
func (c *Client) doWithRetry(ctx context.Context, action string, buildRequest func() (*http.Request, error)) (json.RawMessage, error) {
	var lastErr *Error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := c.retryBaseDelay * (1 << (attempt - 1))
			log.Printf("actionapi -> retrying action %s (attempt %d/%d) after %v: %v", action, attempt, c.maxRetries, delay, lastErr)
			if err := c.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		data, apiErr := c.doOnce(ctx, buildRequest)
		if apiErr == nil {
			return data, nil
		}

		if !retryable(apiErr) {
			return nil, apiErr
		}
		lastErr = apiErr
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, buildRequest func() (*http.Request, error)) (json.RawMessage, *Error) {
	req, err := buildRequest()
	if err != nil {
		return nil, &Error{Kind: ErrKindNetwork, Message: err.Error(), Err: err}
	}

	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	req = req.WithContext(attemptCtx)

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		if isTimeout(err, attemptCtx) {
			return nil, &Error{Kind: ErrKindTimeout, Elapsed: elapsed, Message: err.Error(), Err: err}
		}
		return nil, &Error{Kind: ErrKindNetwork, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: ErrKindNetwork, Message: err.Error(), Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{Kind: ErrKindHTTP, Status: resp.StatusCode, Message: string(bodyBytes)}
	}

	var env envelope
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return nil, &Error{Kind: ErrKindNetwork, Message: fmt.Sprintf("failed to parse envelope: %v", err), Err: err}
	}

	if !env.Success {
		message := "upstream reported failure without a message"
		if env.Error != nil {
			message = *env.Error
		}
		return nil, &Error{Kind: ErrKindBusiness, Message: message}
	}

	return env.Data, nil
}

func retryable(apiErr *Error) bool {
	switch apiErr.Kind {
	case ErrKindNetwork:
		return true
	case ErrKindHTTP:
		return apiErr.Status >= 500
	default:
		return false
	}
}

func isTimeout(err error, attemptCtx context.Context) bool {
	if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
