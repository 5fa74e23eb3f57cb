package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"max.ks1230/spendwise/internal/logger"
)

const maxAttempts = 4

const (
	transientBackoffBase = 500 * time.Millisecond
	shortBackoffBase     = 100 * time.Millisecond
)

// ErrAuth means the API key was rejected. Never retried.
var ErrAuth = errors.New("text generation authentication failed")

// ErrNotConfigured means no endpoint is set; callers fall back locally.
var ErrNotConfigured = errors.New("text generation endpoint is not configured")

type config interface {
	ApiKey() string
	Endpoint() string
	Timeout() int64
}

type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

func New(config config) *Client {
	return &Client{
		endpoint: config.Endpoint(),
		apiKey:   config.ApiKey(),
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout()) * time.Second,
		},
	}
}

type completionRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters completionParameters `json:"parameters"`
}

type completionParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	Temperature  float64 `json:"temperature"`
}

type completionResponse struct {
	GeneratedText string `json:"generated_text"`
}

// Complete asks the inference endpoint for a completion. Rate-limit
// and service-unavailable answers are retried with exponential backoff,
// auth failures abort immediately, anything else gets a short-backoff
// retry, all capped at four attempts.
func (c *Client) Complete(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	if c.endpoint == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(completionRequest{
		Inputs: prompt,
		Parameters: completionParameters{
			MaxNewTokens: maxTokens,
			Temperature:  temperature,
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshalling completion request")
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		text, retryable, backoff, err := c.doOnce(ctx, body, attempt)
		if err == nil {
			return text, nil
		}
		if !retryable {
			return "", err
		}
		lastErr = err

		logger.Warn("completion attempt failed",
			zap.Int("attempt", attempt+1), zap.Error(err))
		if err = sleep(ctx, backoff); err != nil {
			return "", err
		}
	}
	return "", errors.Wrap(lastErr, "completion retries exhausted")
}

func (c *Client) doOnce(ctx context.Context, body []byte, attempt int) (text string, retryable bool, backoff time.Duration, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", false, 0, errors.Wrap(err, "building completion request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, shortBackoffBase << attempt, errors.Wrap(err, "completion request")
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return "", false, 0, ErrAuth
	case res.StatusCode == http.StatusTooManyRequests || res.StatusCode == http.StatusServiceUnavailable:
		return "", true, transientBackoffBase << attempt,
			errors.Errorf("completion endpoint busy (status %d)", res.StatusCode)
	case res.StatusCode < 200 || res.StatusCode > 299:
		return "", true, shortBackoffBase << attempt,
			errors.Errorf("completion failed (status %d)", res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", true, shortBackoffBase << attempt, errors.Wrap(err, "reading completion response")
	}
	text, err = parseCompletion(raw)
	if err != nil {
		return "", true, shortBackoffBase << attempt, err
	}
	return text, false, 0, nil
}

// parseCompletion accepts both response shapes the service emits: a
// list of objects or a single object carrying generated_text.
func parseCompletion(raw []byte) (string, error) {
	var list []completionResponse
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return cleanText(list[0].GeneratedText)
	}

	var single completionResponse
	if err := json.Unmarshal(raw, &single); err != nil {
		return "", errors.Wrap(err, "unmarshalling completion response")
	}
	return cleanText(single.GeneratedText)
}

func cleanText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty completion text")
	}
	return text, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
