package aigen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cognigen/cognigen-backend/internal/observability"
	"github.com/cognigen/cognigen-backend/internal/platform/ctxutil"
	"github.com/cognigen/cognigen-backend/internal/platform/httpx"
	"github.com/cognigen/cognigen-backend/internal/platform/logger"
)

const (
	PathGenerationPath   = "/api/generate-learning-path"
	TopicContentPath     = "/api/generate-topic-content"
	MiniQuizPath         = "/api/generate-mini-quiz"
	DefaultBaseURL       = "http://localhost:8000"
	DefaultTimeout       = 600 * time.Second
	DefaultMaxRetries    = 1
	maxRetryBackoff      = 10 * time.Second
	maxErrorBodyInLogMsg = 512
)

// ErrMalformedResponse marks a 2xx reply whose body does not have the expected shape.
var ErrMalformedResponse = errors.New("invalid AI response format")

// Client talks to the content generation service.
type Client interface {
	GenerateLearningPath(ctx context.Context, req PathRequest) (*PathResponse, error)
	GenerateTopicContent(ctx context.Context, req TopicContentRequest) (*TopicContentResponse, error)
	GenerateMiniQuiz(ctx context.Context, req QuizRequest) (*QuizResponse, error)
}

type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type client struct {
	log        *logger.Logger
	baseURL    string
	httpClient *http.Client
	maxRetries int
}

func NewClient(log *logger.Logger, cfg Config) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &client{
		log:        log.With("service", "AIGenClient"),
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
	}, nil
}

// HTTPError is a non-2xx reply. Detail carries the FastAPI "detail" field when present.
type HTTPError struct {
	StatusCode int
	Detail     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ai service http %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("ai service http %d: %s", e.StatusCode, truncate(e.Body, maxErrorBodyInLogMsg))
}

func (e *HTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) GenerateLearningPath(ctx context.Context, req PathRequest) (*PathResponse, error) {
	if req.CustomTopics == nil {
		req.CustomTopics = []string{}
	}
	var out PathResponse
	if err := c.do(ctx, PathGenerationPath, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *client) GenerateTopicContent(ctx context.Context, req TopicContentRequest) (*TopicContentResponse, error) {
	if req.Submodules == nil {
		req.Submodules = []SubmoduleOutline{}
	}
	var raw map[string]json.RawMessage
	if err := c.do(ctx, TopicContentPath, req, &raw); err != nil {
		return nil, err
	}
	content, ok := raw["content"]
	if !ok || !isJSONArray(content) {
		return nil, fmt.Errorf("%w: missing content array", ErrMalformedResponse)
	}
	var out TopicContentResponse
	if err := json.Unmarshal(content, &out.Content); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

func (c *client) GenerateMiniQuiz(ctx context.Context, req QuizRequest) (*QuizResponse, error) {
	if req.Cells == nil {
		req.Cells = []QuizCell{}
	}
	var raw map[string]json.RawMessage
	if err := c.do(ctx, MiniQuizPath, req, &raw); err != nil {
		return nil, err
	}
	quiz, ok := raw["quiz"]
	if !ok || !isJSONArray(quiz) {
		return nil, fmt.Errorf("%w: missing quiz array", ErrMalformedResponse)
	}
	var out QuizResponse
	if err := json.Unmarshal(quiz, &out.Quiz); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &out, nil
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctxutil.Default(ctx), http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if reqID := ctxutil.RequestID(ctx); reqID != "" {
		req.Header.Set("X-Request-Id", reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &HTTPError{StatusCode: resp.StatusCode, Detail: fastAPIDetail(raw), Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	backoff := 1 * time.Second
	start := time.Now()
	metrics := observability.Current()

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			metrics.ObserveAIRequest(path, "canceled", time.Since(start))
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				metrics.ObserveAIRequest(path, "malformed", time.Since(start))
				return fmt.Errorf("%w: %v", ErrMalformedResponse, uErr)
			}
			metrics.ObserveAIRequest(path, "ok", time.Since(start))
			return nil
		}

		if !httpx.IsRetryableError(err) || attempt == c.maxRetries {
			metrics.ObserveAIRequest(path, outcomeOf(err), time.Since(start))
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, maxRetryBackoff)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("AI service request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		if sErr := httpx.Sleep(ctx, sleepFor); sErr != nil {
			metrics.ObserveAIRequest(path, "canceled", time.Since(start))
			return sErr
		}
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

func outcomeOf(err error) string {
	if httpx.IsTimeout(err) {
		return "timeout"
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return fmt.Sprintf("http_%d", he.StatusCode)
	}
	return "error"
}

// fastAPIDetail extracts "detail", which FastAPI sends as a string or as a list
// of validation errors.
func fastAPIDetail(raw []byte) string {
	var body struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(body.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body.Detail); err != nil {
		return ""
	}
	return truncate(compact.String(), maxErrorBodyInLogMsg)
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
