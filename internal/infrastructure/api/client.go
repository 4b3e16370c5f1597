// Package api implements the platform REST gateway over HTTP. It is the
// only component that talks to the platform's request/response surface;
// every state-carrying response it returns is a patch the caller folds
// into the container verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/platform"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/domain/shared"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/config"
	"github.com/VersaceXcodes/ai-powered-e-commerce-platform-sub001/internal/infrastructure/telemetry"
)

const (
	// maxResponseSize limits the response body size to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB max response

	defaultTimeout = 15 * time.Second
)

// Client implements platform.Gateway against the platform's REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     platform.TokenSource
	validate   *validator.Validate
	metrics    *telemetry.RuntimeMetrics
}

var _ platform.Gateway = (*Client)(nil)

// Option configures optional client collaborators.
type Option func(*Client)

// WithMetrics wires runtime metrics into the client.
func WithMetrics(m *telemetry.RuntimeMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithHTTPClient replaces the default HTTP client, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a REST client for the given platform endpoint.
func NewClient(cfg config.APIConfig, tokens platform.TokenSource, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("api: base URL is required")
	}
	if tokens == nil {
		return nil, errors.New("api: token source is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		validate:   newValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// call issues one request and records its outcome. op names the
// operation for metrics ("cart.refresh", "auth.login").
func (c *Client) call(ctx context.Context, op, method, path string, payload, out any) error {
	start := time.Now()
	err := c.do(ctx, method, path, payload, out)

	outcome := telemetry.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, platform.ErrUnauthorized):
		outcome = telemetry.OutcomeUnauthorized
	default:
		outcome = telemetry.OutcomeError
	}
	c.metrics.RecordAPIRequest(ctx, op, outcome, time.Since(start))

	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("api: failed to marshal request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", platform.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("api: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", platform.ErrInvalidResponse, err)
	}
	return nil
}

// decodeError turns an error response into a RequestError. The platform
// answers errors with the shared {code,message} envelope; when the body
// is not that envelope the HTTP status carries the meaning alone.
func decodeError(status int, raw []byte) error {
	reqErr := &platform.RequestError{StatusCode: status}

	var env shared.DomainError
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		reqErr.Code = env.Code
		reqErr.Message = env.Message
	}
	return reqErr
}

// newValidator names fields by their JSON tag so validation errors read
// like the wire format, not like Go structs.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateInput checks a tagged input struct before it goes on the wire.
func (c *Client) validateInput(in any) error {
	err := c.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		return shared.NewDomainError("VALIDATION_ERROR", e.Field()+": "+validationMessage(e))
	}
	return shared.NewDomainError("VALIDATION_ERROR", "invalid input")
}

// validationMessage returns a human-readable message for a failed rule.
func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "min":
		if e.Type().Kind() == reflect.String {
			return "must be at least " + e.Param() + " characters"
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Type().Kind() == reflect.String {
			return "must be at most " + e.Param() + " characters"
		}
		return "must be at most " + e.Param()
	default:
		return "invalid value"
	}
}
