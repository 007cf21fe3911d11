package search

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 1 << 20

// Recorder persists transport failures for later diagnosis.
type Recorder interface {
	RecordFailure(ctx context.Context, requestID, endpoint string, cause error) error
}

type Client struct {
	endpoint  string
	healthURL string
	http      *http.Client
	timeout   time.Duration
	recorder  Recorder
	newID     func() string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// WithTimeout bounds every request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

func WithHealthURL(healthURL string) Option {
	return func(c *Client) {
		if healthURL != "" {
			c.healthURL = healthURL
		}
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(c *Client) {
		c.recorder = recorder
	}
}

func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpoint,
		healthURL: DefaultHealthURL(endpoint),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		newID: uuid.NewString,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit runs one search and folds every possible failure into the returned
// Outcome. It never returns a partially filled result.
func (c *Client) Submit(ctx context.Context, q Query) Outcome {
	resp, err := c.Do(ctx, q)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			return validationOutcome()
		}

		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			transportErr = &TransportError{Endpoint: c.endpoint, Err: err}
		}

		slog.ErrorContext(ctx, "search request failed",
			slog.String("request_id", transportErr.RequestID),
			slog.String("endpoint", c.endpoint),
			slog.Any("error", transportErr.Err),
		)

		if c.recorder != nil {
			if err := c.recorder.RecordFailure(ctx, transportErr.RequestID, c.endpoint, transportErr.Err); err != nil {
				slog.WarnContext(ctx, "could not record transport failure", slog.Any("error", err))
			}
		}

		return transportOutcome(transportErr)
	}

	if !resp.Success {
		slog.InfoContext(ctx, "search returned no match",
			slog.String("request_id", resp.RequestID),
			slog.Int("status", resp.StatusCode),
			slog.String("error", resp.Error),
		)
		return applicationOutcome(resp)
	}

	slog.InfoContext(ctx, "search returned a match",
		slog.String("request_id", resp.RequestID),
		slog.Float64("confidence", resp.Person.Confidence),
	)

	return resultOutcome(resp)
}

// Do performs the raw exchange. Validation failures return ErrValidation
// without touching the network, everything else that goes wrong before a
// decoded body is available is a *TransportError. The body is decoded
// whatever the HTTP status, since the backend reports failures as JSON on
// 4xx and 5xx responses too.
func (c *Client) Do(ctx context.Context, q Query) (*Response, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	q = q.Normalize()

	requestID := c.newID()
	fail := func(err error) error {
		return &TransportError{RequestID: requestID, Endpoint: c.endpoint, Err: err}
	}

	body, err := encodeQuery(q)
	if err != nil {
		return nil, fail(err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fail(errors.Wrap(err, "could not build request"))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)

	slog.DebugContext(ctx, "submitting search",
		slog.String("request_id", requestID),
		slog.String("endpoint", c.endpoint),
		slog.String("company", q.Company),
		slog.String("designation", q.Designation),
	)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fail(errors.WithStack(err))
	}
	defer res.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return nil, fail(errors.Wrap(err, "could not read response body"))
	}

	resp, err := decodeResponse(data)
	if err != nil {
		return nil, fail(errors.Wrapf(err, "unexpected response (status %d)", res.StatusCode))
	}

	resp.StatusCode = res.StatusCode
	resp.RequestID = requestID

	return resp, nil
}

// Health probes the backend health endpoint.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.healthURL, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return errors.WithStack(err)
	}
	defer res.Body.Close() //nolint:errcheck

	if res.StatusCode != http.StatusOK {
		return errors.Errorf("health check returned status %d", res.StatusCode)
	}

	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(res.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return errors.Wrap(err, "could not decode health response")
	}

	if payload.Status != "healthy" {
		return errors.Errorf("backend reports status %q", payload.Status)
	}

	return nil
}

// DefaultHealthURL derives the health endpoint that sits next to the search
// endpoint: http://host/api/search becomes http://host/api/health.
func DefaultHealthURL(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return ""
	}

	dir := path.Dir(u.Path)
	if u.Path == "" || dir == "." {
		dir = "/"
	}
	u.Path = path.Join(dir, "health")
	u.RawQuery = ""
	u.Fragment = ""

	return u.String()
}

// encodeQuery writes the request body without HTML escaping so that names such
// as "Founder & CEO" go over the wire verbatim.
func encodeQuery(q Query) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(q); err != nil {
		return nil, errors.WithStack(err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
