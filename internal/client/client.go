// Package client calls the analysis endpoint over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sozercan/codelens/apimodels"
)

const AnalyzePath = "/analyze"

var errNullResult = errors.New("response body is null")

// Kind classifies why a call failed.
type Kind int

const (
	KindNetwork Kind = iota
	KindTimeout
	KindStatus
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindStatus:
		return "status"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Kind == KindStatus {
		return fmt.Sprintf("analyze request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("analyze request failed (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Client struct {
	baseURL      string
	httpClient   *http.Client
	acceptNonOK  bool
	maxBodyBytes int64
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithAcceptNonOK decodes non-2xx responses as results instead of failing with KindStatus.
func WithAcceptNonOK() Option {
	return func(c *Client) {
		c.acceptNonOK = true
	}
}

// New returns a client for the server at baseURL. Non-2xx responses fail
// with KindStatus by default instead of being decoded; use WithAcceptNonOK to
// decode them as results.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		maxBodyBytes: 8 << 20,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze posts req as JSON and decodes the AnalysisResult. The call is bounded
// by ctx; every failure is returned as *Error.
func (c *Client) Analyze(ctx context.Context, req apimodels.AnalysisRequest) (*apimodels.AnalysisResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: fmt.Errorf("encoding request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+AnalyzePath, bytes.NewReader(body))
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	slog.Debug("Sending analyze request", "url", httpReq.URL.String(), "language", req.Language)
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Err: err}
		}
		return nil, &Error{Kind: KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	if !c.acceptNonOK && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodyBytes))
		return nil, &Error{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	var result *apimodels.AnalysisResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBodyBytes)).Decode(&result); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &Error{Kind: KindTimeout, Err: err}
		}
		return nil, &Error{Kind: KindDecode, StatusCode: resp.StatusCode, Err: err}
	}
	if result == nil {
		return nil, &Error{Kind: KindDecode, StatusCode: resp.StatusCode, Err: errNullResult}
	}
	return result, nil
}
