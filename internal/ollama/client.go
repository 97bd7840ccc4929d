// Package ollama performs single prompt-completion round trips against a local
// Ollama server and reports either the generated text or a classified failure.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/isaacphi/mcp-ollama-link/internal/domain"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultTimeout = 30 * time.Second

	// NoResponseContent replaces a missing "response" field in a 200 reply
	NoResponseContent = "No response content"
)

type Options struct {
	BaseURL      string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	Logger       *slog.Logger
}

// Client holds read-only connection settings. It keeps no connections between
// calls, so it is safe for concurrent use.
type Client struct {
	baseURL      string
	timeout      time.Duration
	probeTimeout time.Duration
	logger       *slog.Logger
}

func New(opts Options) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		timeout:      opts.Timeout,
		probeTimeout: opts.ProbeTimeout,
		logger:       opts.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.probeTimeout <= 0 || c.probeTimeout > c.timeout {
		c.probeTimeout = c.timeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// newHTTPClient returns a client with its own transport so that nothing is
// shared between calls. The returned func releases its connections.
func newHTTPClient() (*http.Client, func()) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	return &http.Client{Transport: transport}, transport.CloseIdleConnections
}

// Probe checks that the server answers GET /api/version with a 2xx status
func (c *Client) Probe(ctx context.Context) error {
	httpClient, release := newHTTPClient()
	defer release()
	return c.probe(ctx, httpClient)
}

func (c *Client) probe(ctx context.Context, httpClient *http.Client) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/version", nil)
	if err != nil {
		return unexpected(err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		switch {
		case isTimeout(err):
			return newError(domain.ErrorKindTimeout, err, "Timeout while checking Ollama server")
		case errors.Is(err, context.Canceled):
			return unexpected(err)
		default:
			return newError(domain.ErrorKindUnreachable, err, "Failed to connect to Ollama server")
		}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode/100 != 2 {
		e := newError(domain.ErrorKindUnreachable, nil, "Ollama server is not healthy: status code %d", resp.StatusCode)
		e.StatusCode = resp.StatusCode
		return e
	}
	return nil
}

// Generate probes the server and, if it is alive, asks model to complete
// prompt without streaming. A returned error is always an *Error.
func (c *Client) Generate(ctx context.Context, model, prompt string) (string, error) {
	httpClient, release := newHTTPClient()
	defer release()

	logger := c.logger.With("model", model)

	if err := c.probe(ctx, httpClient); err != nil {
		logger.Warn("ollama probe failed", "error", err, "base_url", c.baseURL)
		return "", err
	}

	text, err := c.generate(ctx, httpClient, GenerateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		logger.Warn("ollama generate failed", "error", err, "kind", KindOf(err).String())
		return "", err
	}

	logger.Debug("ollama generate done", "prompt_len", len(prompt), "response_len", len(text))
	return text, nil
}

func (c *Client) generate(ctx context.Context, httpClient *http.Client, payload GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return "", unexpected(errors.Wrap(err, "encode request"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", unexpected(err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug("ollama generate request", "model", payload.Model, "prompt", payload.Prompt)

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		e := newError(domain.ErrorKindStatus, nil, "Ollama returned status code: %d", resp.StatusCode)
		e.StatusCode = resp.StatusCode
		var detail ErrorResponse
		if json.Unmarshal(raw, &detail) == nil && detail.Error != "" {
			e.Message += " (" + detail.Error + ")"
		}
		return "", e
	}

	var out GenerateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", newError(domain.ErrorKindMalformed, err, "Malformed response from Ollama: %v", err)
	}
	if out.Response == nil {
		return NoResponseContent, nil
	}
	return *out.Response, nil
}

// transportError classifies a failure that happened after the probe succeeded
func transportError(err error) *Error {
	switch {
	case isTimeout(err):
		return newError(domain.ErrorKindTimeout, err, "Timeout while waiting for Ollama response")
	case errors.Is(err, context.Canceled):
		return unexpected(err)
	default:
		return newError(domain.ErrorKindUnreachable, err, "Lost connection to Ollama server during query")
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
