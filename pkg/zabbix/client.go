package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// apiPath is the single JSON-RPC endpoint under the frontend base URL.
const apiPath = "/api_jsonrpc.php"

// defaultTimeout is the transport default. The engine itself configures no
// retries; a slow or dead server surfaces as a call error.
const defaultTimeout = 10 * time.Second

// CallObserver is notified after every API call. Used to feed metrics
// without coupling the client to a metrics registry.
type CallObserver func(method string, err error, elapsed time.Duration)

// Client is the handle every reconciliation step shares. It is created
// once by Connect and read-only afterwards.
type Client struct {
	endpoint string
	token    string
	conv     convention
	http     *http.Client
	log      zerolog.Logger
	observe  CallObserver
	nextID   atomic.Int64

	// Version is the full version string the server reported.
	Version string

	// Major and Minor are the parsed version components that selected the
	// authentication convention.
	Major, Minor int
}

// Option customizes a client before the first request is made.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger; calls are logged at debug level.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "zabbix").Logger() }
}

// WithObserver registers a per-call observer.
func WithObserver(obs CallObserver) Option {
	return func(c *Client) { c.observe = obs }
}

// Connect probes the server version, binds the matching authentication
// convention, and verifies the credential with one authenticated read.
// It fails with *ConnectivityError when the server is unreachable or the
// version is unparsable, and with *AuthenticationError when the credential
// is rejected. Both happen before any mutating call.
func Connect(ctx context.Context, baseURL, token string, opts ...Option) (*Client, error) {
	c := &Client{
		endpoint: strings.TrimRight(baseURL, "/") + apiPath,
		token:    token,
		http:     &http.Client{Timeout: defaultTimeout},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	// apiinfo.version must be called without authentication on every
	// Zabbix release, so it needs no convention.
	raw, err := c.do(ctx, "apiinfo.version", struct{}{}, nil)
	if err != nil {
		return nil, &ConnectivityError{URL: baseURL, Err: err}
	}
	var version string
	if err := json.Unmarshal(raw, &version); err != nil || version == "" {
		return nil, &ConnectivityError{URL: baseURL, Err: fmt.Errorf("unparsable version response %q", raw)}
	}

	major, minor, err := parseVersion(version)
	if err != nil {
		return nil, &ConnectivityError{URL: baseURL, Err: err}
	}

	c.Version = version
	c.Major = major
	c.Minor = minor
	c.conv = conventionFor(major, minor)

	c.log.Info().
		Str("version", version).
		Str("auth_convention", c.conv.Name()).
		Msg("connected to Zabbix API")

	// One authenticated read proves the credential before the pipeline
	// issues anything that mutates state.
	if _, err := c.Call(ctx, "user.get", map[string]interface{}{
		"output": []string{"userid"},
		"limit":  1,
	}); err != nil {
		return nil, &AuthenticationError{Err: err}
	}

	return c, nil
}

// Call issues one authenticated JSON-RPC request through the bound
// convention and returns the raw result member.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.do(ctx, method, params, c.conv)
	if c.observe != nil {
		c.observe(method, err, time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// rpcResponse is the JSON-RPC envelope of a response.
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
}

func (c *Client) do(ctx context.Context, method string, params interface{}, conv convention) (json.RawMessage, error) {
	if params == nil {
		params = struct{}{}
	}
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"method":  method,
		"params":  params,
		"id":      c.nextID.Add(1),
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	if conv != nil {
		conv.Apply(body, header, c.token)
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	req.Header = header

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%s: decoding response: %w", method, err)
	}
	if decoded.Error != nil {
		c.log.Debug().Str("method", method).Err(decoded.Error).Msg("API call failed")
		return nil, fmt.Errorf("%s: %w", method, decoded.Error)
	}

	c.log.Debug().Str("method", method).Msg("API call succeeded")
	return decoded.Result, nil
}

// parseVersion extracts major.minor from a version string like "7.0.10".
func parseVersion(v string) (major, minor int, err error) {
	parts := strings.Split(strings.TrimSpace(v), ".")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unparsable version string %q", v)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("unparsable version string %q", v)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("unparsable version string %q", v)
	}
	return major, minor, nil
}
