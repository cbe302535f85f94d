// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package zabbix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"

	goversion "github.com/hashicorp/go-version"

	"github.com/bureau-foundation/czbx/lib/clock"
	"github.com/bureau-foundation/czbx/lib/netutil"
)

// endpointPath is the JSON-RPC endpoint under the frontend root.
const endpointPath = "/api_jsonrpc.php"

// bearerSince is the first server version that accepts the API token
// as an Authorization header. Earlier versions only accept the "auth"
// request member, which 7.2 removed.
var bearerSince = goversion.Must(goversion.NewVersion("6.4.0"))

// authMode is how the API token is attached to a request.
type authMode int

const (
	authNone authMode = iota
	authMember
	authBearer
)

// Config holds configuration for creating a Client.
type Config struct {
	// URL is the Zabbix frontend root, with or without the trailing
	// "/api_jsonrpc.php". Must be http or https.
	URL string

	// Token is the API token. Required.
	Token string

	// HTTPClient is used for all requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Clock stamps snapshot fetch times and time-window filters.
	// Defaults to clock.Real().
	Clock clock.Clock

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Client is a Zabbix JSON-RPC client. Safe for concurrent use.
type Client struct {
	baseURL    string
	endpoint   string
	token      string
	httpClient *http.Client
	clock      clock.Clock
	logger     *slog.Logger

	requestID atomic.Int64

	// negotiateMutex guards the lazily discovered server version and
	// the auth mode derived from it.
	negotiateMutex sync.Mutex
	serverVersion  *goversion.Version
	mode           authMode
}

// NewClient validates the configuration and returns a client. No
// request is made until the first method call.
func NewClient(config Config) (*Client, error) {
	if config.URL == "" {
		return nil, fmt.Errorf("zabbix: URL is required")
	}
	parsed, err := url.Parse(config.URL)
	if err != nil {
		return nil, fmt.Errorf("zabbix: invalid URL %q: %w", config.URL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("zabbix: URL must be http or https (got %q)", config.URL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("zabbix: URL has no host (got %q)", config.URL)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("zabbix: token is required")
	}

	baseURL := strings.TrimSuffix(strings.TrimRight(config.URL, "/"), endpointPath)

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		endpoint:   baseURL + endpointPath,
		token:      config.Token,
		httpClient: httpClient,
		clock:      clk,
		logger:     logger,
	}, nil
}

// BaseURL returns the frontend root, used to build event page links.
func (client *Client) BaseURL() string { return client.baseURL }

// APIVersion returns the server's API version. The first successful
// call is cached and also fixes the authentication mode.
func (client *Client) APIVersion(ctx context.Context) (*goversion.Version, error) {
	client.negotiateMutex.Lock()
	defer client.negotiateMutex.Unlock()
	return client.negotiateLocked(ctx)
}

func (client *Client) negotiateLocked(ctx context.Context) (*goversion.Version, error) {
	if client.serverVersion != nil {
		return client.serverVersion, nil
	}

	var raw string
	if err := client.do(ctx, "apiinfo.version", map[string]any{}, &raw, authNone); err != nil {
		return nil, err
	}
	parsed, err := goversion.NewVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("zabbix: unparseable API version %q: %w", raw, err)
	}

	client.serverVersion = parsed
	client.mode = authMember
	if parsed.Compare(bearerSince) >= 0 {
		client.mode = authBearer
	}
	client.logger.Debug("zabbix API version", "version", parsed.String(), "bearer", client.mode == authBearer)
	return parsed, nil
}

// call performs an authenticated request, negotiating the auth mode
// on first use.
func (client *Client) call(ctx context.Context, method string, params, result any) error {
	client.negotiateMutex.Lock()
	_, err := client.negotiateLocked(ctx)
	mode := client.mode
	client.negotiateMutex.Unlock()
	if err != nil {
		return err
	}
	return client.do(ctx, method, params, result, mode)
}

type requestEnvelope struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int64  `json:"id"`
	Auth    string `json:"auth,omitempty"`
}

type responseEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *APIError       `json:"error"`
	ID     int64           `json:"id"`
}

// do executes one JSON-RPC request and decodes the result into result
// (which may be nil).
func (client *Client) do(ctx context.Context, method string, params, result any, mode authMode) error {
	envelope := requestEnvelope{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      client.requestID.Add(1),
	}
	if mode == authMember {
		envelope.Auth = client.token
	}

	encoded, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("zabbix: encoding %s request: %w", method, err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, client.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("zabbix: creating request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json-rpc")
	if mode == authBearer {
		request.Header.Set("Authorization", "Bearer "+client.token)
	}

	started := client.clock.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("zabbix: %s: %w", method, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &HTTPError{StatusCode: response.StatusCode, Body: netutil.ErrorBody(response.Body)}
	}

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return fmt.Errorf("zabbix: reading %s response: %w", method, err)
	}

	var decoded responseEnvelope
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("zabbix: decoding %s response: %w", method, err)
	}
	if decoded.Error != nil {
		decoded.Error.Method = method
		return decoded.Error
	}
	if decoded.ID != envelope.ID {
		return fmt.Errorf("zabbix: %s response id %d does not match request id %d", method, decoded.ID, envelope.ID)
	}

	client.logger.Debug("zabbix request",
		"method", method,
		"bytes", len(body),
		"duration", client.clock.Now().Sub(started),
	)

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(decoded.Result, result); err != nil {
		return fmt.Errorf("zabbix: decoding %s result: %w", method, err)
	}
	return nil
}

// CheckAuthentication verifies that the configured token is accepted.
// A rejected token returns an *APIError for which IsNotAuthorized is
// true.
func (client *Client) CheckAuthentication(ctx context.Context) error {
	var session struct {
		Username string `json:"username"`
	}
	params := map[string]string{"token": client.token}
	if err := client.do(ctx, "user.checkAuthentication", params, &session, authNone); err != nil {
		return err
	}
	client.logger.Debug("zabbix token accepted", "username", session.Username)
	return nil
}
