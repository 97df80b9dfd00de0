// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/crypto"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/models"
)

// responseBodyLimit caps how much of a peer error body is carried into
// error messages and logs.
const responseBodyLimit = 256

// httpPeerClient is the HTTP/REST implementation of [PeerClient].
type httpPeerClient struct {
	client *resty.Client
	host   models.RemoteHost
	cipher crypto.TokenCipher

	connectTimeout time.Duration

	token  string
	authed bool

	logger *logger.Logger
}

// NewHTTPPeerClient constructs a [PeerClient] session for one peer. The
// stored bearer token stays encrypted until Authenticate is called.
func NewHTTPPeerClient(host models.RemoteHost, cipher crypto.TokenCipher, cfg config.Sync, log *logger.Logger) PeerClient {
	cli := resty.New().
		SetBaseURL(strings.TrimRight(host.BaseURL(), "/")).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Accept", "application/json")

	return &httpPeerClient{
		client:         cli,
		host:           host,
		cipher:         cipher,
		connectTimeout: cfg.ConnectTimeout,
		logger:         log,
	}
}

// NewFactory returns a [Factory] binding cipher and cfg, so the sync
// orchestrator can open one session per run.
func NewFactory(cipher crypto.TokenCipher, cfg config.Sync, log *logger.Logger) Factory {
	return func(host models.RemoteHost) PeerClient {
		return NewHTTPPeerClient(host, cipher, cfg, log)
	}
}

// TestConnection implements [PeerClient].
func (c *httpPeerClient) TestConnection(ctx context.Context) models.ConnectionCheck {
	probeCtx, cancel := context.WithTimeout(ctx, c.connectTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.R().SetContext(probeCtx).Get("/api/")
	rtt := time.Since(start)

	if err != nil {
		return models.ConnectionCheck{
			Success:   false,
			ErrorKind: classifyTransportError(err),
			Message:   err.Error(),
			RTT:       rtt,
		}
	}

	if resp.StatusCode() != http.StatusOK {
		return models.ConnectionCheck{
			Success:   false,
			ErrorKind: ConnKindRequestFailed,
			Message:   fmt.Sprintf("api root returned http %d", resp.StatusCode()),
			RTT:       rtt,
		}
	}

	return models.ConnectionCheck{Success: true, RTT: rtt}
}

// Authenticate implements [PeerClient].
func (c *httpPeerClient) Authenticate(ctx context.Context) (models.RemoteIdentity, error) {
	if !c.host.HasToken() {
		return models.RemoteIdentity{}, &AuthError{
			Kind:    AuthKindNoToken,
			Message: fmt.Sprintf("no token stored for remote host %q", c.host.Name),
		}
	}

	token, err := c.cipher.Decrypt(c.host.EncryptedToken)
	if err != nil {
		return models.RemoteIdentity{}, &AuthError{
			Kind:    AuthKindCorruptedToken,
			Message: fmt.Sprintf("cannot decrypt token for remote host %q: %v", c.host.Name, err),
		}
	}
	c.token = token

	resp, err := c.authedRequest(ctx).Get("/api/user/")
	if err != nil {
		return models.RemoteIdentity{}, &AuthError{
			Kind:    AuthKindRequestFailed,
			Message: fmt.Sprintf("whoami request: %v", err),
		}
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var identity models.RemoteIdentity
		// The identity payload shape is peer-defined; decode best effort.
		_ = json.Unmarshal(resp.Body(), &identity)
		c.authed = true
		return identity, nil

	case http.StatusUnauthorized:
		return models.RemoteIdentity{}, &AuthError{
			Kind:       AuthKindInvalidCredentials,
			StatusCode: resp.StatusCode(),
			Message:    "peer rejected the stored token",
		}

	default:
		return models.RemoteIdentity{}, &AuthError{
			Kind:       AuthKindRequestFailed,
			StatusCode: resp.StatusCode(),
			Message:    truncateBody(resp.Body()),
		}
	}
}

// ListObjects implements [PeerClient].
func (c *httpPeerClient) ListObjects(ctx context.Context, path string, params map[string]string, limit int) ([]map[string]any, error) {
	if !c.authed {
		return nil, ErrNotAuthenticated
	}

	req := c.authedRequest(ctx)
	for k, v := range params {
		req.SetQueryParam(k, v)
	}
	if limit > 0 {
		req.SetQueryParam("limit", strconv.Itoa(limit))
	}

	resp, err := req.Get("/api/" + path + "/")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &RequestError{StatusCode: resp.StatusCode(), Body: truncateBody(resp.Body())}
	}

	return decodeObjectList(resp.Body())
}

// GetObject implements [PeerClient].
func (c *httpPeerClient) GetObject(ctx context.Context, path string, remoteID int64) (map[string]any, error) {
	if !c.authed {
		return nil, ErrNotAuthenticated
	}

	resp, err := c.authedRequest(ctx).Get(objectURL(path, remoteID))
	if err != nil {
		return nil, fmt.Errorf("get %s/%d: %w", path, remoteID, err)
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		var obj map[string]any
		if err = json.Unmarshal(resp.Body(), &obj); err != nil {
			return nil, fmt.Errorf("decode %s/%d: %w", path, remoteID, err)
		}
		return obj, nil
	case http.StatusNotFound:
		return nil, ErrRemoteNotFound
	default:
		return nil, &RequestError{StatusCode: resp.StatusCode(), Body: truncateBody(resp.Body())}
	}
}

// CreateObject implements [PeerClient].
func (c *httpPeerClient) CreateObject(ctx context.Context, path string, payload map[string]any) (map[string]any, error) {
	if !c.authed {
		return nil, ErrNotAuthenticated
	}

	resp, err := c.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post("/api/" + path + "/")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return nil, &RequestError{StatusCode: resp.StatusCode(), Body: truncateBody(resp.Body())}
	}

	var created map[string]any
	if err = json.Unmarshal(resp.Body(), &created); err != nil {
		return nil, fmt.Errorf("decode created %s: %w", path, err)
	}
	return created, nil
}

// UpdateObject implements [PeerClient].
func (c *httpPeerClient) UpdateObject(ctx context.Context, path string, remoteID int64, payload map[string]any) error {
	if !c.authed {
		return ErrNotAuthenticated
	}

	resp, err := c.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Put(objectURL(path, remoteID))
	if err != nil {
		return fmt.Errorf("update %s/%d: %w", path, remoteID, err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return &RequestError{StatusCode: resp.StatusCode(), Body: truncateBody(resp.Body())}
	}

	return nil
}

// TestAPIAccess implements [PeerClient].
func (c *httpPeerClient) TestAPIAccess(ctx context.Context, path string) error {
	_, err := c.ListObjects(ctx, path, nil, 1)
	return err
}

// RemoteInfo implements [PeerClient].
func (c *httpPeerClient) RemoteInfo(ctx context.Context, paths []string) (models.RemoteInfo, error) {
	info := models.RemoteInfo{Endpoints: make(map[string]bool, len(paths))}

	info.Connection = c.TestConnection(ctx)
	if !info.Connection.Success {
		return info, nil
	}

	identity, err := c.Authenticate(ctx)
	if err != nil {
		return info, err
	}
	info.Identity = identity

	for _, p := range paths {
		info.Endpoints[p] = c.TestAPIAccess(ctx, p) == nil
	}

	return info, nil
}

// Close implements [PeerClient].
func (c *httpPeerClient) Close() {
	c.token = ""
	c.authed = false
	c.client.GetClient().CloseIdleConnections()
}

func (c *httpPeerClient) authedRequest(ctx context.Context) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if c.token != "" {
		req.SetHeader("Authorization", "Token "+c.token)
	}
	return req
}

func objectURL(path string, remoteID int64) string {
	return fmt.Sprintf("/api/%s/%d/", path, remoteID)
}

// decodeObjectList accepts either a paginated envelope with a "results"
// array or a bare JSON array. Anything empty decodes to zero objects.
func decodeObjectList(body []byte) ([]map[string]any, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var list []map[string]any
		if err := json.Unmarshal(body, &list); err != nil {
			return nil, fmt.Errorf("decode object list: %w", err)
		}
		return list, nil
	}

	var envelope struct {
		Results []map[string]any `json:"results"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode object envelope: %w", err)
	}
	return envelope.Results, nil
}

func classifyTransportError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return ConnKindTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ConnKindTimeout
	}

	if errors.Is(err, syscall.ECONNREFUSED) {
		return ConnKindRefused
	}

	return ConnKindRequestFailed
}

func truncateBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > responseBodyLimit {
		return s[:responseBodyLimit] + "..."
	}
	return s
}
