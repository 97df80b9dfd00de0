package adapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlims/labsync/internal/config"
	"github.com/openlims/labsync/internal/crypto"
	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/models"
)

const testSecret = "adapter-test-secret"

func testCipher(t *testing.T) crypto.TokenCipher {
	t.Helper()
	c, err := crypto.NewTokenCipher(testSecret)
	require.NoError(t, err)
	return c
}

func hostFor(t *testing.T, srvURL string, encryptedToken []byte) models.RemoteHost {
	t.Helper()

	u, err := url.Parse(srvURL)
	require.NoError(t, err)
	port, err := strconv.Atoi(u.Port())
	require.NoError(t, err)

	return models.RemoteHost{
		ID:             1,
		Name:           "test-peer",
		Host:           u.Hostname(),
		Port:           port,
		Protocol:       u.Scheme,
		EncryptedToken: encryptedToken,
	}
}

func newTestClient(t *testing.T, srvURL string, token string) PeerClient {
	t.Helper()

	cipher := testCipher(t)
	var blob []byte
	if token != "" {
		var err error
		blob, err = cipher.Encrypt(token)
		require.NoError(t, err)
	}

	cfg := config.Sync{ConnectTimeout: 2 * time.Second, RequestTimeout: 5 * time.Second}
	return NewHTTPPeerClient(hostFor(t, srvURL, blob), cipher, cfg, logger.Nop())
}

// authedServer answers the whoami endpoint for "Token good" and delegates
// everything else to next.
func authedServer(t *testing.T, next http.HandlerFunc) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/user/" {
			if r.Header.Get("Authorization") != "Token good" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_ = json.NewEncoder(w).Encode(models.RemoteIdentity{ID: 42, Username: "peer-admin"})
			return
		}
		if next != nil {
			next(w, r)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTestConnection_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, "good")
	check := c.TestConnection(context.Background())

	assert.True(t, check.Success)
	assert.Empty(t, check.ErrorKind)
	assert.Greater(t, check.RTT, time.Duration(0))
}

func TestTestConnection_Refused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srvURL := srv.URL
	srv.Close()

	c := newTestClient(t, srvURL, "good")
	check := c.TestConnection(context.Background())

	assert.False(t, check.Success)
	assert.Equal(t, ConnKindRefused, check.ErrorKind)
}

func TestTestConnection_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	cipher := testCipher(t)
	cfg := config.Sync{ConnectTimeout: 50 * time.Millisecond, RequestTimeout: 5 * time.Second}
	c := NewHTTPPeerClient(hostFor(t, srv.URL, nil), cipher, cfg, logger.Nop())

	check := c.TestConnection(context.Background())
	assert.False(t, check.Success)
	assert.Equal(t, ConnKindTimeout, check.ErrorKind)
}

func TestTestConnection_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, "good")
	check := c.TestConnection(context.Background())

	assert.False(t, check.Success)
	assert.Equal(t, ConnKindRequestFailed, check.ErrorKind)
}

func TestAuthenticate_NoToken(t *testing.T) {
	srv := authedServer(t, nil)
	c := newTestClient(t, srv.URL, "")

	_, err := c.Authenticate(context.Background())
	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthKindNoToken, ae.Kind)
}

func TestAuthenticate_CorruptedToken(t *testing.T) {
	srv := authedServer(t, nil)

	cipher := testCipher(t)
	host := hostFor(t, srv.URL, []byte{0xde, 0xad})
	cfg := config.Sync{ConnectTimeout: time.Second, RequestTimeout: time.Second}
	c := NewHTTPPeerClient(host, cipher, cfg, logger.Nop())

	_, err := c.Authenticate(context.Background())
	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthKindCorruptedToken, ae.Kind)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	srv := authedServer(t, nil)
	c := newTestClient(t, srv.URL, "stale")

	_, err := c.Authenticate(context.Background())
	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthKindInvalidCredentials, ae.Kind)
	assert.Equal(t, http.StatusUnauthorized, ae.StatusCode)
}

func TestAuthenticate_RequestFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("database exploded"))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, srv.URL, "good")
	_, err := c.Authenticate(context.Background())
	ae, ok := AsAuthError(err)
	require.True(t, ok)
	assert.Equal(t, AuthKindRequestFailed, ae.Kind)
	assert.Equal(t, http.StatusInternalServerError, ae.StatusCode)
	assert.Contains(t, ae.Message, "database exploded")
}

func TestAuthenticate_Success(t *testing.T) {
	srv := authedServer(t, nil)
	c := newTestClient(t, srv.URL, "good")

	identity, err := c.Authenticate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), identity.ID)
	assert.Equal(t, "peer-admin", identity.Username)
}

func TestListObjects_RequiresAuth(t *testing.T) {
	srv := authedServer(t, nil)
	c := newTestClient(t, srv.URL, "good")

	_, err := c.ListObjects(context.Background(), "protocol", nil, 10)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestListObjects_Envelope(t *testing.T) {
	srv := authedServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/protocol/", r.URL.Path)
		assert.Equal(t, "25", r.URL.Query().Get("limit"))
		assert.Equal(t, "Token good", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"results": [{"id": 1}, {"id": 2}]}`))
	})

	c := newTestClient(t, srv.URL, "good")
	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	objs, err := c.ListObjects(context.Background(), "protocol", nil, 25)
	require.NoError(t, err)
	assert.Len(t, objs, 2)
}

func TestListObjects_BareArrayAndEmpty(t *testing.T) {
	payloads := map[string]string{
		"tag":        `[{"id": 9}]`,
		"instrument": ``,
	}
	srv := authedServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tag/":
			_, _ = w.Write([]byte(payloads["tag"]))
		case "/api/instrument/":
			_, _ = w.Write([]byte(payloads["instrument"]))
		}
	})

	c := newTestClient(t, srv.URL, "good")
	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	objs, err := c.ListObjects(context.Background(), "tag", nil, 0)
	require.NoError(t, err)
	assert.Len(t, objs, 1)

	objs, err = c.ListObjects(context.Background(), "instrument", nil, 0)
	require.NoError(t, err)
	assert.Empty(t, objs)
}

func TestGetObject_NotFound(t *testing.T) {
	srv := authedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := newTestClient(t, srv.URL, "good")
	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	_, err = c.GetObject(context.Background(), "protocol", 77)
	assert.ErrorIs(t, err, ErrRemoteNotFound)
}

func TestGetObject_HardError(t *testing.T) {
	srv := authedServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("nope"))
	})

	c := newTestClient(t, srv.URL, "good")
	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	_, err = c.GetObject(context.Background(), "protocol", 77)
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusForbidden, reqErr.StatusCode)
}

func TestCreateObject(t *testing.T) {
	srv := authedServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/protocol/", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "PCR v2", payload["protocol_title"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 999, "protocol_title": "PCR v2"})
	})

	c := newTestClient(t, srv.URL, "good")
	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	created, err := c.CreateObject(context.Background(), "protocol", map[string]any{"protocol_title": "PCR v2"})
	require.NoError(t, err)
	assert.EqualValues(t, 999, created["id"])
}

func TestUpdateObject_Error(t *testing.T) {
	srv := authedServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/protocol/5/", r.URL.Path)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("validation failed"))
	})

	c := newTestClient(t, srv.URL, "good")
	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	err = c.UpdateObject(context.Background(), "protocol", 5, map[string]any{"x": 1})
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)
	assert.Contains(t, reqErr.Body, "validation failed")
}

func TestRemoteInfo(t *testing.T) {
	srv := authedServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/", "/api/protocol/":
			_, _ = w.Write([]byte(`{"results": []}`))
		default:
			w.WriteHeader(http.StatusForbidden)
		}
	})

	c := newTestClient(t, srv.URL, "good")
	info, err := c.RemoteInfo(context.Background(), []string{"protocol", "session"})
	require.NoError(t, err)

	assert.True(t, info.Connection.Success)
	assert.Equal(t, "peer-admin", info.Identity.Username)
	assert.True(t, info.Endpoints["protocol"])
	assert.False(t, info.Endpoints["session"])
}

func TestClose_ResetsSession(t *testing.T) {
	srv := authedServer(t, nil)
	c := newTestClient(t, srv.URL, "good")

	_, err := c.Authenticate(context.Background())
	require.NoError(t, err)

	c.Close()
	_, err = c.ListObjects(context.Background(), "protocol", nil, 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
