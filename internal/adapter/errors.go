// SPDX-License-Identifier: Apache-2.0

package adapter

import (
	"errors"
	"fmt"
)

// Authentication failure kinds carried by [AuthError].
const (
	AuthKindNoToken            = "no_token"
	AuthKindCorruptedToken     = "corrupted_token"
	AuthKindInvalidCredentials = "invalid_credentials"
	AuthKindRequestFailed      = "auth_request_failed"
)

// Connectivity probe failure kinds carried by [models.ConnectionCheck].
const (
	ConnKindTimeout       = "timeout"
	ConnKindRefused       = "connection_refused"
	ConnKindRequestFailed = "request_failed"
)

// ErrRemoteNotFound marks an HTTP 404 from an object endpoint. During a
// push it funnels the object into the create path and is not an error
// condition.
var ErrRemoteNotFound = errors.New("remote object not found")

// ErrNotAuthenticated is returned by object operations invoked before a
// successful Authenticate.
var ErrNotAuthenticated = errors.New("peer session not authenticated")

// AuthError is a distinguished authentication failure. Kind is one of the
// AuthKind constants; StatusCode and Message carry the peer's response when
// one was received.
type AuthError struct {
	Kind       string
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("authentication failed (%s, http %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("authentication failed (%s): %s", e.Kind, e.Message)
}

// AsAuthError unwraps err into an *AuthError if it is one.
func AsAuthError(err error) (*AuthError, bool) {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// RequestError is a non-2xx peer response outside the expected 404/create
// envelope. Body is truncated for log friendliness.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("peer returned http %d: %s", e.StatusCode, e.Body)
}
