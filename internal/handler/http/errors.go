// SPDX-License-Identifier: Apache-2.0

package http

import (
	"errors"
	"net/http"

	"github.com/openlims/labsync/internal/store"
)

var (
	ErrEmptyAuthorizationHeader   = errors.New("empty Authorization header")
	ErrInvalidAuthorizationHeader = errors.New("Authorization header must use the Token scheme")
	ErrUnknownModel               = errors.New("unknown model")
)

var errorStatusMap = map[error]int{
	store.ErrRecordNotFound:  http.StatusNotFound,
	store.ErrUserNotFound:    http.StatusUnauthorized,
	store.ErrDuplicateRecord: http.StatusConflict,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
