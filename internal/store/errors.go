// SPDX-License-Identifier: Apache-2.0

package store

import "errors"

var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrHostNotFound    = errors.New("remote host not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrDuplicateRecord = errors.New("duplicate record")
)
