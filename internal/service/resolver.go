// SPDX-License-Identifier: Apache-2.0

package service

import (
	"fmt"
	"time"

	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/models"
)

// PushAction is the outcome of a push conflict check.
type PushAction int

const (
	// PushProceed writes the local object to the peer; no conflict found.
	PushProceed PushAction = iota
	// PushSkip leaves the remote object untouched.
	PushSkip
	// PushForce overwrites a newer remote object under force_push.
	PushForce
)

// PushDecision carries the resolved action and, for skips, the recordable
// conflict reason.
type PushDecision struct {
	Action PushAction
	Reason string
}

// wireTimeLayouts are the timestamp shapes peers are known to emit, tried
// in order. Naive values are interpreted as UTC.
var wireTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseWireTime decodes an updated_at value from a decoded JSON payload.
func parseWireTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		for _, layout := range wireTimeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", t)
	default:
		return time.Time{}, fmt.Errorf("timestamp has type %T", v)
	}
}

// ShouldUpdateLocal decides whether an incoming remote object replaces the
// local replica during a pull.
//
// A local record without timestamp tracking is always refreshed. A remote
// object without a timestamp never overwrites local state. Equal timestamps
// mean no change. An unparseable remote timestamp updates anyway: losing
// one comparison is cheaper than silently freezing a replica.
func ShouldUpdateLocal(caps models.ModelCaps, localUpdatedAt time.Time, remoteUpdatedAt any, log *logger.Logger) bool {
	if !caps.HasUpdatedAt {
		return true
	}
	if remoteUpdatedAt == nil {
		return false
	}

	remote, err := parseWireTime(remoteUpdatedAt)
	if err != nil {
		log.Warn().Err(err).Msg("cannot compare remote timestamp, updating local copy")
		return true
	}

	return remote.After(localUpdatedAt.UTC())
}

// ResolvePushConflict decides what to do with a local object whose remote
// counterpart already exists. A conflict exists only when the remote copy
// is strictly newer; strategy then picks the action. When timestamps cannot
// be compared the push proceeds unflagged.
func ResolvePushConflict(localUpdatedAt time.Time, remoteUpdatedAt any, strategy models.ConflictStrategy, log *logger.Logger) PushDecision {
	if remoteUpdatedAt == nil {
		return PushDecision{Action: PushProceed}
	}

	remote, err := parseWireTime(remoteUpdatedAt)
	if err != nil {
		log.Warn().Err(err).Msg("cannot compare remote timestamp, pushing anyway")
		return PushDecision{Action: PushProceed}
	}

	if !remote.After(localUpdatedAt.UTC()) {
		return PushDecision{Action: PushProceed}
	}

	switch strategy {
	case models.StrategyForcePush:
		return PushDecision{Action: PushForce, Reason: "remote object is newer, overwritten by force_push"}
	case models.StrategySkip:
		return PushDecision{Action: PushSkip, Reason: "remote object is newer"}
	default:
		return PushDecision{Action: PushSkip, Reason: "remote object is newer"}
	}
}
