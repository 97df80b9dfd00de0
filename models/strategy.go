package models

// ConflictStrategy selects how a push reacts when the remote copy of a
// record is newer than the local one.
type ConflictStrategy string

const (
	// StrategyTimestamp skips the push when the remote copy is newer, so
	// the remote wins. This is the default.
	StrategyTimestamp ConflictStrategy = "timestamp"

	// StrategyForcePush updates the remote copy regardless of timestamps,
	// so the local wins.
	StrategyForcePush ConflictStrategy = "force_push"

	// StrategySkip skips unconditionally on any detected conflict.
	StrategySkip ConflictStrategy = "skip"
)

// IsValid reports whether s is a recognized strategy.
func (s ConflictStrategy) IsValid() bool {
	switch s {
	case StrategyTimestamp, StrategyForcePush, StrategySkip:
		return true
	}
	return false
}

func (s ConflictStrategy) String() string { return string(s) }
