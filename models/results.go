package models

import "time"

// ConnectionCheck is the structured outcome of a connectivity probe against
// a peer. Expected transport failures are reported here, never raised.
type ConnectionCheck struct {
	Success   bool          `json:"success"`
	ErrorKind string        `json:"error,omitempty"` // "timeout", "connection_refused", "request_failed"
	Message   string        `json:"message,omitempty"`
	RTT       time.Duration `json:"rtt"`
}

// RemoteIdentity is the identity payload returned by a peer's whoami
// endpoint after successful authentication.
type RemoteIdentity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// RemoteInfo is diagnostic information about a peer gathered by test-auth
// mode: probe outcome, identity, and which model endpoints answered.
type RemoteInfo struct {
	Connection ConnectionCheck `json:"connection"`
	Identity   RemoteIdentity  `json:"identity"`
	Endpoints  map[string]bool `json:"endpoints"`
}

// PushConflict describes one detected collision between a local record and
// its remote counterpart. Conflicts are a first-class successful-but-
// divergent outcome, reported separately from errors and never persisted.
type PushConflict struct {
	LocalID    int64  `json:"local_id"`
	RemoteID   int64  `json:"remote_id"`
	Type       string `json:"type"` // currently always "remote_newer"
	Resolution string `json:"resolution"`
	Reason     string `json:"reason"`
}

// ModelPullResult accumulates the outcome of importing one model's batch.
type ModelPullResult struct {
	Model    string   `json:"model"`
	Imported int      `json:"imported"`
	Updated  int      `json:"updated"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
	Success  bool     `json:"success"`
}

// PullResult is the aggregate outcome of one pull invocation. Success is
// false only when at least one model failed outright; individual object
// skips do not flip it.
type PullResult struct {
	Success bool                       `json:"success"`
	Models  map[string]ModelPullResult `json:"models"`
	Summary SyncSummary                `json:"summary"`
	DryRun  bool                       `json:"dry_run,omitempty"`
}

// ModelPushResult accumulates the outcome of pushing one model's
// candidates. Success is false only if at least one hard error occurred;
// conflicts alone keep it true.
type ModelPushResult struct {
	Model     string         `json:"model"`
	Pushed    int            `json:"pushed"`
	Updated   int            `json:"updated"`
	Skipped   int            `json:"skipped"`
	Conflicts []PushConflict `json:"conflicts,omitempty"`
	Errors    []string       `json:"errors,omitempty"`
	Success   bool           `json:"success"`
}

// PushResult is the aggregate outcome of one push invocation.
type PushResult struct {
	Success bool                       `json:"success"`
	Models  map[string]ModelPushResult `json:"models"`
	Summary SyncSummary                `json:"summary"`
	DryRun  bool                       `json:"dry_run,omitempty"`
}

// SyncSummary sums counters across every model of one pull or push run.
type SyncSummary struct {
	TotalPulled  int `json:"total_pulled,omitempty"`
	TotalPushed  int `json:"total_pushed,omitempty"`
	TotalUpdated int `json:"total_updated"`
	TotalSkipped int `json:"total_skipped"`
	TotalErrors  int `json:"total_errors"`
}
