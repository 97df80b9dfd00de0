// SPDX-License-Identifier: Apache-2.0

package service

import "fmt"

// SyncError kinds. They classify protocol-level failures that are fatal
// for one model's batch but leave the rest of the run alive.
const (
	KindNotSyncable       = "not_syncable"
	KindRemoteFetchFailed = "remote_fetch_failed"
	KindStoreQueryFailed  = "store_query_failed"
	KindImportFailed      = "import_failed"
)

// SyncError is a protocol-level sync failure scoped to one model.
// Object-level problems (malformed records, per-object write failures) are
// not SyncErrors; they are recovered, logged, and counted in the results.
type SyncError struct {
	Model   string
	Kind    string
	Message string
	Err     error
}

func (e *SyncError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Model != "" {
		return fmt.Sprintf("sync %s: %s", e.Model, msg)
	}
	return fmt.Sprintf("sync: %s", msg)
}

func (e *SyncError) Unwrap() error { return e.Err }

func notSyncableError(model string) *SyncError {
	return &SyncError{
		Model:   model,
		Kind:    KindNotSyncable,
		Message: fmt.Sprintf("model %q is not syncable", model),
	}
}
