package models

import "time"

// Reserved wire field names. They carry bookkeeping state, never domain
// data, and are stripped from payloads in both sync directions so that one
// side's identifiers and timestamps never leak into the other side's
// domain fields.
const (
	FieldID         = "id"
	FieldRemoteID   = "remote_id"
	FieldRemoteHost = "remote_host"
	FieldUser       = "user"
	FieldOwner      = "owner"
	FieldCreatedAt  = "created_at"
	FieldUpdatedAt  = "updated_at"
	FieldVaulted    = "is_vaulted"
	FieldClientRef  = "client_ref"
)

// ReservedFields lists every reserved wire field name.
var ReservedFields = []string{
	FieldID, FieldRemoteID, FieldRemoteHost, FieldUser, FieldOwner,
	FieldCreatedAt, FieldUpdatedAt, FieldVaulted, FieldClientRef,
}

// Record is one syncable entity of any registered model. Domain fields live
// in Fields as a JSON object; everything else is bookkeeping owned by the
// local store.
//
// A record pulled from peer P carries (RemoteID, RemoteHostID=P), which
// together uniquely identify its origin: at most one local replica exists
// per (model, remote_id, remote_host) triple. Vaulted marks such replicas
// and excludes them from ever being pushed back out.
type Record struct {
	ID           int64
	Model        string
	RemoteID     *int64
	RemoteHostID *int64
	OwnerID      *int64
	Vaulted      bool

	// ClientRef is a locally generated correlation id sent alongside
	// pushed creates so the receiving peer can deduplicate retried
	// requests. See PushResult for the at-least-once caveat it mitigates.
	ClientRef string

	Fields map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DomainFields returns a copy of the record's domain payload with every
// reserved field name removed. The copy is safe to mutate.
func (r Record) DomainFields() map[string]any {
	return StripReserved(r.Fields)
}

// StripReserved returns a copy of obj without reserved wire fields.
func StripReserved(obj map[string]any) map[string]any {
	out := make(map[string]any, len(obj))
	for k, v := range obj {
		out[k] = v
	}
	for _, k := range ReservedFields {
		delete(out, k)
	}
	return out
}
