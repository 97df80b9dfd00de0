package models

// OwnerFieldKind names the wire field a model uses to express ownership.
type OwnerFieldKind string

const (
	// OwnerFieldUser marks models that expose ownership as "user".
	OwnerFieldUser OwnerFieldKind = "user"
	// OwnerFieldOwner marks models that expose ownership as "owner".
	OwnerFieldOwner OwnerFieldKind = "owner"
	// OwnerFieldNone marks models with no ownership field. Push candidate
	// selection applies no owner filter for such models; every non-vaulted
	// record is eligible.
	OwnerFieldNone OwnerFieldKind = "none"
)

// ModelCaps is the per-model capability descriptor supplied at registry
// construction time. It replaces runtime field introspection: each model
// declares up front which ownership field it carries and whether its
// updated_at timestamp participates in conflict resolution.
type ModelCaps struct {
	OwnerField   OwnerFieldKind
	HasUpdatedAt bool
}

// OwnerKey returns the wire field name ownership is written to, or "" when
// the model has no ownership field.
func (c ModelCaps) OwnerKey() string {
	switch c.OwnerField {
	case OwnerFieldUser:
		return FieldUser
	case OwnerFieldOwner:
		return FieldOwner
	default:
		return ""
	}
}
