// SPDX-License-Identifier: Apache-2.0

package service

import "github.com/openlims/labsync/models"

// Registry is the table of syncable models and their capability
// descriptors. It is built once at orchestrator construction time and
// passed in explicitly, so tests can substitute a reduced table.
// Names preserves insertion order, which keeps multi-model runs
// deterministic.
type Registry struct {
	order   []string
	entries map[string]models.ModelCaps
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]models.ModelCaps)}
}

// Register adds a model with its capability descriptor. Registering an
// existing name overwrites its caps but keeps its position.
func (r *Registry) Register(name string, caps models.ModelCaps) *Registry {
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = caps
	return r
}

// Names returns the registered model names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Caps returns the capability descriptor for name.
func (r *Registry) Caps(name string) (models.ModelCaps, bool) {
	caps, ok := r.entries[name]
	return caps, ok
}

// EndpointPath maps a model name to its API path segment. Paths equal the
// registry key verbatim; the explicit "protocol" case pins the one name
// that must never be pluralized by future path rewrites.
func (r *Registry) EndpointPath(name string) string {
	if name == "protocol" {
		return "protocol"
	}
	return name
}

// DefaultRegistry returns the production table of syncable models.
func DefaultRegistry() *Registry {
	return NewRegistry().
		Register("protocol", models.ModelCaps{OwnerField: models.OwnerFieldUser, HasUpdatedAt: true}).
		Register("protocol_step", models.ModelCaps{OwnerField: models.OwnerFieldNone, HasUpdatedAt: true}).
		Register("protocol_section", models.ModelCaps{OwnerField: models.OwnerFieldNone, HasUpdatedAt: true}).
		Register("project", models.ModelCaps{OwnerField: models.OwnerFieldOwner, HasUpdatedAt: true}).
		Register("annotation", models.ModelCaps{OwnerField: models.OwnerFieldUser, HasUpdatedAt: true}).
		Register("annotation_folder", models.ModelCaps{OwnerField: models.OwnerFieldUser, HasUpdatedAt: true}).
		Register("stored_reagent", models.ModelCaps{OwnerField: models.OwnerFieldUser, HasUpdatedAt: true}).
		Register("storage_object", models.ModelCaps{OwnerField: models.OwnerFieldUser, HasUpdatedAt: true}).
		Register("tag", models.ModelCaps{OwnerField: models.OwnerFieldNone, HasUpdatedAt: false}).
		Register("instrument", models.ModelCaps{OwnerField: models.OwnerFieldUser, HasUpdatedAt: true}).
		Register("session", models.ModelCaps{OwnerField: models.OwnerFieldUser, HasUpdatedAt: true})
}
