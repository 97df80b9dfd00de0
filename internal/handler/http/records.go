// SPDX-License-Identifier: Apache-2.0

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/internal/store"
	"github.com/openlims/labsync/models"
)

// listRecords serves GET /api/{model}/.
//
// Vaulted replicas are never served: a record this node pulled from some
// peer must not be re-replicated onward as if it were native data. Models
// with an ownership field serve only the authenticated user's records.
func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	model := chi.URLParam(r, "model")
	caps, ok := h.registry.Caps(model)
	if !ok {
		http.Error(w, ErrUnknownModel.Error(), http.StatusNotFound)
		return
	}

	filter := store.RecordFilter{Model: model, ExcludeVaulted: true}
	if caps.OwnerKey() != "" {
		if user, authed := userFromContext(r.Context()); authed {
			filter.OwnerID = &user.ID
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	records, err := h.storages.Records.List(r.Context(), filter)
	if err != nil {
		log.Err(err).Msg("listing records")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	results := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		results = append(results, wireRecord(rec, caps))
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"count":   len(results),
		"results": results,
	})
}

// getRecord serves GET /api/{model}/{id}/.
func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	model := chi.URLParam(r, "model")
	caps, ok := h.registry.Caps(model)
	if !ok {
		http.Error(w, ErrUnknownModel.Error(), http.StatusNotFound)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}

	rec, err := h.storages.Records.GetByID(r.Context(), model, id)
	if err != nil {
		if !errors.Is(err, store.ErrRecordNotFound) {
			log.Err(err).Msg("loading record")
		}
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, wireRecord(rec, caps))
}

// createRecord serves POST /api/{model}/.
//
// When the payload carries a client_ref that already exists for this model,
// the previously created record is returned instead of creating a twin.
// That makes retried creates (a network failure after the peer committed)
// safe for the pushing side.
func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	model := chi.URLParam(r, "model")
	caps, ok := h.registry.Caps(model)
	if !ok {
		http.Error(w, ErrUnknownModel.Error(), http.StatusNotFound)
		return
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	clientRef, _ := payload[models.FieldClientRef].(string)
	if clientRef != "" {
		existing, err := h.storages.Records.FindByClientRef(r.Context(), model, clientRef)
		switch {
		case err == nil:
			log.Info().Str("client_ref", clientRef).Msg("replayed create deduplicated")
			respondJSON(w, http.StatusOK, wireRecord(existing, caps))
			return
		case !errors.Is(err, store.ErrRecordNotFound):
			log.Err(err).Msg("client_ref lookup")
			http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
			return
		}
	}

	rec := models.Record{
		Model:     model,
		ClientRef: clientRef,
		Fields:    models.StripReserved(payload),
	}
	if caps.OwnerKey() != "" {
		if user, authed := userFromContext(r.Context()); authed {
			ownerID := user.ID
			rec.OwnerID = &ownerID
		}
	}

	created, err := h.storages.Records.Create(r.Context(), rec)
	if err != nil {
		log.Err(err).Msg("creating record")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusCreated, wireRecord(created, caps))
}

// updateRecord serves PUT /api/{model}/{id}/.
func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	model := chi.URLParam(r, "model")
	caps, ok := h.registry.Caps(model)
	if !ok {
		http.Error(w, ErrUnknownModel.Error(), http.StatusNotFound)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid object id", http.StatusBadRequest)
		return
	}

	var payload map[string]any
	if err = json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	rec, err := h.storages.Records.GetByID(r.Context(), model, id)
	if err != nil {
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	rec.Fields = models.StripReserved(payload)
	updated, err := h.storages.Records.Update(r.Context(), rec)
	if err != nil {
		log.Err(err).Msg("updating record")
		http.Error(w, http.StatusText(statusFromError(err)), statusFromError(err))
		return
	}

	respondJSON(w, http.StatusOK, wireRecord(updated, caps))
}

// wireRecord renders a record the way peers expect to consume it: the
// domain fields plus this node's id, the updated_at used for conflict
// resolution, and the model's ownership field when it has one. updated_at
// keeps nanosecond precision; truncating it would turn sub-second edits
// into spurious timestamp ties.
func wireRecord(rec models.Record, caps models.ModelCaps) map[string]any {
	obj := rec.DomainFields()
	obj[models.FieldID] = rec.ID
	if caps.HasUpdatedAt {
		obj[models.FieldUpdatedAt] = rec.UpdatedAt.UTC().Format(time.RFC3339Nano)
	}
	if key := caps.OwnerKey(); key != "" && rec.OwnerID != nil {
		obj[key] = *rec.OwnerID
	}
	return obj
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
