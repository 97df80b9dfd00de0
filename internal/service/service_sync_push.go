// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openlims/labsync/internal/adapter"
	"github.com/openlims/labsync/internal/store"
	"github.com/openlims/labsync/models"
)

// PushAll implements [SyncService].
func (s *syncService) PushAll(ctx context.Context, opts PushOptions) (models.PushResult, error) {
	if opts.Strategy == "" {
		opts.Strategy = models.StrategyTimestamp
	}
	if !opts.Strategy.IsValid() {
		return models.PushResult{}, fmt.Errorf("unknown conflict strategy %q", opts.Strategy)
	}

	names, err := s.resolveModels(opts.Models)
	if err != nil {
		return models.PushResult{}, err
	}

	sess, err := s.openSession(ctx, opts.RemoteHostID, opts.UserID)
	if err != nil {
		return models.PushResult{}, err
	}
	defer sess.Close()

	result := models.PushResult{
		Success: true,
		DryRun:  opts.DryRun,
		Models:  make(map[string]models.ModelPushResult, len(names)),
	}

	for _, name := range names {
		modelResult, err := s.pushModel(ctx, sess, name, opts)
		if err != nil {
			s.logger.WithModel(name).Error().Err(err).Msg("model push failed")
			modelResult = models.ModelPushResult{
				Model:  name,
				Errors: []string{err.Error()},
			}
		}

		result.Models[name] = modelResult
		result.Summary.TotalPushed += modelResult.Pushed
		result.Summary.TotalUpdated += modelResult.Updated
		result.Summary.TotalSkipped += modelResult.Skipped
		result.Summary.TotalErrors += len(modelResult.Errors)
		if !modelResult.Success {
			result.Success = false
		}
	}

	return result, nil
}

// pushModel selects this model's push candidates and walks them one by one.
// Candidate selection excludes vaulted replicas unconditionally; ownership
// filtering follows the model's capability descriptor, so models without an
// ownership field are pushed unfiltered.
func (s *syncService) pushModel(ctx context.Context, sess *session, name string, opts PushOptions) (models.ModelPushResult, error) {
	caps, ok := s.registry.Caps(name)
	if !ok {
		return models.ModelPushResult{}, notSyncableError(name)
	}

	filter := store.RecordFilter{
		Model:          name,
		ExcludeVaulted: true,
		ModifiedSince:  opts.ModifiedSince,
		Limit:          opts.Limit,
	}
	if caps.OwnerKey() != "" {
		ownerID := sess.user.ID
		filter.OwnerID = &ownerID
	}

	candidates, err := s.storages.Records.List(ctx, filter)
	if err != nil {
		return models.ModelPushResult{}, &SyncError{
			Model:   name,
			Kind:    KindStoreQueryFailed,
			Message: "selecting push candidates",
			Err:     err,
		}
	}

	log := s.logger.WithModel(name)
	result := models.ModelPushResult{Model: name, Success: true}

	for _, rec := range candidates {
		s.pushObject(ctx, sess, name, caps, rec, opts, &result)
	}
	result.Success = len(result.Errors) == 0

	log.Info().
		Int("pushed", result.Pushed).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("conflicts", len(result.Conflicts)).
		Int("errors", len(result.Errors)).
		Bool("dry_run", opts.DryRun).
		Msg("push batch finished")

	return result, nil
}

// pushObject drives one record through the push state machine: create when
// the object has never been pushed (or vanished remotely), otherwise fetch
// the remote copy and let the conflict resolver pick update, force-update
// or skip. Failures are recorded on the result and never abort the batch.
func (s *syncService) pushObject(ctx context.Context, sess *session, name string, caps models.ModelCaps, rec models.Record, opts PushOptions, result *models.ModelPushResult) {
	path := s.registry.EndpointPath(name)

	if rec.RemoteID == nil {
		s.pushCreate(ctx, sess, name, path, caps, rec, opts.DryRun, result)
		return
	}

	remote, err := sess.client.GetObject(ctx, path, *rec.RemoteID)
	if errors.Is(err, adapter.ErrRemoteNotFound) {
		// The remote copy is gone; recreate it under a fresh remote id.
		s.pushCreate(ctx, sess, name, path, caps, rec, opts.DryRun, result)
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("fetch remote %d for local %d: %v", *rec.RemoteID, rec.ID, err))
		return
	}

	decision := ResolvePushConflict(rec.UpdatedAt, remote[models.FieldUpdatedAt], opts.Strategy, s.logger.WithModel(name))
	if decision.Action == PushSkip {
		result.Skipped++
		result.Conflicts = append(result.Conflicts, models.PushConflict{
			LocalID:    rec.ID,
			RemoteID:   *rec.RemoteID,
			Type:       "remote_newer",
			Resolution: "skipped",
			Reason:     decision.Reason,
		})
		return
	}

	if opts.DryRun {
		result.Updated++
		return
	}

	if err = sess.client.UpdateObject(ctx, path, *rec.RemoteID, pushPayload(rec, caps)); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("update remote %d from local %d: %v", *rec.RemoteID, rec.ID, err))
		return
	}
	result.Updated++
}

// pushCreate creates the remote counterpart of a local record and stamps
// its origin locally, linking the two for every later run.
func (s *syncService) pushCreate(ctx context.Context, sess *session, name, path string, caps models.ModelCaps, rec models.Record, dryRun bool, result *models.ModelPushResult) {
	if dryRun {
		result.Pushed++
		return
	}

	created, err := sess.client.CreateObject(ctx, path, pushPayload(rec, caps))
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("create remote for local %d: %v", rec.ID, err))
		return
	}

	remoteID, ok := numericID(created[models.FieldID])
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("create remote for local %d: response has no usable id", rec.ID))
		return
	}

	if err = s.storages.Records.StampOrigin(ctx, name, rec.ID, remoteID, sess.host.ID); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("stamp origin of local %d: %v", rec.ID, err))
		return
	}
	result.Pushed++
}

// pushPayload builds the wire payload for a record: its domain fields, the
// model's ownership key when it has one, and the correlation id the peer
// uses to deduplicate retried creates.
func pushPayload(rec models.Record, caps models.ModelCaps) map[string]any {
	payload := rec.DomainFields()
	if key := caps.OwnerKey(); key != "" && rec.OwnerID != nil {
		payload[key] = *rec.OwnerID
	}
	if rec.ClientRef != "" {
		payload[models.FieldClientRef] = rec.ClientRef
	}
	return payload
}
