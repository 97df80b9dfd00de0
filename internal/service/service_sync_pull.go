// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openlims/labsync/internal/store"
	"github.com/openlims/labsync/models"
)

// PullAll implements [SyncService].
func (s *syncService) PullAll(ctx context.Context, opts PullOptions) (models.PullResult, error) {
	names, err := s.resolveModels(opts.Models)
	if err != nil {
		return models.PullResult{}, err
	}

	sess, err := s.openSession(ctx, opts.RemoteHostID, opts.UserID)
	if err != nil {
		return models.PullResult{}, err
	}
	defer sess.Close()

	result := models.PullResult{
		Success: true,
		DryRun:  opts.DryRun,
		Models:  make(map[string]models.ModelPullResult, len(names)),
	}

	for _, name := range names {
		modelResult, err := s.pullModel(ctx, sess, name, opts)
		if err != nil {
			s.logger.WithModel(name).Error().Err(err).Msg("model pull failed")
			modelResult = models.ModelPullResult{
				Model:  name,
				Errors: []string{err.Error()},
			}
		}

		result.Models[name] = modelResult
		result.Summary.TotalPulled += modelResult.Imported
		result.Summary.TotalUpdated += modelResult.Updated
		result.Summary.TotalSkipped += modelResult.Skipped
		result.Summary.TotalErrors += len(modelResult.Errors)
		if !modelResult.Success {
			result.Success = false
		}
	}

	return result, nil
}

// pullModel fetches one model's batch from the peer and imports it.
func (s *syncService) pullModel(ctx context.Context, sess *session, name string, opts PullOptions) (models.ModelPullResult, error) {
	caps, ok := s.registry.Caps(name)
	if !ok {
		return models.ModelPullResult{}, notSyncableError(name)
	}

	objects, err := sess.client.ListObjects(ctx, s.registry.EndpointPath(name), nil, opts.Limit)
	if err != nil {
		return models.ModelPullResult{}, &SyncError{
			Model:   name,
			Kind:    KindRemoteFetchFailed,
			Message: "fetching remote objects",
			Err:     err,
		}
	}

	return s.importObjects(ctx, sess, name, caps, objects, opts.DryRun)
}

// importObjects applies one model's remote batch to the local store. The
// whole batch runs inside a single transaction; a malformed or failing
// object is counted and skipped without poisoning its batchmates. Imported
// replicas are vaulted and owned by the syncing user.
func (s *syncService) importObjects(ctx context.Context, sess *session, name string, caps models.ModelCaps, objects []map[string]any, dryRun bool) (models.ModelPullResult, error) {
	log := s.logger.WithModel(name)
	result := models.ModelPullResult{Model: name, Success: true}

	apply := func(repo store.RecordRepository) error {
		for _, obj := range objects {
			remoteID, ok := numericID(obj[models.FieldID])
			if !ok {
				log.Warn().Msg("remote object has no usable id, skipping")
				result.Skipped++
				continue
			}

			local, err := repo.FindByOrigin(ctx, name, remoteID, sess.host.ID)
			switch {
			case errors.Is(err, store.ErrRecordNotFound):
				if dryRun {
					result.Imported++
					continue
				}
				if err = s.importNew(ctx, repo, sess, name, remoteID, obj); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("import remote %d: %v", remoteID, err))
					continue
				}
				result.Imported++

			case err != nil:
				result.Errors = append(result.Errors, fmt.Sprintf("lookup remote %d: %v", remoteID, err))

			default:
				if !ShouldUpdateLocal(caps, local.UpdatedAt, obj[models.FieldUpdatedAt], log) {
					result.Skipped++
					continue
				}
				if dryRun {
					result.Updated++
					continue
				}
				local.Fields = models.StripReserved(obj)
				if _, err = repo.Update(ctx, local); err != nil {
					result.Errors = append(result.Errors, fmt.Sprintf("update remote %d: %v", remoteID, err))
					continue
				}
				result.Updated++
			}
		}
		return nil
	}

	var err error
	if dryRun {
		err = apply(s.storages.Records)
	} else {
		err = s.storages.Records.InTx(ctx, apply)
	}
	if err != nil {
		return models.ModelPullResult{}, &SyncError{
			Model:   name,
			Kind:    KindImportFailed,
			Message: "importing remote objects",
			Err:     err,
		}
	}

	result.Success = len(result.Errors) == 0

	log.Info().
		Int("imported", result.Imported).
		Int("updated", result.Updated).
		Int("skipped", result.Skipped).
		Int("errors", len(result.Errors)).
		Bool("dry_run", dryRun).
		Msg("pull batch finished")

	return result, nil
}

// importNew creates a vaulted local replica of a remote object.
func (s *syncService) importNew(ctx context.Context, repo store.RecordRepository, sess *session, name string, remoteID int64, obj map[string]any) error {
	hostID := sess.host.ID
	ownerID := sess.user.ID

	_, err := repo.Create(ctx, models.Record{
		Model:        name,
		RemoteID:     &remoteID,
		RemoteHostID: &hostID,
		OwnerID:      &ownerID,
		Vaulted:      true,
		Fields:       models.StripReserved(obj),
	})
	return err
}
