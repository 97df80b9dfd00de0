// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/openlims/labsync/internal/logger"
	"github.com/openlims/labsync/models"
)

var recordColumns = []string{
	"id", "model", "remote_id", "remote_host_id", "owner_id",
	"vaulted", "client_ref", "fields", "created_at", "updated_at",
}

// recordRepository is the SQL implementation of [RecordRepository]. The
// same type serves both drivers; the placeholder format and insert-id
// strategy come from the owning [DB].
type recordRepository struct {
	db     *DB
	run    runner
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] backed by db.
func NewRecordRepository(db *DB, log *logger.Logger) RecordRepository {
	return &recordRepository{db: db, run: db.DB, logger: log}
}

// List implements [RecordRepository]. Results are ordered by id so that
// push batches iterate in a stable order for a given query.
func (r *recordRepository) List(ctx context.Context, f RecordFilter) ([]models.Record, error) {
	q := r.db.Builder().
		Select(recordColumns...).
		From("records").
		Where(sq.Eq{"model": f.Model}).
		OrderBy("id")

	if f.OwnerID != nil {
		q = q.Where(sq.Eq{"owner_id": *f.OwnerID})
	}
	if f.ExcludeVaulted {
		q = q.Where(sq.Eq{"vaulted": false})
	}
	if f.ModifiedSince != nil {
		q = q.Where(sq.GtOrEq{"updated_at": f.ModifiedSince.UTC()})
	}
	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := r.run.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}

// GetByID implements [RecordRepository].
func (r *recordRepository) GetByID(ctx context.Context, model string, id int64) (models.Record, error) {
	return r.getOne(ctx, sq.Eq{"model": model, "id": id})
}

// FindByOrigin implements [RecordRepository].
func (r *recordRepository) FindByOrigin(ctx context.Context, model string, remoteID, remoteHostID int64) (models.Record, error) {
	return r.getOne(ctx, sq.Eq{"model": model, "remote_id": remoteID, "remote_host_id": remoteHostID})
}

// FindByClientRef implements [RecordRepository].
func (r *recordRepository) FindByClientRef(ctx context.Context, model, clientRef string) (models.Record, error) {
	return r.getOne(ctx, sq.Eq{"model": model, "client_ref": clientRef})
}

func (r *recordRepository) getOne(ctx context.Context, pred sq.Eq) (models.Record, error) {
	query, args, err := r.db.Builder().
		Select(recordColumns...).
		From("records").
		Where(pred).
		ToSql()
	if err != nil {
		return models.Record{}, fmt.Errorf("build get query: %w", err)
	}

	row := r.run.QueryRowContext(ctx, query, args...)
	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	return rec, err
}

// Create implements [RecordRepository]. A ClientRef is generated when the
// caller did not provide one.
func (r *recordRepository) Create(ctx context.Context, rec models.Record) (models.Record, error) {
	if rec.ClientRef == "" {
		rec.ClientRef = uuid.NewString()
	}
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}

	payload, err := json.Marshal(rec.Fields)
	if err != nil {
		return models.Record{}, fmt.Errorf("encode record fields: %w", err)
	}

	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	q := r.db.Builder().
		Insert("records").
		Columns("model", "remote_id", "remote_host_id", "owner_id",
			"vaulted", "client_ref", "fields", "created_at", "updated_at").
		Values(rec.Model, rec.RemoteID, rec.RemoteHostID, rec.OwnerID,
			rec.Vaulted, rec.ClientRef, string(payload), now, now)

	if r.db.driver == "pgx" {
		query, args, err := q.Suffix("RETURNING id").ToSql()
		if err != nil {
			return models.Record{}, fmt.Errorf("build insert query: %w", err)
		}
		if err = r.run.QueryRowContext(ctx, query, args...).Scan(&rec.ID); err != nil {
			return models.Record{}, mapWriteError(err, "insert record")
		}
		return rec, nil
	}

	query, args, err := q.ToSql()
	if err != nil {
		return models.Record{}, fmt.Errorf("build insert query: %w", err)
	}
	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Record{}, mapWriteError(err, "insert record")
	}
	rec.ID, err = res.LastInsertId()
	if err != nil {
		return models.Record{}, fmt.Errorf("insert record id: %w", err)
	}

	return rec, nil
}

// Update implements [RecordRepository].
func (r *recordRepository) Update(ctx context.Context, rec models.Record) (models.Record, error) {
	payload, err := json.Marshal(rec.Fields)
	if err != nil {
		return models.Record{}, fmt.Errorf("encode record fields: %w", err)
	}

	rec.UpdatedAt = time.Now().UTC()

	query, args, err := r.db.Builder().
		Update("records").
		Set("remote_id", rec.RemoteID).
		Set("remote_host_id", rec.RemoteHostID).
		Set("owner_id", rec.OwnerID).
		Set("vaulted", rec.Vaulted).
		Set("fields", string(payload)).
		Set("updated_at", rec.UpdatedAt).
		Where(sq.Eq{"model": rec.Model, "id": rec.ID}).
		ToSql()
	if err != nil {
		return models.Record{}, fmt.Errorf("build update query: %w", err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Record{}, mapWriteError(err, "update record")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.Record{}, ErrRecordNotFound
	}

	return rec, nil
}

// StampOrigin implements [RecordRepository]. UpdatedAt is left untouched on
// purpose: stamping happens right after a successful remote create, and a
// fresh timestamp would make the local copy look newer than the remote one
// it was just pushed to.
func (r *recordRepository) StampOrigin(ctx context.Context, model string, id, remoteID, remoteHostID int64) error {
	query, args, err := r.db.Builder().
		Update("records").
		Set("remote_id", remoteID).
		Set("remote_host_id", remoteHostID).
		Where(sq.Eq{"model": model, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build stamp query: %w", err)
	}

	res, err := r.run.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "stamp record origin")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// InTx implements [RecordRepository]. The callback receives a repository
// bound to the transaction; any error rolls the whole batch back.
func (r *recordRepository) InTx(ctx context.Context, fn func(RecordRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin records tx: %w", err)
	}

	txRepo := &recordRepository{db: r.db, run: tx, logger: r.logger}
	if err = fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			r.logger.Err(rbErr).Msg("records tx rollback failed")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit records tx: %w", err)
	}
	return nil
}

func mapWriteError(err error, op string) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateRecord)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// scanRecord decodes one row regardless of whether it came from a Row or
// Rows scan function.
func scanRecord(scan func(...any) error) (models.Record, error) {
	var (
		rec     models.Record
		payload []byte
	)

	err := scan(&rec.ID, &rec.Model, &rec.RemoteID, &rec.RemoteHostID, &rec.OwnerID,
		&rec.Vaulted, &rec.ClientRef, &payload, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return models.Record{}, err
	}

	if len(payload) > 0 {
		if err = json.Unmarshal(payload, &rec.Fields); err != nil {
			return models.Record{}, fmt.Errorf("decode record fields: %w", err)
		}
	}
	if rec.Fields == nil {
		rec.Fields = map[string]any{}
	}

	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.UpdatedAt = rec.UpdatedAt.UTC()
	return rec, nil
}
