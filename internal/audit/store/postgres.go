package store

import (
	"context"
	"database/sql"
	"fmt"

	"dicomgate/internal/audit"
	"dicomgate/pkg/domain"
)

// PostgresStore persists audit records in one append-only table per operation
// kind: wado_requests, qido_requests and stow_requests. The kind-to-table
// mapping is a fixed allowlist; table names are never derived from request
// input.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed audit store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func tableFor(kind domain.Operation) (string, error) {
	switch kind {
	case domain.OpRetrieve:
		return "wado_requests", nil
	case domain.OpQuery:
		return "qido_requests", nil
	case domain.OpStore:
		return "stow_requests", nil
	default:
		return "", fmt.Errorf("no audit table for operation %q", kind)
	}
}

func (s *PostgresStore) Append(ctx context.Context, rec audit.Record) error {
	var err error
	switch rec.Kind {
	case domain.OpRetrieve:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO wado_requests (id, study_uid, series_uid, object_uid, ae_title, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, rec.ID, rec.StudyUID, rec.SeriesUID, rec.ObjectUID, rec.EndpointName, rec.Timestamp)
	case domain.OpQuery:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO qido_requests (id, study_uid, accession_number, ae_title, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, rec.ID, rec.StudyUID, rec.AccessionNumber, rec.EndpointName, rec.Timestamp)
	case domain.OpStore:
		_, err = s.db.ExecContext(ctx, `
			INSERT INTO stow_requests (id, study_uid, series_uid, object_uid, ae_title, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, rec.ID, rec.StudyUID, rec.SeriesUID, rec.ObjectUID, rec.EndpointName, rec.Timestamp)
	default:
		return fmt.Errorf("no audit table for operation %q", rec.Kind)
	}
	if err != nil {
		return fmt.Errorf("append %s audit record: %w", rec.Kind, err)
	}
	return nil
}

// List returns records of one kind, newest first.
func (s *PostgresStore) List(ctx context.Context, kind domain.Operation, limit, offset int) ([]audit.Record, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var query string
	if kind == domain.OpQuery {
		query = fmt.Sprintf(`
			SELECT id, study_uid, accession_number, ae_title, created_at
			FROM %s ORDER BY created_at DESC LIMIT $1 OFFSET $2
		`, table)
	} else {
		query = fmt.Sprintf(`
			SELECT id, study_uid, series_uid, object_uid, ae_title, created_at
			FROM %s ORDER BY created_at DESC LIMIT $1 OFFSET $2
		`, table)
	}

	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list %s audit records: %w", kind, err)
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		rec := audit.Record{Kind: kind}
		if kind == domain.OpQuery {
			err = rows.Scan(&rec.ID, &rec.StudyUID, &rec.AccessionNumber, &rec.EndpointName, &rec.Timestamp)
		} else {
			err = rows.Scan(&rec.ID, &rec.StudyUID, &rec.SeriesUID, &rec.ObjectUID, &rec.EndpointName, &rec.Timestamp)
		}
		if err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s audit records: %w", kind, err)
	}
	return records, nil
}

func (s *PostgresStore) Count(ctx context.Context, kind domain.Operation) (int, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count %s audit records: %w", kind, err)
	}
	return count, nil
}
