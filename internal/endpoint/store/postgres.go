package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dicomgate/internal/endpoint"
)

// PostgresStore persists endpoints in the ae_titles table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed endpoint store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) List(ctx context.Context) ([]endpoint.Endpoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, host, port, local_ae_title, remote_ae_title
		FROM ae_titles
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	defer rows.Close()

	var endpoints []endpoint.Endpoint
	for rows.Next() {
		var ep endpoint.Endpoint
		if err := rows.Scan(&ep.Name, &ep.Host, &ep.Port, &ep.LocalAETitle, &ep.RemoteAETitle); err != nil {
			return nil, fmt.Errorf("scan endpoint: %w", err)
		}
		endpoints = append(endpoints, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	return endpoints, nil
}

func (s *PostgresStore) Get(ctx context.Context, name string) (endpoint.Endpoint, error) {
	var ep endpoint.Endpoint
	err := s.db.QueryRowContext(ctx, `
		SELECT name, host, port, local_ae_title, remote_ae_title
		FROM ae_titles
		WHERE name = $1
	`, name).Scan(&ep.Name, &ep.Host, &ep.Port, &ep.LocalAETitle, &ep.RemoteAETitle)
	if errors.Is(err, sql.ErrNoRows) {
		return endpoint.Endpoint{}, ErrNotFound
	}
	if err != nil {
		return endpoint.Endpoint{}, fmt.Errorf("get endpoint %q: %w", name, err)
	}
	return ep, nil
}

func (s *PostgresStore) Create(ctx context.Context, ep endpoint.Endpoint) error {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO ae_titles (name, host, port, local_ae_title, remote_ae_title)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING
	`, ep.Name, ep.Host, ep.Port, ep.LocalAETitle, ep.RemoteAETitle)
	if err != nil {
		return fmt.Errorf("create endpoint: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("create endpoint: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, ep endpoint.Endpoint) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE ae_titles
		SET host = $2, port = $3, local_ae_title = $4, remote_ae_title = $5
		WHERE name = $1
	`, ep.Name, ep.Host, ep.Port, ep.LocalAETitle, ep.RemoteAETitle)
	if err != nil {
		return fmt.Errorf("update endpoint: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update endpoint: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM ae_titles WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("delete endpoint: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete endpoint: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
