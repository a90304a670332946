package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"clientportal/internal/model"
	"clientportal/internal/repository"
)

// uniqueViolation is the Postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const clientColumns = `id, first_name, last_name, date_of_birth, document_type, document_number,
		cv_file_name, cv_location, photo_file_name, photo_location, is_deleted, created_at, updated_at`

// ClientPostgres is a PostgreSQL implementation of repository.ClientRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type ClientPostgres struct {
	db *sql.DB
}

// NewClientPostgres creates a new ClientPostgres repository.
func NewClientPostgres(db *sql.DB) *ClientPostgres {
	return &ClientPostgres{db: db}
}

var _ repository.ClientRepository = (*ClientPostgres)(nil)

// ListActive returns non-deleted clients ordered by creation time, newest first.
func (r *ClientPostgres) ListActive(ctx context.Context) ([]model.Client, error) {
	q := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE NOT is_deleted
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	items := make([]model.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clients: %w", err)
	}
	return items, nil
}

// Get fetches a single active client by its ID.
func (r *ClientPostgres) Get(ctx context.Context, id string) (model.Client, error) {
	q := `
		SELECT ` + clientColumns + `
		FROM clients
		WHERE id = $1 AND NOT is_deleted
	`
	c, err := scanClient(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Client{}, repository.ErrNotFound
		}
		return model.Client{}, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// Add inserts a new client row and returns the stored record.
func (r *ClientPostgres) Add(ctx context.Context, c model.Client) (model.Client, error) {
	q := `
		INSERT INTO clients (` + clientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + clientColumns
	cvName, cvLoc := fileColumns(c.CV)
	photoName, photoLoc := fileColumns(c.Photo)

	out, err := scanClient(r.db.QueryRowContext(ctx, q,
		c.ID,
		c.FirstName,
		c.LastName,
		c.DateOfBirth,
		string(c.DocumentType),
		c.DocumentNumber,
		cvName,
		cvLoc,
		photoName,
		photoLoc,
		c.Deleted,
		c.CreatedAt,
		nullTime(c.UpdatedAt),
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Client{}, repository.ErrDuplicate
		}
		return model.Client{}, fmt.Errorf("insert client: %w", err)
	}
	return out, nil
}

// Update overwrites the mutable columns of an active client.
func (r *ClientPostgres) Update(ctx context.Context, c model.Client) (model.Client, error) {
	q := `
		UPDATE clients
		SET first_name = $2,
			last_name = $3,
			date_of_birth = $4,
			document_type = $5,
			document_number = $6,
			cv_file_name = $7,
			cv_location = $8,
			photo_file_name = $9,
			photo_location = $10,
			updated_at = $11
		WHERE id = $1 AND NOT is_deleted
		RETURNING ` + clientColumns
	cvName, cvLoc := fileColumns(c.CV)
	photoName, photoLoc := fileColumns(c.Photo)

	out, err := scanClient(r.db.QueryRowContext(ctx, q,
		c.ID,
		c.FirstName,
		c.LastName,
		c.DateOfBirth,
		string(c.DocumentType),
		c.DocumentNumber,
		cvName,
		cvLoc,
		photoName,
		photoLoc,
		nullTime(c.UpdatedAt),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Client{}, repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.Client{}, repository.ErrDuplicate
		}
		return model.Client{}, fmt.Errorf("update client: %w", err)
	}
	return out, nil
}

// SoftDelete marks a client deleted. It does not return an error if the row does not exist.
func (r *ClientPostgres) SoftDelete(ctx context.Context, id string, at time.Time) error {
	const q = `UPDATE clients SET is_deleted = TRUE, updated_at = $2 WHERE id = $1 AND NOT is_deleted`
	if _, err := r.db.ExecContext(ctx, q, id, at.UTC()); err != nil {
		return fmt.Errorf("soft delete client: %w", err)
	}
	return nil
}

// ExistsActive reports whether an active client holds the given document.
func (r *ClientPostgres) ExistsActive(ctx context.Context, number string, docType model.DocumentType) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM clients
			WHERE document_number = $1 AND document_type = $2 AND NOT is_deleted
		)
	`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, number, string(docType)).Scan(&exists); err != nil {
		return false, fmt.Errorf("check document: %w", err)
	}
	return exists, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (model.Client, error) {
	var (
		c                   model.Client
		docType             string
		cvName, cvLoc       sql.NullString
		photoName, photoLoc sql.NullString
		updatedAt           sql.NullTime
	)
	if err := s.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.DateOfBirth,
		&docType,
		&c.DocumentNumber,
		&cvName,
		&cvLoc,
		&photoName,
		&photoLoc,
		&c.Deleted,
		&c.CreatedAt,
		&updatedAt,
	); err != nil {
		return model.Client{}, err
	}

	c.DocumentType = model.DocumentType(docType)
	c.CreatedAt = c.CreatedAt.UTC()
	if cvName.Valid {
		c.CV = &model.FileRef{Name: cvName.String, Location: cvLoc.String}
	}
	if photoName.Valid {
		c.Photo = &model.FileRef{Name: photoName.String, Location: photoLoc.String}
	}
	if updatedAt.Valid {
		at := updatedAt.Time.UTC()
		c.UpdatedAt = &at
	}
	return c, nil
}

func fileColumns(ref *model.FileRef) (name, location sql.NullString) {
	if ref == nil {
		return sql.NullString{}, sql.NullString{}
	}
	return sql.NullString{String: ref.Name, Valid: true},
		sql.NullString{String: ref.Location, Valid: ref.Location != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
