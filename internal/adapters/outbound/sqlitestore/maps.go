package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sufield/mapgw/internal/domain"
	"github.com/sufield/mapgw/internal/ports"
)

const timeLayout = time.RFC3339Nano

// Put inserts rec or, when a record with the same name exists, replaces its
// paths. The ID and creation time of an existing record are kept.
func (s *Store) Put(ctx context.Context, rec domain.MapRecord) (domain.MapRecord, error) {
	if s.readOnly {
		return domain.MapRecord{}, fmt.Errorf("registry: put map: store opened read-only")
	}
	if err := domain.ValidateMapName(rec.Name); err != nil {
		return domain.MapRecord{}, err
	}

	now := s.now().UTC().Format(timeLayout)
	var stored domain.MapRecord
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO maps (id, name, mapfile_path, template_path, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(name) DO UPDATE SET
				mapfile_path = excluded.mapfile_path,
				template_path = excluded.template_path,
				updated_at = excluded.updated_at
		`, uuid.NewString(), rec.Name, rec.MapfilePath, rec.TemplatePath, now, now); err != nil {
			return fmt.Errorf("registry: put map %q: %w", rec.Name, err)
		}

		row := tx.QueryRowContext(ctx, `
			SELECT id, name, mapfile_path, template_path, created_at, updated_at
			FROM maps
			WHERE name = ?
		`, rec.Name)
		var err error
		stored, err = scanRecord(row)
		return err
	})
	if err != nil {
		return domain.MapRecord{}, err
	}
	return stored, nil
}

// Get returns the record registered under name.
func (s *Store) Get(ctx context.Context, name string) (domain.MapRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, mapfile_path, template_path, created_at, updated_at
		FROM maps
		WHERE name = ?
	`, name)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MapRecord{}, NotFoundError{Entity: "map", Key: name}
	}
	return rec, err
}

// List returns all records ordered by name.
func (s *Store) List(ctx context.Context) ([]domain.MapRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, mapfile_path, template_path, created_at, updated_at
		FROM maps
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("registry: list maps: %w", err)
	}
	defer rows.Close()

	var records []domain.MapRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: iterate maps: %w", err)
	}

	return records, nil
}

// Delete removes the record registered under name. Map files are left alone.
func (s *Store) Delete(ctx context.Context, name string) error {
	if s.readOnly {
		return fmt.Errorf("registry: delete map: store opened read-only")
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM maps WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("registry: delete map %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("registry: delete map %q: %w", name, err)
	}
	if n == 0 {
		return NotFoundError{Entity: "map", Key: name}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (domain.MapRecord, error) {
	var (
		rec       domain.MapRecord
		createdAt string
		updatedAt string
	)
	if err := row.Scan(&rec.ID, &rec.Name, &rec.MapfilePath, &rec.TemplatePath, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.MapRecord{}, err
		}
		return domain.MapRecord{}, fmt.Errorf("registry: scan map: %w", err)
	}

	var err error
	if rec.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return domain.MapRecord{}, fmt.Errorf("registry: parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return domain.MapRecord{}, fmt.Errorf("registry: parse updated_at: %w", err)
	}
	return rec, nil
}

var _ ports.MapRegistry = (*Store)(nil)
