// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the database access layer for documentation pages.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	"bumodocs/internal/locale"
	"bumodocs/internal/models"
)

const docColumns = `id, locale, slug, title, sidebar_label, body, source_path, checksum, created_at, updated_at`

// DocStore handles all doc-related database operations.
type DocStore struct {
	db *sql.DB
}

// NewDocStore creates a new DocStore with the given database connection.
func NewDocStore(db *sql.DB) *DocStore {
	return &DocStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDoc(row scanner) (*models.Doc, error) {
	d := &models.Doc{}
	err := row.Scan(
		&d.ID, &d.Locale, &d.Slug, &d.Title, &d.SidebarLabel, &d.Body,
		&d.SourcePath, &d.Checksum, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Upsert inserts a doc or replaces the stored one with the same locale and
// slug. Rows whose checksum is unchanged are not rewritten; changed reports
// whether anything was written.
func (s *DocStore) Upsert(d *models.Doc) (changed bool, err error) {
	var id string
	err = s.db.QueryRow(`
		INSERT INTO docs (locale, slug, title, sidebar_label, body, source_path, checksum)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (locale, slug) DO UPDATE SET
			title = EXCLUDED.title,
			sidebar_label = EXCLUDED.sidebar_label,
			body = EXCLUDED.body,
			source_path = EXCLUDED.source_path,
			checksum = EXCLUDED.checksum,
			updated_at = NOW()
		WHERE docs.checksum <> EXCLUDED.checksum
		RETURNING id
	`, d.Locale, d.Slug, d.Title, d.SidebarLabel, d.Body, d.SourcePath, d.Checksum).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("upsert doc: %w", err)
	}
	return true, nil
}

// FindBySlug retrieves a doc by locale and slug. Returns nil if not found.
func (s *DocStore) FindBySlug(loc locale.Locale, slug string) (*models.Doc, error) {
	d, err := scanDoc(s.db.QueryRow(`
		SELECT `+docColumns+`
		FROM docs WHERE locale = $1 AND slug = $2
	`, loc, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find doc by slug: %w", err)
	}
	return d, nil
}

// ListByLocale returns all docs of a locale ordered by slug.
func (s *DocStore) ListByLocale(loc locale.Locale) ([]models.Doc, error) {
	rows, err := s.db.Query(`
		SELECT `+docColumns+`
		FROM docs WHERE locale = $1
		ORDER BY slug
	`, loc)
	if err != nil {
		return nil, fmt.Errorf("list docs by locale: %w", err)
	}
	defer rows.Close()

	var docs []models.Doc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("scan doc: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// DeleteBySource removes the docs imported from a source file and returns
// them, so callers can invalidate the pages they served.
func (s *DocStore) DeleteBySource(path string) ([]models.Doc, error) {
	rows, err := s.db.Query(`
		DELETE FROM docs WHERE source_path = $1
		RETURNING `+docColumns, path)
	if err != nil {
		return nil, fmt.Errorf("delete docs by source: %w", err)
	}
	defer rows.Close()

	var docs []models.Doc
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deleted doc: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

// Count returns the number of stored docs.
func (s *DocStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM docs").Scan(&n); err != nil {
		return 0, fmt.Errorf("count docs: %w", err)
	}
	return n, nil
}
