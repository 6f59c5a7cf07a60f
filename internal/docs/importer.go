// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package docs imports Markdown documentation from a directory tree into
// the doc store and can watch that tree for changes during development.
//
// Layout: files directly under the root (or under "en/") are English docs,
// files under "cn/" belong to the secondary locale. Each file may start with
// a YAML front matter block carrying id, title and sidebar_label.
package docs

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"bumodocs/internal/locale"
	"bumodocs/internal/models"
	"bumodocs/internal/slug"
)

var (
	// ErrNotMarkdown is returned when a path is not a Markdown doc.
	ErrNotMarkdown = errors.New("docs: not a markdown file")
	// ErrInvalidID is returned when a doc id cannot appear in a URL.
	ErrInvalidID = errors.New("docs: invalid doc id")
)

var frontMatterDelim = []byte("---")

// Store is the persistence the importer writes to.
type Store interface {
	Upsert(d *models.Doc) (bool, error)
	DeleteBySource(path string) ([]models.Doc, error)
}

// FrontMatter is the YAML header of a doc file.
type FrontMatter struct {
	ID           string `yaml:"id"`
	Title        string `yaml:"title"`
	SidebarLabel string `yaml:"sidebar_label"`
}

// Result summarizes an import run.
type Result struct {
	Imported  int
	Unchanged int
	Changed   []models.Doc
}

// Importer loads doc files below Root into a Store.
type Importer struct {
	Root  string
	store Store
}

// NewImporter creates an Importer for the docs directory root.
func NewImporter(root string, store Store) *Importer {
	return &Importer{Root: filepath.Clean(root), store: store}
}

// IsDoc reports whether path names a Markdown doc.
func IsDoc(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

// ImportAll walks the docs tree and upserts every doc. Unchanged files are
// skipped by checksum.
func (im *Importer) ImportAll(ctx context.Context) (Result, error) {
	var res Result
	err := filepath.WalkDir(im.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != im.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDoc(path) {
			return nil
		}
		doc, changed, err := im.ImportFile(path)
		if err != nil {
			return err
		}
		if changed {
			res.Imported++
			res.Changed = append(res.Changed, *doc)
		} else {
			res.Unchanged++
		}
		return nil
	})
	if err != nil {
		return res, fmt.Errorf("import docs from %s: %w", im.Root, err)
	}

	slog.Info("docs imported", "root", im.Root, "imported", res.Imported, "unchanged", res.Unchanged)
	return res, nil
}

// ImportFile reads one doc file and upserts it. changed is false when the
// stored copy already has the same checksum.
func (im *Importer) ImportFile(path string) (*models.Doc, bool, error) {
	if !IsDoc(path) {
		return nil, false, fmt.Errorf("%w: %s", ErrNotMarkdown, path)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read doc: %w", err)
	}
	rel, err := im.relative(path)
	if err != nil {
		return nil, false, err
	}

	doc, err := ParseDoc(rel, src)
	if err != nil {
		return nil, false, err
	}
	changed, err := im.store.Upsert(doc)
	if err != nil {
		return nil, false, err
	}
	return doc, changed, nil
}

// Remove deletes the docs imported from path and returns them.
func (im *Importer) Remove(path string) ([]models.Doc, error) {
	rel, err := im.relative(path)
	if err != nil {
		return nil, err
	}
	return im.store.DeleteBySource(rel)
}

func (im *Importer) relative(path string) (string, error) {
	rel, err := filepath.Rel(im.Root, path)
	if err != nil {
		return "", fmt.Errorf("resolve doc path: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("doc %s is outside %s", path, im.Root)
	}
	return filepath.ToSlash(rel), nil
}

// LocaleOf returns the locale of a doc from its path relative to the root.
func LocaleOf(rel string) locale.Locale {
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	if first == locale.Prefix {
		return locale.Chinese
	}
	return locale.English
}

// ParseDoc builds a doc from a file's path relative to the root and its
// contents. The slug is the front matter id, or the file name without
// extension.
func ParseDoc(rel string, src []byte) (*models.Doc, error) {
	fm, body, err := SplitFrontMatter(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", rel, err)
	}

	id := fm.ID
	if id == "" {
		id = slug.FromPath(rel)
	}
	if !slug.Valid(id) {
		return nil, fmt.Errorf("%s: %w %q", rel, ErrInvalidID, id)
	}
	title := fm.Title
	if title == "" {
		title = id
	}

	sum := sha256.Sum256(src)
	doc := &models.Doc{
		Locale:     LocaleOf(rel),
		Slug:       id,
		Title:      title,
		Body:       string(body),
		SourcePath: rel,
		Checksum:   hex.EncodeToString(sum[:]),
	}
	if fm.SidebarLabel != "" {
		label := fm.SidebarLabel
		doc.SidebarLabel = &label
	}
	return doc, nil
}

// SplitFrontMatter separates a leading "---" delimited YAML block from the
// Markdown body. Sources without front matter return an empty FrontMatter.
func SplitFrontMatter(src []byte) (FrontMatter, []byte, error) {
	var fm FrontMatter
	src = bytes.TrimPrefix(src, []byte("\uFEFF"))

	first, rest, ok := cutLine(src)
	if !ok || !bytes.Equal(bytes.TrimSpace(first), frontMatterDelim) {
		return fm, src, nil
	}

	var header []byte
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if bytes.Equal(bytes.TrimSpace(line), frontMatterDelim) {
			if err := yaml.Unmarshal(header, &fm); err != nil {
				return fm, nil, fmt.Errorf("decode front matter: %w", err)
			}
			return fm, bytes.TrimLeft(next, "\r\n"), nil
		}
		header = append(header, line...)
		header = append(header, '\n')
		rest = next
	}
	return fm, nil, errors.New("unterminated front matter")
}

func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}
