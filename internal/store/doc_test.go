package store

import (
	"testing"

	"github.com/google/uuid"

	"bumodocs/internal/locale"
	"bumodocs/internal/models"
)

func TestDocStoreUpsertAndFind(t *testing.T) {
	db := testDB(t)
	s := NewDocStore(db)

	slug := "test_upsert_" + uuid.NewString()[:8]
	t.Cleanup(func() { cleanDocs(t, db, locale.English, slug) })

	label := "Upsert"
	doc := &models.Doc{
		Locale:       locale.English,
		Slug:         slug,
		Title:        "Upsert Test",
		SidebarLabel: &label,
		Body:         "# Hello",
		SourcePath:   "docs/" + slug + ".md",
		Checksum:     "v1",
	}

	changed, err := s.Upsert(doc)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !changed {
		t.Error("first upsert should report a change")
	}

	found, err := s.FindBySlug(locale.English, slug)
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found == nil {
		t.Fatal("expected doc, got nil")
	}
	if found.ID == uuid.Nil {
		t.Error("expected generated id")
	}
	if found.Title != "Upsert Test" || found.Label() != "Upsert" {
		t.Errorf("unexpected doc: %+v", found)
	}

	// Same checksum: nothing written.
	changed, err = s.Upsert(doc)
	if err != nil {
		t.Fatalf("second Upsert: %v", err)
	}
	if changed {
		t.Error("unchanged checksum should not report a change")
	}

	doc.Checksum = "v2"
	doc.Title = "Upsert Test v2"
	changed, err = s.Upsert(doc)
	if err != nil {
		t.Fatalf("third Upsert: %v", err)
	}
	if !changed {
		t.Error("new checksum should report a change")
	}
	found, _ = s.FindBySlug(locale.English, slug)
	if found.Title != "Upsert Test v2" {
		t.Errorf("title after update: got %q", found.Title)
	}
}

func TestDocStoreFindMissing(t *testing.T) {
	db := testDB(t)
	s := NewDocStore(db)

	found, err := s.FindBySlug(locale.Chinese, "__missing_"+uuid.NewString())
	if err != nil {
		t.Fatalf("FindBySlug: %v", err)
	}
	if found != nil {
		t.Errorf("expected nil, got %+v", found)
	}
}

func TestDocStoreLocalesAreSeparate(t *testing.T) {
	db := testDB(t)
	s := NewDocStore(db)

	slug := "test_locales_" + uuid.NewString()[:8]
	t.Cleanup(func() {
		cleanDocs(t, db, locale.English, slug)
		cleanDocs(t, db, locale.Chinese, slug)
	})

	for _, loc := range []locale.Locale{locale.English, locale.Chinese} {
		if _, err := s.Upsert(&models.Doc{Locale: loc, Slug: slug, Title: string(loc), Checksum: "x"}); err != nil {
			t.Fatalf("Upsert %s: %v", loc, err)
		}
	}

	cn, err := s.FindBySlug(locale.Chinese, slug)
	if err != nil || cn == nil {
		t.Fatalf("FindBySlug cn: %v %v", cn, err)
	}
	if cn.Title != "cn" || cn.Locale != locale.Chinese {
		t.Errorf("cn doc: %+v", cn)
	}

	docs, err := s.ListByLocale(locale.Chinese)
	if err != nil {
		t.Fatalf("ListByLocale: %v", err)
	}
	found := false
	for _, d := range docs {
		if d.Slug == slug {
			found = true
		}
		if d.Locale != locale.Chinese {
			t.Errorf("ListByLocale returned %s doc", d.Locale)
		}
	}
	if !found {
		t.Error("ListByLocale did not include the test doc")
	}
}

func TestDocStoreDeleteBySource(t *testing.T) {
	db := testDB(t)
	s := NewDocStore(db)

	slug := "test_delete_" + uuid.NewString()[:8]
	source := "docs/" + slug + ".md"
	t.Cleanup(func() { cleanDocs(t, db, locale.English, slug) })

	if _, err := s.Upsert(&models.Doc{Locale: locale.English, Slug: slug, Title: "D", SourcePath: source, Checksum: "x"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	deleted, err := s.DeleteBySource(source)
	if err != nil {
		t.Fatalf("DeleteBySource: %v", err)
	}
	if len(deleted) != 1 || deleted[0].Slug != slug {
		t.Errorf("deleted: %+v", deleted)
	}

	found, _ := s.FindBySlug(locale.English, slug)
	if found != nil {
		t.Error("doc should be gone")
	}

	n, err := s.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n < 0 {
		t.Errorf("Count: got %d", n)
	}
}
