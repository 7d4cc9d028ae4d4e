package index

import (
	"os"
	"testing"
	"time"

	"github.com/starford/mdxoutline/internal/models"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "mdxoutline-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM outlines`).Scan(&count); err != nil {
		t.Fatalf("outlines table missing: %v", err)
	}
	if err := db.conn.QueryRow(`SELECT count(*) FROM headings`).Scan(&count); err != nil {
		t.Fatalf("headings table missing: %v", err)
	}
}

func TestUpsertAndGetChecksum(t *testing.T) {
	db := testDB(t)
	row := OutlineRow{Path: "guide.mdx", Checksum: "abc123", UpdatedAt: time.Now()}
	hs := []models.Heading{{Level: 1, Text: "Guide", Line: 0}, {Level: 2, Text: "Setup", Line: 4}}
	if err := db.UpsertOutline(row, hs); err != nil {
		t.Fatalf("UpsertOutline: %v", err)
	}
	cs, err := db.GetChecksum("guide.mdx")
	if err != nil {
		t.Fatalf("GetChecksum: %v", err)
	}
	if cs != "abc123" {
		t.Errorf("checksum = %q, want %q", cs, "abc123")
	}
	got, err := db.Headings("guide.mdx")
	if err != nil {
		t.Fatalf("Headings: %v", err)
	}
	if len(got) != 2 || got[1] != hs[1] {
		t.Errorf("headings = %+v", got)
	}
}

func TestUpsertReplacesHeadings(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertOutline(OutlineRow{Path: "a.mdx", Checksum: "1", UpdatedAt: now}, []models.Heading{{Level: 1, Text: "Old", Line: 0}})
	_ = db.UpsertOutline(OutlineRow{Path: "a.mdx", Checksum: "2", UpdatedAt: now}, []models.Heading{{Level: 2, Text: "New", Line: 3}})

	got, _ := db.Headings("a.mdx")
	if len(got) != 1 || got[0].Text != "New" {
		t.Errorf("headings = %+v, want only New", got)
	}
	rows, err := db.ListOutlines()
	if err != nil {
		t.Fatalf("ListOutlines: %v", err)
	}
	if len(rows) != 1 || rows[0].Checksum != "2" || rows[0].HeadingCount != 1 {
		t.Errorf("rows = %+v", rows)
	}
}

func TestGetChecksum_NotFound(t *testing.T) {
	db := testDB(t)
	cs, err := db.GetChecksum("nonexistent.mdx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cs != "" {
		t.Errorf("expected empty checksum, got %q", cs)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertOutline(OutlineRow{Path: "s.mdx", Checksum: "1", UpdatedAt: time.Now()},
		[]models.Heading{{Level: 2, Text: "Installation uniqueword", Line: 7}, {Level: 2, Text: "Other", Line: 9}})

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Path != "s.mdx" || results[0].Line != 7 {
		t.Errorf("search results = %+v, want 1 hit for s.mdx line 7", results)
	}
}
