package blob

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

// exerciseStore runs the shared contract against any driver
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if err := s.Claim(ctx, "2026-10-19_1"); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if err := s.Claim(ctx, "2026-10-19_1"); !errors.Is(err, ErrExists) {
		t.Fatalf("second claim err = %v, want ErrExists", err)
	}

	if err := s.Put(ctx, "2026-10-19_1/GO_enrichment.csv", strings.NewReader("ID\n"), "text/csv"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Put(ctx, "2026-10-19_1/GO_enrichment.csv", strings.NewReader("ID,Description\n"), "text/csv"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	rc, err := s.Get(ctx, "2026-10-19_1/GO_enrichment.csv")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got := readAll(t, rc); got != "ID,Description\n" {
		t.Fatalf("content = %q", got)
	}
	if _, err := s.Get(ctx, "2026-10-19_1/missing.csv"); !errors.Is(err, ErrNotExist) {
		t.Fatalf("missing get err = %v", err)
	}

	_ = s.Put(ctx, "2026-10-19_1/KEGG_enrichment.csv", strings.NewReader("x"), "text/csv")
	_ = s.Put(ctx, "2026-10-20_1/GO_enrichment.csv", strings.NewReader("y"), "text/csv")
	keys, err := s.List(ctx, "2026-10-19_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"2026-10-19_1/GO_enrichment.csv", "2026-10-19_1/KEGG_enrichment.csv"}
	if strings.Join(keys, ",") != strings.Join(want, ",") {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	if err := s.Put(ctx, "../escape.csv", strings.NewReader("z"), ""); err == nil {
		t.Fatalf("escaping key must be rejected")
	}
}

func TestFS_Contract(t *testing.T) {
	t.Parallel()
	s, err := NewFS(filepath.Join(t.TempDir(), "results"))
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	exerciseStore(t, s)

	loc := s.Location("2026-10-19_1/GO_enrichment.csv")
	if _, err := os.Stat(loc); err != nil {
		t.Fatalf("Location %q not on disk: %v", loc, err)
	}
	if s.Driver() != DriverFilesystem {
		t.Fatalf("driver = %s", s.Driver())
	}
}

func TestMemory_Contract(t *testing.T) {
	t.Parallel()
	m := NewMemory()
	exerciseStore(t, m)
	if got := m.Claimed(); len(got) != 1 || got[0] != "2026-10-19_1" {
		t.Fatalf("Claimed = %v", got)
	}
	if m.Location("a/b.csv") != "mem://a/b.csv" {
		t.Fatalf("Location = %q", m.Location("a/b.csv"))
	}
}

func TestCleanKey(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"a/b.csv", "a/b.csv", true},
		{"a//b/../c.csv", "a/c.csv", true},
		{`a\b.csv`, "a/b.csv", true},
		{"", "", false},
		{"/abs", "", false},
		{"..", "", false},
		{"../x", "", false},
		{"a/../../x", "", false},
	}
	for _, c := range cases {
		got, err := CleanKey(c.in)
		if (err == nil) != c.ok || got != c.want {
			t.Fatalf("CleanKey(%q) = %q, %v", c.in, got, err)
		}
	}
}

func TestOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s, err := Open(ctx, Config{Driver: DriverMemory})
	if err != nil || s.Driver() != DriverMemory {
		t.Fatalf("memory open = %v, %v", s, err)
	}
	s, err = Open(ctx, Config{Root: t.TempDir()})
	if err != nil || s.Driver() != DriverFilesystem {
		t.Fatalf("default open = %v, %v", s, err)
	}
	if _, err := Open(ctx, Config{Driver: "ftp"}); err == nil {
		t.Fatalf("unknown driver should fail")
	}
	if _, err := Open(ctx, Config{Driver: DriverS3}); err == nil {
		t.Fatalf("s3 without bucket should fail")
	}
}
