package lite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestOpen_Memory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db, err := Open(ctx, Config{Path: Memory})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE t (id TEXT PRIMARY KEY)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO t (id) VALUES ('7157')`); err != nil {
		t.Fatalf("insert: %v", err)
	}
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("count = %d, err = %v", n, err)
	}
}

func TestOpen_FileCreatesParents(t *testing.T) {
	t.Parallel()
	p := filepath.Join(t.TempDir(), "nested", "annotations.db")
	db, err := Open(context.Background(), Config{Path: p})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = db.Close()
}

func TestOpen_EmptyPath(t *testing.T) {
	t.Parallel()
	if _, err := Open(context.Background(), Config{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
