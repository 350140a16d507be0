package repokit

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"oraflow/internal/platform/store"
	kit "oraflow/internal/platform/testkit"

	sq "github.com/Masterminds/squirrel"
)

func openLite(t *testing.T) TxRunner {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{
		Lite: store.LiteConfig{Enabled: true, Path: ":memory:"},
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	if _, err := st.Lite.Exec(context.Background(), `CREATE TABLE terms (id TEXT PRIMARY KEY, name TEXT)`); err != nil {
		t.Fatalf("schema: %v", err)
	}
	return st.Lite
}

func TestSB_Placeholders(t *testing.T) {
	t.Parallel()
	cases := []struct {
		d    Dialect
		want string
	}{
		{Postgres, "SELECT name FROM terms WHERE id = $1"},
		{SQLite, "SELECT name FROM terms WHERE id = ?"},
	}
	for _, c := range cases {
		sql, args, err := SB(c.d).Select("name").From("terms").Where(sq.Eq{"id": "GO:1"}).ToSql()
		if err != nil || sql != c.want || len(args) != 1 {
			t.Fatalf("%s: %q %v %v", c.d, sql, args, err)
		}
	}
}

func TestExecAndSelect_SQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openLite(t)
	b := SB(SQLite)

	n, err := Exec(ctx, db, b.Insert("terms").Columns("id", "name").
		Values("GO:0001", "a").Values("GO:0002", "b"))
	if err != nil || n != 2 {
		t.Fatalf("insert n=%d err=%v", n, err)
	}

	rows, err := Select(ctx, db, b.Select("id").From("terms").OrderBy("id"))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			t.Fatalf("scan: %v", err)
		}
		ids = append(ids, id)
	}
	if strings.Join(ids, ",") != "GO:0001,GO:0002" {
		t.Fatalf("ids = %v", ids)
	}

	if _, err := Select(ctx, db, b.Select("id").From("missing_table")); err == nil {
		t.Fatalf("expected storage error")
	}
	if _, err := Exec(ctx, db, b.Insert("terms")); err == nil {
		t.Fatalf("expected build error for insert without values")
	}
}

func TestWithTx_RollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openLite(t)
	boom := errors.New("boom")
	err := WithTx(ctx, db, func(q Queryer) error {
		if _, err := Exec(ctx, q, SB(SQLite).Insert("terms").Columns("id", "name").Values("x", "y")); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	var n int
	if err := db.QueryRow(ctx, `SELECT count(*) FROM terms`).Scan(&n); err != nil || n != 0 {
		t.Fatalf("count=%d err=%v", n, err)
	}
}

func TestBinder(t *testing.T) {
	t.Parallel()
	b := BindFunc[string](func(Queryer) string { return "ok" })
	if b.Bind(nil) != "ok" {
		t.Fatalf("BindFunc did not call through")
	}
	kit.MustPanic(t, func() { _ = MustBind[string](b, nil) })
}

type fakePinger struct {
	ctx context.Context
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { f.ctx = ctx; return f.err }

type fakeGuard struct{ err error }

func (f fakeGuard) Guard(context.Context) error { return f.err }

func TestMustPing(t *testing.T) {
	t.Parallel()
	fp := &fakePinger{}
	MustPing(context.Background(), "pg", fp)
	dl, ok := fp.ctx.Deadline()
	if !ok || time.Until(dl) > 5*time.Second {
		t.Fatalf("expected a default deadline, got %v %v", dl, ok)
	}
	kit.MustPanic(t, func() { MustPing(context.Background(), "pg", nil) })
	kit.MustPanic(t, func() { MustPing(context.Background(), "pg", &fakePinger{err: errors.New("down")}) })
}

func TestMustGuard(t *testing.T) {
	t.Parallel()
	MustGuard(context.Background(), fakeGuard{})
	kit.MustPanic(t, func() { MustGuard(context.Background(), fakeGuard{err: errors.New("down")}) })
}
