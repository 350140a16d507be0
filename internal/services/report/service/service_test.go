package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"oraflow/internal/core/geneid"
	"oraflow/internal/platform/blob"
	perr "oraflow/internal/platform/errors"
	kit "oraflow/internal/platform/testkit"
	ptime "oraflow/internal/platform/time"
	enrichdom "oraflow/internal/services/enrich/domain"
	dom "oraflow/internal/services/report/domain"
	resdom "oraflow/internal/services/results/domain"
)

func annotated(id string, padj float64, genes []geneid.CanonicalID, syms []string) resdom.Annotated {
	return resdom.Annotated{
		Result: enrichdom.Result{
			TermID: id, Description: "desc " + id, Count: len(genes), QuerySize: 2, TermSize: 5, Universe: 10,
			P: padj / 2, PAdjust: padj, Q: padj, Genes: genes,
		},
		Symbols: syms,
	}
}

func aggregate() resdom.Aggregate {
	return resdom.Aggregate{
		Meta: resdom.Meta{RunID: "run-1", QuerySize: 2, Mapped: 2, Unmapped: 1, UnmappedIDs: []string{"Nope"}, PCutoff: 0.05, QCutoff: 0.2},
		Libraries: []resdom.Library{
			{Tag: "GO", Rows: []resdom.Annotated{
				annotated("GO:0051607", 0.001, []geneid.CanonicalID{"15957", "54123"}, []string{"Ifit1", "Irf7"}),
				annotated("GO:0034340", 0.01, []geneid.CanonicalID{"15957"}, []string{"Ifit1"}),
			}},
			{Tag: "KEGG", Rows: []resdom.Annotated{}},
		},
	}
}

func pinDate(t *testing.T) {
	t.Helper()
	kit.Serial(t)
	kit.Swap(t, &ptime.Now, func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.Local) })
}

func read(t *testing.T, s blob.Store, key string) []byte {
	t.Helper()
	rc, err := s.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("get %s: %v", key, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read %s: %v", key, err)
	}
	return b
}

func TestWriteTable(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := WriteTable(&buf, aggregate().Libraries[0].Rows); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	recs, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !reflect.DeepEqual(recs[0], dom.TableColumns) {
		t.Fatalf("header = %v", recs[0])
	}
	want := []string{"GO:0051607", "desc GO:0051607", "2/2", "5/10", "0.0005", "0.001", "0.001", "15957/54123", "Ifit1/Irf7"}
	if !reflect.DeepEqual(recs[1], want) {
		t.Fatalf("row = %v", recs[1])
	}

	buf.Reset()
	if err := WriteTable(&buf, nil); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != strings.Join(dom.TableColumns, ",") {
		t.Fatalf("empty table = %q", got)
	}
}

func TestPlot(t *testing.T) {
	t.Parallel()
	p := Plot("GO", aggregate().Libraries[0].Rows, 1)
	if len(p.Terms) != 1 || p.Terms[0].ID != "GO:0051607" || p.Library != "GO" {
		t.Fatalf("plot = %+v", p)
	}
	kit.InDelta(t, "neg log10", p.Terms[0].NegLog10Adj, 3, 1e-12)
	if p.Terms[0].Count != 2 {
		t.Fatalf("count = %d", p.Terms[0].Count)
	}
	if all := Plot("GO", aggregate().Libraries[0].Rows, 0); len(all.Terms) != 2 {
		t.Fatalf("top 0 keeps all, got %d", len(all.Terms))
	}
	zero := Plot("GO", []resdom.Annotated{annotated("T", 0, nil, nil)}, 0)
	if v := zero.Terms[0].NegLog10Adj; v <= 300 || v > 400 {
		t.Fatalf("p.adjust 0 = %g", v)
	}
}

type fakeArchive struct {
	n   int
	err error
	got []resdom.Aggregate
}

func (f *fakeArchive) Archive(_ context.Context, agg resdom.Aggregate) (int, error) {
	f.got = append(f.got, agg)
	return f.n, f.err
}

func TestWrite(t *testing.T) {
	pinDate(t)
	ctx := context.Background()
	store := blob.NewMemory()
	arch := &fakeArchive{n: 2}
	w := New(store, arch, Config{PlotTop: 10})

	loc, err := w.Write(ctx, aggregate())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if loc.Name != "2026-10-19_1" || loc.Archived != 2 || len(arch.got) != 1 {
		t.Fatalf("location = %+v", loc)
	}
	wantFiles := []string{"GO_enrichment.csv", "GO_plot.json", "KEGG_enrichment.csv", "summary.json"}
	if !reflect.DeepEqual(loc.Files, wantFiles) {
		t.Fatalf("files = %v", loc.Files)
	}
	if _, err := store.Get(ctx, "2026-10-19_1/KEGG_plot.json"); !errors.Is(err, blob.ErrNotExist) {
		t.Fatalf("empty library must not get plot data: %v", err)
	}
	kit.MustContain(t, string(read(t, store, "2026-10-19_1/KEGG_enrichment.csv")), "ID,Description,GeneRatio")

	var sum dom.Summary
	if err := json.Unmarshal(read(t, store, "2026-10-19_1/summary.json"), &sum); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if sum.RunID != "run-1" || sum.Run != "2026-10-19_1" || !reflect.DeepEqual(sum.UnmappedIDs, []string{"Nope"}) {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sum.Libraries) != 2 || sum.Libraries[0].Rows != 2 || sum.Libraries[1].Rows != 0 || sum.Libraries[1].Plot != "" {
		t.Fatalf("library summary = %+v", sum.Libraries)
	}

	again, err := w.Write(ctx, aggregate())
	if err != nil || again.Name != "2026-10-19_2" {
		t.Fatalf("second run = %+v, %v", again, err)
	}
}

func TestWrite_FilesystemRunsNeverCollide(t *testing.T) {
	pinDate(t)
	store, err := blob.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	w := New(store, nil, Config{})
	seen := map[string]bool{}
	for range 3 {
		loc, err := w.Write(context.Background(), aggregate())
		if err != nil {
			t.Fatalf("Write: %v", err)
		}
		if seen[loc.Name] {
			t.Fatalf("run %s allocated twice", loc.Name)
		}
		seen[loc.Name] = true
	}
	if !seen["2026-10-19_3"] {
		t.Fatalf("runs = %v", seen)
	}
}

func TestWrite_ArchiveFailure(t *testing.T) {
	pinDate(t)
	w := New(blob.NewMemory(), &fakeArchive{err: perr.Storagef("ch down")}, Config{})
	_, err := w.Write(context.Background(), aggregate())
	if e, ok := perr.As(err); !ok || e.Op() != "archive" || e.Code() != perr.ErrorCodeStorage {
		t.Fatalf("err = %v", err)
	}
}

func TestNew_RequiresBlob(t *testing.T) {
	t.Parallel()
	kit.MustPanic(t, func() { New(nil, nil, Config{}) })
}
