package repo

import (
	"context"
	"strings"
	"testing"

	"oraflow/internal/core/geneid"
	"oraflow/internal/modkit/repokit"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/platform/store"
	kit "oraflow/internal/platform/testkit"
	"oraflow/internal/services/idmap/domain"
)

type provider interface {
	domain.AnnotationProvider
	domain.Counter
	domain.SymbolLookup
}

func fixtureGenes(t *testing.T) []domain.Gene {
	t.Helper()
	genes, err := ReadGenes(strings.NewReader(kit.AnnotationTSV))
	if err != nil {
		t.Fatalf("ReadGenes: %v", err)
	}
	return genes
}

// providerContract is shared by the memory, sqlite and postgres providers
func providerContract(t *testing.T, p provider) {
	t.Helper()
	ctx := context.Background()

	syms, err := p.ResolveBySymbol(ctx, []string{"Ifit1", "Isg56", "IFIT1", "Tnfa", "Nope", "ifit1"})
	if err != nil {
		t.Fatalf("ResolveBySymbol: %v", err)
	}
	wantSym := map[string]geneid.CanonicalID{
		"Ifit1": "15957",
		"Isg56": "15957",
		"IFIT1": "15957",
		"ifit1": "15957",
		"Tnfa":  "21926",
	}
	if len(syms) != len(wantSym) {
		t.Fatalf("symbols = %v", syms)
	}
	for k, v := range wantSym {
		if syms[k] != v {
			t.Fatalf("symbol %s = %q, want %q", k, syms[k], v)
		}
	}

	accs, err := p.ResolveByAccession(ctx, []string{"15957", "NM_008331.2", "ENSMUSG00000040670", "P42225", "99999"})
	if err != nil {
		t.Fatalf("ResolveByAccession: %v", err)
	}
	wantAcc := map[string]geneid.CanonicalID{
		"15957":              "15957",
		"NM_008331.2":        "15957",
		"ENSMUSG00000040670": "20905",
		"P42225":             "20846",
	}
	if len(accs) != len(wantAcc) {
		t.Fatalf("accessions = %v", accs)
	}
	for k, v := range wantAcc {
		if accs[k] != v {
			t.Fatalf("accession %s = %q, want %q", k, accs[k], v)
		}
	}

	n, err := p.CountGenes(ctx)
	if err != nil || n != 12 {
		t.Fatalf("CountGenes = %d, %v", n, err)
	}

	names, err := p.Symbols(ctx, []geneid.CanonicalID{"15957", "20905", "404"})
	if err != nil {
		t.Fatalf("Symbols: %v", err)
	}
	if len(names) != 2 || names["15957"] != "Ifit1" || names["20905"] != "Sts" {
		t.Fatalf("Symbols = %v", names)
	}
}

func TestMemory_Contract(t *testing.T) {
	t.Parallel()
	providerContract(t, NewMemory(fixtureGenes(t)))
}

func TestMemory_AmbiguousCaseFoldIsUnresolved(t *testing.T) {
	t.Parallel()
	m := NewMemory([]domain.Gene{
		{ID: "1", Symbol: "Abc"},
		{ID: "2", Symbol: "ABC"},
		{ID: "1", Symbol: "Shadowed"},
	})
	got, _ := m.ResolveBySymbol(context.Background(), []string{"Abc", "ABC", "aBc", "Shadowed"})
	if got["Abc"] != "1" || got["ABC"] != "2" {
		t.Fatalf("exact symbols = %v", got)
	}
	if _, ok := got["aBc"]; ok {
		t.Fatalf("ambiguous case fold must not resolve")
	}
	if _, ok := got["Shadowed"]; ok {
		t.Fatalf("duplicate id must keep the first record")
	}
}

func TestReadGenes_Errors(t *testing.T) {
	t.Parallel()
	_, err := ReadGenes(strings.NewReader("gene_id\tsymbol\nonly-one-column\n"))
	if !perr.IsCode(err, perr.ErrorCodeInput) || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("err = %v", err)
	}
}

func openSQLite(t *testing.T) store.TxRunner {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{Lite: store.LiteConfig{Enabled: true, Path: ":memory:"}})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return st.Lite
}

// loadSQL creates the schema twice and imports the fixture twice to prove both are idempotent
func loadSQL(t *testing.T, db store.TxRunner, d repokit.Dialect) Storage {
	t.Helper()
	ctx := context.Background()
	genes := fixtureGenes(t)
	r := repokit.MustBind(New(d, "mmu"), repokit.Queryer(db))
	for range 2 {
		if err := r.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema: %v", err)
		}
		err := repokit.WithTx(ctx, db, func(q repokit.Queryer) error {
			n, err := New(d, "mmu").Bind(q).UpsertGenes(ctx, append(genes, genes[0]))
			if err == nil && n != 12 {
				t.Fatalf("upserted %d", n)
			}
			return err
		})
		if err != nil {
			t.Fatalf("UpsertGenes: %v", err)
		}
	}
	return r
}

func TestSQLite_Contract(t *testing.T) {
	t.Parallel()
	db := openSQLite(t)
	providerContract(t, loadSQL(t, db, repokit.SQLite))

	other := NewSQLite("hsa").Bind(db)
	if n, err := other.CountGenes(context.Background()); err != nil || n != 0 {
		t.Fatalf("organism scope leaked: %d %v", n, err)
	}
}

func TestSQLite_RenamedSymbolIsUpdated(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openSQLite(t)
	r := loadSQL(t, db, repokit.SQLite)
	if _, err := r.UpsertGenes(ctx, []domain.Gene{{ID: "20905", Symbol: "Sts1"}}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := r.Symbols(ctx, []geneid.CanonicalID{"20905"})
	if err != nil || got["20905"] != "Sts1" {
		t.Fatalf("Symbols = %v %v", got, err)
	}
}

func TestSQL_MissingSchemaIsStorageError(t *testing.T) {
	t.Parallel()
	r := NewSQLite("mmu").Bind(openSQLite(t))
	_, err := r.ResolveBySymbol(context.Background(), []string{"Ifit1"})
	if err == nil || perr.CodeOf(err) == perr.ErrorCodeUnknown {
		t.Fatalf("err = %v (code %v)", err, perr.CodeOf(err))
	}
}
