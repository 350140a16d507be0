package service

import (
	"fmt"
	"math"
	"math/rand/v2"
	"reflect"
	"sync"
	"testing"

	"oraflow/internal/core/geneid"
	"oraflow/internal/core/stats"
	perr "oraflow/internal/platform/errors"
	kit "oraflow/internal/platform/testkit"
	dom "oraflow/internal/services/enrich/domain"
	gsdom "oraflow/internal/services/genesets/domain"
)

func ids(xs ...string) []geneid.CanonicalID {
	out := make([]geneid.CanonicalID, len(xs))
	for i, x := range xs {
		out[i] = geneid.CanonicalID(x)
	}
	return out
}

func open(universe int) dom.Options {
	return dom.Options{PCutoff: 1, QCutoff: 1, Universe: universe}
}

// smallLib: T0 and T1 hold the whole query, T2 overlaps once, T3 not at all
func smallLib() *gsdom.Library {
	return gsdom.NewLibrary("GO", []gsdom.Term{
		{ID: "T1", Description: "all in", Genes: ids("g1", "g2", "g3", "g4", "g5")},
		{ID: "T2", Description: "one in", Genes: ids("g1", "g6", "g7", "g8", "g9")},
		{ID: "T3", Description: "none in", Genes: ids("g6", "g7", "g8", "g9", "g10")},
		{ID: "T0", Description: "all in too", Genes: ids("g5", "g4", "g3", "g2", "g1")},
	})
}

func randomLib(seed uint64, terms, genes int) (*gsdom.Library, []geneid.CanonicalID) {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	var ts []gsdom.Term
	for i := range terms {
		size := 3 + r.IntN(40)
		seen := map[int]bool{}
		var g []geneid.CanonicalID
		for len(g) < size {
			n := r.IntN(genes)
			if !seen[n] {
				seen[n] = true
				g = append(g, geneid.CanonicalID(fmt.Sprintf("%d", n)))
			}
		}
		ts = append(ts, gsdom.Term{ID: fmt.Sprintf("T%03d", i), Genes: g})
	}
	var q []geneid.CanonicalID
	for n := range genes / 4 {
		q = append(q, geneid.CanonicalID(fmt.Sprintf("%d", n*3%genes)))
	}
	return gsdom.NewLibrary("RANDOM", ts), q
}

func TestEnrich_KnownValues(t *testing.T) {
	t.Parallel()
	got, err := New().Enrich(ids("g1", "g2", "g3", "g4", "g5"), smallLib(), open(10))
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	var order []string
	for _, r := range got {
		order = append(order, r.TermID)
	}
	if !reflect.DeepEqual(order, []string{"T0", "T1", "T2"}) {
		t.Fatalf("order = %v", order)
	}
	r := got[1]
	kit.InDelta(t, "p", r.P, 1.0/252, 1e-12)
	if r.GeneRatio() != "5/5" || r.BgRatio() != "5/10" {
		t.Fatalf("ratios = %s %s", r.GeneRatio(), r.BgRatio())
	}
	kit.InDelta(t, "T2 p", got[2].P, 1-1.0/252, 1e-12)
	// three tested terms: p.adjust of the tied pair is p*3/2
	kit.InDelta(t, "T1 p.adjust", r.PAdjust, 1.0/252*3/2, 1e-12)
	if !reflect.DeepEqual(got[0].Genes, ids("g1", "g2", "g3", "g4", "g5")) {
		t.Fatalf("genes must follow query order, got %v", got[0].Genes)
	}
}

func TestEnrich_Properties(t *testing.T) {
	t.Parallel()
	for seed := range uint64(5) {
		lib, q := randomLib(seed+1, 60, 400)
		opts := open(400)
		got, err := New().Enrich(q, lib, opts)
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if len(got) == 0 {
			t.Fatalf("seed %d: expected rows with open cutoffs", seed)
		}
		for i, r := range got {
			if r.PAdjust < r.P {
				t.Fatalf("seed %d row %s: p.adjust %g < p %g", seed, r.TermID, r.PAdjust, r.P)
			}
			if i > 0 && got[i-1].PAdjust > r.PAdjust {
				t.Fatalf("seed %d: rows not sorted by p.adjust at %d", seed, i)
			}
			if r.Count != len(r.Genes) || r.Count == 0 {
				t.Fatalf("seed %d: count %d vs genes %d", seed, r.Count, len(r.Genes))
			}
		}
		again, _ := New().Enrich(q, lib, opts)
		if !reflect.DeepEqual(got, again) {
			t.Fatalf("seed %d: enrich is not deterministic", seed)
		}
	}
}

func TestEnrich_EmptyResults(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		query []geneid.CanonicalID
		lib   *gsdom.Library
	}{
		{"empty query", nil, smallLib()},
		{"no overlap", ids("x1", "x2"), smallLib()},
		{"empty library", ids("g1"), gsdom.NewLibrary("KEGG", nil)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			got, err := New().Enrich(c.query, c.lib, open(10))
			if err != nil || got == nil || len(got) != 0 {
				t.Fatalf("got %v, %v", got, err)
			}
		})
	}
}

func TestEnrich_ThresholdBoundary(t *testing.T) {
	t.Parallel()
	lib := gsdom.NewLibrary("GO", []gsdom.Term{{ID: "T", Genes: ids("a", "b", "c", "d")}})
	query := ids("a", "b", "x", "y")
	p := stats.HypergeomUpper(2, 30, 4, 4)

	at := open(30)
	at.PCutoff = p
	got, err := New().Enrich(query, lib, at)
	if err != nil || len(got) != 1 || got[0].P != p {
		t.Fatalf("p == cutoff must be kept: %v %v", got, err)
	}

	below := at
	below.PCutoff = math.Nextafter(p, 0)
	got, err = New().Enrich(query, lib, below)
	if err != nil || len(got) != 0 {
		t.Fatalf("p just above cutoff must be dropped: %v %v", got, err)
	}

	q := open(30)
	q.QCutoff = math.Nextafter(p, 0)
	if got, _ := New().Enrich(query, lib, q); len(got) != 0 {
		t.Fatalf("failing the q cutoff drops the row: %v", got)
	}
}

func TestEnrich_SizeBounds(t *testing.T) {
	t.Parallel()
	lib := gsdom.NewLibrary("GO", []gsdom.Term{
		{ID: "small", Genes: ids("a", "b")},
		{ID: "mid", Genes: ids("a", "b", "c", "d")},
		{ID: "big", Genes: ids("a", "b", "c", "d", "e", "f")},
		{ID: "huge", Genes: ids("a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l")},
	})
	query := ids("a", "b", "c")
	cases := []struct {
		name     string
		min, max int
		universe int
		want     []string
	}{
		{"unbounded", 0, 0, 100, []string{"big", "huge", "mid", "small"}},
		{"min", 3, 0, 100, []string{"big", "huge", "mid"}},
		{"max", 0, 4, 100, []string{"mid", "small"}},
		{"both", 3, 6, 100, []string{"big", "mid"}},
		{"terms larger than the universe are skipped", 0, 0, 10, []string{"big", "mid", "small"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			opts := open(c.universe)
			opts.MinSetSize, opts.MaxSetSize = c.min, c.max
			got, err := New().Enrich(query, lib, opts)
			if err != nil {
				t.Fatalf("Enrich: %v", err)
			}
			seen := map[string]bool{}
			for _, r := range got {
				seen[r.TermID] = true
			}
			if len(seen) != len(c.want) {
				t.Fatalf("got %v, want %v", seen, c.want)
			}
			for _, w := range c.want {
				if !seen[w] {
					t.Fatalf("got %v, want %v", seen, c.want)
				}
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name  string
		mut   func(*dom.Options)
		n     int
		field string
	}{
		{"zero p cutoff", func(o *dom.Options) { o.PCutoff = 0 }, 1, "p_cutoff"},
		{"p cutoff above one", func(o *dom.Options) { o.PCutoff = 1.01 }, 1, "p_cutoff"},
		{"negative q cutoff", func(o *dom.Options) { o.QCutoff = -0.1 }, 1, "q_cutoff"},
		{"negative min size", func(o *dom.Options) { o.MinSetSize = -1 }, 1, "min_set_size"},
		{"min above max", func(o *dom.Options) { o.MinSetSize, o.MaxSetSize = 20, 10 }, 1, "min_set_size"},
		{"universe below query", func(o *dom.Options) { o.Universe = 2 }, 3, "universe"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			o := dom.Defaults()
			o.Universe = 100
			c.mut(&o)
			err := New().Validate(o, c.n)
			e, ok := perr.As(err)
			if !ok || e.Code() != perr.ErrorCodeConfiguration || e.Field() != c.field || e.Op() != "enrich" {
				t.Fatalf("err = %v", err)
			}
		})
	}
	ok := dom.Defaults()
	ok.Universe = 3
	if err := New().Validate(ok, 3); err != nil {
		t.Fatalf("universe equal to the query is valid: %v", err)
	}
}

func TestEnrich_RejectsBeforeComputing(t *testing.T) {
	t.Parallel()
	_, err := New().Enrich(ids("g1", "g2", "g3"), smallLib(), open(2))
	e, ok := perr.As(err)
	if !ok || e.Code() != perr.ErrorCodeConfiguration || e.Field() != "GO" {
		t.Fatalf("err = %v", err)
	}
	if perr.HTTPStatus(err) != 422 {
		t.Fatalf("status = %d", perr.HTTPStatus(err))
	}
}

func TestEnrich_DuplicateQueryIDsCountOnce(t *testing.T) {
	t.Parallel()
	a, _ := New().Enrich(ids("g1", "g2", "g1"), smallLib(), open(10))
	b, _ := New().Enrich(ids("g1", "g2"), smallLib(), open(10))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("duplicates changed the result")
	}
}

func TestEnrich_ConcurrentLibrariesAreIndependent(t *testing.T) {
	t.Parallel()
	libs := make([]*gsdom.Library, 7)
	var query []geneid.CanonicalID
	for i := range libs {
		libs[i], query = randomLib(uint64(i+10), 40, 300)
	}
	eng := New()
	want := make([][]dom.Result, len(libs))
	for i, l := range libs {
		want[i], _ = eng.Enrich(query, l, open(300))
	}
	got := make([][]dom.Result, len(libs))
	var wg sync.WaitGroup
	for i, l := range libs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], _ = eng.Enrich(query, l, open(300))
		}()
	}
	wg.Wait()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("concurrent results differ from sequential ones")
	}
}
