package stats

import (
	"math"
	"testing"

	kit "oraflow/internal/platform/testkit"
)

func TestHypergeomUpper_KnownValues(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name       string
		k, N, K, n int
		want       float64
	}{
		{"all drawn are hits", 5, 10, 5, 5, 1.0 / 252},
		{"common overlap", 3, 20, 7, 12, 0.9478844169246646},
		{"large universe", 2, 20000, 40, 100, 0.0170633385043842},
		{"at least one", 1, 100, 10, 10, 0.6695237889132748},
		{"k zero", 0, 100, 10, 10, 1},
		{"k below forced overlap", 2, 10, 8, 5, 1},
		{"k above support", 6, 100, 5, 10, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			kit.InDelta(t, c.name, HypergeomUpper(c.k, c.N, c.K, c.n), c.want, 1e-9)
		})
	}
}

func TestHypergeomUpper_MonotoneInK(t *testing.T) {
	t.Parallel()
	prev := 1.0
	for k := 0; k <= 30; k++ {
		p := HypergeomUpper(k, 5000, 30, 200)
		if p > prev+1e-15 || p < 0 || p > 1 {
			t.Fatalf("k=%d p=%g prev=%g", k, p, prev)
		}
		prev = p
	}
}

func TestHypergeomUpper_InvalidInput(t *testing.T) {
	t.Parallel()
	if !math.IsNaN(HypergeomUpper(1, 10, 11, 2)) || !math.IsNaN(HypergeomUpper(1, 0, 0, 0)) {
		t.Fatalf("expected NaN for impossible parameters")
	}
}

func TestBH(t *testing.T) {
	t.Parallel()
	got := BH([]float64{0.01, 0.04, 0.03, 0.005})
	want := []float64{0.02, 0.04, 0.04, 0.02}
	for i := range want {
		kit.InDelta(t, "bh", got[i], want[i], 1e-12)
	}
	if len(BH(nil)) != 0 {
		t.Fatalf("empty input")
	}
}

func TestBH_Properties(t *testing.T) {
	t.Parallel()
	p := []float64{0.9, 0.2, 0.2, 0.0001, 0.5, 1, 0.049, 0.05}
	adj := BH(p)
	for i := range p {
		if adj[i] < p[i] || adj[i] > 1 {
			t.Fatalf("adj[%d]=%g p=%g", i, adj[i], p[i])
		}
		for j := range p {
			if p[i] < p[j] && adj[i] > adj[j] {
				t.Fatalf("not monotone: p %g<%g but adj %g>%g", p[i], p[j], adj[i], adj[j])
			}
		}
	}
	if adj[1] != adj[2] {
		t.Fatalf("ties must share an adjusted value: %g %g", adj[1], adj[2])
	}
}

func TestAdjust_TiesOnCutoffStayExact(t *testing.T) {
	t.Parallel()
	p := []float64{0.05, 0.05, 0.05}
	for name, got := range map[string][]float64{"bh": BH(p), "q": QValue(p)} {
		for i, v := range got {
			if v != 0.05 {
				t.Fatalf("%s[%d] = %.17g, want exactly 0.05", name, i, v)
			}
		}
	}
}

func TestPi0(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		p    []float64
		want float64
	}{
		{"empty", nil, 1},
		{"all small", []float64{0.01, 0.02}, 1},
		{"half above", []float64{0.01, 0.02, 0.7, 0.8}, 1},
		{"quarter above", []float64{0.01, 0.02, 0.03, 0.9}, 0.5},
		{"capped", []float64{0.9, 0.95}, 1},
	}
	for _, c := range cases {
		kit.InDelta(t, c.name, Pi0(c.p, Lambda), c.want, 1e-12)
	}
	if Pi0([]float64{0.9}, 0) != 1 || Pi0([]float64{0.9}, 1) != 1 {
		t.Fatalf("invalid lambda must fall back to 1")
	}
}

func TestQValue_BoundedByBH(t *testing.T) {
	t.Parallel()
	p := []float64{0.001, 0.01, 0.02, 0.03, 0.6, 0.7, 0.8, 0.9}
	q := QValue(p)
	adj := BH(p)
	pi0 := Pi0(p, Lambda)
	for i := range p {
		if q[i] > adj[i]+1e-15 || q[i] < 0 || q[i] > 1 {
			t.Fatalf("q[%d]=%g adj=%g", i, q[i], adj[i])
		}
		kit.InDelta(t, "q = pi0*bh", q[i], math.Min(1, pi0*adj[i]), 1e-12)
	}
	if len(QValue(nil)) != 0 {
		t.Fatalf("empty input")
	}
}

func TestDeterministic(t *testing.T) {
	t.Parallel()
	p := []float64{0.3, 0.01, 0.3, 0.2}
	a, b := BH(p), BH(p)
	qa, qb := QValue(p), QValue(p)
	for i := range p {
		if a[i] != b[i] || qa[i] != qb[i] {
			t.Fatalf("non deterministic at %d", i)
		}
	}
}
