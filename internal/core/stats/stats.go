// Package stats holds the over-representation test and its multiple testing corrections
package stats

import (
	"math"
	"slices"
)

// logChoose returns log(C(n, k)) via log-gamma; -Inf outside 0 <= k <= n
func logChoose(n, k int) float64 {
	if k < 0 || k > n {
		return math.Inf(-1)
	}
	a, _ := math.Lgamma(float64(n + 1))
	b, _ := math.Lgamma(float64(k + 1))
	c, _ := math.Lgamma(float64(n - k + 1))
	return a - b - c
}

// HypergeomUpper returns P(X >= k) for X ~ Hypergeometric(population N, successes K, draws n)
// computed exactly in log space; inputs outside the support clamp to 0 or 1
func HypergeomUpper(k, N, K, n int) float64 {
	if N <= 0 || K < 0 || n < 0 || K > N || n > N {
		return math.NaN()
	}
	lo := max(0, n-(N-K))
	hi := min(K, n)
	if k <= lo {
		return 1
	}
	if k > hi {
		return 0
	}

	denom := logChoose(N, n)
	terms := make([]float64, 0, hi-k+1)
	top := math.Inf(-1)
	for i := k; i <= hi; i++ {
		lt := logChoose(K, i) + logChoose(N-K, n-i) - denom
		terms = append(terms, lt)
		top = max(top, lt)
	}
	var sum float64
	for _, lt := range terms {
		sum += math.Exp(lt - top)
	}
	return clamp01(math.Exp(top + math.Log(sum)))
}

// BH returns Benjamini-Hochberg adjusted p-values in input order
// monotone in p, capped at 1, and never below the raw p
func BH(p []float64) []float64 {
	m := len(p)
	out := make([]float64, m)
	if m == 0 {
		return out
	}
	order := rankDesc(p)
	running := 1.0
	for j, idx := range order {
		rank := m - j
		v := float64(m) / float64(rank) * p[idx]
		running = min(running, v)
		out[idx] = max(running, p[idx])
	}
	return out
}

// Lambda is the tuning point for Storey's pi0 estimate
const Lambda = 0.5

// Pi0 estimates the proportion of true nulls: #{p > lambda} / (m * (1 - lambda)), capped at 1
// a non positive estimate falls back to 1 (plain BH)
func Pi0(p []float64, lambda float64) float64 {
	m := len(p)
	if m == 0 || lambda <= 0 || lambda >= 1 {
		return 1
	}
	var above int
	for _, v := range p {
		if v > lambda {
			above++
		}
	}
	pi0 := float64(above) / (float64(m) * (1 - lambda))
	if pi0 <= 0 || math.IsNaN(pi0) {
		return 1
	}
	return min(pi0, 1)
}

// QValue returns Storey q-values in input order: pi0 times the step-up adjusted p, capped at 1
func QValue(p []float64) []float64 {
	pi0 := Pi0(p, Lambda)
	m := len(p)
	out := make([]float64, m)
	if m == 0 {
		return out
	}
	order := rankDesc(p)
	running := 1.0
	for j, idx := range order {
		rank := m - j
		v := pi0 * (float64(m) / float64(rank) * p[idx])
		running = min(running, v)
		out[idx] = running
	}
	return out
}

// rankDesc returns indices of p sorted by descending value, ties by descending index for stability
func rankDesc(p []float64) []int {
	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case p[a] > p[b]:
			return -1
		case p[a] < p[b]:
			return 1
		default:
			return b - a
		}
	})
	return idx
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
