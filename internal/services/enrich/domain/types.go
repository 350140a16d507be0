// Package domain defines enrichment options and result rows
package domain

import (
	"strconv"

	"oraflow/internal/core/geneid"
)

// Options are the per run knobs of the engine; the zero value is invalid, start from Defaults
type Options struct {
	// PCutoff bounds the raw p-value, inclusive
	PCutoff float64 `json:"p_cutoff" validate:"gt=0,lte=1"`
	// QCutoff bounds both p.adjust and qvalue, inclusive
	QCutoff float64 `json:"q_cutoff" validate:"gt=0,lte=1"`
	// MinSetSize and MaxSetSize drop terms by |T| before testing; 0 disables a bound
	MinSetSize int `json:"min_set_size" validate:"gte=0"`
	MaxSetSize int `json:"max_set_size" validate:"gte=0"`
	// Universe is N; 0 asks the run to derive it
	Universe int `json:"universe" validate:"gte=0"`
	// Workers bounds concurrent library invocations; 0 means one per library
	Workers int `json:"workers" validate:"gte=0"`
}

// Defaults returns the stock cutoffs and size bounds
func Defaults() Options {
	return Options{PCutoff: 0.05, QCutoff: 0.2, MinSetSize: 10, MaxSetSize: 500}
}

// Result is one significant term of one library
type Result struct {
	TermID      string  `json:"id"`
	Description string  `json:"description"`
	Count       int     `json:"count"`      // k
	QuerySize   int     `json:"query_size"` // n
	TermSize    int     `json:"term_size"`  // K
	Universe    int     `json:"universe"`   // N
	P           float64 `json:"pvalue"`
	PAdjust     float64 `json:"p_adjust"`
	Q           float64 `json:"qvalue"`
	// Genes are the matched ids in query order
	Genes []geneid.CanonicalID `json:"genes"`
}

// GeneRatio renders k/n
func (r Result) GeneRatio() string { return strconv.Itoa(r.Count) + "/" + strconv.Itoa(r.QuerySize) }

// BgRatio renders K/N
func (r Result) BgRatio() string { return strconv.Itoa(r.TermSize) + "/" + strconv.Itoa(r.Universe) }
