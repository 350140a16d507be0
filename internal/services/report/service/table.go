package service

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"

	"oraflow/internal/core/geneid"
	dom "oraflow/internal/services/report/domain"
	resdom "oraflow/internal/services/results/domain"
)

// listSep joins gene ids and symbols inside one cell
const listSep = "/"

// WriteTable renders rows as CSV with dom.TableColumns; an empty library still gets its header
func WriteTable(w io.Writer, rows []resdom.Annotated) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dom.TableColumns); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.TermID,
			r.Description,
			r.GeneRatio(),
			r.BgRatio(),
			formatFloat(r.P),
			formatFloat(r.PAdjust),
			formatFloat(r.Q),
			strings.Join(geneid.Strings(r.Genes), listSep),
			strings.Join(r.Symbols, listSep),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Plot keeps the first top rows, which are already the most significant
func Plot(tag string, rows []resdom.Annotated, top int) dom.Plot {
	if top > 0 && len(rows) > top {
		rows = rows[:top]
	}
	out := dom.Plot{Library: tag, Terms: make([]dom.PlotPoint, 0, len(rows))}
	for _, r := range rows {
		out.Terms = append(out.Terms, dom.PlotPoint{
			ID:          r.TermID,
			Description: r.Description,
			NegLog10Adj: negLog10(r.PAdjust),
			Count:       r.Count,
			GeneRatio:   r.GeneRatio(),
		})
	}
	return out
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// negLog10 caps p == 0 at the smallest positive float so the json stays finite
func negLog10(p float64) float64 {
	if p <= 0 {
		p = math.SmallestNonzeroFloat64
	}
	return -math.Log10(p)
}
