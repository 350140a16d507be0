// Package gmt reads and writes gene matrix transposed files: name<TAB>description<TAB>gene...
package gmt

import (
	"bufio"
	"io"
	"strings"

	perr "oraflow/internal/platform/errors"
)

// Set is one gene set as written in the file; Genes are raw tokens (symbols or accessions)
type Set struct {
	Name        string
	Description string
	Genes       []string
}

// maxLine bounds a single set line; large ontology terms carry tens of thousands of members
const maxLine = 4 << 20

// Parse reads every set from r
// blank and # lines are skipped, member tokens are trimmed and deduplicated in order,
// a repeated set name or a line without a description column is an input error
func Parse(r io.Reader) ([]Set, error) {
	var out []Set
	seen := map[string]int{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	line := 0
	for sc.Scan() {
		line++
		txt := strings.TrimRight(sc.Text(), "\r\n")
		if strings.TrimSpace(txt) == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		cols := strings.Split(txt, "\t")
		if len(cols) < 2 {
			return nil, perr.Inputf("gmt line %d: want name<TAB>description<TAB>genes", line)
		}
		name := strings.TrimSpace(cols[0])
		if name == "" {
			return nil, perr.Inputf("gmt line %d: empty set name", line)
		}
		if prev, dup := seen[name]; dup {
			return nil, perr.Inputf("gmt line %d: set %q already defined on line %d", line, name, prev)
		}
		seen[name] = line

		genes := make([]string, 0, len(cols)-2)
		have := make(map[string]struct{}, len(cols)-2)
		for _, g := range cols[2:] {
			g = strings.TrimSpace(g)
			if g == "" {
				continue
			}
			if _, ok := have[g]; ok {
				continue
			}
			have[g] = struct{}{}
			genes = append(genes, g)
		}
		out = append(out, Set{Name: name, Description: strings.TrimSpace(cols[1]), Genes: genes})
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInput, "read gmt")
	}
	return out, nil
}

// Write renders sets in GMT form, one per line
func Write(w io.Writer, sets []Set) error {
	bw := bufio.NewWriter(w)
	for _, s := range sets {
		bw.WriteString(s.Name)
		bw.WriteByte('\t')
		bw.WriteString(s.Description)
		for _, g := range s.Genes {
			bw.WriteByte('\t')
			bw.WriteString(g)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
