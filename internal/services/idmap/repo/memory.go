package repo

import (
	"bufio"
	"context"
	"io"
	"strings"

	"oraflow/internal/core/geneid"
	perr "oraflow/internal/platform/errors"
	"oraflow/internal/services/idmap/domain"
)

// Memory is an in process annotation provider built from a gene table
// lookup order for symbols: official symbol, alias, then case insensitive symbol when unambiguous
type Memory struct {
	genes    map[geneid.CanonicalID]domain.Gene
	bySymbol map[string]geneid.CanonicalID
	byAlias  map[string]geneid.CanonicalID
	byUpper  map[string]geneid.CanonicalID
	byAcc    map[string]geneid.CanonicalID
}

// NewMemory indexes genes; later records never displace an earlier symbol or alias
func NewMemory(genes []domain.Gene) *Memory {
	m := &Memory{
		genes:    make(map[geneid.CanonicalID]domain.Gene, len(genes)),
		bySymbol: make(map[string]geneid.CanonicalID, len(genes)),
		byAlias:  map[string]geneid.CanonicalID{},
		byUpper:  make(map[string]geneid.CanonicalID, len(genes)),
		byAcc:    map[string]geneid.CanonicalID{},
	}
	ambiguous := map[string]bool{}
	for _, g := range genes {
		if g.ID == "" {
			continue
		}
		if _, dup := m.genes[g.ID]; dup {
			continue
		}
		m.genes[g.ID] = g
		if g.Symbol != "" {
			if _, ok := m.bySymbol[g.Symbol]; !ok {
				m.bySymbol[g.Symbol] = g.ID
			}
			up := strings.ToUpper(g.Symbol)
			if prev, ok := m.byUpper[up]; ok && prev != g.ID {
				ambiguous[up] = true
			} else {
				m.byUpper[up] = g.ID
			}
		}
		for _, a := range g.Aliases {
			if _, ok := m.byAlias[a]; !ok && a != "" {
				m.byAlias[a] = g.ID
			}
		}
		for _, a := range g.Accessions {
			if _, ok := m.byAcc[a]; !ok && a != "" {
				m.byAcc[a] = g.ID
			}
		}
	}
	for up := range ambiguous {
		delete(m.byUpper, up)
	}
	return m
}

// ResolveByAccession implements domain.AnnotationProvider
// the canonical id itself counts as an accession; versioned accessions fall back to the unversioned form
func (m *Memory) ResolveByAccession(_ context.Context, accs []string) (map[string]geneid.CanonicalID, error) {
	out := make(map[string]geneid.CanonicalID, len(accs))
	for _, a := range accs {
		for _, key := range accessionKeys(a) {
			if _, ok := m.genes[geneid.CanonicalID(key)]; ok {
				out[a] = geneid.CanonicalID(key)
				break
			}
			if id, ok := m.byAcc[key]; ok {
				out[a] = id
				break
			}
		}
	}
	return out, nil
}

// ResolveBySymbol implements domain.AnnotationProvider
func (m *Memory) ResolveBySymbol(_ context.Context, syms []string) (map[string]geneid.CanonicalID, error) {
	out := make(map[string]geneid.CanonicalID, len(syms))
	for _, s := range syms {
		if id, ok := m.bySymbol[s]; ok {
			out[s] = id
		} else if id, ok := m.byAlias[s]; ok {
			out[s] = id
		} else if id, ok := m.byUpper[strings.ToUpper(s)]; ok {
			out[s] = id
		}
	}
	return out, nil
}

// CountGenes implements domain.Counter
func (m *Memory) CountGenes(context.Context) (int, error) { return len(m.genes), nil }

// Symbols implements domain.SymbolLookup
func (m *Memory) Symbols(_ context.Context, ids []geneid.CanonicalID) (map[geneid.CanonicalID]string, error) {
	out := make(map[geneid.CanonicalID]string, len(ids))
	for _, id := range ids {
		if g, ok := m.genes[id]; ok && g.Symbol != "" {
			out[id] = g.Symbol
		}
	}
	return out, nil
}

// accessionKeys yields a and, for "X.N" versioned forms, "X"
func accessionKeys(a string) []string {
	if i := strings.LastIndexByte(a, '.'); i > 0 {
		return []string{a, a[:i]}
	}
	return []string{a}
}

// ReadGenes parses the annotation table:
// gene_id<TAB>symbol[<TAB>aliases[<TAB>accessions]] with | separated lists
// a first line starting with gene_id is a header; blank and # lines are skipped
func ReadGenes(r io.Reader) ([]domain.Gene, error) {
	var out []domain.Gene
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), 1<<20)
	line := 0
	for sc.Scan() {
		line++
		txt := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(txt) == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		cols := strings.Split(txt, "\t")
		if line == 1 && strings.EqualFold(strings.TrimSpace(cols[0]), "gene_id") {
			continue
		}
		if len(cols) < 2 || strings.TrimSpace(cols[0]) == "" {
			return nil, perr.Inputf("annotation line %d: want gene_id<TAB>symbol", line)
		}
		g := domain.Gene{
			ID:     geneid.CanonicalID(strings.TrimSpace(cols[0])),
			Symbol: strings.TrimSpace(cols[1]),
		}
		if len(cols) > 2 {
			g.Aliases = splitList(cols[2])
		}
		if len(cols) > 3 {
			g.Accessions = splitList(cols[3])
		}
		out = append(out, g)
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeInput, "read annotation table")
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "|") {
		if p = strings.TrimSpace(p); p != "" && p != "-" {
			out = append(out, p)
		}
	}
	return out
}
