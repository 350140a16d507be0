// Package domain defines gene-set libraries and the catalog ports
package domain

import (
	"slices"

	"oraflow/internal/core/geneid"
)

// Default library tags, in report order
const (
	TagGO       = "GO"
	TagKEGG     = "KEGG"
	TagReactome = "REACTOME"
	TagHallmark = "HALLMARK"
	TagC2       = "C2"
	TagFocusA   = "FOCUS_A"
	TagFocusB   = "FOCUS_B"
)

// DefaultBase are the file or table backed libraries of a default run
var DefaultBase = []string{TagGO, TagKEGG, TagReactome, TagHallmark, TagC2}

// Term is one named gene set
type Term struct {
	ID          string
	Description string
	Genes       []geneid.CanonicalID
}

// Size is |T|, the term's background count
func (t Term) Size() int { return len(t.Genes) }

// Library is an immutable, tagged collection of terms
type Library struct {
	tag   string
	terms []Term
	index map[string]int
}

// NewLibrary copies terms into a Library; a later duplicate term id is ignored
func NewLibrary(tag string, terms []Term) *Library {
	l := &Library{tag: tag, terms: make([]Term, 0, len(terms)), index: make(map[string]int, len(terms))}
	for _, t := range terms {
		if _, dup := l.index[t.ID]; dup {
			continue
		}
		t.Genes = slices.Clone(t.Genes)
		l.index[t.ID] = len(l.terms)
		l.terms = append(l.terms, t)
	}
	return l
}

// Tag names the library in reports and log fields
func (l *Library) Tag() string { return l.tag }

// Len is the number of terms
func (l *Library) Len() int { return len(l.terms) }

// Terms returns the terms in load order; callers must not mutate gene slices
func (l *Library) Terms() []Term { return slices.Clone(l.terms) }

// Term looks a term up by id
func (l *Library) Term(id string) (Term, bool) {
	i, ok := l.index[id]
	if !ok {
		return Term{}, false
	}
	return l.terms[i], true
}

// Focus returns a new library holding only the named terms, matched by id or description
// names that match nothing are ignored; the result keeps this library's tag
func (l *Library) Focus(names ...string) *Library {
	want := make(map[string]struct{}, len(names))
	for _, n := range names {
		want[n] = struct{}{}
	}
	var keep []Term
	for _, t := range l.terms {
		_, byID := want[t.ID]
		_, byDesc := want[t.Description]
		if byID || byDesc {
			keep = append(keep, t)
		}
	}
	return NewLibrary(l.tag, keep)
}

// Members is the set of distinct genes across all terms
func (l *Library) Members() map[geneid.CanonicalID]struct{} {
	out := map[geneid.CanonicalID]struct{}{}
	for _, t := range l.terms {
		for _, g := range t.Genes {
			out[g] = struct{}{}
		}
	}
	return out
}

// LibrarySpec says how to assemble one tagged library
// an empty Focus loads Source as is, otherwise the named terms are drawn from every library in From
type LibrarySpec struct {
	Tag    string
	Source string
	From   []string
	Focus  []string
}

// IsFocus reports whether the spec is a focused panel
func (s LibrarySpec) IsFocus() bool { return len(s.Focus) > 0 }

// DefaultSpecs builds the seven tag run; focus panels draw from the base libraries
func DefaultSpecs(base, focusA, focusB []string) []LibrarySpec {
	out := make([]LibrarySpec, 0, len(base)+2)
	for _, b := range base {
		out = append(out, LibrarySpec{Tag: b, Source: b})
	}
	for _, f := range []struct {
		tag   string
		terms []string
	}{{TagFocusA, focusA}, {TagFocusB, focusB}} {
		if len(f.terms) == 0 {
			continue
		}
		out = append(out, LibrarySpec{Tag: f.tag, From: slices.Clone(base), Focus: slices.Clone(f.terms)})
	}
	return out
}

// Tags lists the spec tags in order
func Tags(specs []LibrarySpec) []string {
	out := make([]string, len(specs))
	for i, s := range specs {
		out[i] = s.Tag
	}
	return out
}
