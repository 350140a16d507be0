// Package geneid holds the canonical gene identifier and the lexical classifier for raw identifiers
package geneid

import (
	"regexp"
	"slices"
)

// CanonicalID is a gene identifier in the organism's canonical namespace, e.g. an Entrez accession "20704"
type CanonicalID string

// String returns the raw id
func (id CanonicalID) String() string { return string(id) }

// Strings converts ids to plain strings
func Strings(ids []CanonicalID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// Sort sorts ids in place (lexicographic) and returns them
func Sort(ids []CanonicalID) []CanonicalID {
	slices.Sort(ids)
	return ids
}

// Class is the lexical shape of a raw identifier
type Class uint8

const (
	// ClassUnclassified matches neither shape; offered to the symbol lookup as a last chance alias
	ClassUnclassified Class = iota
	// ClassAccession is a database accession (Entrez, Ensembl gene, RefSeq, UniProt)
	ClassAccession
	// ClassSymbol is a gene symbol or alias
	ClassSymbol
)

var classNames = [...]string{"unclassified", "accession", "symbol"}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

var (
	reEntrez  = regexp.MustCompile(`^[0-9]+$`)
	reEnsembl = regexp.MustCompile(`^ENS[A-Z]*G[0-9]{6,}(\.[0-9]+)?$`)
	reRefSeq  = regexp.MustCompile(`^(NM|NR|XM|XR|NP|XP)_[0-9]+(\.[0-9]+)?$`)
	// UniProt accession format, uniprot.org/help/accession_numbers
	reUniProt = regexp.MustCompile(`^([OPQ][0-9][A-Z0-9]{3}[0-9]|[A-NR-Z][0-9]([A-Z][A-Z0-9]{2}[0-9]){1,2})$`)
	reSymbol  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9\-._@/]{0,31}$`)
)

// Classify assigns raw to exactly one class by shape alone; accession shapes win over symbol
func Classify(raw string) Class {
	switch {
	case raw == "":
		return ClassUnclassified
	case IsAccession(raw):
		return ClassAccession
	case reSymbol.MatchString(raw):
		return ClassSymbol
	default:
		return ClassUnclassified
	}
}

// IsAccession reports whether raw has one of the accession shapes
func IsAccession(raw string) bool {
	return reEntrez.MatchString(raw) ||
		reEnsembl.MatchString(raw) ||
		reRefSeq.MatchString(raw) ||
		reUniProt.MatchString(raw)
}

// Partition splits raw into per class batches, preserving input order inside each batch
func Partition(raw []string) map[Class][]string {
	out := make(map[Class][]string, 3)
	for _, r := range raw {
		c := Classify(r)
		out[c] = append(out[c], r)
	}
	return out
}
