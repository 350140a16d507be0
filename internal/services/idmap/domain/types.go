// Package domain defines the types and ports for identifier mapping
package domain

import "oraflow/internal/core/geneid"

// Gene is one annotation record of the canonical namespace
type Gene struct {
	ID         geneid.CanonicalID
	Symbol     string
	Aliases    []string
	Accessions []string
}

// Overrides maps a raw symbol to a CanonicalID; consulted only for raw ids no strategy resolved
type Overrides map[string]geneid.CanonicalID

// Mapping is the immutable outcome of one Map call
type Mapping struct {
	// Total is the number of distinct raw ids offered
	Total int
	// Mapped holds one CanonicalID per resolved gene, first occurrence order
	Mapped []geneid.CanonicalID
	// Unmapped holds raw ids no strategy or override resolved, input order
	Unmapped []string
	// Resolved is raw id -> CanonicalID, override hits included
	Resolved map[string]geneid.CanonicalID
	// ByOverride lists raw ids whose id came from the override table
	ByOverride []string
}

// Set returns the mapped ids as a set
func (m Mapping) Set() map[geneid.CanonicalID]struct{} {
	out := make(map[geneid.CanonicalID]struct{}, len(m.Mapped))
	for _, id := range m.Mapped {
		out[id] = struct{}{}
	}
	return out
}

// InputLabels returns, per mapped id, the first raw id that resolved to it
func (m Mapping) InputLabels(raw []string) map[geneid.CanonicalID]string {
	out := make(map[geneid.CanonicalID]string, len(m.Mapped))
	for _, r := range raw {
		id, ok := m.Resolved[r]
		if !ok {
			continue
		}
		if _, seen := out[id]; !seen {
			out[id] = r
		}
	}
	return out
}
