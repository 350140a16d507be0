// Package http provides the http transport for the gene-set catalog
package http

import (
	stdhttp "net/http"

	"oraflow/internal/modkit/httpkit"
	"oraflow/internal/services/genesets/domain"
)

// LibraryView describes one configured library tag
type LibraryView struct {
	Tag    string   `json:"tag"`
	Source string   `json:"source,omitempty"`
	From   []string `json:"from,omitempty"`
	Focus  []string `json:"focus,omitempty"`
}

// LibrariesResponse lists configured tags and what the source holds
type LibrariesResponse struct {
	Libraries []LibraryView `json:"libraries"`
	Available []string      `json:"available"`
}

// Register mounts catalog endpoints on the given router
func Register(r httpkit.Router, cat domain.CatalogPort, src domain.Source) {
	h := &handlers{cat: cat, src: src}
	httpkit.Get(r, "/", h.list)
}

type handlers struct {
	cat domain.CatalogPort
	src domain.Source
}

// swagger:route GET /libraries Libraries librariesList
// @Summary Configured gene set libraries
// @Tags Libraries
// @Produce json
// @Success 200 {object} http.LibrariesResponse "ok"
// @Router /libraries [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	specs := h.cat.Specs()
	out := LibrariesResponse{Libraries: make([]LibraryView, 0, len(specs)), Available: []string{}}
	for _, s := range specs {
		out.Libraries = append(out.Libraries, LibraryView{Tag: s.Tag, Source: s.Source, From: s.From, Focus: s.Focus})
	}
	names, err := h.src.Names(r.Context())
	if err != nil {
		return nil, err
	}
	if names != nil {
		out.Available = names
	}
	return out, nil
}
