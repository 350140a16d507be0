// Package http provides the http transport for analysis runs
package http

import (
	stdhttp "net/http"

	"oraflow/internal/modkit/httpkit"
	"oraflow/internal/services/runs/domain"
)

// Register mounts run endpoints on the given router
func Register(r httpkit.Router, runner domain.RunnerPort) {
	h := &handlers{runner: runner}
	httpkit.CreateJSON(r, "/", h.create)
}

type handlers struct {
	runner domain.RunnerPort
}

// swagger:route POST /runs Runs runsCreate
// @Summary Run an over-representation analysis
// @Description Normalizes and maps the genes, tests every configured library and writes the report
// @Tags Runs
// @Accept json
// @Produce json
// @Param body body domain.Request true "gene list and options"
// @Success 201 {object} domain.Outcome "created"
// @Failure 400 {object} httpkit.Envelope "bad input"
// @Failure 422 {object} httpkit.Envelope "bad options"
// @Router /runs [post]
func (h *handlers) create(r *stdhttp.Request, in domain.Request) (any, error) {
	out, err := h.runner.Run(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return out, nil
}
