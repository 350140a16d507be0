// Package swaggerkit serves the OpenAPI document and the swagger UI
package swaggerkit

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"oraflow/internal/platform/config"
	perr "oraflow/internal/platform/errors"

	docs "oraflow/internal/services/api/docs"
)

// SpecMutator adjusts the parsed document before it is served
type SpecMutator func(map[string]any)

var mutators []SpecMutator

// docReader is a seam so tests can feed a broken document
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }

// Register adds a mutator; call it from module init
func Register(m SpecMutator) {
	if m != nil {
		mutators = append(mutators, m)
	}
}

// defaults are the error envelopes every operation can return
var defaults = []struct {
	code    perr.ErrorCode
	message string
}{
	{perr.ErrorCodeValidation, "p_cutoff must be greater than 0"},
	{perr.ErrorCodeConfiguration, "universe 1 is smaller than the query (2 genes)"},
	{perr.ErrorCodeUnknown, "panic recovered"},
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var spec map[string]any
		if err := json.Unmarshal([]byte(docReader()), &spec); err != nil {
			http.Error(w, "spec parse error", http.StatusInternalServerError)
			return
		}

		asOAS30(spec, "/api/v1")
		if v := config.New().Prefix("ORA_API_").MayString("DOCS_TITLE_SUFFIX", ""); v != "" {
			if info, ok := spec["info"].(map[string]any); ok {
				if title, ok := info["title"].(string); ok {
					info["title"] = title + " " + v
				}
			}
		}

		schemas := section(section(spec, "components"), "schemas")
		if _, ok := schemas["ErrorResponse"]; !ok {
			schemas["ErrorResponse"] = errorSchema()
		}
		for _, d := range defaults {
			addDefaultResponse(spec, d.code, d.message)
		}
		for _, m := range mutators {
			m(spec)
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(spec)
	}
}

// asOAS30 pins the document to 3.0.3 since the bundled UI cannot render 3.1
func asOAS30(spec map[string]any, server string) {
	delete(spec, "swagger")
	if v, ok := spec["openapi"].(string); !ok || !strings.HasPrefix(v, "3.0") {
		spec["openapi"] = "3.0.3"
	}
	if _, ok := spec["servers"]; !ok {
		spec["servers"] = []any{map[string]any{"url": server}}
	}
}

func section(parent map[string]any, key string) map[string]any {
	m, ok := parent[key].(map[string]any)
	if !ok {
		m = map[string]any{}
		parent[key] = m
	}
	return m
}

// errorSchema mirrors httpkit.Envelope on the error path
func errorSchema() map[string]any {
	str := map[string]any{"type": "string"}
	num := map[string]any{"type": "integer", "format": "int32"}
	return map[string]any{
		"type":        "object",
		"description": "Error envelope",
		"properties": map[string]any{
			"status_code": num,
			"status":      str,
			"code":        num,
			"kind":        str,
			"error":       str,
			"field":       str,
			"request_id":  str,
		},
		"required": []any{"status_code", "status"},
	}
}

// addDefaultResponse gives every operation lacking one an error response for the status code maps to
func addDefaultResponse(spec map[string]any, code perr.ErrorCode, message string) {
	paths, ok := spec["paths"].(map[string]any)
	if !ok {
		return
	}
	n := perr.HTTPStatusCode(code)
	status := strconv.Itoa(n)
	resp := map[string]any{
		"description": http.StatusText(n),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema": map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": map[string]any{
					"status_code": n,
					"status":      http.StatusText(n),
					"code":        int(code),
					"kind":        code.String(),
					"error":       message,
				},
			},
		},
	}
	for _, p := range paths {
		node, ok := p.(map[string]any)
		if !ok {
			continue
		}
		for _, opAny := range node {
			op, ok := opAny.(map[string]any)
			if !ok {
				continue
			}
			responses := section(op, "responses")
			if _, exists := responses[status]; !exists {
				responses[status] = resp
			}
		}
	}
}
