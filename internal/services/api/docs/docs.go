// Package docs holds the OpenAPI document served at /api/docs
// regenerate with: swag init --v3.1 -g internal/services/api/api.go -o internal/services/api/docs
package docs

import "github.com/swaggo/swag/v2"

const docTemplate = `{
    "openapi": "3.1.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "paths": {
        "/runs": {
            "post": {
                "summary": "Run an over-representation analysis",
                "description": "Normalizes and maps the genes, tests every configured library and writes the report",
                "tags": ["Runs"],
                "requestBody": {
                    "required": true,
                    "content": {"application/json": {"schema": {"$ref": "#/components/schemas/runs.Request"}}}
                },
                "responses": {
                    "201": {"description": "created", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/runs.Outcome"}}}},
                    "422": {"description": "bad options", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/ErrorResponse"}}}}
                }
            }
        },
        "/libraries": {
            "get": {
                "summary": "Configured gene set libraries",
                "tags": ["Libraries"],
                "responses": {
                    "200": {"description": "ok", "content": {"application/json": {"schema": {"$ref": "#/components/schemas/genesets.LibrariesResponse"}}}}
                }
            }
        },
        "/meta/health": {
            "get": {"summary": "Health check", "tags": ["Meta"], "responses": {"200": {"description": "ok"}}}
        },
        "/meta/ready": {
            "get": {"summary": "Readiness probe with dependency checks", "tags": ["Meta"], "responses": {"200": {"description": "ok"}}}
        },
        "/meta/version": {
            "get": {"summary": "Build and version info", "tags": ["Meta"], "responses": {"200": {"description": "ok"}}}
        },
        "/meta/service": {
            "get": {"summary": "Service info and uptime", "tags": ["Meta"], "responses": {"200": {"description": "ok"}}}
        }
    },
    "components": {
        "schemas": {
            "runs.Options": {
                "type": "object",
                "properties": {
                    "p_cutoff": {"type": "number", "exclusiveMinimum": 0, "maximum": 1, "example": 0.05},
                    "q_cutoff": {"type": "number", "exclusiveMinimum": 0, "maximum": 1, "example": 0.2},
                    "min_set_size": {"type": "integer", "minimum": 0, "example": 10},
                    "max_set_size": {"type": "integer", "minimum": 0, "example": 500},
                    "universe": {"type": "integer", "minimum": 0}
                }
            },
            "runs.Rule": {
                "type": "object",
                "required": ["from"],
                "properties": {"from": {"type": "string"}, "to": {"type": "string"}}
            },
            "runs.Request": {
                "type": "object",
                "required": ["genes"],
                "properties": {
                    "genes": {"type": "array", "minItems": 1, "items": {"type": "string", "maxLength": 256}, "example": ["Ifit1", "Sts"]},
                    "overrides": {"type": "object", "additionalProperties": {"type": "string"}},
                    "rewrites": {"type": "array", "items": {"$ref": "#/components/schemas/runs.Rule"}},
                    "libraries": {"type": "array", "items": {"type": "string"}, "example": ["GO", "KEGG"]},
                    "options": {"$ref": "#/components/schemas/runs.Options"}
                }
            },
            "results.Row": {
                "type": "object",
                "properties": {
                    "id": {"type": "string"},
                    "description": {"type": "string"},
                    "count": {"type": "integer"},
                    "query_size": {"type": "integer"},
                    "term_size": {"type": "integer"},
                    "universe": {"type": "integer"},
                    "pvalue": {"type": "number"},
                    "p_adjust": {"type": "number"},
                    "qvalue": {"type": "number"},
                    "genes": {"type": "array", "items": {"type": "string"}},
                    "symbols": {"type": "array", "items": {"type": "string"}}
                }
            },
            "results.Library": {
                "type": "object",
                "properties": {
                    "tag": {"type": "string"},
                    "rows": {"type": "array", "items": {"$ref": "#/components/schemas/results.Row"}}
                }
            },
            "runs.Outcome": {
                "type": "object",
                "properties": {
                    "meta": {"type": "object"},
                    "libraries": {"type": "array", "items": {"$ref": "#/components/schemas/results.Library"}},
                    "location": {"type": "object"}
                }
            },
            "genesets.LibrariesResponse": {
                "type": "object",
                "properties": {
                    "libraries": {"type": "array", "items": {"type": "object"}},
                    "available": {"type": "array", "items": {"type": "string"}}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Title:            "oraflow API",
	Description:      "Over-representation analysis of gene lists against GO, KEGG, Reactome and MSigDB libraries",
	InfoInstanceName: "api",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
