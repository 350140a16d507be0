package httpkit

import (
	"net/http"

	phttp "oraflow/internal/platform/net/http"
)

// Get registers a no-body handler
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Call(h))
}

// PostJSON binds and validates T, answering 200
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.PostJSON(r, path, h)
}

// CreateJSON binds and validates T, answering 201
func CreateJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	phttp.CreateJSON(r, path, h)
}
