// Package strings provides small slice and identifier helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// Unique returns in without repeats, keeping the first occurrence of each value
func Unique[T comparable](in []T) []T {
	if len(in) == 0 {
		return in
	}
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// Fields splits s on sep, trims each piece and drops blanks
func Fields(s, sep string) []string {
	var out []string
	for _, p := range std.Split(s, sep) {
		if v := std.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// JoinIDs renders an identifier list the way result tables expect it ("a/b/c")
func JoinIDs(ids []string) string { return std.Join(ids, "/") }

// Upper trims and upper-cases s, used for library tags
func Upper(s string) string { return std.ToUpper(std.TrimSpace(s)) }

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}
