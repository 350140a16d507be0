// Package time contains time related helpers
package time

import "time"

// DateLayout is the day stamp used in run directory names
const DateLayout = "2006-01-02"

// Now is the clock seam; tests swap it to pin run dates
var Now = func() time.Time { return time.Now() }

// Today returns the local calendar date of Now as YYYY-MM-DD
func Today() string { return Now().Format(DateLayout) }

// Ptr returns a pointer to t or nil if t is zero
func Ptr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
