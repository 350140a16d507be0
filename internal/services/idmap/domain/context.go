package domain

import "context"

type memberKey struct{}

// WithMemberMapping marks ctx as mapping gene-set members rather than a query
// the mapper then reports its summary at debug level
func WithMemberMapping(ctx context.Context) context.Context {
	return context.WithValue(ctx, memberKey{}, true)
}

// IsMemberMapping reports whether ctx was marked by WithMemberMapping
func IsMemberMapping(ctx context.Context) bool {
	v, _ := ctx.Value(memberKey{}).(bool)
	return v
}
