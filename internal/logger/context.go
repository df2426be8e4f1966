package logger

import "context"

type ctxKey struct{}

type field struct {
	key   string
	value string
}

// WithField returns a context whose log entries carry key=value, whichever
// Logger writes them.
func WithField(ctx context.Context, key, value string) context.Context {
	prev := fieldsFrom(ctx)
	fields := make([]field, 0, len(prev)+1)
	fields = append(fields, prev...)
	fields = append(fields, field{key: key, value: value})
	return context.WithValue(ctx, ctxKey{}, fields)
}

func fieldsFrom(ctx context.Context) []field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]field)
	return fields
}
