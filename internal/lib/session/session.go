// Package session carries the authenticated caller through context.Context.
//
// The auth middleware stores the identity provider's subject with
// WithSubject; services read it back with SubjectFromContext. A context
// without a subject belongs to an anonymous caller.
package session

import "context"

type subjectKey struct{}

// WithSubject returns a copy of ctx carrying subject. An empty subject
// leaves ctx unchanged.
func WithSubject(ctx context.Context, subject string) context.Context {
	if subject == "" {
		return ctx
	}
	return context.WithValue(ctx, subjectKey{}, subject)
}

// SubjectFromContext returns the subject stored by WithSubject.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	subject, ok := ctx.Value(subjectKey{}).(string)
	return subject, ok && subject != ""
}
