package session

import (
	"context"
	"testing"
)

func TestSubjectRoundTrip(t *testing.T) {
	ctx := WithSubject(context.Background(), "user_2abc")

	got, ok := SubjectFromContext(ctx)
	if !ok || got != "user_2abc" {
		t.Fatalf("SubjectFromContext = %q, %v", got, ok)
	}
}

func TestSubjectAbsent(t *testing.T) {
	if _, ok := SubjectFromContext(context.Background()); ok {
		t.Fatal("empty context must not carry a subject")
	}
	if _, ok := SubjectFromContext(WithSubject(context.Background(), "")); ok {
		t.Fatal("empty subject must not be stored")
	}
	//nolint:staticcheck // nil context is part of the contract
	if _, ok := SubjectFromContext(nil); ok {
		t.Fatal("nil context must not carry a subject")
	}
}
