package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	errorslib "github.com/goliatone/go-errors"
)

func TestAsGoErrorMapping(t *testing.T) {
	cases := []struct {
		err      error
		category errorslib.Category
		code     string
	}{
		{NewError(KindValidation, "bad input", nil), errorslib.CategoryValidation, "validation"},
		{NewError(KindNotFound, "missing", nil), errorslib.CategoryNotFound, "not_found"},
		{NewError(KindConversion, MsgPDFGenerationFailed, errors.New("engine")), errorslib.CategoryOperation, "conversion"},
		{NewError(KindRender, "template", nil), errorslib.CategoryInternal, "render"},
		{context.DeadlineExceeded, errorslib.CategoryOperation, "timeout"},
		{context.Canceled, errorslib.CategoryOperation, "canceled"},
		{NewError(KindInternal, "boom", nil), errorslib.CategoryInternal, "internal"},
		{errors.New("plain"), errorslib.CategoryInternal, "internal"},
	}

	for _, tc := range cases {
		mapped := AsGoError(tc.err)
		if mapped == nil {
			t.Fatalf("expected mapping for %v", tc.err)
		}
		if mapped.Category != tc.category {
			t.Fatalf("expected category %s, got %s", tc.category, mapped.Category)
		}
		if mapped.TextCode != tc.code {
			t.Fatalf("expected text code %s, got %s", tc.code, mapped.TextCode)
		}
	}
}

func TestAsGoError_UsesKindMessage(t *testing.T) {
	err := NewError(KindConversion, MsgPDFGenerationFailed, errors.New("chromium crashed"))
	mapped := AsGoError(fmt.Errorf("wrapped: %w", err))
	if mapped.Message != MsgPDFGenerationFailed {
		t.Fatalf("expected %q, got %q", MsgPDFGenerationFailed, mapped.Message)
	}
}

func TestKindFromError_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewValidationError("invalid", FieldError{Field: "title", Message: "field required"}))
	if got := KindFromError(err); got != KindValidation {
		t.Fatalf("expected validation, got %s", got)
	}
	if got := FieldErrors(err); len(got) != 1 || got[0].Field != "title" {
		t.Fatalf("unexpected field errors %+v", got)
	}
	if KindFromError(nil) != "" {
		t.Fatalf("expected empty kind for nil")
	}
}

func TestError_Message(t *testing.T) {
	err := NewValidationError("invalid form submission",
		FieldError{Field: "title", Message: "field required"},
		FieldError{Field: "date", Message: "field required"},
	)
	if got := err.Error(); got != "invalid form submission (title, date)" {
		t.Fatalf("unexpected message %q", got)
	}
	wrapped := NewError(KindConversion, "pdf", errors.New("cause"))
	if got := wrapped.Error(); got != "pdf: cause" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestParseContentPolicy(t *testing.T) {
	cases := map[string]ContentPolicy{
		"":         PolicyEscape,
		"escape":   PolicyEscape,
		" Raw ":    PolicyRaw,
		"SANITIZE": PolicySanitize,
	}
	for input, want := range cases {
		got, err := ParseContentPolicy(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := ParseContentPolicy("strip"); KindFromError(err) != KindValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
