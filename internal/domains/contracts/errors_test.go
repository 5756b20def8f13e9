package contracts

import (
	"errors"
	"testing"
)

func TestWrapCategorizedError_NewErrorUsesProvidedCategory(t *testing.T) {
	wrapped := WrapCategorizedError(ErrorCategoryAuth, errors.New("boom"))
	var classified *CategorizedError
	if !errors.As(wrapped, &classified) {
		t.Fatalf("expected categorized error, got %T", wrapped)
	}
	if classified.Category != ErrorCategoryAuth {
		t.Fatalf("expected category=%q, got %q", ErrorCategoryAuth, classified.Category)
	}
}

func TestWrapCategorizedError_KeepsExistingCategory(t *testing.T) {
	base := errors.New("boom")
	first := WrapCategorizedError(ErrorCategoryRegistry, base)
	second := WrapCategorizedError(ErrorCategoryStorage, first)
	if got := ErrorCategory(second); got != ErrorCategoryRegistry {
		t.Fatalf("expected category=%q, got %q", ErrorCategoryRegistry, got)
	}
	if !errors.Is(second, base) {
		t.Fatal("expected wrapped error to unwrap to the original")
	}
}

func TestWrapCategorizedError_NormalizesUnknownCategoryToAPI(t *testing.T) {
	wrapped := WrapCategorizedError("unknown", errors.New("boom"))
	if got := ErrorCategory(wrapped); got != ErrorCategoryAPI {
		t.Fatalf("expected category=%q, got %q", ErrorCategoryAPI, got)
	}
}

func TestWrapCategorizedError_NilStaysNil(t *testing.T) {
	if err := WrapCategorizedError(ErrorCategoryState, nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestErrorCategory_DefaultsToAPIForRegularErrors(t *testing.T) {
	if got := ErrorCategory(errors.New("plain")); got != ErrorCategoryAPI {
		t.Fatalf("expected default category=%q, got %q", ErrorCategoryAPI, got)
	}
}
