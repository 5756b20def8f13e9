package contracts

import (
	"errors"
	"strings"
)

const (
	ErrorCategoryAPI      = "api"
	ErrorCategoryAuth     = "auth"
	ErrorCategoryState    = "state"
	ErrorCategoryRegistry = "registry"
	ErrorCategoryStorage  = "storage"
)

func normalizeErrorCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case ErrorCategoryAuth:
		return ErrorCategoryAuth
	case ErrorCategoryState:
		return ErrorCategoryState
	case ErrorCategoryRegistry:
		return ErrorCategoryRegistry
	case ErrorCategoryStorage:
		return ErrorCategoryStorage
	default:
		return ErrorCategoryAPI
	}
}

// WrapCategorizedError tags err with a category. An error that already carries
// a category keeps it.
func WrapCategorizedError(category string, err error) error {
	if err == nil {
		return nil
	}
	var existing *CategorizedError
	if errors.As(err, &existing) {
		return &CategorizedError{
			Category: normalizeErrorCategory(existing.Category),
			Err:      existing.Err,
		}
	}
	return &CategorizedError{
		Category: normalizeErrorCategory(category),
		Err:      err,
	}
}

func ErrorCategory(err error) string {
	var classified *CategorizedError
	if errors.As(err, &classified) {
		return normalizeErrorCategory(classified.Category)
	}
	return ErrorCategoryAPI
}
