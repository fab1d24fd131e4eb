package usecase

import (
	"fmt"
	"strings"

	"github.com/xavierca1/patrocinios/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateSponsorDraft só exige nome e categoria; o resto é descritivo e os
// enums são abertos.
func ValidateSponsorDraft(draft entity.SponsorRecord) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(draft.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(draft.Category) == "" {
		errors = append(errors, ValidationError{"category", "is required"})
	}

	return errors
}

func validationFailed(errs []ValidationError) error {
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed",
		Fields:  errs,
	}
}
