package usecase

import (
	"errors"
	"strings"

	"github.com/xavierca1/patrocinios/internal/entity"
)

const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeState            = "STATE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
)

// Sentinelas para errors.Is; comparam só o Code.
var (
	ErrValidation       = &DomainError{Code: CodeValidation}
	ErrState            = &DomainError{Code: CodeState}
	ErrNotFound         = &DomainError{Code: CodeNotFound}
	ErrStoreUnavailable = &TechnicalError{Code: CodeStoreUnavailable}
)

type DomainError struct {
	Code    string
	Message string
	Fields  []ValidationError
}

func (e *DomainError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Error())
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func (e *TechnicalError) Is(target error) bool {
	t, ok := target.(*TechnicalError)
	return ok && t.Code == e.Code
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}

func stateError(msg string) error {
	return &DomainError{Code: CodeState, Message: msg}
}

func notFound(id string) error {
	return &DomainError{Code: CodeNotFound, Message: "patrocinador não encontrado: " + id}
}

// storeError classifica a falha do adapter: NotFound ou StoreUnavailable.
func storeError(op, id string, err error) error {
	if errors.Is(err, entity.ErrDocumentNotFound) {
		return notFound(id)
	}
	return &TechnicalError{
		Code:    CodeStoreUnavailable,
		Message: "falha no store ao " + op,
		Err:     err,
	}
}
