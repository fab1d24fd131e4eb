package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/patrocinios/internal/infra/http/middleware"
	"github.com/xavierca1/patrocinios/internal/usecase"
)

type ErrorResponse struct {
	Code    string                    `json:"code"`
	Message string                    `json:"message"`
	Fields  []usecase.ValidationError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeUseCaseError traduz os erros do usecase para status HTTP.
func writeUseCaseError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, usecase.ErrValidation):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, usecase.ErrState):
			status = http.StatusConflict
		case errors.Is(err, usecase.ErrNotFound):
			status = http.StatusNotFound
		}
		middleware.RecordOperationError(de.Code)
		writeJSON(w, status, ErrorResponse{Code: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		middleware.RecordOperationError(te.Code)
		logger.Error("falha técnica", zap.String("code", te.Code), zap.Error(err))
		status := http.StatusInternalServerError
		if errors.Is(err, usecase.ErrStoreUnavailable) {
			status = http.StatusServiceUnavailable
		}
		writeErrorResponse(w, status, te.Code, te.Message)
		return
	}

	middleware.RecordOperationError("INTERNAL_ERROR")
	logger.Error("erro inesperado", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "erro interno")
}
