package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/part"
	"github.com/apexev/workshop/modules/warehouse/domain/aggregates/partrequest"
	"github.com/apexev/workshop/pkg/configuration"
	"github.com/apexev/workshop/pkg/httpapi"
	"github.com/apexev/workshop/pkg/serrors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		panic(err)
	}
}

func ensureRequestID(w http.ResponseWriter, r *http.Request) string {
	if r == nil {
		return ""
	}
	header := strings.TrimSpace(configuration.Use().RequestIDHeader)
	if header == "" {
		header = "X-Request-ID"
	}

	requestID := strings.TrimSpace(r.Header.Get(header))
	if requestID == "" {
		requestID = uuid.NewString()
		w.Header().Set(header, requestID)
	}
	return requestID
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, code string, message string) {
	meta := map[string]string{
		"request_id": ensureRequestID(w, r),
	}
	if err := httpapi.WriteError(w, status, code, message, meta); err != nil {
		panic(err)
	}
}

func writeValidationErrors(w http.ResponseWriter, r *http.Request, errs serrors.ValidationErrors) {
	message := "validation failed"
	if v := strings.TrimSpace(errs.First()); v != "" {
		message = v
	}
	writeAPIError(w, r, http.StatusUnprocessableEntity, "WAREHOUSE_VALIDATION_FAILED", message)
}

// writeDomainError maps the warehouse sentinels onto HTTP statuses; anything
// unrecognized is a 500 with no detail leaked.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isAny(err, part.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "WAREHOUSE_PART_NOT_FOUND", "part not found")
	case isAny(err, partrequest.ErrNotFound):
		writeAPIError(w, r, http.StatusNotFound, "WAREHOUSE_REQUEST_NOT_FOUND", "part request not found")
	case isAny(err, part.ErrSKUTaken):
		writeAPIError(w, r, http.StatusConflict, "WAREHOUSE_SKU_CONFLICT", "sku already exists")
	case isAny(err, part.ErrReferenced):
		writeAPIError(w, r, http.StatusConflict, "WAREHOUSE_PART_REFERENCED", "part is referenced by requests")
	case isAny(err, part.ErrInsufficientStock):
		writeAPIError(w, r, http.StatusConflict, "WAREHOUSE_INSUFFICIENT_STOCK", "insufficient stock")
	case isAny(err, partrequest.ErrInvalidState):
		writeAPIError(w, r, http.StatusConflict, "WAREHOUSE_INVALID_STATE", "request is not in a state that allows this transition")
	case isAny(err, part.ErrInvalidAdjustment):
		writeAPIError(w, r, http.StatusUnprocessableEntity, "WAREHOUSE_INVALID_ADJUSTMENT", "invalid stock adjustment")
	case isAny(err, partrequest.ErrInvalidQuantity):
		writeAPIError(w, r, http.StatusUnprocessableEntity, "WAREHOUSE_INVALID_QUANTITY", "quantity must be positive")
	case isAny(err, partrequest.ErrEmptyReason):
		writeAPIError(w, r, http.StatusUnprocessableEntity, "WAREHOUSE_EMPTY_REASON", "rejection reason is required")
	case isAny(err, partrequest.ErrForbidden):
		writeAPIError(w, r, http.StatusForbidden, "WAREHOUSE_FORBIDDEN", "actor is not allowed to perform this operation")
	default:
		writeAPIError(w, r, http.StatusInternalServerError, "WAREHOUSE_INTERNAL", "internal error")
	}
}

func isAny(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func pathUUID(r *http.Request, name string) (uuid.UUID, bool) {
	raw, ok := mux.Vars(r)[name]
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
