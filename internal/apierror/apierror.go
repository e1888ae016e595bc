// Package apierror provides the typed business errors shared by services and
// handlers. All errors returned to clients go through this package to ensure
// consistency and to prevent leaking internal details (stack traces, DB
// errors, etc.). Callers branch on Kind and Code, never on message text.
package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error into one of the enumerated families.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindPermission  Kind = "permission"
	KindConflict    Kind = "conflict"
	KindStorage     Kind = "storage"
	KindTransaction Kind = "transaction"
)

// Stable machine codes. The front office matches on these, so they are part
// of the API contract and must never be reworded.
const (
	CodeSampleRequiredNotApproved = "SAMPLE_REQUIRED_NOT_APPROVED"
	CodeSupplierRequired          = "SUPPLIER_REQUIRED"
	CodeCostPriceInvalid          = "COST_PRICE_INVALID"
	CodeDraftIncomplete           = "DRAFT_INCOMPLETE"
	CodeSourcingNotValidated      = "SOURCING_NOT_VALIDATED"
	CodeInvalidTransition         = "INVALID_TRANSITION"
	CodeOrderNotEditable          = "ORDER_NOT_EDITABLE"
	CodeItemsInvalid              = "ITEMS_INVALID"
	CodePromotionConflict         = "PROMOTION_CONFLICT"
	CodeNotOwner                  = "NOT_OWNER"
)

// Error is the canonical business error. Fields is only populated for
// validation errors that concern specific fields or items.
type Error struct {
	Kind   Kind              `json:"kind"`
	Code   string            `json:"code,omitempty"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s): %s", e.Kind, e.Code, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func Validation(code, detail string) *Error {
	return &Error{Kind: KindValidation, Code: code, Detail: detail}
}

// ValidationFields wraps multiple field errors under one validation error.
func ValidationFields(detail string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Detail: detail, Fields: fields}
}

func NotFound(resource string) *Error {
	return &Error{Kind: KindNotFound, Detail: resource + " introuvable"}
}

func Permission(detail string) *Error {
	return &Error{Kind: KindPermission, Code: CodeNotOwner, Detail: detail}
}

func Conflict(code, detail string) *Error {
	return &Error{Kind: KindConflict, Code: code, Detail: detail}
}

func Storage(detail string, err error) *Error {
	if err != nil {
		detail = detail + ": " + err.Error()
	}
	return &Error{Kind: KindStorage, Detail: detail}
}

// Transaction wraps a partial failure during a multi-step write. The caller
// only ever observes it after a full rollback.
func Transaction(detail string, err error) *Error {
	if err != nil {
		detail = detail + ": " + err.Error()
	}
	return &Error{Kind: KindTransaction, Detail: detail}
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatus maps an error to the status the handlers respond with.
// Unknown errors map to 500 and are logged upstream.
func HTTPStatus(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindPermission:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindStorage:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New keeps the generic constructor used by middleware for messages that
// carry no business kind (panics, malformed JSON).
func New(msg string) *Error {
	return &Error{Kind: KindValidation, Detail: msg}
}
