package types

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Domain error codes. These are the machine-readable contract with callers;
// HTTP status is derived, never the other way around.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicateSlug       = "DUPLICATE_SLUG"
	CodeConstraintViolation = "CONSTRAINT_VIOLATION"
	CodeStaleWrite          = "STALE_WRITE"
	CodeProtectedItem       = "PROTECTED_ITEM"
	CodeProtectedSlot       = "PROTECTED_SLOT"
	CodeValidation          = "VALIDATION"
	CodeControllerExecution = "CONTROLLER_EXECUTION"
)

// DomainError carries a stable code plus a human message. Detail distinguishes
// variants of the same code (e.g. NOT_FOUND "missing" vs "disabled").
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// HTTPStatus maps the code onto an HTTP response status.
func (e *DomainError) HTTPStatus() int {
	switch e.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeDuplicateSlug, CodeConstraintViolation, CodeStaleWrite:
		return fiber.StatusConflict
	case CodeProtectedItem, CodeProtectedSlot:
		return fiber.StatusForbidden
	case CodeValidation:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// NewDomainError builds a DomainError with a formatted message.
func NewDomainError(code, detail, format string, args ...interface{}) *DomainError {
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Detail:  detail,
	}
}

// NotFound builds a NOT_FOUND error. detail names what is absent
// ("missing", "disabled", a slot id).
func NotFound(detail, format string, args ...interface{}) *DomainError {
	return NewDomainError(CodeNotFound, detail, format, args...)
}

// DuplicateSlug builds a DUPLICATE_SLUG error.
func DuplicateSlug(slug string) *DomainError {
	return NewDomainError(CodeDuplicateSlug, slug, "slug %q is already taken by an active plugin", slug)
}

// ConstraintViolation builds a CONSTRAINT_VIOLATION error.
func ConstraintViolation(detail, format string, args ...interface{}) *DomainError {
	return NewDomainError(CodeConstraintViolation, detail, format, args...)
}

// StaleWrite builds a STALE_WRITE error. Callers must re-fetch and retry.
func StaleWrite(expected, actual string) *DomainError {
	return NewDomainError(CodeStaleWrite, actual,
		"draft was modified concurrently (expected revision %s, stored %s); reload and retry", expected, actual)
}

// ProtectedItem builds a PROTECTED_ITEM error for core navigation entries.
func ProtectedItem(key string) *DomainError {
	return NewDomainError(CodeProtectedItem, key, "navigation item %q is platform-owned and cannot be removed", key)
}

// ProtectedSlot builds a PROTECTED_SLOT error for non-custom slots.
func ProtectedSlot(slotID string) *DomainError {
	return NewDomainError(CodeProtectedSlot, slotID, "slot %q is platform-owned and cannot be deleted", slotID)
}

// Validation builds a VALIDATION error. detail carries the offending slot id
// or field name.
func Validation(detail, format string, args ...interface{}) *DomainError {
	return NewDomainError(CodeValidation, detail, format, args...)
}

// ControllerExecution builds a CONTROLLER_EXECUTION error scoped to one
// invocation. detail is "pluginId/controllerName".
func ControllerExecution(pluginID, controllerName, format string, args ...interface{}) *DomainError {
	return NewDomainError(CodeControllerExecution, pluginID+"/"+controllerName, format, args...)
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// AsDomainError extracts a DomainError from err, if present.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	ok := errors.As(err, &de)
	return de, ok
}
