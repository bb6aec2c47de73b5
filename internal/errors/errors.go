package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind identifies one of the recoverable outcomes an operation can report.
type Kind string

const (
	KindDuplicateSlotNumber      Kind = "DUPLICATE_SLOT_NUMBER"
	KindBulkCreateConflict       Kind = "BULK_CREATE_CONFLICT"
	KindSlotInUse                Kind = "SLOT_IN_USE"
	KindInvalidSlotState         Kind = "INVALID_SLOT_STATE"
	KindDuplicatePlate           Kind = "DUPLICATE_PLATE"
	KindVehicleInUse             Kind = "VEHICLE_IN_USE"
	KindVehicleAlreadyRequesting Kind = "VEHICLE_ALREADY_REQUESTING"
	KindForbidden                Kind = "FORBIDDEN"
	KindInvalidState             Kind = "INVALID_STATE"
	KindIncompatibleSlot         Kind = "INCOMPATIBLE_SLOT"
	KindNoAvailableSlot          Kind = "NO_AVAILABLE_SLOT"
	KindReasonRequired           Kind = "REASON_REQUIRED"
	KindInvalidWindow            Kind = "INVALID_WINDOW"

	KindDuplicateEmail Kind = "DUPLICATE_EMAIL"
	KindUnauthorized   Kind = "UNAUTHORIZED"
	KindInvalidInput   Kind = "INVALID_INPUT"
	KindNotFound       Kind = "NOT_FOUND"
)

// Error is a recoverable domain error. Never process-fatal; handlers map
// it to an HTTP status via Status.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf extracts the Kind from err, or "" if err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is lets errors.Is match two domain errors by Kind regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if stderrors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Status maps a domain error to the HTTP status the API layer reports.
func Status(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindInvalidInput, KindInvalidWindow, KindReasonRequired:
		return http.StatusBadRequest
	case KindDuplicateSlotNumber, KindBulkCreateConflict, KindSlotInUse,
		KindInvalidSlotState, KindDuplicatePlate, KindVehicleInUse,
		KindVehicleAlreadyRequesting, KindInvalidState, KindIncompatibleSlot,
		KindNoAvailableSlot, KindDuplicateEmail:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
