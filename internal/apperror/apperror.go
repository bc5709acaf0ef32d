// Package apperror defines the tagged outcome type pipelines and clients
// return instead of raising. The dispatcher is the only place that
// translates a *Error into an HTTP response.
package apperror

import "net/http"

// Kind enumerates the closed set of error categories the gateway can
// produce. Every Kind except GenericStorageError maps to exactly one HTTP
// status in statusFor(); GenericStorageError carries its status per Error.
type Kind string

const (
	KindInvalidInput          Kind = "INVALID_INPUT"
	KindDocPreviewDisabled    Kind = "DOC_PREVIEW_DISABLED"
	KindDocThumbnailDisabled  Kind = "DOC_THUMBNAIL_DISABLED"
	KindItemNotFound          Kind = "ITEM_NOT_FOUND"
	KindUnprocessable         Kind = "UNPROCESSABLE"
	KindDocsEditorUnavailable Kind = "DOCS_EDITOR_UNAVAILABLE"
	KindGenericStorageError   Kind = "GENERIC_STORAGE_ERROR"
	KindStorageUnavailable    Kind = "STORAGE_UNAVAILABLE"
)

// Error is the tagged outcome propagated up from pipelines and clients.
// GenericStorageError carries its own HTTP status (the storage
// upstream's original 4xx code); every other Kind has a fixed status.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error for a fixed-status Kind, looking up the status
// from the standard table below.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Status: statusFor(kind), Message: message}
}

// GenericStorage builds a GenericStorageError carrying the upstream's own
// 4xx status code (anything other than 404, which becomes ItemNotFound).
func GenericStorage(status int, message string) *Error {
	return &Error{Kind: KindGenericStorageError, Status: status, Message: message}
}

func statusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindDocPreviewDisabled, KindDocThumbnailDisabled:
		return http.StatusBadRequest
	case KindItemNotFound:
		return http.StatusNotFound
	case KindUnprocessable:
		return http.StatusUnprocessableEntity
	case KindDocsEditorUnavailable:
		return http.StatusTooManyRequests
	case KindStorageUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Fixed response messages referenced by spec scenarios and tests.
const (
	MsgStorageUnavailable    = "STORAGE_UNAVAILABLE"
	MsgDocsEditorUnavailable = "DOCS_EDITOR_UNAVAILABLE"
	MsgDocPreviewDisabled    = "Document preview is disabled"
	MsgDocThumbnailDisabled  = "Document thumbnail is disabled"
)

// InvalidInput is a convenience constructor used throughout the pipelines.
func InvalidInput(message string) *Error { return New(KindInvalidInput, message) }

// Unprocessable is a convenience constructor used by the request validator.
func Unprocessable(message string) *Error { return New(KindUnprocessable, message) }

// StorageUnavailable is a convenience constructor for blob-client failures.
func StorageUnavailable() *Error { return New(KindStorageUnavailable, MsgStorageUnavailable) }

// DocsEditorUnavailable is a convenience constructor for the /ready/ probe.
func DocsEditorUnavailable() *Error {
	return New(KindDocsEditorUnavailable, MsgDocsEditorUnavailable)
}

// ItemNotFound is a convenience constructor for a storage 404.
func ItemNotFound() *Error { return New(KindItemNotFound, "item not found") }
