package httperr

import "errors"

// Kind classifies a business failure so transport code can pick a status
// without inspecting message text.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindForbidden     Kind = "forbidden"
	KindUnauthorized  Kind = "unauthorized"
	KindValidation    Kind = "validation"
	KindAlreadyExists Kind = "already_exists"
	KindInternal      Kind = "internal"
)

type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	return e.Code
}

func E(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func NotFoundErr(code, message string) error      { return E(KindNotFound, code, message) }
func ConflictErr(code, message string) error      { return E(KindConflict, code, message) }
func ForbiddenErr(code, message string) error     { return E(KindForbidden, code, message) }
func UnauthorizedErr(code, message string) error  { return E(KindUnauthorized, code, message) }
func ValidationErr(code, message string) error    { return E(KindValidation, code, message) }
func AlreadyExistsErr(code, message string) error { return E(KindAlreadyExists, code, message) }

func IsKind(err error, kind Kind) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind == kind
	}
	return false
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}
