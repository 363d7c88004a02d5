package httperr

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

type Kind int

const (
	KindValidation Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindState
	KindConflict
	KindUpstream
)

func (k Kind) Status() int {
	switch k {
	case KindValidation, KindState:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// BusinessError is a domain failure that is reported to the caller as is.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e BusinessError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code
}

func (e BusinessError) Unwrap() error { return e.Err }

func newErr(kind Kind, code string, msg []string) error {
	e := BusinessError{Kind: kind, Code: code}
	if len(msg) > 0 {
		e.Message = msg[0]
	}
	return e
}

// ErrBusiness is a state error: the request is well formed but the
// entity cannot make the requested move.
func ErrBusiness(code string, msg ...string) error { return newErr(KindState, code, msg) }

func ErrValidation(code string, msg ...string) error { return newErr(KindValidation, code, msg) }

func ErrUnauthorized(code string, msg ...string) error { return newErr(KindUnauthorized, code, msg) }

func ErrForbidden(code string, msg ...string) error { return newErr(KindForbidden, code, msg) }

func ErrNotFound(code string, msg ...string) error { return newErr(KindNotFound, code, msg) }

func ErrConflict(code string, msg ...string) error { return newErr(KindConflict, code, msg) }

// ErrUpstream wraps a failure of an external collaborator. The cause is
// surfaced verbatim in the message.
func ErrUpstream(code string, cause error) error {
	e := BusinessError{Kind: KindUpstream, Code: code, Err: cause}
	if cause != nil {
		e.Message = cause.Error()
	}
	return e
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

func AsBusiness(err error) (BusinessError, bool) {
	var be BusinessError
	ok := errors.As(err, &be)
	return be, ok
}

// IsExclusionConflict reports whether postgres rejected a write because of
// an exclusion or unique constraint.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" || pgErr.Code == "23505"
	}
	return false
}
