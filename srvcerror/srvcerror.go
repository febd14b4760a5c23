package srvcerror

import "net/http"

// Error is returned by services when the failure should be shown to the
// caller. The message is public, the debug cause is only logged.
type Error struct {
	errorCode  string
	msgToUser  string
	dbgInfoErr error

	httpStatus int
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) ErrorCode() string {
	return e.errorCode
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

// Unwrap exposes the debug cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.dbgInfoErr
}

// SetDebug returns a copy carrying err as its debug cause. Constructors hand
// out fresh values, but copying keeps shared sentinels untouched.
func (e *Error) SetDebug(err error) *Error {
	cp := *e
	cp.dbgInfoErr = err
	return &cp
}

func (e *Error) HttpStatusCode() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHttpStatusCode(code int) *Error {
	e.httpStatus = code
	return e
}

func New(errorCode string, msgToUser string) *Error {
	return &Error{
		errorCode: errorCode,
		msgToUser: msgToUser,
	}
}

const ErrCodeInternalServerError = "internal_server_error"

func ErrInternalSE() *Error {
	return New(
		ErrCodeInternalServerError,
		"internal server error",
	).SetHttpStatusCode(http.StatusInternalServerError)
}
