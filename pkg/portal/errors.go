package portal

import "net/http"

// Error is the result type every handler path returns instead of throwing:
// a wire code the clients dispatch on, a human message and the HTTP status
// the gin layer should answer with.
type Error struct {
	Status  int
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func NewError(status int, message string, code string) *Error {
	return &Error{Status: status, Message: message, Code: code}
}

func errUnauthenticated() *Error {
	return NewError(http.StatusUnauthorized, "Unauthenticated", "unauthenticated")
}

func errInternal() *Error {
	return NewError(http.StatusInternalServerError, "Internal server error", "internal")
}
