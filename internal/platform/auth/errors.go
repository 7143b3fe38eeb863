package auth

// ErrorKind classifies gateway failures for translation at the HTTP layer.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindUnrecognizedDomain ErrorKind = "unrecognized_domain"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindConflict           ErrorKind = "conflict"
	KindUpstream           ErrorKind = "upstream"
)

// AuthError is the gateway's error-as-value result. Message carries the
// provider's text verbatim for provider failures.
type AuthError struct {
	Kind    ErrorKind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
