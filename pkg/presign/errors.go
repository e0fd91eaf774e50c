package presign

import "errors"

// Request validation errors
var (
	// ErrMissingKey is returned when the key query parameter is absent or empty
	ErrMissingKey = errors.New("presign: missing key parameter")

	// ErrInvalidContentLength is returned when content-length is present but not in (0, MaxContentLength]
	ErrInvalidContentLength = errors.New("presign: invalid content-length parameter")

	// ErrUnsupportedMethod is returned by signers asked for anything other than GET or PUT
	ErrUnsupportedMethod = errors.New("presign: unsupported method")
)

// IsClientError returns true if the error was caused by the caller's input
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingKey) ||
		errors.Is(err, ErrInvalidContentLength)
}
