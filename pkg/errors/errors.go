package errors

import "errors"

// AppError tags a failure with a stable code the transport layers can map.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// CodeOf returns the code of the outermost AppError in err's chain, or "".
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
