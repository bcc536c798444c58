package errors

import "fmt"

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token expired")

	// Authentication
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("authorization header has invalid format")
	ErrInvalidCredentials = fmt.Errorf("invalid username or password")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("access denied")
	ErrUserInactive       = fmt.Errorf("user account is disabled")

	// Request context
	ErrUserIDNotFoundInContext = fmt.Errorf("user id not found in request context")

	// Work orders and approvals
	ErrInvalidStatusTransition  = fmt.Errorf("status transition is not allowed")
	ErrJobItemsIncomplete       = fmt.Errorf("all job items must be finished before completing the work order")
	ErrApprovalNotFound         = fmt.Errorf("approval link not found")
	ErrApprovalAlreadyProcessed = fmt.Errorf("this work order has already been processed")
	ErrFeedbackExists           = fmt.Errorf("feedback has already been submitted for this work order")

	// Integrations
	ErrInvalidSignature = fmt.Errorf("invalid signature")

	// General
	ErrNotFound        = fmt.Errorf("record not found")
	ErrBadRequest      = fmt.Errorf("bad request")
	ErrConflict        = fmt.Errorf("record already exists")
	ErrTooManyRequests = fmt.Errorf("too many requests")
)

// HttpError carries an explicit status code and a user-facing message.
// Err is logged but never sent to the client.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
	Details interface{}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, ctx map[string]interface{}) *HttpError {
	return &HttpError{
		Code:    code,
		Message: message,
		Err:     err,
		Context: ctx,
	}
}

func (e *HttpError) WithDetails(details interface{}) *HttpError {
	e.Details = details
	return e
}

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
