package types

import (
	"errors"
	"net/http"
)

type ErrorCode string

func (e ErrorCode) String() string {
	return string(e)
}

const (
	// Generic codes
	InternalServiceError ErrorCode = "INTERNAL_SERVICE_ERROR"
	BadRequest           ErrorCode = "BAD_REQUEST"
	Unauthorized         ErrorCode = "UNAUTHORIZED"

	// Slot lifecycle
	InvalidTimeWindow   ErrorCode = "INVALID_TIME_WINDOW"
	SlotAlreadyExists   ErrorCode = "SLOT_ALREADY_EXISTS"
	SlotNotFound        ErrorCode = "SLOT_NOT_FOUND"
	SlotAlreadyResolved ErrorCode = "SLOT_ALREADY_RESOLVED"
	SlotNotResolved     ErrorCode = "SLOT_NOT_RESOLVED"

	// Staking
	BettingWindowClosed ErrorCode = "BETTING_WINDOW_CLOSED"
	DuplicateStake      ErrorCode = "DUPLICATE_STAKE"
	InvalidOption       ErrorCode = "INVALID_OPTION"
	InsufficientFunds   ErrorCode = "INSUFFICIENT_FUNDS"

	// Payout
	NoWinners          ErrorCode = "NO_WINNERS"
	PredictionNotFound ErrorCode = "PREDICTION_NOT_FOUND"
	AlreadyClaimed     ErrorCode = "ALREADY_CLAIMED"
	NotAWinner         ErrorCode = "NOT_A_WINNER"

	// InsufficientVaultBalance indicates an accounting bug rather than a
	// normal-use error, hence mapped to 5xx rather than 4xx.
	InsufficientVaultBalance ErrorCode = "INSUFFICIENT_VAULT_BALANCE"
)

// Error represents an error with an HTTP status code and an application-specific error code.
type Error struct {
	Err        error
	StatusCode int
	ErrorCode  ErrorCode
}

const UninitializedStatusCode = 0

func (e *Error) Error() string {
	return e.Err.Error()
}

// NewError creates a new Error with the provided status code, error code, and underlying error.
// If the status code is not provided (0), it defaults to http.StatusInternalServerError(500).
// If the error code is empty, it defaults to INTERNAL_SERVICE_ERROR.
func NewError(statusCode int, errorCode ErrorCode, err error) *Error {
	if statusCode == UninitializedStatusCode {
		statusCode = http.StatusInternalServerError
	}
	if errorCode == "" {
		errorCode = InternalServiceError
	}
	return &Error{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Err:        err,
	}
}

func NewErrorWithMsg(statusCode int, errorCode ErrorCode, msg string) *Error {
	return NewError(statusCode, errorCode, errors.New(msg))
}

func NewInternalServiceError(err error) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  InternalServiceError,
		Err:        err,
	}
}
