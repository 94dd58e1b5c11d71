package db

// DuplicateKeyError is an error type for duplicate key errors
type DuplicateKeyError struct {
	Key     string
	Message string
}

func (e *DuplicateKeyError) Error() string {
	return e.Message
}

func IsDuplicateKeyError(err error) bool {
	_, ok := err.(*DuplicateKeyError)
	return ok
}

// Not found Error
type NotFoundError struct {
	Key     string
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// InsufficientFundsError is returned when a participant's external asset
// balance cannot cover the requested debit.
type InsufficientFundsError struct {
	Identity string
	Message  string
}

func (e *InsufficientFundsError) Error() string {
	return e.Message
}

func IsInsufficientFundsError(err error) bool {
	_, ok := err.(*InsufficientFundsError)
	return ok
}

// InsufficientVaultBalanceError is returned when a payout would overdraw the
// escrow vault. Per-slot accounting makes this unreachable under correct
// operation; it surfaces an accounting bug, not a user error.
type InsufficientVaultBalanceError struct {
	Message string
}

func (e *InsufficientVaultBalanceError) Error() string {
	return e.Message
}

func IsInsufficientVaultBalanceError(err error) bool {
	_, ok := err.(*InsufficientVaultBalanceError)
	return ok
}

// AlreadyClaimedError is returned when the claimed flag of a stake record has
// already transitioned to true.
type AlreadyClaimedError struct {
	Key     string
	Message string
}

func (e *AlreadyClaimedError) Error() string {
	return e.Message
}

func IsAlreadyClaimedError(err error) bool {
	_, ok := err.(*AlreadyClaimedError)
	return ok
}
