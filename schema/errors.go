package schema

import (
	"errors"
)

var (
	ErrNotConfigured  = errors.New("controller_not_configured")
	ErrInvalidInput   = errors.New("invalid_input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrFeeTooHigh     = errors.New("fee_too_high")
	ErrResolverNotSet = errors.New("resolver_not_set")

	ErrInsufficientPayment = errors.New("insufficient_payment")
	ErrNothingToWithdraw   = errors.New("nothing_to_withdraw")
	ErrTransferFailed      = errors.New("transfer_failed")
	ErrReentrancyBlocked   = errors.New("reentrancy_blocked")

	ErrNameInvalid     = errors.New("name_invalid")
	ErrNameUnavailable = errors.New("name_unavailable")

	ErrNotExist = errors.New("not_exist_record")
)
