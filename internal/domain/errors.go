package domain

import "errors"

var (
	ErrUserNotFound             = errors.New("user not found")
	ErrLanguageNotSet           = errors.New("language not selected")
	ErrInvalidLink              = errors.New("invalid link")
	ErrAlreadySubmitted         = errors.New("entity already submitted")
	ErrVerificationInFlight     = errors.New("verification already in progress")
	ErrNoPendingVerification    = errors.New("no pending verification")
	ErrStaleConfirmation        = errors.New("confirmation does not match pending verification")
	ErrHandleResolution         = errors.New("entity handle not resolved")
	ErrInspection               = errors.New("entity creation date unavailable")
	ErrProbeUnavailable         = errors.New("automation account unavailable")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrInvalidWithdrawalInput   = errors.New("invalid withdrawal input")
	ErrBelowMinimumWithdrawal   = errors.New("withdrawal amount below minimum")
	ErrBelowWithdrawalThreshold = errors.New("balance below withdrawal threshold")
)
