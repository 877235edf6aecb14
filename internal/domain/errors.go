package domain

import "errors"

var (
	// ErrUnauthorized is returned when the caller is not the configured relay,
	// the embedded sender does not match the connected contract for the claimed
	// source chain, or an admin operation is attempted by a non-authority
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidMessage is returned when an inbound payload cannot be decoded
	// or is shorter than the minimum fixed-field length
	ErrInvalidMessage = errors.New("invalid message")

	// ErrInvalidAddress is returned when a zero or malformed address appears
	// where a non-zero one is required
	ErrInvalidAddress = errors.New("invalid address")

	// ErrReplayDetected is returned when a (source chain, nonce) pair has
	// already been consumed; the message is fatal and must not be retried
	// with the same nonce
	ErrReplayDetected = errors.New("replay detected")

	// ErrInsufficientOutAmount is returned when a swap's output cannot cover
	// the required fee
	ErrInsufficientOutAmount = errors.New("insufficient out amount")

	// ErrTransferFailed is returned when the underlying asset-movement
	// primitive rejected a transfer, mint or burn
	ErrTransferFailed = errors.New("transfer failed")

	// ErrApprovalFailed is returned when a spender approval was rejected
	ErrApprovalFailed = errors.New("approval failed")

	// ErrOriginNotFound is returned when no origin record exists for a token id
	ErrOriginNotFound = errors.New("origin record not found")

	// ErrOriginExists is returned when creating an origin record for a token id
	// that already has one
	ErrOriginExists = errors.New("origin record already exists")

	// ErrCounterExhausted is returned when a collection's next-token-id counter
	// reached its maximum representable value
	ErrCounterExhausted = errors.New("token id counter exhausted")
)
