package utils

const (
	// Charge statuses
	ChargeStatusPending = "PENDING"
	ChargeStatusPaid    = "PAID"

	// Join code generation
	CodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	CodeLength  = 6

	// HTTP status messages
	ErrInvalidRequest   = "Invalid request"
	ErrGroupNotFound    = "Group not found"
	ErrMatchNotFound    = "Match not found"
	ErrPlayerNotFound   = "Player not found"
	ErrChargeNotFound   = "Charge not found"
	ErrFailedToStore    = "Failed to store data"
	ErrFailedToRetrieve = "Failed to retrieve data"

	// Display precision for monetary values
	MoneyDecimalPlaces = 2
)
