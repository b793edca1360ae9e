package ledger

import "errors"

var (
	// ErrInsufficientFunds means a buy would overdraw the cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares means a sell exceeds the held quantity.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrPortfolioNotFound means the user has no portfolio record yet.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrConflict means concurrent updates kept colliding until the
	// retry budget ran out. The caller may safely retry the request.
	ErrConflict = errors.New("portfolio update conflict")
)
