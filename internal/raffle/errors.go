package raffle

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

var (
	// ErrInsufficientPayment rejects an entry paid below the entry fee.
	ErrInsufficientPayment = errors.New("payment below entry fee")

	// ErrRaffleNotOpen rejects an entry while a draw is in flight.
	ErrRaffleNotOpen = errors.New("raffle not open")

	// ErrPayoutTransferFailed aborts a fulfillment whose pot transfer was
	// refused; every ledger effect of that fulfillment is rolled back.
	ErrPayoutTransferFailed = errors.New("payout transfer failed")

	// ErrUnknownRequest rejects a fulfillment whose request id does not match
	// the outstanding one.
	ErrUnknownRequest = errors.New("unknown randomness request")
)

// UpkeepNotNeededError reports why a draw could not start.
type UpkeepNotNeededError struct {
	Balance      *uint256.Int
	EntrantCount int
	State        State
}

func (e *UpkeepNotNeededError) Error() string {
	return fmt.Sprintf("upkeep not needed: balance=%s entrants=%d state=%s",
		e.Balance.Dec(), e.EntrantCount, e.State)
}
