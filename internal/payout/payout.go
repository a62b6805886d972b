package payout

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Sink disburses a winner's pot. It is the single external interaction of a
// raffle draw: the engine commits its internal state first and calls Pay last,
// rolling everything back if Pay fails.
type Sink interface {
	Pay(ctx context.Context, to common.Address, amount *uint256.Int) error
}
