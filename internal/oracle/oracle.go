package oracle

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// RandomnessRequest carries the fixed parameters of a single randomness
// request. The raffle fills them from its immutable configuration.
type RandomnessRequest struct {
	KeyHash              common.Hash
	SubscriptionID       uint64
	MinimumConfirmations uint16
	CallbackGasLimit     uint32
	NumWords             uint32
}

// Client issues randomness requests. RequestRandomWords returns immediately
// with an opaque request id; the random words arrive later through the
// Consumer callback, exactly once per accepted request.
type Client interface {
	RequestRandomWords(ctx context.Context, request RandomnessRequest) (uint64, error)
}

// Consumer receives fulfillments. Implemented by the raffle engine.
type Consumer interface {
	Fulfill(ctx context.Context, requestID uint64, randomWords []*uint256.Int) error
}
