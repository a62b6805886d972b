package payout

import (
	"context"
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"raffle/internal/logger"
)

// ErrRecipientRejected is returned by Pay when the recipient refuses funds.
var ErrRecipientRejected = errors.New("recipient rejected transfer")

// MemoryBank keeps account balances in memory. Recipients can be marked as
// rejecting, which makes Pay fail without crediting anything.
type MemoryBank struct {
	mu       sync.Mutex
	balances map[common.Address]*uint256.Int
	rejected map[common.Address]struct{}
}

func NewMemoryBank() *MemoryBank {
	return &MemoryBank{
		balances: make(map[common.Address]*uint256.Int),
		rejected: make(map[common.Address]struct{}),
	}
}

func (b *MemoryBank) Pay(_ context.Context, to common.Address, amount *uint256.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, blocked := b.rejected[to]; blocked {
		return ErrRecipientRejected
	}

	balance, ok := b.balances[to]
	if !ok {
		balance = uint256.NewInt(0)
		b.balances[to] = balance
	}
	balance.Add(balance, amount)

	logger.Debug("payout credited",
		zap.Stringer("to", to),
		zap.String("amountWei", amount.Dec()))
	return nil
}

func (b *MemoryBank) BalanceOf(account common.Address) *uint256.Int {
	b.mu.Lock()
	defer b.mu.Unlock()

	balance, ok := b.balances[account]
	if !ok {
		return uint256.NewInt(0)
	}
	return balance.Clone()
}

// Reject makes subsequent payouts to account fail.
func (b *MemoryBank) Reject(account common.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejected[account] = struct{}{}
}

// Accept lifts a previous Reject.
func (b *MemoryBank) Accept(account common.Address) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.rejected, account)
}
