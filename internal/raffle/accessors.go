package raffle

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

func (e *Engine) EntryFee() *uint256.Int {
	return e.cfg.EntryFee.Clone()
}

func (e *Engine) Interval() time.Duration {
	return e.cfg.Interval
}

func (e *Engine) SubscriptionID() uint64 {
	return e.cfg.SubscriptionID
}

func (e *Engine) CurrentState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) NumEntrants() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.entrants)
}

func (e *Engine) Entrant(index int) (common.Address, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= len(e.entrants) {
		return common.Address{}, fmt.Errorf("entrant index %d out of range [0,%d)", index, len(e.entrants))
	}
	return e.entrants[index], nil
}

func (e *Engine) Balance() *uint256.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.balance.Clone()
}

func (e *Engine) LastDrawTimestamp() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastDrawAt
}

// RecentWinner reports the winner of the last completed round. The second
// return is false before the first payout.
func (e *Engine) RecentWinner() (common.Address, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.recentWinner == nil {
		return common.Address{}, false
	}
	return *e.recentWinner, true
}

// Round is the sequence number of the current round, starting at 1.
func (e *Engine) Round() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.round
}
