package raffle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"raffle/internal/logger"
	"raffle/internal/oracle"
	"raffle/internal/payout"
)

// Config carries the immutable raffle parameters.
type Config struct {
	EntryFee             *uint256.Int
	Interval             time.Duration
	KeyHash              common.Hash
	SubscriptionID       uint64
	CallbackGasLimit     uint32
	MinimumConfirmations uint16
}

// Recorder archives completed entries and rounds. Archive writes happen after
// the ledger has committed; a failing recorder never affects the draw itself.
type Recorder interface {
	RecordEntry(round uint64, position int, player common.Address, amount *uint256.Int, at time.Time) error
	RecordRound(round uint64, requestID uint64, winner common.Address, pot *uint256.Int, entrantCount int, at time.Time) error
}

// Engine is the raffle state machine and the sole owner of the ledger. Every
// mutating operation takes the engine mutex and runs to completion, so the
// only concurrency visible to the ledger is the protocol-level window between
// StartDraw and Fulfill, which the CALCULATING state itself guards.
type Engine struct {
	mu     sync.Mutex
	cfg    Config
	client oracle.Client
	sink   payout.Sink
	now    func() time.Time

	state            State
	entrants         []common.Address
	balance          *uint256.Int
	lastDrawAt       time.Time
	recentWinner     *common.Address
	pendingRequestID uint64
	round            uint64

	recorder Recorder

	events      []Event
	subscribers map[*Subscription]struct{}
}

type Option func(*Engine)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithRecorder attaches an archive for completed entries and rounds.
func WithRecorder(recorder Recorder) Option {
	return func(e *Engine) {
		e.recorder = recorder
	}
}

func New(cfg Config, client oracle.Client, sink payout.Sink, options ...Option) *Engine {
	if cfg.EntryFee == nil || cfg.EntryFee.IsZero() {
		panic("raffle: entry fee must be positive")
	}
	if cfg.Interval <= 0 {
		panic("raffle: interval must be positive")
	}

	engine := &Engine{
		cfg:         cfg,
		client:      client,
		sink:        sink,
		now:         time.Now,
		state:       StateOpen,
		balance:     uint256.NewInt(0),
		round:       1,
		subscribers: make(map[*Subscription]struct{}),
	}

	for _, option := range options {
		option(engine)
	}
	engine.lastDrawAt = engine.now()

	return engine
}

// Enter admits a player into the current round. The paid amount joins the pot.
func (e *Engine) Enter(player common.Address, amount *uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount == nil || amount.Lt(e.cfg.EntryFee) {
		return ErrInsufficientPayment
	}
	if e.state != StateOpen {
		return ErrRaffleNotOpen
	}

	e.entrants = append(e.entrants, player)
	e.balance = new(uint256.Int).Add(e.balance, amount)
	enteredAt := e.now()
	e.appendEvent(Event{Type: EventEntryAccepted, Player: player, At: enteredAt})

	logger.Debug("entry accepted",
		zap.Stringer("player", player),
		zap.String("amountWei", amount.Dec()),
		zap.Int("entrants", len(e.entrants)))

	if e.recorder != nil {
		if err := e.recorder.RecordEntry(e.round, len(e.entrants)-1, player, amount, enteredAt); err != nil {
			logger.Warn("entry archive failed", zap.Stringer("player", player), zap.Error(err))
		}
	}

	return nil
}

// CheckEligibility reports whether a draw may start: the interval has elapsed,
// the raffle is open, the pot is funded, and at least one entrant joined.
func (e *Engine) CheckEligibility() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eligibleLocked()
}

func (e *Engine) eligibleLocked() bool {
	intervalElapsed := e.now().Sub(e.lastDrawAt) >= e.cfg.Interval
	isOpen := e.state == StateOpen
	hasBalance := !e.balance.IsZero()
	hasEntrants := len(e.entrants) > 0
	return intervalElapsed && isOpen && hasBalance && hasEntrants
}

// StartDraw freezes the round and issues exactly one randomness request.
// Anyone may call it; losers of a race observe UpkeepNotNeededError.
func (e *Engine) StartDraw(ctx context.Context) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.eligibleLocked() {
		return 0, &UpkeepNotNeededError{
			Balance:      e.balance.Clone(),
			EntrantCount: len(e.entrants),
			State:        e.state,
		}
	}

	requestID, err := e.client.RequestRandomWords(ctx, oracle.RandomnessRequest{
		KeyHash:              e.cfg.KeyHash,
		SubscriptionID:       e.cfg.SubscriptionID,
		MinimumConfirmations: e.cfg.MinimumConfirmations,
		CallbackGasLimit:     e.cfg.CallbackGasLimit,
		NumWords:             1,
	})
	if err != nil {
		return 0, fmt.Errorf("randomness request: %w", err)
	}

	e.state = StateCalculating
	e.pendingRequestID = requestID
	e.appendEvent(Event{Type: EventDrawStarted, RequestID: requestID, At: e.now()})

	logger.Info("draw started",
		zap.Uint64("round", e.round),
		zap.Uint64("requestId", requestID),
		zap.Int("entrants", len(e.entrants)),
		zap.String("potWei", e.balance.Dec()))

	return requestID, nil
}

// Fulfill consumes the oracle callback: picks the winner, resets the round and
// pays out the pot. Ledger effects commit before the transfer; if the transfer
// fails they are rolled back wholesale and the round stays in CALCULATING.
func (e *Engine) Fulfill(ctx context.Context, requestID uint64, randomWords []*uint256.Int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateCalculating || requestID != e.pendingRequestID {
		return ErrUnknownRequest
	}
	if len(randomWords) == 0 || randomWords[0] == nil {
		return fmt.Errorf("fulfill request %d: no random words", requestID)
	}

	entrantCount := uint64(len(e.entrants))
	winnerIndex := new(uint256.Int).Mod(randomWords[0], uint256.NewInt(entrantCount)).Uint64()
	winner := e.entrants[winnerIndex]
	pot := e.balance

	// Effects before interaction: commit the reset, then pay. Keep the prior
	// ledger values so a refused transfer can undo the commit in full.
	prior := ledgerSnapshot{
		state:            e.state,
		entrants:         e.entrants,
		balance:          e.balance,
		lastDrawAt:       e.lastDrawAt,
		recentWinner:     e.recentWinner,
		pendingRequestID: e.pendingRequestID,
	}

	drawnAt := e.now()
	e.recentWinner = &winner
	e.state = StateOpen
	e.entrants = nil
	e.balance = uint256.NewInt(0)
	e.lastDrawAt = drawnAt
	e.pendingRequestID = 0

	if err := e.sink.Pay(ctx, winner, pot); err != nil {
		prior.restore(e)
		logger.Error("payout refused, round rolled back",
			zap.Uint64("round", e.round),
			zap.Stringer("winner", winner),
			zap.Error(err))
		return fmt.Errorf("%w: %v", ErrPayoutTransferFailed, err)
	}

	e.appendEvent(Event{Type: EventWinnerPicked, Winner: winner, At: drawnAt})

	logger.Info("winner picked",
		zap.Uint64("round", e.round),
		zap.Stringer("winner", winner),
		zap.String("potWei", pot.Dec()))

	if e.recorder != nil {
		if err := e.recorder.RecordRound(e.round, requestID, winner, pot, int(entrantCount), drawnAt); err != nil {
			logger.Warn("round archive failed", zap.Uint64("round", e.round), zap.Error(err))
		}
	}
	e.round++

	return nil
}

type ledgerSnapshot struct {
	state            State
	entrants         []common.Address
	balance          *uint256.Int
	lastDrawAt       time.Time
	recentWinner     *common.Address
	pendingRequestID uint64
}

func (s ledgerSnapshot) restore(e *Engine) {
	e.state = s.state
	e.entrants = s.entrants
	e.balance = s.balance
	e.lastDrawAt = s.lastDrawAt
	e.recentWinner = s.recentWinner
	e.pendingRequestID = s.pendingRequestID
}
