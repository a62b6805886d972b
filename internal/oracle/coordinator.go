package oracle

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"raffle/internal/logger"
)

// LocalCoordinator is an in-process randomness coordinator. It assigns
// sequential request ids, draws words from crypto/rand after a configurable
// delay, and delivers each fulfillment to the bound consumer exactly once.
// It stands in for external VRF infrastructure in the daemon and in tests.
type LocalCoordinator struct {
	mu       sync.Mutex
	consumer Consumer
	delay    time.Duration
	nextID   uint64
	pending  map[uint64]uint32

	stop chan struct{}
	wg   sync.WaitGroup
}

func NewLocalCoordinator(delay time.Duration) *LocalCoordinator {
	return &LocalCoordinator{
		delay:   delay,
		nextID:  1,
		pending: make(map[uint64]uint32),
		stop:    make(chan struct{}),
	}
}

// Bind attaches the consumer that will receive fulfillments. Must be called
// before the first request; kept out of the constructor because the consumer
// itself is constructed with the coordinator as its client.
func (c *LocalCoordinator) Bind(consumer Consumer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consumer = consumer
}

func (c *LocalCoordinator) RequestRandomWords(ctx context.Context, request RandomnessRequest) (uint64, error) {
	c.mu.Lock()

	if c.consumer == nil {
		c.mu.Unlock()
		return 0, fmt.Errorf("oracle: no consumer bound")
	}
	if request.NumWords == 0 {
		c.mu.Unlock()
		return 0, fmt.Errorf("oracle: request must ask for at least one word")
	}

	requestID := c.nextID
	c.nextID++
	c.pending[requestID] = request.NumWords
	consumer := c.consumer
	c.mu.Unlock()

	logger.Debug("randomness requested",
		zap.Uint64("requestId", requestID),
		zap.Uint64("subscriptionId", request.SubscriptionID),
		zap.Uint32("numWords", request.NumWords))

	c.wg.Add(1)
	go c.deliver(requestID, request.NumWords, consumer)

	return requestID, nil
}

func (c *LocalCoordinator) deliver(requestID uint64, numWords uint32, consumer Consumer) {
	defer c.wg.Done()

	timer := time.NewTimer(c.delay)
	defer timer.Stop()

	select {
	case <-c.stop:
		return
	case <-timer.C:
	}

	c.mu.Lock()
	if _, outstanding := c.pending[requestID]; !outstanding {
		c.mu.Unlock()
		return
	}
	delete(c.pending, requestID)
	c.mu.Unlock()

	words := make([]*uint256.Int, numWords)
	for i := range words {
		var buf [32]byte
		if _, err := rand.Read(buf[:]); err != nil {
			logger.Error("randomness generation failed", zap.Uint64("requestId", requestID), zap.Error(err))
			return
		}
		words[i] = new(uint256.Int).SetBytes(buf[:])
	}

	if err := consumer.Fulfill(context.Background(), requestID, words); err != nil {
		logger.Error("fulfillment rejected by consumer",
			zap.Uint64("requestId", requestID),
			zap.Error(err))
		return
	}

	logger.Debug("randomness fulfilled", zap.Uint64("requestId", requestID))
}

// Close stops pending deliveries and waits for in-flight ones to settle.
func (c *LocalCoordinator) Close() {
	close(c.stop)
	c.wg.Wait()
}
