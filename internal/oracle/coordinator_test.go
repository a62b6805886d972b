package oracle

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

type fulfillment struct {
	requestID uint64
	words     []*uint256.Int
}

// recordingConsumer collects every fulfillment it receives.
type recordingConsumer struct {
	mu       sync.Mutex
	received []fulfillment
	notify   chan struct{}
}

func newRecordingConsumer() *recordingConsumer {
	return &recordingConsumer{notify: make(chan struct{}, 16)}
}

func (c *recordingConsumer) Fulfill(_ context.Context, requestID uint64, randomWords []*uint256.Int) error {
	c.mu.Lock()
	c.received = append(c.received, fulfillment{requestID: requestID, words: randomWords})
	c.mu.Unlock()
	c.notify <- struct{}{}
	return nil
}

func (c *recordingConsumer) all() []fulfillment {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]fulfillment, len(c.received))
	copy(out, c.received)
	return out
}

func waitForFulfillment(t *testing.T, consumer *recordingConsumer) {
	t.Helper()
	select {
	case <-consumer.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("fulfillment never arrived")
	}
}

func TestCoordinatorDeliversExactlyOnce(t *testing.T) {
	consumer := newRecordingConsumer()
	coordinator := NewLocalCoordinator(time.Millisecond)
	defer coordinator.Close()
	coordinator.Bind(consumer)

	requestID, err := coordinator.RequestRandomWords(context.Background(), RandomnessRequest{NumWords: 1})
	require.NoError(t, err)
	require.Equal(t, uint64(1), requestID)

	waitForFulfillment(t, consumer)

	received := consumer.all()
	require.Len(t, received, 1)
	require.Equal(t, requestID, received[0].requestID)
	require.Len(t, received[0].words, 1)
	require.NotNil(t, received[0].words[0])

	// no duplicate delivery shows up later
	time.Sleep(10 * time.Millisecond)
	require.Len(t, consumer.all(), 1)
}

func TestCoordinatorAssignsFreshIDs(t *testing.T) {
	consumer := newRecordingConsumer()
	coordinator := NewLocalCoordinator(time.Millisecond)
	defer coordinator.Close()
	coordinator.Bind(consumer)

	first, err := coordinator.RequestRandomWords(context.Background(), RandomnessRequest{NumWords: 1})
	require.NoError(t, err)
	second, err := coordinator.RequestRandomWords(context.Background(), RandomnessRequest{NumWords: 1})
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	waitForFulfillment(t, consumer)
	waitForFulfillment(t, consumer)
	require.Len(t, consumer.all(), 2)
}

func TestCoordinatorHonorsWordCount(t *testing.T) {
	consumer := newRecordingConsumer()
	coordinator := NewLocalCoordinator(time.Millisecond)
	defer coordinator.Close()
	coordinator.Bind(consumer)

	_, err := coordinator.RequestRandomWords(context.Background(), RandomnessRequest{NumWords: 3})
	require.NoError(t, err)

	waitForFulfillment(t, consumer)
	require.Len(t, consumer.all()[0].words, 3)
}

func TestCoordinatorRejectsBadRequests(t *testing.T) {
	coordinator := NewLocalCoordinator(time.Millisecond)
	defer coordinator.Close()

	_, err := coordinator.RequestRandomWords(context.Background(), RandomnessRequest{NumWords: 1})
	require.Error(t, err) // no consumer bound

	coordinator.Bind(newRecordingConsumer())
	_, err = coordinator.RequestRandomWords(context.Background(), RandomnessRequest{NumWords: 0})
	require.Error(t, err)
}
