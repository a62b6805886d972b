package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SqliteStorage {
	t.Helper()

	store, err := NewSqliteStorage(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	return store
}

func TestRecordAndReadEntries(t *testing.T) {
	store := newTestStorage(t)
	now := time.Unix(1_700_000_000, 0)

	playerA := common.BytesToAddress([]byte{1})
	playerB := common.BytesToAddress([]byte{2})
	fee := uint256.NewInt(10_000)

	require.NoError(t, store.RecordEntry(1, 0, playerA, fee, now))
	require.NoError(t, store.RecordEntry(1, 1, playerB, fee, now.Add(time.Minute)))

	entries, err := store.GetEntries(1)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, playerA.Hex(), entries[0].Player)
	require.Equal(t, 0, entries[0].Position)
	require.Equal(t, playerB.Hex(), entries[1].Player)
	require.Equal(t, fee.Dec(), entries[1].AmountWei)

	// other rounds stay empty
	entries, err = store.GetEntries(2)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestRecordEntryIsIdempotentPerPosition(t *testing.T) {
	store := newTestStorage(t)
	now := time.Unix(1_700_000_000, 0)
	player := common.BytesToAddress([]byte{3})

	require.NoError(t, store.RecordEntry(1, 0, player, uint256.NewInt(100), now))
	require.NoError(t, store.RecordEntry(1, 0, player, uint256.NewInt(100), now))

	entries, err := store.GetEntries(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRecordAndReadRounds(t *testing.T) {
	store := newTestStorage(t)
	now := time.Unix(1_700_000_000, 0)
	winner := common.BytesToAddress([]byte{7})
	pot := uint256.NewInt(40_000)

	require.NoError(t, store.RecordRound(1, 11, winner, pot, 4, now))
	require.NoError(t, store.RecordRound(2, 12, winner, pot, 2, now.Add(time.Hour)))
	require.NoError(t, store.RecordRound(3, 13, winner, pot, 6, now.Add(2*time.Hour)))

	record, err := store.GetRound(2)
	require.NoError(t, err)
	require.Equal(t, uint64(12), record.RequestID)
	require.Equal(t, winner.Hex(), record.Winner)
	require.Equal(t, pot.Dec(), record.PotWei)
	require.Equal(t, 2, record.EntrantCount)

	recent, err := store.GetRecentRounds(2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, uint64(3), recent[0].Round)
	require.Equal(t, uint64(2), recent[1].Round)

	_, err = store.GetRound(99)
	require.Error(t, err)
}
