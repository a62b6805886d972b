package storage

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type Storage interface {
	// archive writes, invoked by the engine after a ledger commit
	RecordEntry(round uint64, position int, player common.Address, amount *uint256.Int, at time.Time) error
	RecordRound(round uint64, requestID uint64, winner common.Address, pot *uint256.Int, entrantCount int, at time.Time) error

	// archive reads
	GetEntries(round uint64) ([]*EntryRecord, error)
	GetRound(round uint64) (*RoundRecord, error)
	GetRecentRounds(limit int) ([]*RoundRecord, error)
}
