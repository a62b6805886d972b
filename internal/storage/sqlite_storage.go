package storage

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"raffle/internal/logger"
)

type SqliteStorage struct {
	db *gorm.DB
}

func NewSqliteStorage(path string) (*SqliteStorage, error) {

	logger.Debug("initializing database...", zap.String("path", path))
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&EntryRecord{},
		&RoundRecord{},
	)

	if err != nil {
		return nil, err
	}

	return &SqliteStorage{
		db: db,
	}, nil
}

func (s *SqliteStorage) RecordEntry(round uint64, position int, player common.Address, amount *uint256.Int, at time.Time) error {
	logger.Debug("archiving entry...",
		zap.Uint64("round", round),
		zap.Int("position", position),
		zap.Stringer("player", player))

	entry := &EntryRecord{
		Round:         round,
		Position:      position,
		Player:        player.Hex(),
		AmountWei:     amount.Dec(),
		EnteredAtUnix: at.Unix(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round"}, {Name: "position"}},
		DoUpdates: clause.AssignmentColumns([]string{"player", "amount_wei", "entered_at_unix"}),
	}).Create(entry).Error

	if err != nil {
		return err
	}

	logger.Debug("archiving entry... done")
	return nil
}

func (s *SqliteStorage) RecordRound(round uint64, requestID uint64, winner common.Address, pot *uint256.Int, entrantCount int, at time.Time) error {
	logger.Debug("archiving completed round...",
		zap.Uint64("round", round),
		zap.Stringer("winner", winner))

	record := &RoundRecord{
		Round:        round,
		RequestID:    requestID,
		Winner:       winner.Hex(),
		PotWei:       pot.Dec(),
		EntrantCount: entrantCount,
		DrawnAtUnix:  at.Unix(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "round"}},
		DoUpdates: clause.AssignmentColumns([]string{"request_id", "winner", "pot_wei", "entrant_count", "drawn_at_unix"}),
	}).Create(record).Error

	if err != nil {
		return err
	}

	logger.Debug("archiving completed round... done")
	return nil
}

func (s *SqliteStorage) GetEntries(round uint64) ([]*EntryRecord, error) {

	var entries = make([]*EntryRecord, 0)
	err := s.db.Where("round = ?", round).Order("position asc").Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *SqliteStorage) GetRound(round uint64) (*RoundRecord, error) {
	logger.Debug("getting archived round...", zap.Uint64("round", round))

	var record RoundRecord
	err := s.db.Where("round = ?", round).First(&record).Error

	if err != nil {
		return nil, err
	}

	logger.Debug("getting archived round... done")
	return &record, nil
}

func (s *SqliteStorage) GetRecentRounds(limit int) ([]*RoundRecord, error) {

	var records = make([]*RoundRecord, 0)
	err := s.db.Order("round desc").Limit(limit).Find(&records).Error

	if err != nil {
		return nil, err
	}

	return records, nil
}
