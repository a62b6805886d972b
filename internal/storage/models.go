package storage

// EntryRecord archives one admitted entry. Position is the entrant's index in
// the round's ordered list.
type EntryRecord struct {
	ID            int64  `gorm:"primaryKey"`
	Round         uint64 `gorm:"uniqueIndex:idx_round_position"`
	Position      int    `gorm:"uniqueIndex:idx_round_position"`
	Player        string `gorm:"not null"`
	AmountWei     string `gorm:"not null"`
	EnteredAtUnix int64  `gorm:"not null"`
}

// RoundRecord archives one completed round.
type RoundRecord struct {
	Round        uint64 `gorm:"primaryKey"`
	RequestID    uint64 `gorm:"not null"`
	Winner       string `gorm:"not null"`
	PotWei       string `gorm:"not null"`
	EntrantCount int    `gorm:"not null"`
	DrawnAtUnix  int64  `gorm:"not null"`
}
