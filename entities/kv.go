package entities

import "time"

// KVEntry backs the key-value persistence used by the catalog and the history.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string { return "kv_entries" }
