package repositoryImp

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"feedbackgen/entities"
	"feedbackgen/pkg/storage/repository"
)

type sqliteKV struct{ db *gorm.DB }

func New(db *gorm.DB) repository.KV { return &sqliteKV{db: db} }

func (r *sqliteKV) Get(key string) (string, bool, error) {
	var e entities.KVEntry
	err := r.db.Where("`key` = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return e.Value, true, nil
}

func (r *sqliteKV) Set(key, value string) error {
	e := entities.KVEntry{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}
