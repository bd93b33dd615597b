package repositoryImp

import (
	"encoding/json"
	"fmt"

	"feedbackgen/entities"
	"feedbackgen/pkg/history/repository"
	kv "feedbackgen/pkg/storage/repository"
)

type repo struct{ store kv.KV }

func New(store kv.KV) repository.HistoryRepository { return &repo{store} }

func (r *repo) LoadAll() ([]entities.StudentFeedback, error) {
	raw, ok, err := r.store.Get(kv.KeyFeedbackHistory)
	if err != nil {
		return []entities.StudentFeedback{}, err
	}
	if !ok || raw == "" {
		return []entities.StudentFeedback{}, nil
	}
	var list []entities.StudentFeedback
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []entities.StudentFeedback{}, fmt.Errorf("decode %s: %w", kv.KeyFeedbackHistory, err)
	}
	if list == nil {
		list = []entities.StudentFeedback{}
	}
	return list, nil
}

func (r *repo) SaveAll(list []entities.StudentFeedback) error {
	if list == nil {
		list = []entities.StudentFeedback{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.store.Set(kv.KeyFeedbackHistory, string(b))
}
