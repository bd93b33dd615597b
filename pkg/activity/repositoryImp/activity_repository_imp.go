package repositoryImp

import (
	"encoding/json"
	"fmt"

	"feedbackgen/entities"
	"feedbackgen/pkg/activity/repository"
	kv "feedbackgen/pkg/storage/repository"
)

type repo struct{ store kv.KV }

func New(store kv.KV) repository.ActivityRepository { return &repo{store} }

// LoadAll returns an empty list for a missing key. Undecodable data is reported
// as an error alongside the empty list.
func (r *repo) LoadAll() ([]entities.ActivityPrompt, error) {
	raw, ok, err := r.store.Get(kv.KeyActivities)
	if err != nil {
		return []entities.ActivityPrompt{}, err
	}
	if !ok || raw == "" {
		return []entities.ActivityPrompt{}, nil
	}
	var list []entities.ActivityPrompt
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []entities.ActivityPrompt{}, fmt.Errorf("decode %s: %w", kv.KeyActivities, err)
	}
	if list == nil {
		list = []entities.ActivityPrompt{}
	}
	return list, nil
}

func (r *repo) SaveAll(list []entities.ActivityPrompt) error {
	if list == nil {
		list = []entities.ActivityPrompt{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return r.store.Set(kv.KeyActivities, string(b))
}
