package serviceImp

import (
	"fmt"
	"sort"
	"sync"

	"feedbackgen/entities"
	"feedbackgen/pkg/history/repository"
	"feedbackgen/pkg/history/service"
)

type store struct {
	mu    sync.Mutex
	repo  repository.HistoryRepository
	items []entities.StudentFeedback
}

// New loads the history from repo. On a load error the store starts empty and
// the error is returned next to a usable store.
func New(repo repository.HistoryRepository) (service.Store, error) {
	items, err := repo.LoadAll()
	return &store{repo: repo, items: items}, err
}

func (s *store) Append(rec entities.StudentFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, clone(rec))
	return s.persist()
}

func (s *store) Replace(id string, rec entities.StudentFeedback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = clone(rec)
			return s.persist()
		}
	}
	return nil
}

func (s *store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []entities.StudentFeedback{}
	return s.persist()
}

func (s *store) Get(id string) (*entities.StudentFeedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.items {
		if rec.ID == id {
			out := clone(rec)
			return &out, true
		}
	}
	return nil, false
}

func (s *store) ListDescending() []entities.StudentFeedback {
	s.mu.Lock()
	out := make([]entities.StudentFeedback, len(s.items))
	for i, rec := range s.items {
		out[i] = clone(rec)
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (s *store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// persist writes the full collection; callers hold s.mu.
func (s *store) persist() error {
	if err := s.repo.SaveAll(s.items); err != nil {
		return fmt.Errorf("persist feedback history: %w", err)
	}
	return nil
}

func clone(rec entities.StudentFeedback) entities.StudentFeedback {
	out := rec
	out.GeneratedFeedback = rec.GeneratedFeedback.Clone()
	if rec.EditedFeedback != nil {
		e := rec.EditedFeedback.Clone()
		out.EditedFeedback = &e
	}
	return out
}
