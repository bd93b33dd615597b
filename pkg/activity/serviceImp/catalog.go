package serviceImp

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"feedbackgen/entities"
	"feedbackgen/pkg/activity/repository"
	"feedbackgen/pkg/activity/service"
)

type catalog struct {
	mu    sync.Mutex
	repo  repository.ActivityRepository
	items []entities.ActivityPrompt
	now   func() time.Time
}

// New loads the catalog from repo. On a load error the catalog starts empty and
// the error is returned next to a usable catalog so the caller can warn.
func New(repo repository.ActivityRepository) (service.Catalog, error) {
	items, err := repo.LoadAll()
	return &catalog{repo: repo, items: items, now: time.Now}, err
}

func (c *catalog) FindExact(title, content string) (*entities.ActivityPrompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(title, content); i >= 0 {
		a := c.items[i]
		return &a, true
	}
	return nil, false
}

func (c *catalog) Get(id string) (*entities.ActivityPrompt, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.items {
		if a.ID == id {
			out := a
			return &out, true
		}
	}
	return nil, false
}

func (c *catalog) Add(a entities.ActivityPrompt) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(a.Title, a.Content) >= 0 {
		return false, nil
	}
	c.items = append(c.items, a)
	if err := c.repo.SaveAll(c.items); err != nil {
		return true, fmt.Errorf("persist activities: %w", err)
	}
	return true, nil
}

func (c *catalog) Create(title, content string) (*entities.ActivityPrompt, bool, error) {
	a := entities.ActivityPrompt{ID: uuid.NewString(), Title: title, Content: content, CreatedAt: c.now()}
	added, err := c.Add(a)
	if !added {
		existing, _ := c.FindExact(title, content)
		return existing, false, err
	}
	return &a, true, err
}

func (c *catalog) List() []entities.ActivityPrompt {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]entities.ActivityPrompt, len(c.items))
	copy(out, c.items)
	return out
}

func (c *catalog) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *catalog) indexOf(title, content string) int {
	for i, a := range c.items {
		if a.SameAs(title, content) {
			return i
		}
	}
	return -1
}
