package service

import "feedbackgen/entities"

// Catalog is the deduplicated set of reusable assignment prompts.
type Catalog interface {
	FindExact(title, content string) (*entities.ActivityPrompt, bool)
	Get(id string) (*entities.ActivityPrompt, bool)
	// Add inserts a unless an entry with the same (title, content) exists.
	// It reports whether an insertion happened; a duplicate is not an error.
	Add(a entities.ActivityPrompt) (bool, error)
	// Create builds a prompt with a fresh id and adds it, returning the stored entry.
	Create(title, content string) (*entities.ActivityPrompt, bool, error)
	List() []entities.ActivityPrompt
	Len() int
}
