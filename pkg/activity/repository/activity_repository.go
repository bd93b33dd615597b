package repository

import "feedbackgen/entities"

// ActivityRepository persists the whole catalog at once.
type ActivityRepository interface {
	LoadAll() ([]entities.ActivityPrompt, error)
	SaveAll(list []entities.ActivityPrompt) error
}
