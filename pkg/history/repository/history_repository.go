package repository

import "feedbackgen/entities"

// HistoryRepository persists the whole feedback history at once.
type HistoryRepository interface {
	LoadAll() ([]entities.StudentFeedback, error)
	SaveAll(list []entities.StudentFeedback) error
}
