package service

import (
	"io"

	"feedbackgen/entities"
)

// Store owns the feedback history. Storage order is insertion order.
type Store interface {
	Append(rec entities.StudentFeedback) error
	// Replace swaps the record with rec.ID's id wholesale; unknown ids are ignored.
	Replace(id string, rec entities.StudentFeedback) error
	Clear() error
	Get(id string) (*entities.StudentFeedback, bool)
	// ListDescending orders by CreatedAt, newest first, keeping insertion order on ties.
	ListDescending() []entities.StudentFeedback
	Len() int
	ExportXLSX(w io.Writer) error
}
