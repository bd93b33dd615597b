package entities

import "time"

// ActivityPrompt is a reusable assignment statement. Two prompts are the same
// activity when both Title and Content match exactly; ID plays no part in that.
type ActivityPrompt struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// SameAs reports whether a has the given (title, content) identity.
func (a ActivityPrompt) SameAs(title, content string) bool {
	return a.Title == title && a.Content == content
}
