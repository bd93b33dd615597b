package entities

import (
	"fmt"
	"strings"
	"time"
)

// FeedbackContent is the shape every generation reply must satisfy once parsed.
type FeedbackContent struct {
	FeedbackText          string   `json:"feedbackText"`
	ActionableSuggestions []string `json:"actionableSuggestions"`
}

// Clone returns a copy that shares no backing array with c.
func (c FeedbackContent) Clone() FeedbackContent {
	out := FeedbackContent{FeedbackText: c.FeedbackText, ActionableSuggestions: make([]string, len(c.ActionableSuggestions))}
	copy(out.ActionableSuggestions, c.ActionableSuggestions)
	return out
}

// CopyText renders the content the way it is placed on the clipboard.
func (c FeedbackContent) CopyText() string {
	lines := make([]string, 0, len(c.ActionableSuggestions))
	for i, s := range c.ActionableSuggestions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
	}
	return c.FeedbackText + "\n\nSugestões:\n" + strings.Join(lines, "\n")
}

// StudentFeedback is one generated feedback kept in the history.
// GeneratedFeedback is what the service returned and is never overwritten;
// EditedFeedback, when set, supersedes it for display and copy.
type StudentFeedback struct {
	ID                    string           `json:"id"`
	StudentName           string           `json:"studentName"`
	ActivityTitle         string           `json:"activityTitle"`
	UC                    string           `json:"uc"`
	Grade                 float64          `json:"grade"`
	ActivityPromptContent string           `json:"activityPromptContent"`
	GeneratedFeedback     FeedbackContent  `json:"generatedFeedback"`
	EditedFeedback        *FeedbackContent `json:"editedFeedback,omitempty"`
	CreatedAt             time.Time        `json:"createdAt"`
}

// Displayed returns the edited content when present, the generated one otherwise.
func (f StudentFeedback) Displayed() FeedbackContent {
	if f.EditedFeedback != nil {
		return *f.EditedFeedback
	}
	return f.GeneratedFeedback
}
