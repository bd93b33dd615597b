package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"feedbackgen/entities"
)

// Source says where the activity title and content of a submission come from.
type Source string

const (
	SourceText   Source = "text"
	SourceFile   Source = "file"
	SourceSelect Source = "select"
)

// FormInput is the submission form as entered. Grade stays textual until validated.
// For SourceSelect the title and content are taken from the catalog entry ActivityID.
type FormInput struct {
	StudentName     string    `json:"studentName" form:"studentName"`
	UC              string    `json:"uc" form:"uc"`
	Grade           GradeText `json:"grade" form:"grade"`
	Source          Source    `json:"source" form:"source"`
	ActivityID      string    `json:"activityId,omitempty" form:"activityId"`
	ActivityTitle   string    `json:"activityTitle" form:"activityTitle"`
	ActivityContent string    `json:"activityContent" form:"activityContent"`
}

// GradeText is the grade as entered. In JSON it may be sent as a string or a number.
type GradeText string

func (g *GradeText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*g = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*g = GradeText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("grade: %w", err)
	}
	*g = GradeText(n.String())
	return nil
}

type State string

const (
	StateIdle               State = "idle"
	StateValidating         State = "validating"
	StateResolvingActivity  State = "resolvingActivity"
	StateAwaitingGeneration State = "awaitingGeneration"
	StateParsing            State = "parsing"
	StateCommitted          State = "committed"
	StateFailed             State = "failed"
)

// Status is a snapshot of the orchestrator. LastOutcome is StateCommitted or
// StateFailed once a submission has finished; LastError goes with StateFailed.
type Status struct {
	State       State  `json:"state"`
	Busy        bool   `json:"busy"`
	LastOutcome State  `json:"lastOutcome,omitempty"`
	LastError   string `json:"lastError,omitempty"`
	Provider    string `json:"provider,omitempty"`
	Ready       bool   `json:"ready"`
}

type FeedbackService interface {
	// Submit runs one submission to completion. Only one may be outstanding.
	Submit(ctx context.Context, in FormInput) (*entities.StudentFeedback, error)
	// Draft is the last submitted form; it survives a failure and is cleared by a commit.
	Draft() (FormInput, bool)
	// Current is the record on display, normally the last committed one.
	Current() (*entities.StudentFeedback, bool)
	SaveEdit(id string, content entities.FeedbackContent) (*entities.StudentFeedback, error)
	ClearHistory() error
	Status() Status
}
