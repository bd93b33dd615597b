package reply

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"feedbackgen/entities"
	"feedbackgen/pkg/errdefs"
	"feedbackgen/pkg/prompt"
)

// jsonFence matches the first ```json fenced block.
var jsonFence = regexp.MustCompile("(?s)```json[ \t]*\r?\n(.*?)\r?\n[ \t]*```")

// Validate parses a generation reply into FeedbackContent.
// A reply that is not JSON gets one more chance: the inside of a ```json fence.
// Failures are *errdefs.ResponseError wrapping ErrMalformedResponse or ErrSchemaViolation.
func Validate(raw string) (entities.FeedbackContent, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return entities.FeedbackContent{}, &errdefs.ResponseError{Kind: errdefs.ErrMalformedResponse, Reason: "empty response", Raw: raw}
	}

	doc, ok := parse(text)
	if !ok {
		m := jsonFence.FindStringSubmatch(text)
		if m == nil {
			return entities.FeedbackContent{}, &errdefs.ResponseError{Kind: errdefs.ErrMalformedResponse, Reason: "not JSON and no json block found", Raw: raw}
		}
		if doc, ok = parse(m[1]); !ok {
			return entities.FeedbackContent{}, &errdefs.ResponseError{Kind: errdefs.ErrMalformedResponse, Reason: "json block does not parse", Raw: raw}
		}
	}

	content, reason := check(doc)
	if reason != "" {
		return entities.FeedbackContent{}, &errdefs.ResponseError{Kind: errdefs.ErrSchemaViolation, Reason: reason, Raw: raw}
	}
	return content, nil
}

func parse(s string) (any, bool) {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	return v, true
}

func check(doc any) (entities.FeedbackContent, string) {
	obj, ok := doc.(map[string]any)
	if !ok {
		return entities.FeedbackContent{}, "reply is not an object"
	}

	text, ok := obj[prompt.FieldFeedbackText].(string)
	if !ok {
		return entities.FeedbackContent{}, fmt.Sprintf("%s must be a string", prompt.FieldFeedbackText)
	}

	items, ok := obj[prompt.FieldSuggestions].([]any)
	if !ok {
		return entities.FeedbackContent{}, fmt.Sprintf("%s must be a list of strings", prompt.FieldSuggestions)
	}
	suggestions := make([]string, 0, len(items))
	for i, it := range items {
		s, ok := it.(string)
		if !ok {
			return entities.FeedbackContent{}, fmt.Sprintf("%s[%d] is not a string", prompt.FieldSuggestions, i)
		}
		suggestions = append(suggestions, s)
	}
	return entities.FeedbackContent{FeedbackText: text, ActionableSuggestions: suggestions}, ""
}
