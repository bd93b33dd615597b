package repository

// Well-known keys, each holding a full serialized collection.
const (
	KeyActivities      = "activities"
	KeyFeedbackHistory = "feedbackHistory"
)

// KV is text key-value storage. Get reports ok=false for a missing key.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
}
