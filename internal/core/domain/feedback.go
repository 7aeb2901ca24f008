package domain

import "time"

// FeedbackStatus represents the lifecycle state of a feedback item.
type FeedbackStatus string

const (
	FeedbackActive  FeedbackStatus = "ACTIVE"
	FeedbackHidden  FeedbackStatus = "HIDDEN"
	FeedbackDeleted FeedbackStatus = "DELETED"
)

var feedbackEdges = Edges[FeedbackStatus]{
	FeedbackActive:  {FeedbackHidden, FeedbackDeleted},
	FeedbackHidden:  {FeedbackActive, FeedbackDeleted},
	FeedbackDeleted: {FeedbackActive, FeedbackHidden},
}

// FeedbackLifecycle governs feedback statuses.
var FeedbackLifecycle = NewLifecycle("Feedback", FeedbackActive, feedbackEdges)

// CanTransitionTo reports whether a transition from s to next is in the edge table.
func (s FeedbackStatus) CanTransitionTo(next FeedbackStatus) bool {
	return FeedbackLifecycle.Allows(s, next)
}

const (
	MinScore = 1.0
	MaxScore = 5.0
)

// Feedback is one piece of feedback about a resource, authored by exactly one
// identity. Score is fixed at creation; only Comment and Status change later.
// At most one feedback exists per (AuthorSubjectID, ResourceID).
type Feedback struct {
	ID              string         `json:"id" bson:"_id"`
	AuthorSubjectID string         `json:"author_subject_id" bson:"author_subject_id"`
	ResourceID      string         `json:"resource_id" bson:"resource_id"`
	Score           float64        `json:"score" bson:"score"`
	Comment         string         `json:"comment" bson:"comment"`
	Status          FeedbackStatus `json:"status" bson:"status"`
	CreatedAt       time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" bson:"updated_at"`
}

func (f *Feedback) CurrentStatus() FeedbackStatus { return f.Status }

func (f *Feedback) SetStatus(s FeedbackStatus, at time.Time) {
	f.Status = s
	f.UpdatedAt = at
}
