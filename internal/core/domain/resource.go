package domain

import "time"

// ResourceStatus represents the lifecycle state of a resource item.
type ResourceStatus string

const (
	ResourceActive   ResourceStatus = "ACTIVE"
	ResourceInactive ResourceStatus = "INACTIVE"
	ResourceBlocked  ResourceStatus = "BLOCKED"
	ResourceDeleted  ResourceStatus = "DELETED"
)

var resourceEdges = Edges[ResourceStatus]{
	ResourceActive:   {ResourceInactive, ResourceBlocked, ResourceDeleted},
	ResourceInactive: {ResourceActive, ResourceBlocked, ResourceDeleted},
	ResourceBlocked:  {ResourceActive, ResourceInactive, ResourceDeleted},
	ResourceDeleted:  {ResourceActive, ResourceInactive, ResourceBlocked},
}

// ResourceLifecycle governs resource statuses.
var ResourceLifecycle = NewLifecycle("Resource", ResourceActive, resourceEdges)

// CanTransitionTo reports whether a transition from s to next is in the edge table.
func (s ResourceStatus) CanTransitionTo(next ResourceStatus) bool {
	return ResourceLifecycle.Allows(s, next)
}

// Resource is a managed entity owned by a resource-owner subject. The owner is
// set once at creation and never changes. Rating is the aggregate pushed by
// the feedback service.
type Resource struct {
	ID             string         `json:"id" bson:"_id"`
	OwnerSubjectID string         `json:"owner_subject_id" bson:"owner_subject_id"`
	Name           string         `json:"name" bson:"name"`
	Location       string         `json:"location" bson:"location"`
	About          string         `json:"about,omitempty" bson:"about,omitempty"`
	Status         ResourceStatus `json:"status" bson:"status"`
	Rating         float64        `json:"rating" bson:"rating"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}

func (r *Resource) CurrentStatus() ResourceStatus { return r.Status }

func (r *Resource) SetStatus(s ResourceStatus, at time.Time) {
	r.Status = s
	r.UpdatedAt = at
}

// RatingOperator compares a resource rating against a value.
type RatingOperator string

const (
	RatingGreaterThan RatingOperator = "gt"
	RatingLessThan    RatingOperator = "lt"
	RatingEqual       RatingOperator = "eq"
)

// Match reports whether rating satisfies the operator against value.
func (op RatingOperator) Match(rating, value float64) bool {
	switch op {
	case RatingGreaterThan:
		return rating > value
	case RatingLessThan:
		return rating < value
	case RatingEqual:
		return rating == value
	}
	return false
}
