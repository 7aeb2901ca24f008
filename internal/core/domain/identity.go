package domain

import "time"

// IdentityStatus is the lifecycle status shared by an identity and its
// profile copy in the profile service.
type IdentityStatus string

const (
	IdentityActive    IdentityStatus = "ACTIVE"
	IdentitySuspended IdentityStatus = "SUSPENDED"
	IdentityExpired   IdentityStatus = "EXPIRED"
	IdentityDeleted   IdentityStatus = "DELETED"
)

// identityEdges allows every status to reach every other status. Nothing
// currently forbids DELETED -> ACTIVE; administrators rely on it to restore
// accounts.
var identityEdges = Edges[IdentityStatus]{
	IdentityActive:    {IdentitySuspended, IdentityExpired, IdentityDeleted},
	IdentitySuspended: {IdentityActive, IdentityExpired, IdentityDeleted},
	IdentityExpired:   {IdentityActive, IdentitySuspended, IdentityDeleted},
	IdentityDeleted:   {IdentityActive, IdentitySuspended, IdentityExpired},
}

// IdentityLifecycle governs Identity and Profile statuses.
var IdentityLifecycle = NewLifecycle("User", IdentityActive, identityEdges)

// CanTransitionTo reports whether a transition from s to next is in the edge table.
func (s IdentityStatus) CanTransitionTo(next IdentityStatus) bool {
	return IdentityLifecycle.Allows(s, next)
}

// Identity is the credential record owned by the identity service. SubjectID
// is the stable external identifier used as the username everywhere.
type Identity struct {
	SubjectID    string         `json:"subject_id"`
	PasswordHash string         `json:"-"`
	Role         Role           `json:"role"`
	Status       IdentityStatus `json:"status"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (i *Identity) CurrentStatus() IdentityStatus { return i.Status }

func (i *Identity) SetStatus(s IdentityStatus, at time.Time) {
	i.Status = s
	i.UpdatedAt = at
}
