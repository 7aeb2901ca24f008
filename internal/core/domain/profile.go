package domain

import "time"

// Profile is the profile service's record of a subject. Role and Status are
// denormalized copies of the identity service's values, kept in step by the
// status cascade.
type Profile struct {
	SubjectID string         `json:"subject_id" bson:"_id"`
	Name      string         `json:"name" bson:"name"`
	Email     string         `json:"email" bson:"email"`
	Mobile    string         `json:"mobile" bson:"mobile"`
	About     string         `json:"about,omitempty" bson:"about,omitempty"`
	Role      Role           `json:"role" bson:"role"`
	Status    IdentityStatus `json:"status" bson:"status"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

func (p *Profile) CurrentStatus() IdentityStatus { return p.Status }

func (p *Profile) SetStatus(s IdentityStatus, at time.Time) {
	p.Status = s
	p.UpdatedAt = at
}
