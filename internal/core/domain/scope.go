package domain

// ScopeMode is the visibility a caller has over the instances of one kind.
type ScopeMode int

const (
	// ScopeNone grants no visibility.
	ScopeNone ScopeMode = iota
	// ScopeActiveOnly restricts results to ACTIVE instances.
	ScopeActiveOnly
	// ScopeOwned restricts results to instances the caller owns.
	ScopeOwned
	// ScopeRelated restricts results to instances attached to something the
	// caller owns in another kind, such as feedback on an owned resource.
	ScopeRelated
	// ScopeAll returns every instance.
	ScopeAll
)

func (m ScopeMode) String() string {
	switch m {
	case ScopeAll:
		return "all"
	case ScopeOwned:
		return "owned"
	case ScopeRelated:
		return "related"
	case ScopeActiveOnly:
		return "active_only"
	}
	return "none"
}

// ListScope is the resolved visibility for one read. SubjectID is the caller
// for ScopeOwned and ScopeRelated. ActiveOnly further limits owned instances
// to ACTIVE ones.
type ListScope struct {
	Mode       ScopeMode
	SubjectID  string
	ActiveOnly bool
}

// Denied reports whether the scope grants nothing.
func (s ListScope) Denied() bool { return s.Mode == ScopeNone }

// ScopePolicy is the role to scope table for one entity kind. Administrators
// see everything; OwnerRole sees what it owns; RelatedRole sees what hangs off
// instances it owns elsewhere; remaining roles get Others and callers without
// an identity get Anonymous.
type ScopePolicy struct {
	OwnerRole       Role
	OwnedActiveOnly bool
	RelatedRole     Role
	Others          ScopeMode
	Anonymous       ScopeMode
}

var (
	// ResourceScope: resource owners own resources; everyone else, signed in
	// or not, sees ACTIVE resources.
	ResourceScope = ScopePolicy{
		OwnerRole: RoleOwner,
		Others:    ScopeActiveOnly,
		Anonymous: ScopeActiveOnly,
	}
	// FeedbackScope: standard subjects own the ACTIVE feedback they wrote,
	// resource owners see feedback on their resources, nobody else sees any.
	FeedbackScope = ScopePolicy{
		OwnerRole:       RoleUser,
		OwnedActiveOnly: true,
		RelatedRole:     RoleOwner,
		Others:          ScopeNone,
		Anonymous:       ScopeNone,
	}
)

// Resolve picks the scope for p.
func (sp ScopePolicy) Resolve(p Principal) ListScope {
	switch {
	case !p.Authenticated():
		return ListScope{Mode: sp.Anonymous}
	case p.IsAdmin():
		return ListScope{Mode: ScopeAll}
	case p.Role == sp.OwnerRole:
		return ListScope{Mode: ScopeOwned, SubjectID: p.SubjectID, ActiveOnly: sp.OwnedActiveOnly}
	case sp.RelatedRole != "" && p.Role == sp.RelatedRole:
		return ListScope{Mode: ScopeRelated, SubjectID: p.SubjectID}
	}
	return ListScope{Mode: sp.Others}
}
