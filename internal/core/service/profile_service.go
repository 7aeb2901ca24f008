package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// ProfileService implements profile management and the identity copy that
// peers query remotely.
type ProfileService struct {
	repo       ports.ProfileRepository
	identities ports.IdentityDirectory
	cascade    *Coordinator
	access     *Ownership
	newID      IDGenerator
	log        zerolog.Logger
	now        func() time.Time
}

func NewProfileService(
	repo ports.ProfileRepository,
	identities ports.IdentityDirectory,
	cascade *Coordinator,
	log zerolog.Logger,
) *ProfileService {
	s := &ProfileService{
		repo:       repo,
		identities: identities,
		cascade:    cascade,
		newID:      NewNumericID,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
	s.access = NewOwnership("profile", s.ownerOf, nil, log)
	return s
}

// A profile is owned by the subject it describes.
func (s *ProfileService) ownerOf(ctx context.Context, subjectID string) (string, error) {
	p, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return "", err
	}
	return p.SubjectID, nil
}

// CreateInternal stores a new profile with a generated subject id. Email and
// mobile must be unused.
func (s *ProfileService) CreateInternal(ctx context.Context, in ports.CreateProfileInput) (*domain.Profile, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("create profile: %w: unknown role %q", domain.ErrInvalidInput, in.Role)
	}
	if err := s.checkUnique(ctx, in.Email, in.Mobile, ""); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	id, err := nextID(s.newID)
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	now := s.now()
	p := &domain.Profile{
		SubjectID: id,
		Name:      in.Name,
		Email:     in.Email,
		Mobile:    in.Mobile,
		About:     in.About,
		Role:      in.Role,
		Status:    domain.IdentityLifecycle.Initial(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.log.Info().Str("subject_id", p.SubjectID).Str("role", string(p.Role)).Msg("profile created")
	return p, nil
}

func (s *ProfileService) checkUnique(ctx context.Context, email, mobile, exceptSubjectID string) error {
	if email != "" {
		taken, err := s.repo.ExistsByEmail(ctx, email, exceptSubjectID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("email %s: %w", email, domain.ErrAlreadyExists)
		}
	}
	if mobile != "" {
		taken, err := s.repo.ExistsByMobile(ctx, mobile, exceptSubjectID)
		if err != nil {
			return err
		}
		if taken {
			return fmt.Errorf("mobile %s: %w", mobile, domain.ErrAlreadyExists)
		}
	}
	return nil
}

// GetInternal serves the GetIdentity contract.
func (s *ProfileService) GetInternal(ctx context.Context, subjectID string) (*ports.RemoteIdentity, error) {
	p, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get identity %s: %w", subjectID, err)
	}
	return &ports.RemoteIdentity{SubjectID: p.SubjectID, Role: p.Role, Status: p.Status}, nil
}

// ValidateOwnerCandidate reports whether subjectID may own resources: it must
// be ACTIVE and carry the owner role.
func (s *ProfileService) ValidateOwnerCandidate(ctx context.Context, subjectID string) (*ports.OwnerValidation, error) {
	p, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("validate owner %s: %w", subjectID, err)
	}
	if p.Status != domain.IdentityActive {
		s.log.Warn().Str("subject_id", subjectID).Str("status", string(p.Status)).Msg("owner candidate is not active")
		return &ports.OwnerValidation{Valid: false, Reason: "user is not active"}, nil
	}
	if p.Role != domain.RoleOwner {
		s.log.Warn().Str("subject_id", subjectID).Str("role", string(p.Role)).Msg("owner candidate is not a resource owner")
		return &ports.OwnerValidation{Valid: false, Reason: "user is not a resource owner"}, nil
	}
	return &ports.OwnerValidation{Valid: true, Reason: "valid resource owner"}, nil
}

// SetStatusInternal applies a status pushed by the identity service.
func (s *ProfileService) SetStatusInternal(ctx context.Context, subjectID string, status domain.IdentityStatus) (ports.StatusChange[domain.IdentityStatus], error) {
	p, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return ports.StatusChange[domain.IdentityStatus]{}, fmt.Errorf("set profile status: %w", err)
	}
	t, err := domain.IdentityLifecycle.Apply(p, status, s.now())
	if err != nil {
		return ports.StatusChange[domain.IdentityStatus]{}, fmt.Errorf("set profile status: %w", err)
	}
	recordTransition(domain.IdentityLifecycle.Kind(), t.Changed)
	if t.Changed {
		if err := s.repo.Update(ctx, p); err != nil {
			return ports.StatusChange[domain.IdentityStatus]{}, fmt.Errorf("set profile status: %w", err)
		}
		s.log.Info().Str("subject_id", subjectID).Str("status", string(status)).Msg("profile status updated")
	} else {
		s.log.Info().Str("subject_id", subjectID).Str("status", string(status)).Msg("profile already has status, update not required")
	}
	return statusChange(subjectID, t), nil
}

// Get returns a profile to its subject or an administrator. Non-administrators
// only see ACTIVE profiles.
func (s *ProfileService) Get(ctx context.Context, p domain.Principal, subjectID string) (*domain.Profile, error) {
	if err := s.access.RequireOwnerOrAdmin(subjectID, p); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("get profile %s: %w", subjectID, err)
	}
	if !p.IsAdmin() && profile.Status != domain.IdentityActive {
		s.log.Warn().Str("subject_id", subjectID).Str("status", string(profile.Status)).Msg("profile is not active")
		return nil, fmt.Errorf("get profile %s: %w: profile is not active", subjectID, domain.ErrNotFound)
	}
	return profile, nil
}

// List returns profiles matching filter. Administrators only.
func (s *ProfileService) List(ctx context.Context, p domain.Principal, filter ports.ProfileFilter) ([]*domain.Profile, error) {
	if err := s.access.RequireAdmin(p); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	profiles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("list profiles: no profiles found: %w", domain.ErrNotFound)
	}
	return profiles, nil
}

// Update changes the mutable fields of an ACTIVE profile.
func (s *ProfileService) Update(ctx context.Context, p domain.Principal, subjectID string, in ports.UpdateProfileInput) (*domain.Profile, error) {
	if err := s.access.RequireOwnerOrAdmin(subjectID, p); err != nil {
		return nil, err
	}
	profile, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("update profile %s: %w", subjectID, err)
	}
	if profile.Status != domain.IdentityActive {
		return nil, fmt.Errorf("update profile %s: %w: profile is not active", subjectID, domain.ErrNotFound)
	}

	email, mobile := "", ""
	if in.Email != "" && !strings.EqualFold(in.Email, profile.Email) {
		email = in.Email
	}
	if in.Mobile != "" && in.Mobile != profile.Mobile {
		mobile = in.Mobile
	}
	if err := s.checkUnique(ctx, email, mobile, subjectID); err != nil {
		return nil, fmt.Errorf("update profile %s: %w", subjectID, err)
	}

	if in.Name != "" {
		profile.Name = in.Name
	}
	if in.Email != "" {
		profile.Email = in.Email
	}
	if in.Mobile != "" {
		profile.Mobile = in.Mobile
	}
	if in.About != "" {
		profile.About = in.About
	}
	profile.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile %s: %w", subjectID, err)
	}
	s.log.Info().Str("subject_id", subjectID).Msg("profile updated")
	return profile, nil
}

// Delete moves a profile to DELETED and cascades the deletion to the identity
// service. A profile already DELETED is reported unchanged and nothing is
// cascaded.
func (s *ProfileService) Delete(ctx context.Context, p domain.Principal, subjectID string) (ports.Cascade[ports.StatusChange[domain.IdentityStatus]], error) {
	var out ports.Cascade[ports.StatusChange[domain.IdentityStatus]]
	if err := s.access.RequireOwnerOrAdmin(subjectID, p); err != nil {
		return out, err
	}
	profile, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return out, fmt.Errorf("delete profile %s: %w", subjectID, err)
	}

	t, err := domain.IdentityLifecycle.Apply(profile, domain.IdentityDeleted, s.now())
	if err != nil {
		return out, fmt.Errorf("delete profile %s: %w", subjectID, err)
	}
	recordTransition(domain.IdentityLifecycle.Kind(), t.Changed)
	out.Local = statusChange(subjectID, t)
	if !t.Changed {
		s.log.Info().Str("subject_id", subjectID).Msg("profile already deleted")
		out.Remote = s.cascade.Skip(StepMarkDeleted, subjectID)
		return out, nil
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return ports.Cascade[ports.StatusChange[domain.IdentityStatus]]{}, fmt.Errorf("delete profile %s: %w", subjectID, err)
	}
	s.log.Info().Str("subject_id", subjectID).Msg("profile marked as deleted")

	out.Remote, err = s.cascade.Propagate(ctx, StepMarkDeleted, subjectID, func(ctx context.Context) error {
		return s.identities.MarkDeleted(ctx, subjectID)
	})
	return out, err
}
