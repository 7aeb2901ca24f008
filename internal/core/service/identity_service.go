package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// IdentityService implements registration, login and identity lifecycle.
type IdentityService struct {
	repo     ports.IdentityRepository
	tokens   ports.TokenService
	profiles ports.ProfileDirectory
	cascade  *Coordinator
	log      zerolog.Logger
	now      func() time.Time
}

func NewIdentityService(
	repo ports.IdentityRepository,
	tokens ports.TokenService,
	profiles ports.ProfileDirectory,
	cascade *Coordinator,
	log zerolog.Logger,
) *IdentityService {
	return &IdentityService{
		repo:     repo,
		tokens:   tokens,
		profiles: profiles,
		cascade:  cascade,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a standard subject. The profile service assigns the
// subject id.
func (s *IdentityService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	return s.register(ctx, in, domain.RoleUser)
}

// RegisterOwner creates a resource-owner subject.
func (s *IdentityService) RegisterOwner(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	return s.register(ctx, in, domain.RoleOwner)
}

func (s *IdentityService) register(ctx context.Context, in ports.RegisterInput, role domain.Role) (*domain.Identity, error) {
	if strings.TrimSpace(in.Password) == "" {
		return nil, fmt.Errorf("register: %w: password is required", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	profile, err := s.profiles.CreateProfile(ctx, ports.CreateProfileInput{
		Name:   in.Name,
		Email:  in.Email,
		Mobile: in.Mobile,
		About:  in.About,
		Role:   role,
	})
	if err != nil {
		s.log.Error().Err(err).Str("email", in.Email).Str("role", string(role)).Msg("profile creation failed")
		return nil, fmt.Errorf("register: create profile: %w", err)
	}

	now := s.now()
	identity := &domain.Identity{
		SubjectID:    profile.SubjectID,
		PasswordHash: string(hash),
		Role:         role,
		Status:       domain.IdentityLifecycle.Initial(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		// The profile stays behind; there is no compensating delete.
		s.log.Error().Err(err).Str("subject_id", profile.SubjectID).Msg("identity creation failed after profile was created")
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("subject_id", identity.SubjectID).Str("role", string(role)).Msg("identity registered")
	return identity, nil
}

// RegisterAdmin creates an administrator with a caller-chosen subject id.
// Administrators have no profile.
func (s *IdentityService) RegisterAdmin(ctx context.Context, p domain.Principal, subjectID, password string) (*domain.Identity, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("register admin: %w: administrator role required", domain.ErrAccessDenied)
	}
	return s.createAdmin(ctx, subjectID, password)
}

// SeedAdmin creates the bootstrap administrator unless it already exists.
func (s *IdentityService) SeedAdmin(ctx context.Context, subjectID, password string) error {
	if strings.TrimSpace(subjectID) == "" || password == "" {
		s.log.Warn().Msg("admin seed skipped: no credentials configured")
		return nil
	}
	_, err := s.createAdmin(ctx, subjectID, password)
	if errors.Is(err, domain.ErrAlreadyExists) {
		s.log.Debug().Str("subject_id", subjectID).Msg("admin already present")
		return nil
	}
	return err
}

func (s *IdentityService) createAdmin(ctx context.Context, subjectID, password string) (*domain.Identity, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" || password == "" {
		return nil, fmt.Errorf("register admin: %w: subject id and password are required", domain.ErrInvalidInput)
	}

	if _, err := s.repo.FindBySubjectID(ctx, subjectID); err == nil {
		s.log.Warn().Str("subject_id", subjectID).Msg("admin registration failed: subject already exists")
		return nil, fmt.Errorf("register admin %s: %w", subjectID, domain.ErrAlreadyExists)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register admin: hash password: %w", err)
	}
	now := s.now()
	identity := &domain.Identity{
		SubjectID:    subjectID,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Status:       domain.IdentityLifecycle.Initial(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, identity); err != nil {
		return nil, fmt.Errorf("register admin: %w", err)
	}
	s.log.Info().Str("subject_id", subjectID).Msg("admin registered")
	return identity, nil
}

// Login checks credentials and identity status, then issues and activates a
// token.
func (s *IdentityService) Login(ctx context.Context, subjectID, password string) (*ports.LoginResult, error) {
	if subjectID == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("subject_id", subjectID).Msg("login failed: unknown subject")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(password)) != nil {
		s.log.Warn().Str("subject_id", subjectID).Msg("login failed: bad password")
		return nil, domain.ErrInvalidCredentials
	}
	if identity.Status != domain.IdentityActive {
		s.log.Warn().Str("subject_id", subjectID).Str("status", string(identity.Status)).Msg("login blocked for inactive identity")
		return nil, domain.ErrInvalidUserState
	}

	token, err := s.tokens.Issue(identity.SubjectID, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	s.tokens.Activate(ctx, token)

	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.log.Info().Str("subject_id", identity.SubjectID).Str("role", string(identity.Role)).Msg("logged in")
	return &ports.LoginResult{
		Token:     token,
		SubjectID: identity.SubjectID,
		Role:      identity.Role,
		ExpiresAt: claims.ExpiresAt,
	}, nil
}

// Logout revokes an active token. A token that is not active is ErrNotFound.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	if !s.tokens.IsActive(ctx, token) {
		s.log.Warn().Msg("logout failed: token already inactive or expired")
		return fmt.Errorf("logout: token: %w", domain.ErrNotFound)
	}
	s.tokens.Revoke(ctx, token)

	subject := ""
	if claims, err := s.tokens.Parse(token); err == nil {
		subject = claims.SubjectID
	}
	s.log.Info().Str("subject_id", subject).Msg("logged out, token revoked")
	return nil
}

// ChangePassword replaces the caller's own password.
func (s *IdentityService) ChangePassword(ctx context.Context, p domain.Principal, in ports.ChangePasswordInput) error {
	if in.OldPassword == in.NewPassword {
		return fmt.Errorf("change password: %w: new password must differ from the current one", domain.ErrInvalidInput)
	}
	if !p.Authenticated() || p.SubjectID != in.SubjectID {
		return fmt.Errorf("change password: %w: only your own password can be changed", domain.ErrAccessDenied)
	}

	identity, err := s.repo.FindBySubjectID(ctx, in.SubjectID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(identity.PasswordHash), []byte(in.OldPassword)) != nil {
		s.log.Warn().Str("subject_id", in.SubjectID).Msg("password change failed: bad old password")
		return fmt.Errorf("change password: %w", domain.ErrInvalidCredentials)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("change password: hash password: %w", err)
	}
	identity.PasswordHash = string(hash)
	identity.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, identity); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	s.log.Info().Str("subject_id", in.SubjectID).Msg("password updated")
	return nil
}

// ListIdentities returns identities matching filter. Administrators only.
func (s *IdentityService) ListIdentities(ctx context.Context, p domain.Principal, filter ports.IdentityFilter) ([]*domain.Identity, error) {
	if !p.IsAdmin() {
		return nil, fmt.Errorf("list identities: %w", domain.ErrAccessDenied)
	}
	return s.repo.List(ctx, filter)
}

// UpdateIdentityStatus moves an identity to status and, when that changed a
// non-administrator, cascades the new status to the profile service. A failed
// cascade returns the committed local change together with a
// *domain.CascadeError.
func (s *IdentityService) UpdateIdentityStatus(
	ctx context.Context,
	p domain.Principal,
	subjectID string,
	status domain.IdentityStatus,
) (ports.Cascade[ports.StatusChange[domain.IdentityStatus]], error) {
	var out ports.Cascade[ports.StatusChange[domain.IdentityStatus]]
	if !p.IsAdmin() {
		return out, fmt.Errorf("update identity status: %w", domain.ErrAccessDenied)
	}

	identity, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		return out, fmt.Errorf("update identity status: %w", err)
	}

	t, err := domain.IdentityLifecycle.Apply(identity, status, s.now())
	if err != nil {
		return out, fmt.Errorf("update identity status: %w", err)
	}
	recordTransition(domain.IdentityLifecycle.Kind(), t.Changed)
	out.Local = statusChange(subjectID, t)

	if !t.Changed {
		s.log.Info().Str("subject_id", subjectID).Str("status", string(status)).Msg("no update performed, status unchanged")
		out.Remote = s.cascade.Skip(StepSetRemoteStatus, subjectID)
		return out, nil
	}

	if err := s.repo.Update(ctx, identity); err != nil {
		return ports.Cascade[ports.StatusChange[domain.IdentityStatus]]{}, fmt.Errorf("update identity status: %w", err)
	}
	s.log.Info().Str("subject_id", subjectID).Str("from", string(t.From)).Str("to", string(t.To)).Msg("identity status updated")

	if identity.Role == domain.RoleAdmin {
		out.Remote = s.cascade.Skip(StepSetRemoteStatus, subjectID)
		return out, nil
	}

	out.Remote, err = s.cascade.Propagate(ctx, StepSetRemoteStatus, subjectID, func(ctx context.Context) error {
		return s.profiles.SetRemoteStatus(ctx, subjectID, status)
	})
	return out, err
}

// MarkDeletedInternal moves an identity to DELETED on behalf of the profile
// service. An identity already DELETED is reported unchanged.
func (s *IdentityService) MarkDeletedInternal(ctx context.Context, subjectID string) (ports.StatusChange[domain.IdentityStatus], error) {
	identity, err := s.repo.FindBySubjectID(ctx, subjectID)
	if err != nil {
		s.log.Warn().Str("subject_id", subjectID).Msg("delete failed: identity not found")
		return ports.StatusChange[domain.IdentityStatus]{}, fmt.Errorf("mark deleted: %w", err)
	}

	t, err := domain.IdentityLifecycle.Apply(identity, domain.IdentityDeleted, s.now())
	if err != nil {
		return ports.StatusChange[domain.IdentityStatus]{}, fmt.Errorf("mark deleted: %w", err)
	}
	recordTransition(domain.IdentityLifecycle.Kind(), t.Changed)
	if t.Changed {
		if err := s.repo.Update(ctx, identity); err != nil {
			return ports.StatusChange[domain.IdentityStatus]{}, fmt.Errorf("mark deleted: %w", err)
		}
		s.log.Info().Str("subject_id", subjectID).Msg("identity marked as deleted")
	}
	return statusChange(subjectID, t), nil
}

// IsTokenActive is the introspection used by the gateway.
func (s *IdentityService) IsTokenActive(ctx context.Context, token string) bool {
	return s.tokens.IsActive(ctx, token)
}
