package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/api/metrics"
	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// OwnerLookup returns the stored owner subject id of one instance of a kind.
type OwnerLookup func(ctx context.Context, id string) (string, error)

// OwnerValidator checks a declared owner against the service that holds
// identities.
type OwnerValidator interface {
	ValidateOwnerCandidate(ctx context.Context, subjectID string) (*ports.OwnerValidation, error)
}

// Ownership evaluates ownership-based authorization for one entity kind. The
// kind-specific parts are injected: how to find an instance's owner and how to
// validate a declared owner remotely.
type Ownership struct {
	kind      string
	lookup    OwnerLookup
	validator OwnerValidator
	log       zerolog.Logger
}

func NewOwnership(kind string, lookup OwnerLookup, validator OwnerValidator, log zerolog.Logger) *Ownership {
	return &Ownership{kind: kind, lookup: lookup, validator: validator, log: log}
}

// IsOwner reports whether callerSubjectID owns instance id. Lookup failures
// and blank inputs yield false.
func (o *Ownership) IsOwner(ctx context.Context, id, callerSubjectID string) bool {
	if strings.TrimSpace(id) == "" || strings.TrimSpace(callerSubjectID) == "" || o.lookup == nil {
		return false
	}
	owner, err := o.lookup(ctx, id)
	if err != nil {
		o.log.Debug().Err(err).Str("kind", o.kind).Str("id", id).Msg("owner lookup failed")
		return false
	}
	return owner != "" && owner == callerSubjectID
}

// IsAdmin reports whether p carries the administrator role.
func (o *Ownership) IsAdmin(p domain.Principal) bool {
	return p.IsAdmin()
}

// RequireOwnerOrAdmin fails with ErrAccessDenied unless p is an administrator
// or ownerSubjectID is p's own subject id.
func (o *Ownership) RequireOwnerOrAdmin(ownerSubjectID string, p domain.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	if ownerSubjectID != "" && p.Authenticated() && ownerSubjectID == p.SubjectID {
		return nil
	}
	metrics.AuthorizationDenialsTotal.WithLabelValues(o.kind, "owner_or_admin").Inc()
	o.log.Warn().Str("kind", o.kind).Str("subject_id", p.SubjectID).Str("owner_subject_id", ownerSubjectID).Msg("access denied: not owner or admin")
	return fmt.Errorf("%w: not owner or admin of this %s", domain.ErrAccessDenied, o.kind)
}

// RequireAdmin fails with ErrAccessDenied unless p is an administrator.
func (o *Ownership) RequireAdmin(p domain.Principal) error {
	if p.IsAdmin() {
		return nil
	}
	metrics.AuthorizationDenialsTotal.WithLabelValues(o.kind, "admin").Inc()
	return fmt.Errorf("%w: administrator role required", domain.ErrAccessDenied)
}

// RequireRemoteOwnerValid validates a declared owner against the profile
// service. A blank owner fails with ErrAccessDenied. A candidate the remote
// side rejects, a remote miss or an unreachable remote fail with ErrNotFound.
// An evaluator built without a validator cannot confirm anyone.
func (o *Ownership) RequireRemoteOwnerValid(ctx context.Context, ownerSubjectID string) error {
	if strings.TrimSpace(ownerSubjectID) == "" {
		metrics.AuthorizationDenialsTotal.WithLabelValues(o.kind, "remote_owner").Inc()
		return fmt.Errorf("%w: owner subject id is required", domain.ErrAccessDenied)
	}

	if o.validator == nil {
		return fmt.Errorf("validate owner %s: %w: no owner validator for %s", ownerSubjectID, domain.ErrNotFound, o.kind)
	}

	res, err := o.validator.ValidateOwnerCandidate(ctx, ownerSubjectID)
	if err != nil {
		o.log.Error().Err(err).Str("owner_subject_id", ownerSubjectID).Msg("owner validation call failed")
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("validate owner %s: %w", ownerSubjectID, err)
		}
		return fmt.Errorf("validate owner %s: %w: %v", ownerSubjectID, domain.ErrNotFound, err)
	}
	if res == nil || !res.Valid {
		reason := "not a valid owner"
		if res != nil && res.Reason != "" {
			reason = res.Reason
		}
		metrics.AuthorizationDenialsTotal.WithLabelValues(o.kind, "remote_owner").Inc()
		o.log.Warn().Str("owner_subject_id", ownerSubjectID).Str("reason", reason).Msg("owner candidate rejected")
		return fmt.Errorf("validate owner %s: %w: %s", ownerSubjectID, domain.ErrNotFound, reason)
	}
	return nil
}
