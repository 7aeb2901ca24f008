package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// ProfileClient calls the profile service's internal routes.
type ProfileClient struct {
	c *Client
}

func NewProfileClient(c *Client) *ProfileClient {
	return &ProfileClient{c: c}
}

var _ ports.ProfileDirectory = (*ProfileClient)(nil)

// statusRequest is the body of the internal status routes.
type statusRequest struct {
	Status string `json:"status"`
}

func (p *ProfileClient) CreateProfile(ctx context.Context, in ports.CreateProfileInput) (*domain.Profile, error) {
	var out domain.Profile
	if err := p.c.do(ctx, http.MethodPost, "/internal/profiles", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProfileClient) GetIdentity(ctx context.Context, subjectID string) (*ports.RemoteIdentity, error) {
	var out ports.RemoteIdentity
	if err := p.c.do(ctx, http.MethodGet, "/internal/profiles/"+url.PathEscape(subjectID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProfileClient) ValidateOwnerCandidate(ctx context.Context, subjectID string) (*ports.OwnerValidation, error) {
	var out ports.OwnerValidation
	path := "/internal/profiles/" + url.PathEscape(subjectID) + "/owner-validation"
	if err := p.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *ProfileClient) SetRemoteStatus(ctx context.Context, subjectID string, status domain.IdentityStatus) error {
	path := "/internal/profiles/" + url.PathEscape(subjectID) + "/status"
	return p.c.do(ctx, http.MethodPut, path, statusRequest{Status: string(status)}, nil)
}
