package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/venuehub/platform/internal/core/ports"
)

// IdentityClient calls the identity service's internal routes. The gateway
// also uses it as a remote ActiveChecker.
type IdentityClient struct {
	c *Client
}

func NewIdentityClient(c *Client) *IdentityClient {
	return &IdentityClient{c: c}
}

var (
	_ ports.IdentityDirectory = (*IdentityClient)(nil)
	_ ports.ActiveChecker     = (*IdentityClient)(nil)
)

type activeResponse struct {
	Active bool `json:"active"`
}

func (i *IdentityClient) MarkDeleted(ctx context.Context, subjectID string) error {
	return i.c.do(ctx, http.MethodPut, "/internal/identities/"+url.PathEscape(subjectID)+"/deleted", nil, nil)
}

// IsActive asks the identity service whether token is in its active set. Any
// failure reads as inactive.
func (i *IdentityClient) IsActive(ctx context.Context, token string) bool {
	if token == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.c.baseURL+"/internal/tokens/active", nil)
	if err != nil {
		return false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	var out activeResponse
	if err := i.c.send(req, &out); err != nil {
		i.c.log.Debug().Err(err).Msg("token introspection failed")
		return false
	}
	return out.Active
}
