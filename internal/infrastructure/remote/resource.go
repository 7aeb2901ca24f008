package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/venuehub/platform/internal/core/ports"
)

// ResourceClient calls the resource service's internal routes.
type ResourceClient struct {
	c *Client
}

func NewResourceClient(c *Client) *ResourceClient {
	return &ResourceClient{c: c}
}

var _ ports.ResourceDirectory = (*ResourceClient)(nil)

type ratingRequest struct {
	Rating float64 `json:"rating"`
}

type idsResponse struct {
	IDs []string `json:"ids"`
}

func (r *ResourceClient) GetResource(ctx context.Context, resourceID string) (*ports.RemoteResource, error) {
	var out ports.RemoteResource
	if err := r.c.do(ctx, http.MethodGet, "/internal/resources/"+url.PathEscape(resourceID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *ResourceClient) PushAggregate(ctx context.Context, resourceID string, value float64) error {
	path := "/internal/resources/" + url.PathEscape(resourceID) + "/rating"
	return r.c.do(ctx, http.MethodPut, path, ratingRequest{Rating: value}, nil)
}

func (r *ResourceClient) ListIDsByOwner(ctx context.Context, ownerSubjectID string) ([]string, error) {
	var out idsResponse
	q := url.Values{"owner": {ownerSubjectID}}
	if err := r.c.do(ctx, http.MethodGet, "/internal/resources?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out.IDs, nil
}
