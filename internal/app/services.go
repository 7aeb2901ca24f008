package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/venuehub/platform/internal/api"
	"github.com/venuehub/platform/internal/core/ports"
	"github.com/venuehub/platform/internal/core/service"
	"github.com/venuehub/platform/internal/infrastructure/config"
	"github.com/venuehub/platform/internal/infrastructure/db/memory"
	"github.com/venuehub/platform/internal/infrastructure/db/mongo"
	"github.com/venuehub/platform/internal/infrastructure/remote"
)

// Identity builds the identity service and seeds the configured
// administrator.
func Identity(ctx context.Context, rt *Runtime) (*echo.Echo, error) {
	tokens, err := rt.TokenService()
	if err != nil {
		return nil, err
	}

	var repo ports.IdentityRepository = memory.NewIdentityRepository()
	if rt.UsesMongo() {
		r := mongo.NewIdentityRepository(rt.db)
		if err := mongo.EnsureIndexes(ctx, r); err != nil {
			return nil, err
		}
		repo = r
	}

	profiles := remote.NewProfileClient(rt.Remote("profile", rt.Config.Remote.ProfileURL))
	svc := service.NewIdentityService(repo, tokens, profiles, service.NewCoordinator(rt.Log), rt.Log)

	if err := svc.SeedAdmin(ctx, rt.Config.Admin.SubjectID, rt.Config.Admin.Password); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	opts, err := rt.Options()
	if err != nil {
		return nil, err
	}
	return api.NewIdentityRouter(opts, svc), nil
}

// Profile builds the profile service.
func Profile(ctx context.Context, rt *Runtime) (*echo.Echo, error) {
	var repo ports.ProfileRepository = memory.NewProfileRepository()
	if rt.UsesMongo() {
		r := mongo.NewProfileRepository(rt.db)
		if err := mongo.EnsureIndexes(ctx, r); err != nil {
			return nil, err
		}
		repo = r
	}

	identities := remote.NewIdentityClient(rt.Remote("identity", rt.Config.Remote.IdentityURL))
	svc := service.NewProfileService(repo, identities, service.NewCoordinator(rt.Log), rt.Log)
	opts, err := rt.Options()
	if err != nil {
		return nil, err
	}
	return api.NewProfileRouter(opts, svc), nil
}

// Resource builds the resource service.
func Resource(ctx context.Context, rt *Runtime) (*echo.Echo, error) {
	var repo ports.ResourceRepository = memory.NewResourceRepository()
	if rt.UsesMongo() {
		r := mongo.NewResourceRepository(rt.db)
		if err := mongo.EnsureIndexes(ctx, r); err != nil {
			return nil, err
		}
		repo = r
	}

	profiles := remote.NewProfileClient(rt.Remote("profile", rt.Config.Remote.ProfileURL))
	svc := service.NewResourceService(repo, profiles, rt.Log)
	opts, err := rt.Options()
	if err != nil {
		return nil, err
	}
	return api.NewResourceRouter(opts, svc), nil
}

// Feedback builds the feedback service.
func Feedback(ctx context.Context, rt *Runtime) (*echo.Echo, error) {
	var repo ports.FeedbackRepository = memory.NewFeedbackRepository()
	if rt.UsesMongo() {
		r := mongo.NewFeedbackRepository(rt.db)
		if err := mongo.EnsureIndexes(ctx, r); err != nil {
			return nil, err
		}
		repo = r
	}

	profiles := remote.NewProfileClient(rt.Remote("profile", rt.Config.Remote.ProfileURL))
	resources := remote.NewResourceClient(rt.Remote("resource", rt.Config.Remote.ResourceURL))
	svc := service.NewFeedbackService(repo, profiles, resources, service.NewCoordinator(rt.Log), rt.Log)
	opts, err := rt.Options()
	if err != nil {
		return nil, err
	}
	return api.NewFeedbackRouter(opts, svc), nil
}

// Gateway builds the outer edge.
func Gateway(_ context.Context, rt *Runtime) (*echo.Echo, error) {
	tokens, err := rt.TokenService()
	if err != nil {
		return nil, err
	}

	var active ports.ActiveChecker
	switch rt.Config.Gateway.Revocation {
	case config.RevocationRemote:
		active = remote.NewIdentityClient(rt.Remote("identity", rt.Config.Remote.IdentityURL))
	case config.RevocationStore:
		if rt.Config.TokenStore != config.DriverRedis {
			return nil, fmt.Errorf("GATEWAY_REVOCATION=store needs TOKEN_STORE=redis")
		}
		active = tokens
	case config.RevocationOff:
		rt.Log.Warn().Msg("edge revocation check disabled: logged out tokens stay usable until they expire")
	}

	upstreams, err := parseUpstreams(rt.Config.Remote)
	if err != nil {
		return nil, err
	}

	opts, err := rt.Options()
	if err != nil {
		return nil, err
	}
	return api.NewGatewayRouter(api.GatewayOptions{
		Options:              opts,
		Verifier:             tokens,
		Active:               active,
		Upstreams:            upstreams,
		Timeout:              rt.Config.Remote.Timeout,
		ForwardAuthorization: rt.Config.Gateway.Trust == config.TrustBearer,
	}), nil
}

func parseUpstreams(rc config.RemoteConfig) (api.Upstreams, error) {
	var (
		u   api.Upstreams
		err error
	)
	for _, p := range []struct {
		dst **url.URL
		raw string
		env string
	}{
		{&u.Identity, rc.IdentityURL, "IDENTITY_URL"},
		{&u.Profile, rc.ProfileURL, "PROFILE_URL"},
		{&u.Resource, rc.ResourceURL, "RESOURCE_URL"},
		{&u.Feedback, rc.FeedbackURL, "FEEDBACK_URL"},
	} {
		if *p.dst, err = url.Parse(p.raw); err != nil {
			return api.Upstreams{}, fmt.Errorf("%s: %w", p.env, err)
		}
	}
	return u, nil
}
