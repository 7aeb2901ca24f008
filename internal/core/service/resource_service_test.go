package service

import (
	"context"
	"errors"
	"testing"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
	"github.com/venuehub/platform/internal/infrastructure/db/memory"
)

func newResourceFixture() (*ResourceService, *stubProfiles) {
	profiles := newStubProfiles()
	profiles.owners[asOwner.SubjectID] = &ports.OwnerValidation{Valid: true, Reason: "valid resource owner"}
	profiles.owners[asOther.SubjectID] = &ports.OwnerValidation{Valid: true, Reason: "valid resource owner"}
	profiles.owners[asUser.SubjectID] = &ports.OwnerValidation{Valid: false, Reason: "user is not a resource owner"}

	svc := NewResourceService(memory.NewResourceRepository(), profiles, nopLog)
	svc.newID = sequentialIDs(5_000_000_001)
	return svc, profiles
}

func createResource(t *testing.T, svc *ResourceService, p domain.Principal, name string) *domain.Resource {
	t.Helper()
	r, err := svc.Create(context.Background(), p, ports.CreateResourceInput{Name: name, Location: "Lisbon"})
	if err != nil {
		t.Fatalf("create resource %q: %v", name, err)
	}
	return r
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestResourceService_CreateByOwner(t *testing.T) {
	svc, _ := newResourceFixture()
	r := createResource(t, svc, asOwner, "Blue Hall")

	if r.OwnerSubjectID != asOwner.SubjectID || r.Status != domain.ResourceActive || r.Rating != 0 {
		t.Errorf("unexpected resource: %+v", r)
	}
	if r.ID != "5000000001" {
		t.Errorf("unexpected id %q", r.ID)
	}
}

func TestResourceService_CreateByOwnerNamingThemself(t *testing.T) {
	svc, _ := newResourceFixture()
	r, err := svc.Create(context.Background(), asOwner, ports.CreateResourceInput{OwnerSubjectID: asOwner.SubjectID, Name: "Blue Hall"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.OwnerSubjectID != asOwner.SubjectID {
		t.Errorf("unexpected owner %q", r.OwnerSubjectID)
	}
}

func TestResourceService_CreateByAdmin(t *testing.T) {
	svc, _ := newResourceFixture()
	r, err := svc.Create(context.Background(), asAdmin, ports.CreateResourceInput{OwnerSubjectID: asOther.SubjectID, Name: "Red Hall"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.OwnerSubjectID != asOther.SubjectID {
		t.Errorf("expected declared owner, got %q", r.OwnerSubjectID)
	}
}

func TestResourceService_CreateFailures(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	createResource(t, svc, asOwner, "Blue Hall")

	tests := []struct {
		name string
		p    domain.Principal
		in   ports.CreateResourceInput
		want error
	}{
		{"standard subject", asUser, ports.CreateResourceInput{Name: "A"}, domain.ErrAccessDenied},
		{"anonymous", anonymous, ports.CreateResourceInput{Name: "A"}, domain.ErrAccessDenied},
		{"owner declaring another owner", asOwner, ports.CreateResourceInput{OwnerSubjectID: asOther.SubjectID, Name: "A"}, domain.ErrAccessDenied},
		{"admin without owner", asAdmin, ports.CreateResourceInput{Name: "A"}, domain.ErrAccessDenied},
		{"admin naming a non-owner", asAdmin, ports.CreateResourceInput{OwnerSubjectID: asUser.SubjectID, Name: "A"}, domain.ErrNotFound},
		{"admin naming an unknown subject", asAdmin, ports.CreateResourceInput{OwnerSubjectID: "9999999999", Name: "A"}, domain.ErrNotFound},
		{"duplicate name", asOther, ports.CreateResourceInput{Name: "blue hall"}, domain.ErrAlreadyExists},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.p, tc.in); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestResourceService_CreateWhenProfileServiceDown(t *testing.T) {
	svc, profiles := newResourceFixture()
	profiles.validateErr = errors.New("dial tcp: connection refused")

	_, err := svc.Create(context.Background(), asOwner, ports.CreateResourceInput{Name: "Blue Hall"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Read and search
// ---------------------------------------------------------------------------

func TestResourceService_Get(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	r := createResource(t, svc, asOwner, "Blue Hall")

	if _, err := svc.Get(ctx, asOwner, r.ID); err != nil {
		t.Errorf("owner: unexpected error %v", err)
	}
	if _, err := svc.Get(ctx, asAdmin, r.ID); err != nil {
		t.Errorf("admin: unexpected error %v", err)
	}
	if _, err := svc.Get(ctx, asOther, r.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("other owner: expected ErrAccessDenied, got %v", err)
	}
	if _, err := svc.Get(ctx, asAdmin, "0000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown: expected ErrNotFound, got %v", err)
	}
}

func TestResourceService_ListScopes(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	mine := createResource(t, svc, asOwner, "Blue Hall")
	createResource(t, svc, asOther, "Red Hall")
	blocked := createResource(t, svc, asOther, "Grey Hall")
	if _, err := svc.UpdateStatus(ctx, asAdmin, blocked.ID, domain.ResourceBlocked); err != nil {
		t.Fatalf("block: %v", err)
	}

	tests := []struct {
		name string
		p    domain.Principal
		want int
	}{
		{"admin sees all", asAdmin, 3},
		{"owner sees own", asOwner, 1},
		{"other owner sees own including blocked", asOther, 2},
		{"standard subject sees active", asUser, 2},
		{"anonymous sees active", anonymous, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := svc.List(ctx, tc.p, ports.SearchResourcesInput{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != tc.want {
				t.Errorf("expected %d resources, got %d", tc.want, len(items))
			}
		})
	}

	items, _ := svc.List(ctx, asOwner, ports.SearchResourcesInput{})
	if items[0].ID != mine.ID {
		t.Errorf("owner scope returned %s", items[0].ID)
	}
}

func TestResourceService_ListFilters(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	a := createResource(t, svc, asOwner, "Blue Hall")
	b := createResource(t, svc, asOwner, "Red Room")
	if err := svc.PushAggregate(ctx, a.ID, 4.5); err != nil {
		t.Fatalf("push: %v", err)
	}
	if err := svc.PushAggregate(ctx, b.ID, 2.0); err != nil {
		t.Fatalf("push: %v", err)
	}
	three := 3.0

	tests := []struct {
		name string
		in   ports.SearchResourcesInput
		want string
	}{
		{"name contains", ports.SearchResourcesInput{Name: "hall"}, a.ID},
		{"rating greater than", ports.SearchResourcesInput{RatingOp: domain.RatingGreaterThan, RatingValue: 3}, a.ID},
		{"rating less than", ports.SearchResourcesInput{RatingOp: domain.RatingLessThan, RatingValue: 3}, b.ID},
		{"rating equal", ports.SearchResourcesInput{RatingOp: domain.RatingEqual, RatingValue: 2}, b.ID},
		{"min rating", ports.SearchResourcesInput{MinRating: &three}, a.ID},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := svc.List(ctx, anonymous, tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 || items[0].ID != tc.want {
				t.Errorf("expected only %s, got %+v", tc.want, items)
			}
		})
	}

	if _, err := svc.List(ctx, anonymous, ports.SearchResourcesInput{Name: "nowhere"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("no match: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.List(ctx, anonymous, ports.SearchResourcesInput{RatingOp: "gte"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("bad operator: expected ErrInvalidInput, got %v", err)
	}
}

func TestResourceService_ListDeleted(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	r := createResource(t, svc, asOwner, "Blue Hall")

	if _, err := svc.ListDeleted(ctx, asOwner); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("nothing deleted: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Delete(ctx, asOwner, r.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	for _, p := range []domain.Principal{asOwner, asAdmin} {
		items, err := svc.ListDeleted(ctx, p)
		if err != nil || len(items) != 1 {
			t.Errorf("%s: expected 1 deleted resource, got %d, %v", p.Role, len(items), err)
		}
	}
	if _, err := svc.ListDeleted(ctx, asOther); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("other owner: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.ListDeleted(ctx, asUser); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("standard subject: expected ErrAccessDenied, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func TestResourceService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	r := createResource(t, svc, asOwner, "Blue Hall")
	createResource(t, svc, asOwner, "Red Hall")

	got, err := svc.Update(ctx, asOwner, r.ID, ports.UpdateResourceInput{Name: "Blue Hall", Location: "Porto", About: "Renovated"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location != "Porto" || got.OwnerSubjectID != asOwner.SubjectID {
		t.Errorf("unexpected resource: %+v", got)
	}
	if _, err := svc.Update(ctx, asOwner, r.ID, ports.UpdateResourceInput{Name: "RED HALL"}); !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("taken name: expected ErrAlreadyExists, got %v", err)
	}
	if _, err := svc.Update(ctx, asOther, r.ID, ports.UpdateResourceInput{Name: "Mine"}); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("other owner: expected ErrAccessDenied, got %v", err)
	}
}

func TestResourceService_DeleteTwice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	r := createResource(t, svc, asOwner, "Blue Hall")

	first, err := svc.Delete(ctx, asAdmin, r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Changed || first.Message != "Resource status updated from ACTIVE to DELETED" {
		t.Errorf("unexpected first result: %+v", first)
	}
	second, err := svc.Delete(ctx, asAdmin, r.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Changed || second.Message != "Resource already has status: DELETED" {
		t.Errorf("unexpected second result: %+v", second)
	}
	if _, err := svc.Delete(ctx, asOther, r.ID); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("other owner: expected ErrAccessDenied, got %v", err)
	}
}

func TestResourceService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	r := createResource(t, svc, asOwner, "Blue Hall")

	if _, err := svc.UpdateStatus(ctx, asOwner, r.ID, domain.ResourceBlocked); !errors.Is(err, domain.ErrAccessDenied) {
		t.Errorf("owner: expected ErrAccessDenied, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, asAdmin, r.ID, "ARCHIVED"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("unknown status: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, asAdmin, r.ID, domain.ResourceDeleted); err != nil {
		t.Fatalf("delete: %v", err)
	}
	res, err := svc.UpdateStatus(ctx, asAdmin, r.ID, domain.ResourceActive)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if !res.Changed || res.Status != domain.ResourceActive {
		t.Errorf("expected DELETED to ACTIVE to be allowed: %+v", res)
	}
}

// ---------------------------------------------------------------------------
// Internal contracts
// ---------------------------------------------------------------------------

func TestResourceService_InternalContracts(t *testing.T) {
	ctx := context.Background()
	svc, _ := newResourceFixture()
	a := createResource(t, svc, asOwner, "Blue Hall")
	b := createResource(t, svc, asOwner, "Red Hall")

	if err := svc.PushAggregate(ctx, a.ID, 3.5); err != nil {
		t.Fatalf("push: %v", err)
	}
	got, err := svc.GetInternal(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Rating != 3.5 || got.OwnerSubjectID != asOwner.SubjectID {
		t.Errorf("unexpected remote resource: %+v", got)
	}
	if err := svc.PushAggregate(ctx, "0000000000", 1); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown: expected ErrNotFound, got %v", err)
	}

	ids, err := svc.ListIDsByOwner(ctx, asOwner.SubjectID)
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if len(ids) != 2 || !seen[a.ID] || !seen[b.ID] {
		t.Errorf("unexpected ids: %v", ids)
	}
	if _, err := svc.ListIDsByOwner(ctx, asOther.SubjectID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("no resources: expected ErrNotFound, got %v", err)
	}
}
