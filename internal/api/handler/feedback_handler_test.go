package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

type stubFeedbackService struct {
	ports.FeedbackService

	created   ports.CreateFeedbackInput
	createErr error
	caller    domain.Principal
}

func (s *stubFeedbackService) Create(_ context.Context, p domain.Principal, in ports.CreateFeedbackInput) (ports.Cascade[*domain.Feedback], error) {
	s.caller, s.created = p, in
	f := &domain.Feedback{ID: "6000000001", AuthorSubjectID: p.SubjectID, ResourceID: in.ResourceID, Score: in.Score, Status: domain.FeedbackActive}
	return ports.Cascade[*domain.Feedback]{Local: f}, s.createErr
}

func (s *stubFeedbackService) AverageForResource(_ context.Context, p domain.Principal, _ string) (float64, error) {
	s.caller = p
	return 3.5, nil
}

func TestFeedbackCreate(t *testing.T) {
	svc := &stubFeedbackService{}
	h := NewFeedbackHandler(svc)
	user := domain.Principal{SubjectID: "3000000001", Role: domain.RoleUser}

	c, rec := newContext(http.MethodPost, "/feedback", `{"resource_id":"r1","score":4,"comment":"great"}`, &user)
	if err := h.Create(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var f domain.Feedback
	_ = json.Unmarshal(rec.Body.Bytes(), &f)
	if rec.Code != http.StatusCreated || f.ID != "6000000001" || svc.created.Score != 4 {
		t.Errorf("unexpected create: code=%d body=%+v input=%+v", rec.Code, f, svc.created)
	}
}

func TestFeedbackCreate_ScoreRange(t *testing.T) {
	h := NewFeedbackHandler(&stubFeedbackService{})
	user := domain.Principal{SubjectID: "3000000001", Role: domain.RoleUser}

	for _, body := range []string{`{"resource_id":"r1","score":0}`, `{"resource_id":"r1","score":6}`, `{"score":3}`} {
		c, _ := newContext(http.MethodPost, "/feedback", body, &user)
		if err := h.Create(c); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("%s: expected ErrInvalidInput, got %v", body, err)
		}
	}
}

func TestFeedbackCreate_CascadeFailurePassesThrough(t *testing.T) {
	cascadeErr := &domain.CascadeError{Step: "push_aggregate", Target: "r1", LocalCommitted: true, Err: domain.ErrNotFound}
	h := NewFeedbackHandler(&stubFeedbackService{createErr: cascadeErr})
	user := domain.Principal{SubjectID: "3000000001", Role: domain.RoleUser}

	c, _ := newContext(http.MethodPost, "/feedback", `{"resource_id":"r1","score":4}`, &user)
	if err := h.Create(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected the cascade failure to read as ErrNotFound, got %v", err)
	}
}

func TestFeedbackAverage_Anonymous(t *testing.T) {
	svc := &stubFeedbackService{}
	c, rec := newContext(http.MethodGet, "/feedback/resource/r1/average", "", nil)
	c.SetParamNames("resourceId")
	c.SetParamValues("r1")

	if err := NewFeedbackHandler(svc).Average(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp averageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.ResourceID != "r1" || resp.Average != 3.5 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if svc.caller.Authenticated() {
		t.Errorf("expected an anonymous caller, got %+v", svc.caller)
	}
}
