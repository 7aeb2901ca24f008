package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/venuehub/platform/internal/api/metrics"
	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// Cascade step names, used in logs, metrics and CascadeError.
const (
	StepSetRemoteStatus = "set_remote_status"
	StepMarkDeleted     = "mark_deleted"
	StepPushAggregate   = "push_aggregate"
)

// Coordinator runs the remote half of a cascade after the local half has been
// committed. Calls are synchronous and made exactly once. A failed remote step
// never undoes the local change.
type Coordinator struct {
	log zerolog.Logger
}

func NewCoordinator(log zerolog.Logger) *Coordinator {
	return &Coordinator{log: log}
}

// Propagate runs call and reports its outcome. On failure the returned error is
// a *domain.CascadeError that unwraps to domain.ErrNotFound.
func (c *Coordinator) Propagate(ctx context.Context, step, target string, call func(context.Context) error) (ports.RemoteOutcome, error) {
	out := ports.RemoteOutcome{Step: step, Target: target, Attempted: true}

	err := call(ctx)
	if err == nil {
		out.Applied = true
		metrics.CascadeTotal.WithLabelValues(step, "applied").Inc()
		c.log.Info().Str("step", step).Str("target", target).Msg("cascade applied")
		return out, nil
	}

	if !errors.Is(err, domain.ErrNotFound) {
		err = fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	out.Err = err
	metrics.CascadeTotal.WithLabelValues(step, "failed").Inc()

	c.log.Error().Err(err).Str("step", step).Str("target", target).Msg("cascade failed")
	c.log.Warn().
		Str("step", step).
		Str("target", target).
		Msg("rollback of local change requested: local change retained, no compensation performed")

	return out, &domain.CascadeError{Step: step, Target: target, LocalCommitted: true, Err: err}
}

// Skip records a cascade that was not needed, such as a no-op transition.
func (c *Coordinator) Skip(step, target string) ports.RemoteOutcome {
	return ports.RemoteOutcome{Step: step, Target: target}
}
