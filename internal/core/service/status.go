package service

import (
	"strconv"

	"github.com/venuehub/platform/internal/api/metrics"
	"github.com/venuehub/platform/internal/core/domain"
	"github.com/venuehub/platform/internal/core/ports"
)

// statusChange reports a planned or applied transition on entity id.
func statusChange[S ~string](id string, t domain.Transition[S]) ports.StatusChange[S] {
	return ports.StatusChange[S]{
		ID:      id,
		Status:  t.To,
		Changed: t.Changed,
		Message: t.Message,
	}
}

func recordTransition(kind string, changed bool) {
	metrics.StatusTransitionsTotal.WithLabelValues(kind, strconv.FormatBool(changed)).Inc()
}
