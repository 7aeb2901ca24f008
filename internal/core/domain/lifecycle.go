package domain

import (
	"fmt"
	"time"
)

// Edges lists, for every state, the states it may move to. It is the single
// place where legal transitions are declared for an entity kind.
type Edges[S ~string] map[S][]S

// Lifecycle is the finite state machine of one entity kind.
type Lifecycle[S ~string] struct {
	kind    string
	initial S
	states  map[S]struct{}
	edges   map[S]map[S]struct{}
}

// NewLifecycle builds a machine from its edge table. Every state that appears
// as a source or a target is a known state.
func NewLifecycle[S ~string](kind string, initial S, edges Edges[S]) *Lifecycle[S] {
	l := &Lifecycle[S]{
		kind:    kind,
		initial: initial,
		states:  map[S]struct{}{initial: {}},
		edges:   make(map[S]map[S]struct{}, len(edges)),
	}
	for from, targets := range edges {
		l.states[from] = struct{}{}
		set := make(map[S]struct{}, len(targets))
		for _, to := range targets {
			l.states[to] = struct{}{}
			set[to] = struct{}{}
		}
		l.edges[from] = set
	}
	return l
}

// Kind is the entity kind the machine governs, used in messages.
func (l *Lifecycle[S]) Kind() string { return l.kind }

// Initial is the state every new entity starts in.
func (l *Lifecycle[S]) Initial() S { return l.initial }

// Valid reports whether s is a state of this machine.
func (l *Lifecycle[S]) Valid(s S) bool {
	_, ok := l.states[s]
	return ok
}

// States returns every known state.
func (l *Lifecycle[S]) States() []S {
	out := make([]S, 0, len(l.states))
	for s := range l.states {
		out = append(out, s)
	}
	return out
}

// Allows reports whether the edge table contains from -> to.
func (l *Lifecycle[S]) Allows(from, to S) bool {
	_, ok := l.edges[from][to]
	return ok
}

// Transition is the outcome of a status change request. Changed is false when
// the target equals the current status; that case is reported, not an error.
type Transition[S ~string] struct {
	From    S
	To      S
	Changed bool
	Message string
}

// Stateful is implemented by every entity that carries a lifecycle status.
type Stateful[S ~string] interface {
	CurrentStatus() S
	SetStatus(status S, at time.Time)
}

// Plan decides the outcome of moving from current to target without touching
// any entity.
func (l *Lifecycle[S]) Plan(current, target S) (Transition[S], error) {
	if !l.Valid(target) {
		return Transition[S]{}, fmt.Errorf("%w: unknown %s status %q", ErrInvalidInput, l.kind, target)
	}
	if current == target {
		return Transition[S]{
			From:    current,
			To:      target,
			Message: fmt.Sprintf("%s already has status: %s", l.kind, current),
		}, nil
	}
	if !l.Allows(current, target) {
		return Transition[S]{}, fmt.Errorf("%w: %s cannot move from %s to %s", ErrInvalidState, l.kind, current, target)
	}
	return Transition[S]{
		From:    current,
		To:      target,
		Changed: true,
		Message: fmt.Sprintf("%s status updated from %s to %s", l.kind, current, target),
	}, nil
}

// Apply plans the transition and, when it changes anything, sets the new
// status on e. Persisting e is the caller's job and only needed when Changed.
func (l *Lifecycle[S]) Apply(e Stateful[S], target S, now time.Time) (Transition[S], error) {
	t, err := l.Plan(e.CurrentStatus(), target)
	if err != nil || !t.Changed {
		return t, err
	}
	e.SetStatus(target, now)
	return t, nil
}
