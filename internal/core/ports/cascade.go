package ports

// RemoteOutcome records what happened to the remote half of a cascade.
type RemoteOutcome struct {
	Step      string
	Target    string
	Attempted bool
	Applied   bool
	Err       error
}

// Cascade is the two-step result of an operation that commits locally and
// then propagates to another service. Local is always the committed value when
// the operation got past its local write, whatever happened remotely.
type Cascade[T any] struct {
	Local  T
	Remote RemoteOutcome
}

// LocalCommittedRemoteFailed reports the inconsistency window: the local
// change is durable but the dependent service was not updated.
func (c Cascade[T]) LocalCommittedRemoteFailed() bool {
	return c.Remote.Attempted && !c.Remote.Applied
}
