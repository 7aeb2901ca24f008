package ports

// StatusChange is the reported result of a lifecycle status request. Changed
// is false for the no-op case where the entity already had the status.
type StatusChange[S ~string] struct {
	ID      string `json:"id"`
	Status  S      `json:"status"`
	Changed bool   `json:"changed"`
	Message string `json:"message"`
}
