package ports

import "context"

// Repositories groups the store implementations one backend provides.
type Repositories struct {
	Experiments  ExperimentRepository
	Variants     VariantRepository
	Participants ParticipantRepository
	Users        UserRepository
	FunnelEvents FunnelEventRepository

	// Closer releases the backend connection. It may be nil.
	Closer func(ctx context.Context) error
}

// Close releases the backend connection when one is held.
func (r *Repositories) Close(ctx context.Context) error {
	if r == nil || r.Closer == nil {
		return nil
	}
	return r.Closer(ctx)
}
