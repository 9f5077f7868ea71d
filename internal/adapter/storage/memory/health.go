package memory

import "context"

// HealthCheck implements ports.HealthChecker for the memory store.
type HealthCheck struct {
	store *Store
}

func NewHealthCheck(store *Store) *HealthCheck {
	return &HealthCheck{store: store}
}

// Ping reports an error only if the store cannot be acquired in time.
func (h *HealthCheck) Ping(ctx context.Context) error {
	return h.store.view(ctx, func() error { return nil })
}

func (h *HealthCheck) Name() string {
	return "memory"
}
