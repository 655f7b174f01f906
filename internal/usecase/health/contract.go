package health

import "context"

// DBPinger checks cache store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// GenerationChecker checks generative provider availability.
type GenerationChecker interface {
	HealthCheck(ctx context.Context) error
}
