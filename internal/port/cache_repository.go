package port

import "context"

type CacheRepository interface {
	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency drops a key so a failed request can be retried
	ReleaseIdempotency(ctx context.Context, key string) error

	// PublishAvailability stores per-floor free room counts, ignoring versions
	// older than the one already published
	PublishAvailability(ctx context.Context, version int64, counts map[int]int) error

	// ClearAvailability forgets the published counts and their version
	ClearAvailability(ctx context.Context) error

	// Availability returns the published counts; version is -1 when nothing
	// has been published
	Availability(ctx context.Context) (int64, map[int]int, error)
}
