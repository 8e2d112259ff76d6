package pipeline

import (
	"context"
	"time"
)

// Fetcher fetches a URL and returns the raw document plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// Clock returns the current time (useful for testing the year heuristic).
type Clock interface {
	Now() time.Time
}

// IDGenerator produces run IDs for log correlation.
type IDGenerator interface {
	NewID() (string, error)
}
