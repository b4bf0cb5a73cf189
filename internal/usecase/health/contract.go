package health

import "context"

// DBPinger checks backend availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CollectionCounter reads a collection end to end; a parse failure shows up
// here even when the backend itself answers pings.
type CollectionCounter interface {
	Count(ctx context.Context, collection string) (int, error)
}
