package models

// DataSource records where a best-effort read actually got its data from.
// Read paths never propagate backend failures; instead the degradation is
// made explicit here so callers (and tests) can observe the fallback step.
type DataSource string

const (
	// SourceBackend: fresh data from the backing store.
	SourceBackend DataSource = "backend"
	// SourceCache: a fresh (within TTL) cache entry, no fetch attempted.
	SourceCache DataSource = "cache"
	// SourceStaleCache: the backend failed and an expired cache entry was
	// served instead.
	SourceStaleCache DataSource = "cache_stale"
	// SourceDefaults: built-in fallback data (category defaults).
	SourceDefaults DataSource = "defaults"
	// SourceNone: nothing available; the zero value was returned.
	SourceNone DataSource = "none"
)

// Result is the outcome of a best-effort read: the data, where it came from,
// and, when degraded, the backend error that forced the fallback.
type Result[T any] struct {
	Data   T
	Source DataSource
	// Reason is the backend error behind a degraded result, nil otherwise.
	Reason error
}

// Degraded reports whether the data did not come from a fresh backend read
// or a fresh cache entry.
func (r Result[T]) Degraded() bool {
	return r.Source == SourceStaleCache || r.Source == SourceDefaults || r.Source == SourceNone
}

func Fresh[T any](data T) Result[T] {
	return Result[T]{Data: data, Source: SourceBackend}
}

func Cached[T any](data T) Result[T] {
	return Result[T]{Data: data, Source: SourceCache}
}

func Stale[T any](data T, reason error) Result[T] {
	return Result[T]{Data: data, Source: SourceStaleCache, Reason: reason}
}

func Defaults[T any](data T, reason error) Result[T] {
	return Result[T]{Data: data, Source: SourceDefaults, Reason: reason}
}

func None[T any](reason error) Result[T] {
	var zero T
	return Result[T]{Data: zero, Source: SourceNone, Reason: reason}
}
