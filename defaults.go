package freshcache

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// resolveFlag resolves an optional per-cache override against the manager
// default. Effective settings carry no further nil after construction.
func resolveFlag(override *bool, def bool) bool {
	if override == nil {
		return def
	}
	return *override
}
