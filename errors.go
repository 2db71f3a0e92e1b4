package freshcache

import "errors"

var (
	// ErrStoreRequired is returned by NewManager when no backing store is
	// configured.
	ErrStoreRequired = errors.New("freshcache: store is required")

	// ErrNameRequired is returned by New when the cache name is empty.
	ErrNameRequired = errors.New("freshcache: cache name is required")

	// ErrDuplicateName is returned by New when a cache with the same name
	// is already registered on the manager.
	ErrDuplicateName = errors.New("freshcache: cache name already registered")

	// ErrManagerRequired is returned by New when no manager is supplied.
	ErrManagerRequired = errors.New("freshcache: manager is required")
)
