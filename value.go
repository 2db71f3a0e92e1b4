package freshcache

// State classifies a lookup result.
type State uint8

const (
	// StateNotFound means the cache holds no entry for the key.
	StateNotFound State = iota
	// StateAbsent means the cache holds an entry recording that the source
	// legitimately has no value for the key (cached absence).
	StateAbsent
	// StatePresent means the cache holds a real value.
	StatePresent
)

func (s State) String() string {
	switch s {
	case StateAbsent:
		return "absent"
	case StatePresent:
		return "present"
	default:
		return "not-found"
	}
}

// Value is the tri-state result of a cache lookup. The zero value is
// NotFound. "Present but absent" (a cached null) is distinct from
// "no entry at all".
type Value[V any] struct {
	state State
	val   V
}

// Present wraps a real value.
func Present[V any](v V) Value[V] {
	return Value[V]{state: StatePresent, val: v}
}

// Absent is the cached-absence marker: the entry exists, the source has no
// value.
func Absent[V any]() Value[V] {
	return Value[V]{state: StateAbsent}
}

// NotFound reports no entry for the key.
func NotFound[V any]() Value[V] {
	return Value[V]{}
}

// State returns the variant tag.
func (x Value[V]) State() State { return x.state }

// Found reports whether the cache held an entry (real value or cached
// absence).
func (x Value[V]) Found() bool { return x.state != StateNotFound }

// Get returns the value and whether a real value is present.
func (x Value[V]) Get() (V, bool) {
	return x.val, x.state == StatePresent
}
