// Package event carries cache change notifications. Events are ephemeral:
// fanned out once to local listeners and broadcast best-effort over the
// store's pub/sub so other processes can invalidate their near-caches. A
// missed event self-heals on the next TTL expiry or explicit eviction.
package event

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Type is the kind of mutation an event describes.
type Type uint8

const (
	Put Type = iota + 1
	Evict
)

func (t Type) String() string {
	switch t {
	case Put:
		return "PUT"
	case Evict:
		return "EVICT"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Event describes a single PUT or EVICT on a cache. Key is the canonical
// key form. Origin identifies the publishing process so subscribers can
// drop their own broadcasts.
type Event struct {
	Type   Type   `msgpack:"t"`
	Cache  string `msgpack:"c"`
	Key    string `msgpack:"k"`
	Origin string `msgpack:"o,omitempty"`
}

// Listener receives change events. Implementations must be cheap and
// non-blocking; they run on the mutating caller's goroutine for local
// events and on the subscription goroutine for remote ones.
type Listener interface {
	OnChange(Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(Event)

func (f ListenerFunc) OnChange(e Event) { f(e) }

// Encode serializes an event for the pub/sub wire.
func Encode(e Event) ([]byte, error) {
	return msgpack.Marshal(e)
}

// Decode parses a pub/sub payload.
func Decode(b []byte) (Event, error) {
	var e Event
	err := msgpack.Unmarshal(b, &e)
	return e, err
}
