// Package local defines the optional in-process near-cache layer that sits
// in front of the remote store. Entries stored here are the same framed
// bytes as the remote entries; the engine drops them on eviction and when
// a remote change event arrives for the key.
package local

// Local is a best-effort byte cache. Implementations must be safe for
// concurrent use. A Local may evict or reject entries at will; the remote
// store remains the source of cached truth.
type Local interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Del(key string)
	Clear()
	Close()
}
