// Package wire frames cache entries for storage. The envelope lets the
// engine tell a real payload apart from a cached-absence marker and reject
// foreign or corrupt bytes found under its keyspace.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version    byte = 1
	kindValue  byte = 1
	kindAbsent byte = 2
)

var (
	ErrCorrupt = errors.New("freshcache: corrupt entry")
	magic4     = [...]byte{'F', 'R', 'S', 'H'}
)

const hdr = 4 + 1 + 1 + 4

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// EncodeValue frames a serialized payload:
// magic(4) | ver(1) | kind(1) | vlen(u32 be) | payload(vlen)
func EncodeValue(payload []byte) []byte {
	return encode(kindValue, payload)
}

// EncodeAbsent frames the cached-absence marker. It round-trips through the
// store and is distinguishable from every real payload, including an empty
// one.
func EncodeAbsent() []byte {
	return encode(kindAbsent, nil)
}

func encode(kind byte, payload []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(hdr + len(payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kind)

	var u4 [4]byte
	binary.BigEndian.PutUint32(u4[:], uint32(len(payload)))
	buf.Write(u4[:])

	buf.Write(payload)
	return buf.Bytes()
}

// Decode unframes a stored entry. absent reports whether the entry is the
// cached-absence marker; payload is only meaningful when absent is false.
func Decode(b []byte) (payload []byte, absent bool, err error) {
	if len(b) < hdr || !hasMagic(b) || b[4] != version {
		return nil, false, ErrCorrupt
	}
	kind := b[5]
	if kind != kindValue && kind != kindAbsent {
		return nil, false, ErrCorrupt
	}

	vlen := int(binary.BigEndian.Uint32(b[6:10]))
	if vlen != len(b)-hdr {
		return nil, false, ErrCorrupt
	}
	if kind == kindAbsent {
		if vlen != 0 {
			return nil, false, ErrCorrupt
		}
		return nil, true, nil
	}
	return b[hdr:], false, nil
}
