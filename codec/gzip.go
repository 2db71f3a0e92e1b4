package codec

import (
	"bytes"
	"compress/gzip"
	"io"
)

// Gzip wraps another codec and gzip-compresses its output. Caches with the
// compression flag enabled wrap their effective codec in Gzip at
// construction time.
type Gzip[V any] struct {
	Inner Codec[V]
	// Level is a compress/gzip level; 0 means gzip.DefaultCompression.
	Level int
}

func NewGzip[V any](inner Codec[V]) Gzip[V] {
	return Gzip[V]{Inner: inner}
}

func (c Gzip[V]) Encode(v V) ([]byte, error) {
	payload, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	level := c.Level
	if level == 0 {
		level = gzip.DefaultCompression
	}
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(payload); err != nil {
		_ = zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c Gzip[V]) Decode(b []byte) (V, error) {
	var zero V
	zr, err := gzip.NewReader(bytes.NewReader(b))
	if err != nil {
		return zero, err
	}
	payload, err := io.ReadAll(zr)
	if cerr := zr.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return zero, err
	}
	return c.Inner.Decode(payload)
}
