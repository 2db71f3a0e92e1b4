package codec

import (
	"bytes"
	"testing"
)

type payload struct {
	ID    string   `json:"id" msgpack:"id"`
	Tags  []string `json:"tags" msgpack:"tags"`
	Count int      `json:"count" msgpack:"count"`
}

func TestGzipRoundTrip(t *testing.T) {
	c := NewGzip[payload](JSON[payload]{})
	in := payload{ID: "p1", Tags: []string{"a", "b"}, Count: 3}

	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	plain, err := JSON[payload]{}.Encode(in)
	if err != nil {
		t.Fatalf("plain encode: %v", err)
	}
	if bytes.Equal(b, plain) {
		t.Fatal("gzip output equals plain encoding")
	}

	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != in.ID || out.Count != in.Count || len(out.Tags) != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestGzipRejectsPlainBytes(t *testing.T) {
	c := NewGzip[payload](JSON[payload]{})
	if _, err := c.Decode([]byte(`{"id":"p1"}`)); err == nil {
		t.Fatal("uncompressed input decoded without error")
	}
}

func TestLimitGuardsDecode(t *testing.T) {
	c := Limit[payload]{Inner: JSON[payload]{}, MaxDecode: 4}
	if _, err := c.Decode([]byte(`{"id":"way too long"}`)); err == nil {
		t.Fatal("oversized payload decoded without error")
	}

	unlimited := Limit[payload]{Inner: JSON[payload]{}}
	if _, err := unlimited.Decode([]byte(`{"id":"p1"}`)); err != nil {
		t.Fatalf("limit disabled: %v", err)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	c := Msgpack[payload]{}
	in := payload{ID: "p1", Count: 9}
	b, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := c.Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.ID != in.ID || out.Count != in.Count {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestCBORDeterministicEncoding(t *testing.T) {
	c := MustCBOR[map[string]int](true)
	in := map[string]int{"b": 2, "a": 1, "c": 3}

	first, err := c.Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	for i := 0; i < 20; i++ {
		b, err := c.Encode(map[string]int{"c": 3, "a": 1, "b": 2})
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}
		if !bytes.Equal(first, b) {
			t.Fatal("deterministic mode produced differing bytes")
		}
	}
}
