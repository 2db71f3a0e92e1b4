package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestValueRoundTrip(t *testing.T) {
	payload := []byte(`{"id":"1"}`)
	b := EncodeValue(payload)

	got, absent, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if absent {
		t.Fatal("value decoded as absent")
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("payload = %q, want %q", got, payload)
	}
}

func TestAbsentRoundTrip(t *testing.T) {
	b := EncodeAbsent()
	_, absent, err := Decode(b)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !absent {
		t.Fatal("absence marker decoded as a value")
	}
}

func TestAbsentDistinctFromEmptyValue(t *testing.T) {
	if bytes.Equal(EncodeAbsent(), EncodeValue(nil)) {
		t.Fatal("absence marker equals empty value encoding")
	}
	_, absent, err := Decode(EncodeValue(nil))
	if err != nil || absent {
		t.Fatalf("empty value: absent=%v err=%v", absent, err)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	cases := map[string][]byte{
		"empty":         nil,
		"short":         []byte("FR"),
		"foreign bytes": []byte("not an entry at all"),
		"bad magic":     append([]byte("XXXX"), EncodeValue([]byte("x"))[4:]...),
		"bad version":   mutate(EncodeValue([]byte("x")), 4, 99),
		"bad kind":      mutate(EncodeValue([]byte("x")), 5, 77),
		"truncated":     EncodeValue([]byte("payload"))[:12],
		"trailing junk": append(EncodeValue([]byte("x")), 0xFF),
	}
	for name, b := range cases {
		if _, _, err := Decode(b); !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: err = %v, want ErrCorrupt", name, err)
		}
	}
}

func mutate(b []byte, i int, v byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	out[i] = v
	return out
}
