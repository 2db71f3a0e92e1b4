package keys

import "testing"

type userKey struct {
	Tenant string `json:"tenant"`
	ID     int    `json:"id"`
}

type namedKey struct{ s string }

func (k namedKey) String() string { return "named:" + k.s }

func TestCanonical(t *testing.T) {
	cases := []struct {
		name string
		key  any
		want string
	}{
		{"string", "u:1", "u:1"},
		{"bytes", []byte("raw"), "raw"},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"uint", uint(9), "9"},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"stringer", namedKey{"a"}, "named:a"},
		{"struct", userKey{Tenant: "acme", ID: 3}, `{"tenant":"acme","id":3}`},
	}
	for _, tc := range cases {
		if got := Canonical(tc.key); got != tc.want {
			t.Errorf("%s: Canonical(%v) = %q, want %q", tc.name, tc.key, got, tc.want)
		}
	}
}

func TestCanonicalIsStable(t *testing.T) {
	k := userKey{Tenant: "acme", ID: 3}
	first := Canonical(k)
	for i := 0; i < 100; i++ {
		if got := Canonical(userKey{Tenant: "acme", ID: 3}); got != first {
			t.Fatalf("canonical form changed: %q vs %q", got, first)
		}
	}
}
