package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	in := Event{Type: Evict, Cache: "user", Key: "u:1", Origin: "proc-a"}
	b, err := Encode(in)
	require.NoError(t, err)

	out, err := Decode(b)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("\xc1 not msgpack"))
	assert.Error(t, err)
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "PUT", Put.String())
	assert.Equal(t, "EVICT", Evict.String())
	assert.Equal(t, "Type(9)", Type(9).String())
}

func TestListenerFunc(t *testing.T) {
	var got Event
	l := ListenerFunc(func(e Event) { got = e })
	l.OnChange(Event{Type: Put, Cache: "user", Key: "k"})
	assert.Equal(t, "k", got.Key)
}
