// Package keys canonicalizes arbitrary caller-supplied keys into stable
// string form. The same logical key must always canonicalize identically:
// the result doubles as the storage key and the refresh-tracking key.
package keys

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Canonical returns the canonical string form of key.
//
// Strings and byte slices pass through unchanged, fmt.Stringer is honored,
// integer and float scalars go through strconv. Anything else is encoded
// as JSON, which is deterministic for a fixed Go type (struct field order
// is declaration order; map keys are sorted by encoding/json).
func Canonical(key any) string {
	switch k := key.(type) {
	case string:
		return k
	case []byte:
		return string(k)
	case fmt.Stringer:
		return k.String()
	case int:
		return strconv.Itoa(k)
	case int8:
		return strconv.FormatInt(int64(k), 10)
	case int16:
		return strconv.FormatInt(int64(k), 10)
	case int32:
		return strconv.FormatInt(int64(k), 10)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint:
		return strconv.FormatUint(uint64(k), 10)
	case uint8:
		return strconv.FormatUint(uint64(k), 10)
	case uint16:
		return strconv.FormatUint(uint64(k), 10)
	case uint32:
		return strconv.FormatUint(uint64(k), 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float32:
		return strconv.FormatFloat(float64(k), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(k, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(k)
	}
	b, err := json.Marshal(key)
	if err != nil {
		// unmarshalable key (func, chan, ...); last-resort formatting
		return fmt.Sprintf("%v", key)
	}
	return string(b)
}
