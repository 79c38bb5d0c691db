// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
)

// ID is a post identifier. Identifiers are 64-bit-scale decimal integers
// that do not survive a round trip through float64, so they are held as
// arbitrary-precision integers. The zero value is the identifier 0.
// An ID is immutable: every operation returns a new value.
type ID struct {
	v *big.Int
}

// IDSentinel is larger than any identifier the API can return (10^100).
// It is the starting comparison value of a pagination walk.
var IDSentinel = ID{v: new(big.Int).Exp(big.NewInt(10), big.NewInt(100), nil)}

// ParseID parses a non-negative base-10 identifier.
func ParseID(s string) (ID, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return ID{}, fmt.Errorf("invalid id %q", s)
	}
	if n.Sign() < 0 {
		return ID{}, fmt.Errorf("invalid id %q: negative", s)
	}
	return ID{v: n}, nil
}

// MustParseID is ParseID for literals; it panics on malformed input.
func MustParseID(s string) ID {
	id, err := ParseID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// IDFromUint64 converts a native identifier.
func IDFromUint64(n uint64) ID {
	return ID{v: new(big.Int).SetUint64(n)}
}

func (id ID) int() *big.Int {
	if id.v == nil {
		return new(big.Int)
	}
	return id.v
}

// Cmp returns -1, 0 or +1 as id is less than, equal to, or greater than other.
func (id ID) Cmp(other ID) int { return id.int().Cmp(other.int()) }

// Equal reports whether both identifiers have the same value.
func (id ID) Equal(other ID) bool { return id.Cmp(other) == 0 }

// Less reports whether id is strictly older than other.
func (id ID) Less(other ID) bool { return id.Cmp(other) < 0 }

// Pred returns id − 1. The predecessor of 0 is 0.
func (id ID) Pred() ID {
	if id.int().Sign() == 0 {
		return ID{}
	}
	return ID{v: new(big.Int).Sub(id.int(), big.NewInt(1))}
}

// String returns the decimal form.
func (id ID) String() string { return id.int().String() }

// MinID returns the smallest of initial and ids.
func MinID(initial ID, ids ...ID) ID {
	lowest := initial
	for _, id := range ids {
		if id.Less(lowest) {
			lowest = id
		}
	}
	return lowest
}

// MarshalJSON encodes the identifier as a decimal string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

// UnmarshalJSON accepts a decimal string or a bare JSON number. Numbers are
// decoded from their literal text, never through float64.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ID{}
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	} else {
		s = string(data)
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// MarshalYAML encodes the identifier as a decimal string.
func (id ID) MarshalYAML() (any, error) { return id.String(), nil }
