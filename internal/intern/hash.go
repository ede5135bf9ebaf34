package intern

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/xxh3"
)

// ID identifies an interned string. It is derived from the string's content,
// so two distinct strings may share an ID.
type ID uint64

// EmptyID is the identifier of the empty string under every hasher.
const EmptyID ID = 0

// String formats the ID as fixed-width hex.
func (id ID) String() string {
	return fmt.Sprintf("%016x", uint64(id))
}

// ParseID accepts a decimal ID or a hex ID prefixed with "0x".
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 64)
		if err != nil {
			return 0, fmt.Errorf("parsing hex id %q: %w", s, err)
		}
		return ID(v), nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing id %q: %w", s, err)
	}
	return ID(v), nil
}

// Hasher derives an ID from text. It must be pure for the life of the process.
type Hasher func(string) ID

// Built-in hasher names.
const (
	HasherXXHash = "xxhash"
	HasherXXH3   = "xxh3"
)

// DefaultHasher is the name of the hasher used when none is configured.
const DefaultHasher = HasherXXHash

// ErrUnknownHasher is returned by HasherByName for names it does not know.
var ErrUnknownHasher = errors.New("unknown hasher")

var hashers = map[string]Hasher{
	HasherXXHash: func(s string) ID { return ID(xxhash.Sum64String(s)) },
	HasherXXH3:   func(s string) ID { return ID(xxh3.HashString(s)) },
}

// HasherByName returns a built-in hasher.
func HasherByName(name string) (Hasher, error) {
	if name == "" {
		name = DefaultHasher
	}
	h, ok := hashers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHasher, name)
	}
	return h, nil
}

// HasherNames lists the built-in hashers.
func HasherNames() []string {
	return []string{HasherXXHash, HasherXXH3}
}

// sum applies h with the empty string pinned to EmptyID.
func sum(h Hasher, s string) ID {
	if s == "" {
		return EmptyID
	}
	return h(s)
}
