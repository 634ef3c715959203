package cache

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Key addresses one cached result: a query name followed by its
// parameters. Keys compare structurally; integer parts are normalized to
// int64 so that 3 and int64(3) address the same entry.
type Key []any

func NewKey(parts ...any) Key {
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = normalize(p)
	}
	return k
}

func normalize(p any) any {
	switch v := p.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case float32:
		return float64(v)
	}
	return p
}

func (k Key) Equal(other Key) bool {
	if len(k) != len(other) {
		return false
	}
	return k.HasPrefix(other)
}

func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i := range prefix {
		if normalize(k[i]) != normalize(prefix[i]) {
			return false
		}
	}
	return true
}

// String is a canonical encoding: equal keys encode identically and
// distinct keys never collide, since parts are written in Go syntax.
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, p := range k {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%T:%#v", normalize(p), normalize(p))
	}
	sb.WriteByte(']')
	return sb.String()
}

func (k Key) hash() uint64 {
	return xxhash.Sum64String(k.String())
}
