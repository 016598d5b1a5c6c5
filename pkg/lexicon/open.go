package lexicon

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// IsRemote reports whether location names a Redis lexicon rather than a
// file.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, "redis://") || strings.HasPrefix(location, "rediss://")
}

// Open resolves a lexicon location. An empty location yields Null, a
// redis:// or rediss:// URL a Bounded RedisSource using timeout, and
// anything else a file read with Load. The returned closer releases the
// connection of remote lexicons.
func Open(location string, timeout time.Duration, logger *log.Logger) (Lookup, io.Closer, error) {
	switch {
	case location == "":
		return Null{}, nopCloser{}, nil
	case IsRemote(location):
		src, err := NewRedisSource(location, "")
		if err != nil {
			return nil, nil, err
		}
		return NewBounded(src, timeout, logger), src, nil
	default:
		s, err := Load(location)
		if err != nil {
			return nil, nil, err
		}
		return s, nopCloser{}, nil
	}
}
