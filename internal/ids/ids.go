package ids

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/segmentio/ksuid"
)

// Alphabet: lowercase plus digits. URL-safe, easy to read and copy.
// 6 chars of base36 is 36^6, roughly 2.2 billion combinations.
const (
	alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	IDLength = 6

	DefaultMaxAttempts = 5
)

var ErrExhausted = errors.New("could not allocate a unique content id")

// ExistsFunc reports whether an id is already taken by a live content record.
type ExistsFunc func(ctx context.Context, id string) (bool, error)

// Allocator generates collision-checked short content identifiers. The
// existence check is a probabilistic pre-filter; the database uniqueness
// constraint remains the authoritative guard.
type Allocator struct {
	exists      ExistsFunc
	maxAttempts int
}

func NewAllocator(exists ExistsFunc) *Allocator {
	return &Allocator{exists: exists, maxAttempts: DefaultMaxAttempts}
}

func NewAllocatorWithAttempts(exists ExistsFunc, maxAttempts int) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Allocator{exists: exists, maxAttempts: maxAttempts}
}

func (a *Allocator) Generate(ctx context.Context) (string, error) {
	for i := 0; i < a.maxAttempts; i++ {
		id, err := randomShortID()
		if err != nil {
			return "", err
		}
		taken, err := a.exists(ctx, id)
		if err != nil {
			return "", fmt.Errorf("check id: %w", err)
		}
		if !taken {
			return id, nil
		}
	}
	return "", ErrExhausted
}

func randomShortID() (string, error) {
	buf := make([]byte, IDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random bytes: %w", err)
	}
	id := make([]byte, IDLength)
	for i, b := range buf {
		id[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(id), nil
}

// NewRowID returns a sortable unique id for ordinary database rows
// (users, slugs, invites). Content records use Allocator instead.
func NewRowID() string {
	return ksuid.New().String()
}
