package element

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator issues element IDs. Implementations must never return the
// same ID twice within a process.
type IDGenerator interface {
	NewID() ID
}

// UUIDGenerator issues time-ordered UUIDv7 strings. The uuid package keeps
// v7 values monotonic within a process, so rapid successive calls never
// collide.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return ID(uuid.NewString())
	}
	return ID(id.String())
}

// SequentialGenerator issues "<prefix>-1", "<prefix>-2", ... and is meant
// for tests and reproducible exports.
type SequentialGenerator struct {
	Prefix string
	next   atomic.Uint64
}

// NewSequentialGenerator creates a SequentialGenerator with the given prefix.
func NewSequentialGenerator(prefix string) *SequentialGenerator {
	if prefix == "" {
		prefix = "el"
	}
	return &SequentialGenerator{Prefix: prefix}
}

// NewID implements IDGenerator.
func (g *SequentialGenerator) NewID() ID {
	n := g.next.Add(1)
	return ID(fmt.Sprintf("%s-%d", g.Prefix, n))
}
