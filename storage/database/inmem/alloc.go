package inmemdb

import (
	"context"
	"strconv"

	"github.com/projeval/projeval/core"
)

type identifierAllocator struct {
	db *sequenceTable
}

var _ core.IdentifierAllocator = (*identifierAllocator)(nil) // interface compliance check

func NewIdentifierAllocator(db *DB) core.IdentifierAllocator {
	return &identifierAllocator{db: db.seq}
}

// NextID increments the per-prefix counter under lock; two concurrent
// callers never observe the same value.
func (alloc *identifierAllocator) NextID(ctx context.Context, prefix string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	alloc.db.Lock()
	defer alloc.db.Unlock()

	alloc.db.counters[prefix]++
	return prefix + strconv.Itoa(alloc.db.counters[prefix]), nil
}
