package sqlxrepos

import (
	"context"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/projeval/projeval/core"
)

type identifierAllocator struct {
	db *sqlx.DB
}

var _ core.IdentifierAllocator = (*identifierAllocator)(nil) // interface compliance check

func NewIdentifierAllocator(db *sqlx.DB) core.IdentifierAllocator {
	return &identifierAllocator{db: db}
}

// NextID bumps the per-prefix counter in a single atomic statement; the
// database serializes concurrent callers, so no two of them ever receive
// the same value. A caller that is cancelled after this returns simply
// leaves a gap in the sequence.
func (alloc *identifierAllocator) NextID(ctx context.Context, prefix string) (string, error) {
	var value int
	err := alloc.db.GetContext(ctx, &value,
		`INSERT INTO id_sequence (prefix, value) VALUES ($1, 1)
		 ON CONFLICT (prefix) DO UPDATE SET value = id_sequence.value + 1
		 RETURNING value`,
		prefix,
	)
	if err != nil {
		return "", storageErr("allocating identifier", err)
	}
	return prefix + strconv.Itoa(value), nil
}
