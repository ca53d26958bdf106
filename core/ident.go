package core

import "context"

// IdentifierAllocator hands out the next human-readable identifier for an
// entity class, e.g. R12, SP3, IT45. Implementations must be safe under
// concurrent callers: two calls never return the same identifier, even
// across processes. Gaps are acceptable (a cancelled request may burn an
// identifier); duplicates are not.
type IdentifierAllocator interface {
	NextID(ctx context.Context, prefix string) (string, error)
}
