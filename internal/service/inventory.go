package service

import (
	"context"
	"iter"
	"time"
)

const inventoryPageSize = 500

// inventoryPages yields the provider's object index one page at a time. The
// sequence ends when the provider returns no cursor, or after yielding an
// error. Ranging over it again starts a fresh cursor chain.
//
// With a non-zero olderThan only objects last modified before it are kept.
// Each page request is bounded by timeout.
func inventoryPages(ctx context.Context, store ObjectStore, olderThan time.Time, timeout time.Duration) iter.Seq2[[]StoredObject, error] {
	return func(yield func([]StoredObject, error) bool) {
		cursor := ""
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			pctx, cancel := context.WithTimeout(ctx, timeout)
			page, err := store.ListPage(pctx, cursor, inventoryPageSize)
			cancel()
			if err != nil {
				yield(nil, err)
				return
			}

			objects := page.Objects
			if !olderThan.IsZero() {
				objects = make([]StoredObject, 0, len(page.Objects))
				for _, obj := range page.Objects {
					if obj.LastModified.Before(olderThan) {
						objects = append(objects, obj)
					}
				}
			}

			if !yield(objects, nil) {
				return
			}

			if page.NextCursor == "" || page.NextCursor == cursor {
				return
			}
			cursor = page.NextCursor
		}
	}
}
