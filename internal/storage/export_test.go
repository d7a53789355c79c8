package storage

import "context"

// PutRawDocument stores an arbitrary document body, bypassing encoding.
func PutRawDocument(ctx context.Context, r *SQLiteRepository, slot Slot, year int, doc string) error {
	return r.queries.UpsertDocument(ctx, UpsertDocumentParams{Slot: string(slot), Year: int64(year), Document: doc})
}
