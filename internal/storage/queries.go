package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getDocument = `-- name: GetDocument :one
SELECT document FROM year_documents WHERE slot = ? AND year = ?
`

func (q *Queries) GetDocument(ctx context.Context, slot string, year int64) (string, error) {
	row := q.db.QueryRowContext(ctx, getDocument, slot, year)
	var document string
	err := row.Scan(&document)
	return document, err
}

const upsertDocument = `-- name: UpsertDocument :exec
INSERT INTO year_documents (slot, year, document)
VALUES (?, ?, ?)
ON CONFLICT (slot, year) DO UPDATE SET
    document = excluded.document,
    updated_at = CURRENT_TIMESTAMP
`

type UpsertDocumentParams struct {
	Slot     string
	Year     int64
	Document string
}

func (q *Queries) UpsertDocument(ctx context.Context, arg UpsertDocumentParams) error {
	_, err := q.db.ExecContext(ctx, upsertDocument, arg.Slot, arg.Year, arg.Document)
	return err
}

const listYears = `-- name: ListYears :many
SELECT year FROM year_documents WHERE slot = ? ORDER BY year
`

func (q *Queries) ListYears(ctx context.Context, slot string) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listYears, slot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var year int64
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		items = append(items, year)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getState = `-- name: GetState :one
SELECT value FROM ledger_state WHERE key = ?
`

func (q *Queries) GetState(ctx context.Context, key string) (string, error) {
	row := q.db.QueryRowContext(ctx, getState, key)
	var value string
	err := row.Scan(&value)
	return value, err
}

const setState = `-- name: SetState :exec
INSERT INTO ledger_state (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value
`

func (q *Queries) SetState(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, setState, key, value)
	return err
}

const deleteDocuments = `-- name: DeleteDocuments :exec
DELETE FROM year_documents
`

func (q *Queries) DeleteDocuments(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteDocuments)
	return err
}

const deleteState = `-- name: DeleteState :exec
DELETE FROM ledger_state
`

func (q *Queries) DeleteState(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteState)
	return err
}
