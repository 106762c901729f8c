package dbgen

import (
	"context"
)

const createClient = `-- name: CreateClient :one
INSERT INTO clients (id, name, secret_hash)
VALUES ($1, $2, $3)
RETURNING id, name, secret_hash, created_at
`

type CreateClientParams struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	SecretHash string `json:"secret_hash"`
}

func (q *Queries) CreateClient(ctx context.Context, arg CreateClientParams) (Client, error) {
	row := q.db.QueryRow(ctx, createClient, arg.ID, arg.Name, arg.SecretHash)
	var i Client
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.SecretHash,
		&i.CreatedAt,
	)
	return i, err
}

const getClientByName = `-- name: GetClientByName :one
SELECT id, name, secret_hash, created_at FROM clients
WHERE name = $1
`

func (q *Queries) GetClientByName(ctx context.Context, name string) (Client, error) {
	row := q.db.QueryRow(ctx, getClientByName, name)
	var i Client
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.SecretHash,
		&i.CreatedAt,
	)
	return i, err
}

const getClientByID = `-- name: GetClientByID :one
SELECT id, name, secret_hash, created_at FROM clients
WHERE id = $1
`

func (q *Queries) GetClientByID(ctx context.Context, id string) (Client, error) {
	row := q.db.QueryRow(ctx, getClientByID, id)
	var i Client
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.SecretHash,
		&i.CreatedAt,
	)
	return i, err
}

const createTranslation = `-- name: CreateTranslation :one
INSERT INTO translations (id, client_id, name, document, scene, issues, strict)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, client_id, name, document, scene, issues, strict, created_at
`

type CreateTranslationParams struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Document []byte `json:"document"`
	Scene    []byte `json:"scene"`
	Issues   []byte `json:"issues"`
	Strict   bool   `json:"strict"`
}

func (q *Queries) CreateTranslation(ctx context.Context, arg CreateTranslationParams) (Translation, error) {
	row := q.db.QueryRow(ctx, createTranslation,
		arg.ID,
		arg.ClientID,
		arg.Name,
		arg.Document,
		arg.Scene,
		arg.Issues,
		arg.Strict,
	)
	var i Translation
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.Name,
		&i.Document,
		&i.Scene,
		&i.Issues,
		&i.Strict,
		&i.CreatedAt,
	)
	return i, err
}

const getTranslation = `-- name: GetTranslation :one
SELECT id, client_id, name, document, scene, issues, strict, created_at FROM translations
WHERE id = $1
`

func (q *Queries) GetTranslation(ctx context.Context, id string) (Translation, error) {
	row := q.db.QueryRow(ctx, getTranslation, id)
	var i Translation
	err := row.Scan(
		&i.ID,
		&i.ClientID,
		&i.Name,
		&i.Document,
		&i.Scene,
		&i.Issues,
		&i.Strict,
		&i.CreatedAt,
	)
	return i, err
}

const listTranslationsForClient = `-- name: ListTranslationsForClient :many
SELECT id, client_id, name, document, scene, issues, strict, created_at FROM translations
WHERE client_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListTranslationsForClient(ctx context.Context, clientID string) ([]Translation, error) {
	rows, err := q.db.Query(ctx, listTranslationsForClient, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Translation
	for rows.Next() {
		var i Translation
		if err := rows.Scan(
			&i.ID,
			&i.ClientID,
			&i.Name,
			&i.Document,
			&i.Scene,
			&i.Issues,
			&i.Strict,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTranslation = `-- name: DeleteTranslation :exec
DELETE FROM translations WHERE id = $1
`

func (q *Queries) DeleteTranslation(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteTranslation, id)
	return err
}
