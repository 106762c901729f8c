package dbgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Client struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	SecretHash string             `json:"secret_hash"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type Translation struct {
	ID        string             `json:"id"`
	ClientID  string             `json:"client_id"`
	Name      string             `json:"name"`
	Document  []byte             `json:"document"`
	Scene     []byte             `json:"scene"`
	Issues    []byte             `json:"issues"`
	Strict    bool               `json:"strict"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
