package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/inamate/lottiegen/internal/db/dbgen"
	"github.com/inamate/inamate/lottiegen/internal/typeid"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNameTaken          = errors.New("client name already registered")
	ErrClientNotFound     = errors.New("client not found")
)

const tokenLifetime = 24 * time.Hour

// Store is the persistence the service needs; *dbgen.Queries implements it.
type Store interface {
	CreateClient(ctx context.Context, arg dbgen.CreateClientParams) (dbgen.Client, error)
	GetClientByName(ctx context.Context, name string) (dbgen.Client, error)
	GetClientByID(ctx context.Context, id string) (dbgen.Client, error)
}

// Service registers API clients and exchanges their credentials for
// signed tokens.
type Service struct {
	store      Store
	jwtSecret  []byte
	bcryptCost int
	now        func() time.Time
}

func NewService(store Store, jwtSecret string) *Service {
	return &Service{
		store:      store,
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: 12,
		now:        time.Now,
	}
}

type TokenResult struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	Client    Client `json:"client"`
}

type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Service) Register(ctx context.Context, name, secret string) (*TokenResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash secret: %w", err)
	}

	dbClient, err := s.store.CreateClient(ctx, dbgen.CreateClientParams{
		ID:         typeid.NewClientID(),
		Name:       name,
		SecretHash: string(hash),
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("create client: %w", err)
	}

	return s.issueToken(dbClient)
}

// Token checks a client's credentials and issues a fresh token.
func (s *Service) Token(ctx context.Context, name, secret string) (*TokenResult, error) {
	dbClient, err := s.store.GetClientByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get client: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbClient.SecretHash), []byte(secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueToken(dbClient)
}

// ValidateToken returns the client id a token was issued to.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", errors.New("invalid token")
	}

	clientID, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("invalid token subject")
	}

	return clientID, nil
}

func (s *Service) GetClient(ctx context.Context, clientID string) (*Client, error) {
	dbClient, err := s.store.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return &Client{ID: dbClient.ID, Name: dbClient.Name}, nil
}

func (s *Service) issueToken(c dbgen.Client) (*TokenResult, error) {
	now := s.now()
	expires := now.Add(tokenLifetime)
	claims := jwt.MapClaims{
		"sub": c.ID,
		"iat": now.Unix(),
		"exp": expires.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &TokenResult{
		Token:     signed,
		ExpiresAt: expires.Unix(),
		Client:    Client{ID: c.ID, Name: c.Name},
	}, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
