package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/inamate/inamate/lottiegen/internal/db/dbgen"
)

type memoryStore struct {
	byID map[string]dbgen.Client
}

func newMemoryStore() *memoryStore {
	return &memoryStore{byID: make(map[string]dbgen.Client)}
}

func (m *memoryStore) CreateClient(_ context.Context, arg dbgen.CreateClientParams) (dbgen.Client, error) {
	for _, c := range m.byID {
		if c.Name == arg.Name {
			return dbgen.Client{}, &pgconn.PgError{Code: "23505"}
		}
	}
	c := dbgen.Client{ID: arg.ID, Name: arg.Name, SecretHash: arg.SecretHash}
	m.byID[c.ID] = c
	return c, nil
}

func (m *memoryStore) GetClientByName(_ context.Context, name string) (dbgen.Client, error) {
	for _, c := range m.byID {
		if c.Name == name {
			return c, nil
		}
	}
	return dbgen.Client{}, pgx.ErrNoRows
}

func (m *memoryStore) GetClientByID(_ context.Context, id string) (dbgen.Client, error) {
	c, ok := m.byID[id]
	if !ok {
		return dbgen.Client{}, pgx.ErrNoRows
	}
	return c, nil
}

func newTestService() *Service {
	s := NewService(newMemoryStore(), "test-secret")
	s.bcryptCost = bcrypt.MinCost
	return s
}

func TestRegisterAndToken(t *testing.T) {
	ctx := context.Background()
	s := newTestService()

	reg, err := s.Register(ctx, "ci", "0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Register(ctx, "ci", "another-long-secret"); !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate register: got %v, want ErrNameTaken", err)
	}

	tok, err := s.Token(ctx, "ci", "0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}
	clientID, err := s.ValidateToken(tok.Token)
	if err != nil {
		t.Fatal(err)
	}
	if clientID != reg.Client.ID {
		t.Errorf("got client %q, want %q", clientID, reg.Client.ID)
	}

	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		t.Fatal(err)
	}
	if client.Name != "ci" {
		t.Errorf("got name %q, want ci", client.Name)
	}
}

func TestTokenRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	s := newTestService()
	if _, err := s.Register(ctx, "ci", "0123456789abcdef"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name, client, secret string
	}{
		{"wrong secret", "ci", "fedcba9876543210"},
		{"unknown client", "nobody", "0123456789abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Token(ctx, tt.client, tt.secret); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("got %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestExpiredToken(t *testing.T) {
	s := newTestService()
	reg, err := s.Register(context.Background(), "ci", "0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}
	s.now = func() time.Time { return time.Now().Add(2 * tokenLifetime) }
	if _, err := s.ValidateToken(reg.Token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := newTestService()
	reg, err := s.Register(context.Background(), "ci", "0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}

	var seen string
	h := s.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ClientIDFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + reg.Token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/translations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Errorf("got status %d, want %d", rec.Code, tt.status)
			}
		})
	}
	if seen != reg.Client.ID {
		t.Errorf("handler saw client %q, want %q", seen, reg.Client.ID)
	}
}

func TestAuthenticateFromQuery(t *testing.T) {
	s := newTestService()
	reg, err := s.Register(context.Background(), "viewer", "0123456789abcdef")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		target    string
		header    string
		fromQuery bool
		wantErr   bool
	}{
		{"query token", "/ws/translations/tr_1?token=" + reg.Token, "", true, false},
		{"query token not allowed", "/ws/translations/tr_1?token=" + reg.Token, "", false, true},
		{"header wins over query", "/ws/translations/tr_1?token=" + reg.Token, "Bearer abc", true, true},
		{"lowercase scheme", "/ws/translations/tr_1", "bearer " + reg.Token, false, false},
		{"no token", "/ws/translations/tr_1", "", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			clientID, err := s.Authenticate(req, tt.fromQuery)
			if (err != nil) != tt.wantErr {
				t.Fatalf("got error %v, want error %v", err, tt.wantErr)
			}
			if err == nil && clientID != reg.Client.ID {
				t.Errorf("got client %q, want %q", clientID, reg.Client.ID)
			}
		})
	}
}
