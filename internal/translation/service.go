// Package translation stores translated documents for API clients and
// renders their frames.
package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/inamate/inamate/lottiegen/internal/db/dbgen"
	"github.com/inamate/inamate/lottiegen/internal/document"
	"github.com/inamate/inamate/lottiegen/internal/engine"
	"github.com/inamate/inamate/lottiegen/internal/issues"
	"github.com/inamate/inamate/lottiegen/internal/scene"
	"github.com/inamate/inamate/lottiegen/internal/translate"
	"github.com/inamate/inamate/lottiegen/internal/typeid"
)

var (
	ErrNotFound  = errors.New("translation not found")
	ErrForbidden = errors.New("forbidden")
)

// Store is the persistence the service needs; *dbgen.Queries implements it.
type Store interface {
	CreateTranslation(ctx context.Context, arg dbgen.CreateTranslationParams) (dbgen.Translation, error)
	GetTranslation(ctx context.Context, id string) (dbgen.Translation, error)
	ListTranslationsForClient(ctx context.Context, clientID string) ([]dbgen.Translation, error)
	DeleteTranslation(ctx context.Context, id string) error
}

type Service struct {
	store    Store
	defaults translate.Options
	programs *engine.Programs
}

func NewService(store Store, defaults translate.Options) *Service {
	return &Service{
		store:    store,
		defaults: defaults,
		programs: engine.NewPrograms(),
	}
}

type Translation struct {
	ID        string          `json:"id"`
	ClientID  string          `json:"clientId"`
	Name      string          `json:"name"`
	Strict    bool            `json:"strict"`
	Issues    []issues.Issue  `json:"issues"`
	Scene     json.RawMessage `json:"scene,omitempty"`
	CreatedAt string          `json:"createdAt"`
}

// Create translates doc and stores the document with its scene dump.
// Options left nil fall back to the service defaults.
func (s *Service) Create(ctx context.Context, clientID, name string, doc json.RawMessage, opts *translate.Options) (*Translation, error) {
	options := s.defaults
	if opts != nil {
		options.StrictTranslation = opts.StrictTranslation
		options.AddCodegenDescriptions = opts.AddCodegenDescriptions
	}

	comp, err := document.Decode(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", translate.ErrInvalidDocument, err)
	}
	if name == "" {
		name = comp.Name
	}

	result, err := translate.Translate(comp, options)
	if err != nil {
		return nil, err
	}

	sceneJSON, err := scene.MarshalJSON(result.Root)
	if err != nil {
		return nil, fmt.Errorf("marshal scene: %w", err)
	}
	issuesJSON, err := json.Marshal(result.Issues)
	if err != nil {
		return nil, fmt.Errorf("marshal issues: %w", err)
	}

	dbTr, err := s.store.CreateTranslation(ctx, dbgen.CreateTranslationParams{
		ID:       typeid.NewTranslationID(),
		ClientID: clientID,
		Name:     name,
		Document: doc,
		Scene:    sceneJSON,
		Issues:   issuesJSON,
		Strict:   options.StrictTranslation,
	})
	if err != nil {
		return nil, fmt.Errorf("create translation: %w", err)
	}

	slog.Info("translation created", "id", dbTr.ID, "client", clientID, "issues", len(result.Issues))
	return dbTranslationToTranslation(dbTr, true)
}

func (s *Service) Get(ctx context.Context, id, clientID string) (*Translation, error) {
	dbTr, err := s.owned(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	return dbTranslationToTranslation(dbTr, true)
}

func (s *Service) List(ctx context.Context, clientID string) ([]Translation, error) {
	dbTrs, err := s.store.ListTranslationsForClient(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}

	out := make([]Translation, 0, len(dbTrs))
	for _, t := range dbTrs {
		tr, err := dbTranslationToTranslation(t, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *tr)
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id, clientID string) error {
	if _, err := s.owned(ctx, id, clientID); err != nil {
		return err
	}
	return s.store.DeleteTranslation(ctx, id)
}

// Load translates the stored document again, for playback.
func (s *Service) Load(ctx context.Context, id, clientID string) (*translate.Result, error) {
	dbTr, err := s.owned(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	comp, err := document.Decode(dbTr.Document)
	if err != nil {
		return nil, fmt.Errorf("decode stored document: %w", err)
	}
	opts := s.defaults
	opts.StrictTranslation = dbTr.Strict
	return translate.Translate(comp, opts)
}

// Frame is one rendered frame of a translation.
type Frame struct {
	Progress float64              `json:"progress"`
	Width    float64              `json:"width"`
	Height   float64              `json:"height"`
	Commands []engine.DrawCommand `json:"commands"`
}

// Frame renders the draw commands of a stored translation at progress.
func (s *Service) Frame(ctx context.Context, id, clientID string, progress float64) (*Frame, error) {
	result, err := s.Load(ctx, id, clientID)
	if err != nil {
		return nil, err
	}
	st := engine.Evaluate(result.Root, progress, s.programs)
	sg, err := engine.BuildSceneGraph(st, result.Root, result.Width, result.Height)
	if err != nil {
		return nil, fmt.Errorf("render frame: %w", err)
	}
	commands := engine.CompileDrawCommands(sg)
	if commands == nil {
		commands = []engine.DrawCommand{}
	}
	return &Frame{
		Progress: progress,
		Width:    result.Width,
		Height:   result.Height,
		Commands: commands,
	}, nil
}

func (s *Service) owned(ctx context.Context, id, clientID string) (dbgen.Translation, error) {
	if err := typeid.Validate(id, typeid.PrefixTranslation); err != nil {
		return dbgen.Translation{}, ErrNotFound
	}
	dbTr, err := s.store.GetTranslation(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Translation{}, ErrNotFound
		}
		return dbgen.Translation{}, fmt.Errorf("get translation: %w", err)
	}
	if dbTr.ClientID != clientID {
		return dbgen.Translation{}, ErrForbidden
	}
	return dbTr, nil
}

func dbTranslationToTranslation(t dbgen.Translation, withScene bool) (*Translation, error) {
	tr := &Translation{
		ID:        t.ID,
		ClientID:  t.ClientID,
		Name:      t.Name,
		Strict:    t.Strict,
		Issues:    []issues.Issue{},
		CreatedAt: t.CreatedAt.Time.Format(time.RFC3339),
	}
	if len(t.Issues) > 0 {
		if err := json.Unmarshal(t.Issues, &tr.Issues); err != nil {
			return nil, fmt.Errorf("decode issues of %s: %w", t.ID, err)
		}
	}
	if withScene {
		tr.Scene = t.Scene
	}
	return tr, nil
}
