package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/tteodorogustavo/athlos/internal/models"
	"github.com/tteodorogustavo/athlos/internal/repository"
	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/utils"
)

const (
	// DefaultCatalogCacheSize bounds the number of cached catalog reads.
	DefaultCatalogCacheSize = 256
	// DefaultCatalogCacheTTL bounds how long an import made by another
	// process stays invisible.
	DefaultCatalogCacheTTL = 5 * time.Minute
)

const (
	keyAll        = "all"
	keyCategorias = "categorias"
)

// ExercicioService serves the read-only exercise catalog. Reads are cached
// for ttl, and an import through the same service drops the cache at once.
type ExercicioService struct {
	repo  repository.ExercicioRepository
	cache *expirable.LRU[string, any]
}

func NewExercicioService(repo repository.ExercicioRepository, cacheSize int, ttl time.Duration) *ExercicioService {
	if cacheSize <= 0 {
		cacheSize = DefaultCatalogCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCatalogCacheTTL
	}
	return &ExercicioService{
		repo:  repo,
		cache: expirable.NewLRU[string, any](cacheSize, nil, ttl),
	}
}

func (s *ExercicioService) List(ctx context.Context) ([]api.ExercicioSummary, error) {
	return cached(s, keyAll, func() ([]api.ExercicioSummary, error) {
		exercicios, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}
		return summaries(exercicios), nil
	})
}

func (s *ExercicioService) Get(ctx context.Context, id uint) (*api.Exercicio, error) {
	return cached(s, fmt.Sprintf("id:%d", id), func() (*api.Exercicio, error) {
		e, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out := toExercicio(e)
		return &out, nil
	})
}

// Categorias lists the distinct non-empty categories.
func (s *ExercicioService) Categorias(ctx context.Context) ([]string, error) {
	return cached(s, keyCategorias, func() ([]string, error) {
		categorias, err := s.repo.Categorias(ctx)
		if err != nil {
			return nil, err
		}
		if categorias == nil {
			categorias = []string{}
		}
		return categorias, nil
	})
}

// PorCategoria filters the catalog by category, ignoring case. An empty
// category returns the whole catalog.
func (s *ExercicioService) PorCategoria(ctx context.Context, categoria string) ([]api.ExercicioSummary, error) {
	categoria = strings.TrimSpace(categoria)
	if categoria == "" {
		return s.List(ctx)
	}
	return cached(s, "cat:"+strings.ToLower(categoria), func() ([]api.ExercicioSummary, error) {
		exercicios, err := s.repo.FindByCategoria(ctx, categoria)
		if err != nil {
			return nil, err
		}
		return summaries(exercicios), nil
	})
}

// Import upserts the catalog from a JSON array. Entries that fail are
// logged and skipped.
func (s *ExercicioService) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var entries []ImportedExercicio
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return ImportResult{}, fmt.Errorf("decode exercise catalog: %w", err)
	}
	defer s.cache.Purge()

	var res ImportResult
	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		nome := strings.TrimSpace(entry.Name)
		if nome == "" {
			res.Failed++
			utils.Log.Warn("Skipping exercise without name", zap.Int("index", i))
			continue
		}
		e := &models.Exercicio{
			Nome:             nome,
			Slug:             nilIfEmpty(entry.ID),
			Force:            entry.Force,
			Level:            entry.Level,
			Mechanic:         entry.Mechanic,
			Equipment:        entry.Equipment,
			Category:         entry.Category,
			PrimaryMuscles:   nonNil(entry.PrimaryMuscles),
			SecondaryMuscles: nonNil(entry.SecondaryMuscles),
			Instructions:     nonNil(entry.Instructions),
			Images:           nonNil(entry.Images),
		}
		created, err := s.repo.Upsert(ctx, e)
		if err != nil {
			res.Failed++
			utils.Log.Error("Failed to import exercise", zap.String("nome", nome), zap.Error(err))
			continue
		}
		if created {
			res.Created++
		} else {
			res.Updated++
		}
	}
	utils.Log.Info("Exercise import finished",
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("failed", res.Failed),
	)
	return res, nil
}

func cached[T any](s *ExercicioService, key string, load func() (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		return v.(T), nil
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	s.cache.Add(key, v)
	return v, nil
}

func summaries(exercicios []*models.Exercicio) []api.ExercicioSummary {
	out := make([]api.ExercicioSummary, 0, len(exercicios))
	for _, e := range exercicios {
		out = append(out, toExercicioSummary(e))
	}
	return out
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
