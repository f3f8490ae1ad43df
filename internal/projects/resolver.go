package projects

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/ristretto"
	"go.uber.org/zap"
	"gorm.io/gorm"

	errorz "github.com/rusty-replay/replay-be/internal/errors"
	"github.com/rusty-replay/replay-be/internal/models"
)

const apiKeyCacheTTL = 5 * time.Minute

// Resolver maps opaque api keys onto project ids. Every inbound report
// hits this path, so resolved keys are cached in-process; the TTL bounds
// staleness after a key rotation.
type Resolver struct {
	db     *gorm.DB
	cache  *ristretto.Cache
	logger *zap.Logger
}

func NewResolver(db *gorm.DB, logger *zap.Logger) (*Resolver, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Resolver{db: db, cache: cache, logger: logger}, nil
}

// ResolveAPIKey returns the owning project id for an api key, or
// InvalidAPIKey when no live project carries it.
func (r *Resolver) ResolveAPIKey(ctx context.Context, apiKey string) (int32, error) {
	if apiKey == "" {
		return 0, errorz.InvalidAPIKey()
	}

	if cached, ok := r.cache.Get(apiKey); ok {
		if id, ok := cached.(int32); ok {
			return id, nil
		}
	}

	var project models.Project
	err := r.db.WithContext(ctx).
		Where("api_key = ? AND deleted_at IS NULL", apiKey).
		First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errorz.InvalidAPIKey()
	}
	if err != nil {
		return 0, errorz.Storage(err)
	}

	r.cache.SetWithTTL(apiKey, project.ID, 1, apiKeyCacheTTL)
	return project.ID, nil
}
