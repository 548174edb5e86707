package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/clinicshare-backend/internal/platform/logger"
)

// catalogSchemaVersion is baked into the cache key. Bump it whenever
// CatalogPayload's shape changes so a stale, differently-shaped cached value
// can never be served by newer code.
const catalogSchemaVersion = 7

var catalogCacheKey = fmt.Sprintf("clinic_catalog_payload_v%d", catalogSchemaVersion)

// catalogCacheKeys lists every key version ever deployed. Invalidation
// deletes all of them so a rollback or a mixed-version fleet cannot leave a
// stale entry behind under an older key.
var catalogCacheKeys = []string{
	"clinic_catalog_payload_v5",
	"clinic_catalog_payload_v6",
	catalogCacheKey,
}

const defaultCatalogCacheTTL = 15 * time.Minute

// CacheStore is the minimal key/value surface the gateway needs. The
// production implementation wraps Redis; tests use an in-memory map.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CatalogInvalidator is what the admin layer holds: every entity-mutating
// operation must end with an Invalidate call.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

// CatalogService serves the catalog payload from cache, rebuilding on miss.
type CatalogService interface {
	GetCatalog(ctx context.Context, forceRefresh bool) (*CatalogPayload, error)
	CatalogInvalidator
}

type catalogService struct {
	log     *logger.Logger
	store   CacheStore
	builder CatalogPayloadBuilder
	ttl     time.Duration
	flight  singleflight.Group
}

func NewCatalogService(baseLog *logger.Logger, store CacheStore, builder CatalogPayloadBuilder, ttl time.Duration) CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogCacheTTL
	}
	return &catalogService{
		log:     baseLog.With("service", "CatalogService"),
		store:   store,
		builder: builder,
		ttl:     ttl,
	}
}

func (s *catalogService) GetCatalog(ctx context.Context, forceRefresh bool) (*CatalogPayload, error) {
	if !forceRefresh {
		raw, ok, err := s.store.Get(ctx, catalogCacheKey)
		if err != nil {
			// Cache trouble costs a rebuild, never a failed request.
			s.log.Warn("catalog cache read failed", "error", err)
		} else if ok {
			if payload := decodeCatalogPayload(raw); payload != nil {
				return payload, nil
			}
			s.log.Warn("cached catalog payload undecodable, rebuilding", "key", catalogCacheKey)
		}
	}

	// Concurrent misses collapse into one rebuild; the build is a pure
	// function of database state, so last-writer-wins on the key is safe
	// either way.
	v, err, _ := s.flight.Do(catalogCacheKey, func() (interface{}, error) {
		payload, err := s.builder.Build(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode catalog payload: %w", err)
		}
		if err := s.store.Set(ctx, catalogCacheKey, string(raw), s.ttl); err != nil {
			s.log.Warn("catalog cache write failed", "error", err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*CatalogPayload), nil
}

// Invalidate deletes every known catalog cache key version. Failures are
// swallowed: a missed invalidation only costs staleness up to the TTL, while
// propagating would block the write that triggered it.
func (s *catalogService) Invalidate(ctx context.Context) {
	for _, key := range catalogCacheKeys {
		if err := s.store.Del(ctx, key); err != nil {
			s.log.Warn("catalog cache invalidation failed", "key", key, "error", err)
		}
	}
}

// decodeCatalogPayload tolerates the legacy double-encoded form (a JSON
// string containing the payload JSON); anything undecodable is a miss.
func decodeCatalogPayload(raw string) *CatalogPayload {
	var payload CatalogPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		if payload.Videos != nil || payload.TherapyAreas != nil {
			return &payload
		}
	}

	var inner string
	if err := json.Unmarshal([]byte(raw), &inner); err != nil || inner == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return nil
	}
	if payload.Videos == nil && payload.TherapyAreas == nil {
		return nil
	}
	return &payload
}
