package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/MiguelAngelEc/preciosSoley/internal/dto"
)

const precioCacheTTL = 4 * time.Hour

// PrecioCache is a read-through Redis cache for the public price consultation
// endpoint only. Authoritative reads (product detail, calculators, egreso
// snapshots) always recompute from rows and never touch this cache. A nil
// cache (or nil client) disables caching entirely, which is the unit test mode.
type PrecioCache struct {
	rdb *redis.Client
}

func NewPrecioCache(rdb *redis.Client) *PrecioCache {
	return &PrecioCache{rdb: rdb}
}

func precioKey(id uuid.UUID) string { return "precio:" + id.String() }

func (c *PrecioCache) Get(ctx context.Context, id uuid.UUID) (*dto.ConsultaPreciosResponse, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, precioKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("product_id", id.String()).Msg("cache de precios: fallo de lectura")
		}
		return nil, false
	}
	var resp dto.ConsultaPreciosResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, false
	}
	return &resp, true
}

func (c *PrecioCache) Set(ctx context.Context, id uuid.UUID, resp *dto.ConsultaPreciosResponse) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, precioKey(id), raw, precioCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("cache de precios: fallo de escritura")
	}
}

// Invalidar drops the cached consultation for the given products. Called on
// every product write, and on material price edits for every product whose
// recipe uses the material.
func (c *PrecioCache) Invalidar(ctx context.Context, ids ...uuid.UUID) {
	if c == nil || c.rdb == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = precioKey(id)
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Warn().Err(err).Msg("cache de precios: fallo de invalidacion")
	}
}
