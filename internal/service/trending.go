package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"trend-herald/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// detailCacheTTL keeps per-coin details warm across consecutive cycles; a
// coin trending for hours does not re-hit the details endpoint every cycle.
const detailCacheTTL = 30 * time.Minute

type MarketDataProvider interface {
	FetchTrending(ctx context.Context) ([]*domain.CoinSnapshot, error)
	FetchCoinDetails(ctx context.Context, id string) (*domain.CoinDetails, error)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// TrendingService aggregates the trending list with per-coin enrichment.
type TrendingService struct {
	tracer   trace.Tracer
	provider MarketDataProvider
	redis    RedisClient
}

func NewTrendingService(tracer trace.Tracer, provider MarketDataProvider, redisClient RedisClient) *TrendingService {
	return &TrendingService{
		tracer:   tracer,
		provider: provider,
		redis:    redisClient,
	}
}

// FetchTrending returns the enriched trending set in provider order. A
// trending-list failure wraps domain.ErrTransientFetch (the cycle skips); a
// single coin's enrichment failure leaves its Details nil and never aborts
// the rest. There are no retries within a cycle.
func (s *TrendingService) FetchTrending(ctx context.Context) ([]*domain.CoinSnapshot, error) {
	ctx, span := s.tracer.Start(ctx, "trending-service.fetch-trending")
	defer span.End()

	coins, err := s.provider.FetchTrending(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransientFetch, err)
	}

	for _, coin := range coins {
		coin.Details = s.enrich(ctx, coin.ID)
	}
	return coins, nil
}

func (s *TrendingService) enrich(ctx context.Context, id string) *domain.CoinDetails {
	if s.redis != nil {
		cached, err := s.getDetailCache(ctx, id)
		if err != nil {
			log.Printf("redis cache read error for %s: %v", id, err)
		}
		if cached != nil {
			return cached
		}
	}

	details, err := s.provider.FetchCoinDetails(ctx, id)
	if err != nil {
		log.Printf("Enrichment failed for %s: %v", id, err)
		return nil
	}

	if s.redis != nil {
		if err := s.setDetailCache(ctx, id, details); err != nil {
			log.Printf("redis cache write error for %s: %v", id, err)
		}
	}
	return details
}

func (s *TrendingService) setDetailCache(ctx context.Context, id string, details *domain.CoinDetails) error {
	data, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "coin:"+id, data, detailCacheTTL).Err()
}

func (s *TrendingService) getDetailCache(ctx context.Context, id string) (*domain.CoinDetails, error) {
	data, err := s.redis.Get(ctx, "coin:"+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var details domain.CoinDetails
	if err := json.Unmarshal(data, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
