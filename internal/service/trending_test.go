package service

import (
	"context"
	"errors"
	"testing"

	"trend-herald/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type stubProvider struct {
	coins       []*domain.CoinSnapshot
	trendingErr error
	detailsErr  map[string]error
	detailCalls []string
}

func (s *stubProvider) FetchTrending(ctx context.Context) ([]*domain.CoinSnapshot, error) {
	if s.trendingErr != nil {
		return nil, s.trendingErr
	}
	return s.coins, nil
}

func (s *stubProvider) FetchCoinDetails(ctx context.Context, id string) (*domain.CoinDetails, error) {
	s.detailCalls = append(s.detailCalls, id)
	if err := s.detailsErr[id]; err != nil {
		return nil, err
	}
	price := 100.0
	return &domain.CoinDetails{CurrentPrice: &price}, nil
}

func headline(id, symbol string) *domain.CoinSnapshot {
	return &domain.CoinSnapshot{ID: id, Symbol: symbol}
}

func TestFetchTrendingEnrichesInOrder(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{coins: []*domain.CoinSnapshot{
		headline("bitcoin", "BTC"),
		headline("ethereum", "ETH"),
		headline("solana", "SOL"),
	}}
	svc := NewTrendingService(trace.NewNoopTracerProvider().Tracer("test"), stub, nil)

	coins, err := svc.FetchTrending(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(coins) != 3 {
		t.Fatalf("expected 3 coins, got %d", len(coins))
	}
	for i, id := range []string{"bitcoin", "ethereum", "solana"} {
		if coins[i].ID != id {
			t.Fatalf("trending order not preserved: %+v", coins)
		}
		if coins[i].Details == nil {
			t.Fatalf("expected details for %s", id)
		}
	}
	if len(stub.detailCalls) != 3 || stub.detailCalls[0] != "bitcoin" {
		t.Fatalf("enrichment calls out of order: %v", stub.detailCalls)
	}
}

func TestFetchTrendingTransientFailure(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{trendingErr: errors.New("connection refused")}
	svc := NewTrendingService(trace.NewNoopTracerProvider().Tracer("test"), stub, nil)

	_, err := svc.FetchTrending(context.Background())
	if !errors.Is(err, domain.ErrTransientFetch) {
		t.Fatalf("expected ErrTransientFetch, got %v", err)
	}
}

func TestFetchTrendingSwallowsEnrichmentFailure(t *testing.T) {
	t.Parallel()

	stub := &stubProvider{
		coins: []*domain.CoinSnapshot{
			headline("bitcoin", "BTC"),
			headline("brokencoin", "BRK"),
			headline("solana", "SOL"),
		},
		detailsErr: map[string]error{"brokencoin": errors.New("boom")},
	}
	svc := NewTrendingService(trace.NewNoopTracerProvider().Tracer("test"), stub, nil)

	coins, err := svc.FetchTrending(context.Background())
	if err != nil {
		t.Fatalf("one coin's failure must not abort aggregation: %v", err)
	}
	if coins[0].Details == nil || coins[2].Details == nil {
		t.Fatal("healthy coins must still be enriched")
	}
	if coins[1].Details != nil {
		t.Fatal("failed enrichment must leave details nil")
	}
	if len(stub.detailCalls) != 3 {
		t.Fatalf("all coins must be attempted, got %v", stub.detailCalls)
	}
}
