package shipping

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/types"
)

type stubResolver struct {
	km    float64
	err   error
	calls int
}

func (s *stubResolver) Distance(ctx context.Context, destination types.Address) (float64, error) {
	s.calls++
	return s.km, s.err
}

type stubCache struct {
	data map[string]string
	sets int
}

func newStubCache() *stubCache {
	return &stubCache{data: make(map[string]string)}
}

func (s *stubCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := s.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (s *stubCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	s.data[key] = value.(string)
	s.sets++
	return nil
}

func (s *stubCache) DistanceKey(origin, destination string) string {
	return "qp:distance:" + origin + ":" + destination
}

func testDestination() types.Address {
	return types.Address{
		Line1:      "Damrak 1",
		City:       "Amsterdam",
		PostalCode: "1012AB",
		Country:    "NL",
	}
}

func TestServiceCost(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{km: 100}
	svc, err := NewService(resolver, nil, testShippingConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	cost, err := svc.Cost(context.Background(), testDestination())
	if err != nil {
		t.Fatalf("cost: %v", err)
	}
	// 7.50 + 100 x 0.45 = 52.50
	if !cost.Equal(decimal.RequireFromString("52.50")) {
		t.Fatalf("cost = %s, want 52.50", cost)
	}
}

func TestServiceCostUsesCache(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{km: 100}
	cache := newStubCache()
	svc, err := NewService(resolver, cache, testShippingConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	ctx := context.Background()
	if _, err := svc.Cost(ctx, testDestination()); err != nil {
		t.Fatalf("first cost: %v", err)
	}
	if _, err := svc.Cost(ctx, testDestination()); err != nil {
		t.Fatalf("second cost: %v", err)
	}
	if resolver.calls != 1 {
		t.Fatalf("resolver called %d times, want 1 (second hit served from cache)", resolver.calls)
	}
	if cache.sets != 1 {
		t.Fatalf("cache writes = %d, want 1", cache.sets)
	}
}

func TestServiceCostResolverFailure(t *testing.T) {
	t.Parallel()

	resolver := &stubResolver{err: errors.New("routing down")}
	svc, err := NewService(resolver, nil, testShippingConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Cost(context.Background(), testDestination()); err == nil {
		t.Fatal("expected error when routing fails")
	}
}

func TestServiceCostInvalidAddress(t *testing.T) {
	t.Parallel()

	svc, err := NewService(&stubResolver{km: 10}, nil, testShippingConfig(), nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Cost(context.Background(), types.Address{}); err == nil {
		t.Fatal("expected error for empty address")
	}
}

func TestNewServiceRejectsBadFees(t *testing.T) {
	t.Parallel()

	cfg := testShippingConfig()
	cfg.BaseFee = "not-a-number"
	if _, err := NewService(&stubResolver{}, nil, cfg, nil); err == nil {
		t.Fatal("expected error for unparseable base fee")
	}

	cfg = testShippingConfig()
	cfg.RatePerKm = "-0.45"
	if _, err := NewService(&stubResolver{}, nil, cfg, nil); err == nil {
		t.Fatal("expected error for negative rate")
	}
}
