package shipping

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/printhuis/quoteportal-backend/pkg/config"
	pkgerrors "github.com/printhuis/quoteportal-backend/pkg/errors"
	"github.com/printhuis/quoteportal-backend/pkg/logger"
	"github.com/printhuis/quoteportal-backend/pkg/redis"
	"github.com/printhuis/quoteportal-backend/pkg/types"
)

// Service resolves carrier shipping costs for a delivery address.
type Service interface {
	Cost(ctx context.Context, destination types.Address) (decimal.Decimal, error)
}

type distanceResolver interface {
	Distance(ctx context.Context, destination types.Address) (float64, error)
}

type distanceCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	DistanceKey(origin, destination string) string
}

type service struct {
	resolver  distanceResolver
	cache     distanceCache
	logg      *logger.Logger
	baseFee   decimal.Decimal
	ratePerKm decimal.Decimal
	origin    string
	ttl       time.Duration
}

// NewService constructs the shipping cost service. The cache is optional:
// without it every request hits the routing provider.
func NewService(resolver distanceResolver, cache distanceCache, cfg config.ShippingConfig, logg *logger.Logger) (Service, error) {
	if resolver == nil {
		return nil, fmt.Errorf("distance resolver required")
	}
	baseFee, err := decimal.NewFromString(cfg.BaseFee)
	if err != nil {
		return nil, fmt.Errorf("parsing shipping base fee: %w", err)
	}
	ratePerKm, err := decimal.NewFromString(cfg.RatePerKm)
	if err != nil {
		return nil, fmt.Errorf("parsing shipping rate per km: %w", err)
	}
	if baseFee.Sign() < 0 || ratePerKm.Sign() < 0 {
		return nil, fmt.Errorf("shipping fees must not be negative")
	}

	ttl := cfg.DistanceTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &service{
		resolver:  resolver,
		cache:     cache,
		logg:      logg,
		baseFee:   baseFee,
		ratePerKm: ratePerKm,
		origin:    cfg.WarehousePostalCode + "-" + cfg.WarehouseCountry,
		ttl:       ttl,
	}, nil
}

// Cost derives the carrier cost as base fee plus distance times the per-km
// rate. The distance stays a float until the money math starts.
func (s *service) Cost(ctx context.Context, destination types.Address) (decimal.Decimal, error) {
	if err := destination.Validate(); err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery address")
	}

	km, err := s.distance(ctx, destination)
	if err != nil {
		return decimal.Zero, err
	}

	return s.baseFee.Add(s.ratePerKm.Mul(decimal.NewFromFloat(km))), nil
}

func (s *service) distance(ctx context.Context, destination types.Address) (float64, error) {
	var key string
	if s.cache != nil {
		key = s.cache.DistanceKey(s.origin, destination.Normalized())
		cached, err := s.cache.Get(ctx, key)
		if err == nil {
			if km, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
				return km, nil
			}
		} else if !redis.IsNil(err) && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("distance cache read failed: %v", err))
		}
	}

	km, err := s.resolver.Distance(ctx, destination)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, strconv.FormatFloat(km, 'f', -1, 64), s.ttl); err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("distance cache write failed: %v", err))
		}
	}

	return km, nil
}
