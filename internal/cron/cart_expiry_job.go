package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/levelup-gaming/levelup-backend/pkg/logger"
)

const defaultCartExpiryBatch = 200

// CartExpiryJobParams configure the abandoned cart sweeper.
type CartExpiryJobParams struct {
	Logger    *logger.Logger
	Carts     cartExpirer
	TTL       time.Duration
	BatchSize int
}

type cartExpirer interface {
	ExpireStaleCarts(ctx context.Context, olderThan time.Duration, limit int) (int, error)
}

// NewCartExpiryJob builds the job that flips abandoned carts to expired.
func NewCartExpiryJob(params CartExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if params.TTL <= 0 {
		return nil, fmt.Errorf("cart ttl must be positive")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultCartExpiryBatch
	}
	return &cartExpiryJob{
		logg:  params.Logger,
		carts: params.Carts,
		ttl:   params.TTL,
		batch: batch,
	}, nil
}

type cartExpiryJob struct {
	logg  *logger.Logger
	carts cartExpirer
	ttl   time.Duration
	batch int
}

func (j *cartExpiryJob) Name() string { return "cart-expiry" }

func (j *cartExpiryJob) Run(ctx context.Context) error {
	total := 0
	for {
		expired, err := j.carts.ExpireStaleCarts(ctx, j.ttl, j.batch)
		total += expired
		if err != nil {
			return fmt.Errorf("cart expiry after %d carts: %w", total, err)
		}
		// A short page means the backlog is drained.
		if expired < j.batch {
			break
		}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"ttl":           j.ttl.String(),
		"carts_expired": total,
	})
	j.logg.Info(logCtx, "cart expiry sweep complete")
	return nil
}
