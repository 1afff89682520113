package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/levelup-gaming/levelup-backend/pkg/db/models"
	"github.com/levelup-gaming/levelup-backend/pkg/logger"
	"github.com/levelup-gaming/levelup-backend/pkg/pagination"
)

const loyaltyAuditPageSize = 100

// LoyaltyAuditJobParams configure the level drift repair job.
type LoyaltyAuditJobParams struct {
	Logger *logger.Logger
	Users  userLister
	Audit  levelAuditor
}

type userLister interface {
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.User, error)
}

type levelAuditor interface {
	RecomputeLevel(ctx context.Context, userID uuid.UUID) (bool, error)
}

// NewLoyaltyAuditJob builds the job that re-derives loyalty levels from
// stored point balances and repairs drifted rows.
func NewLoyaltyAuditJob(params LoyaltyAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lister required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("level auditor required")
	}
	return &loyaltyAuditJob{
		logg:  params.Logger,
		users: params.Users,
		audit: params.Audit,
	}, nil
}

type loyaltyAuditJob struct {
	logg  *logger.Logger
	users userLister
	audit levelAuditor
}

func (j *loyaltyAuditJob) Name() string { return "loyalty-audit" }

func (j *loyaltyAuditJob) Run(ctx context.Context) error {
	var (
		cursor   *pagination.Cursor
		audited  int
		repaired int
		errs     error
	)

	for {
		page, err := j.users.List(ctx, loyaltyAuditPageSize, cursor)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("listing users: %w", err))
		}
		if len(page) == 0 {
			break
		}

		for _, user := range page {
			audited++
			changed, err := j.audit.RecomputeLevel(ctx, user.ID)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("user %s: %w", user.ID, err))
				continue
			}
			if changed {
				repaired++
			}
		}

		if len(page) < loyaltyAuditPageSize {
			break
		}
		last := page[len(page)-1]
		cursor = &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"users_audited":  audited,
		"users_repaired": repaired,
		"errors":         len(multierr.Errors(errs)),
	})
	j.logg.Info(logCtx, "loyalty audit complete")
	return errs
}
