package models

import (
	"context"
	"errors"
	"sync"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/utils"
)

// BatchResult is the per-lease outcome of a batch generation run.
type BatchResult struct {
	LeaseId int    `json:"lease_id"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

const (
	BatchStatusOk    = "ok"
	BatchStatusError = "error"
)

type obligationGenerator func(ctx context.Context, leaseId int, year int, month int) (*MonthlyObligation, error)

// generateForLeases fans out one generator call per lease. Failures are
// isolated: each lease gets its own result slot and a sibling error never
// cancels the rest.
func generateForLeases(ctx context.Context, leaseIds []int, year int, month int, generate obligationGenerator) []*BatchResult {
	results := make([]*BatchResult, len(leaseIds))

	var wg sync.WaitGroup
	for i, leaseId := range leaseIds {
		wg.Add(1)
		go func(i int, leaseId int) {
			defer wg.Done()
			if _, err := generate(ctx, leaseId, year, month); err != nil {
				results[i] = &BatchResult{LeaseId: leaseId, Status: BatchStatusError, Error: err.Error()}
				return
			}
			results[i] = &BatchResult{LeaseId: leaseId, Status: BatchStatusOk}
		}(i, leaseId)
	}
	wg.Wait()

	return results
}

// GenerateForAllLeases generates the month's obligation for every lease
// active at any point in (year, month), across all landlords. Safe to re-run:
// generation is idempotent per lease and period. Intended to be triggered
// once per calendar month by the external cron caller.
func GenerateForAllLeases(ctx context.Context, year int, month int) ([]*BatchResult, error) {
	if month < 1 || month > 12 {
		return nil, errors.New("month must be between 1 and 12")
	}

	// the run spans every landlord, so drop any session owner scope before
	// listing leases
	ctx = utils.SetSkipOwnerScopeInContext(ctx, true)

	db := config.GetDB()
	var leaseIds []int
	err := db.WithContext(ctx).Model(&Lease{}).
		Where("start_date < ?", utils.FirstOfNextMonth(year, month)).
		Where("(end_date IS NULL OR end_date >= ?)", utils.FirstOfMonth(year, month)).
		Order("id asc").
		Pluck("id", &leaseIds).Error
	if err != nil {
		return nil, err
	}

	results := generateForLeases(ctx, leaseIds, year, month, GenerateObligation)

	logger := config.GetLogger()
	for _, result := range results {
		if result.Status == BatchStatusError {
			config.LogError(logger, "obligationBatch.go", "GenerateForAllLeases", "GenerateObligation", result.LeaseId, errors.New(result.Error))
		}
	}
	return results, nil
}

// GenerateForLeaseRange generates obligations for every month of a lease's
// own active range, capped at the current period for open-ended leases.
// Used after lease creation to backfill the schedule.
func GenerateForLeaseRange(ctx context.Context, leaseId int) ([]*BatchResult, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, errors.New("user id is required")
	}
	lease, err := utils.FetchModel[Lease](ctx, userId, leaseId)
	if err != nil {
		return nil, err
	}

	from := utils.YearMonth{Year: lease.StartDate.Year(), Month: int(lease.StartDate.Month())}
	to := utils.CurrentYearMonth()
	if lease.EndDate != nil {
		end := utils.YearMonth{Year: lease.EndDate.Year(), Month: int(lease.EndDate.Month())}
		if end.Before(to) {
			to = end
		}
	}

	var results []*BatchResult
	for _, ym := range utils.MonthsInRange(from, to) {
		if _, err := GenerateObligation(ctx, leaseId, ym.Year, ym.Month); err != nil {
			results = append(results, &BatchResult{LeaseId: leaseId, Status: BatchStatusError, Error: err.Error()})
			continue
		}
		results = append(results, &BatchResult{LeaseId: leaseId, Status: BatchStatusOk})
	}
	return results, nil
}
