package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/cache"
)

// Aggregator adds every completed session to the day, week, month and year
// buckets that contain its end time, evaluated in loc.
type Aggregator struct {
	repo cache.AggregateRepository
	loc  *time.Location
}

func NewAggregator(repo cache.AggregateRepository, loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{repo: repo, loc: loc}
}

func (a *Aggregator) Add(ctx context.Context, emp domain.Employee, entry *domain.WorkLogEntry) error {
	end := entry.EndTime.In(a.loc)

	buckets := make([]domain.Bucket, 0, len(domain.PeriodKinds))
	for _, kind := range domain.PeriodKinds {
		buckets = append(buckets, domain.Bucket{
			EmployeeID: emp.ID,
			Kind:       kind,
			Key:        domain.PeriodKey(kind, end),
			Hours:      entry.DurationHours,
		})
	}
	if err := a.repo.IncrementAll(ctx, emp.ID, buckets); err != nil {
		return fmt.Errorf("aggregate entry %s: %w", entry.ID, err)
	}
	return nil
}

func (a *Aggregator) Totals(ctx context.Context, employeeID string) ([]domain.Bucket, error) {
	return a.repo.Totals(ctx, employeeID)
}
