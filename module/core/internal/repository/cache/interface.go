package cache

import (
	"context"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

type AggregateRepository interface {
	// IncrementAll adds each bucket's Hours to the employee's total for that
	// bucket. Either every bucket is updated or none is.
	IncrementAll(ctx context.Context, employeeID string, buckets []domain.Bucket) error
	Totals(ctx context.Context, employeeID string) ([]domain.Bucket, error)
}
