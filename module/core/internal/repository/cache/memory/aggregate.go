package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/cache"
)

var _ cache.AggregateRepository = (*AggregateRepo)(nil)

type bucketKey struct {
	kind domain.PeriodKind
	key  string
}

// AggregateRepo is the in-process aggregate store used when no Redis is
// configured. Totals are lost on restart.
type AggregateRepo struct {
	mu     sync.Mutex
	totals map[string]map[bucketKey]float64
}

func NewAggregateRepo() *AggregateRepo {
	return &AggregateRepo{totals: make(map[string]map[bucketKey]float64)}
}

func (r *AggregateRepo) IncrementAll(_ context.Context, employeeID string, buckets []domain.Bucket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	totals, ok := r.totals[employeeID]
	if !ok {
		totals = make(map[bucketKey]float64)
		r.totals[employeeID] = totals
	}
	for _, b := range buckets {
		totals[bucketKey{kind: b.Kind, key: b.Key}] += b.Hours
	}
	return nil
}

func (r *AggregateRepo) Totals(_ context.Context, employeeID string) ([]domain.Bucket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]domain.Bucket, 0, len(r.totals[employeeID]))
	for k, hours := range r.totals[employeeID] {
		result = append(result, domain.Bucket{EmployeeID: employeeID, Kind: k.kind, Key: k.key, Hours: hours})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Kind != result[j].Kind {
			return result[i].Kind < result[j].Kind
		}
		return result[i].Key < result[j].Key
	})
	return result, nil
}
