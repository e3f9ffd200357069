package redis

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/cache"
)

var _ cache.AggregateRepository = (*AggregateRepo)(nil)

const keyPrefix = "worklog:totals:"

// AggregateRepo keeps one hash per employee. Each field is "<kind>:<period>"
// and holds the accumulated hours for that period.
type AggregateRepo struct {
	rdb *goredis.Client
}

func NewAggregateRepo(rdb *goredis.Client) *AggregateRepo {
	return &AggregateRepo{rdb: rdb}
}

func hashKey(employeeID string) string {
	return keyPrefix + employeeID
}

func (r *AggregateRepo) IncrementAll(ctx context.Context, employeeID string, buckets []domain.Bucket) error {
	key := hashKey(employeeID)
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, b := range buckets {
			pipe.HIncrByFloat(ctx, key, string(b.Kind)+":"+b.Key, b.Hours)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("increment %s: %w", key, err)
	}
	return nil
}

func (r *AggregateRepo) Totals(ctx context.Context, employeeID string) ([]domain.Bucket, error) {
	fields, err := r.rdb.HGetAll(ctx, hashKey(employeeID)).Result()
	if err != nil {
		return nil, err
	}

	buckets := make([]domain.Bucket, 0, len(fields))
	for field, raw := range fields {
		kind, key, ok := strings.Cut(field, ":")
		if !ok {
			continue
		}
		hours, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", field, err)
		}
		buckets = append(buckets, domain.Bucket{
			EmployeeID: employeeID,
			Kind:       domain.PeriodKind(kind),
			Key:        key,
			Hours:      hours,
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Kind != buckets[j].Kind {
			return buckets[i].Kind < buckets[j].Kind
		}
		return buckets[i].Key < buckets[j].Key
	})
	return buckets, nil
}
