package redis

import (
	"context"
	"math"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

func setupRepo(t *testing.T) (*AggregateRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewAggregateRepo(rdb), mr
}

func bucket(kind domain.PeriodKind, key string, hours float64) []domain.Bucket {
	return []domain.Bucket{{Kind: kind, Key: key, Hours: hours}}
}

func TestIncrementAll_Accumulates(t *testing.T) {
	repo, mr := setupRepo(t)
	ctx := context.Background()

	if err := repo.IncrementAll(ctx, "max", bucket(domain.PeriodDay, "2024-05-06", 1.5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.IncrementAll(ctx, "max", bucket(domain.PeriodDay, "2024-05-06", 0.25)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := strconv.ParseFloat(mr.HGet("worklog:totals:max", "day:2024-05-06"), 64)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got != 1.75 {
		t.Fatalf("expected 1.75, got %f", got)
	}
}

func TestTotals_SortedBuckets(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx := context.Background()

	_ = repo.IncrementAll(ctx, "max", bucket(domain.PeriodYear, "2024", 2))
	_ = repo.IncrementAll(ctx, "max", bucket(domain.PeriodDay, "2024-05-07", 1))
	_ = repo.IncrementAll(ctx, "max", bucket(domain.PeriodDay, "2024-05-06", 1))
	_ = repo.IncrementAll(ctx, "erika", bucket(domain.PeriodDay, "2024-05-06", 8))

	buckets, err := repo.Totals(ctx, "max")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(buckets))
	}
	if buckets[0].Key != "2024-05-06" || buckets[1].Key != "2024-05-07" {
		t.Errorf("unexpected order: %+v", buckets)
	}
	if buckets[2].Kind != domain.PeriodYear || math.Abs(buckets[2].Hours-2) > 1e-9 {
		t.Errorf("unexpected year bucket: %+v", buckets[2])
	}
	if buckets[0].EmployeeID != "max" {
		t.Errorf("expected employee max, got %s", buckets[0].EmployeeID)
	}
}

func TestTotals_Empty(t *testing.T) {
	repo, _ := setupRepo(t)

	buckets, err := repo.Totals(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(buckets) != 0 {
		t.Fatalf("expected 0 buckets, got %d", len(buckets))
	}
}

func TestIncrementAll_WritesEveryBucket(t *testing.T) {
	repo, mr := setupRepo(t)

	err := repo.IncrementAll(context.Background(), "max", []domain.Bucket{
		{Kind: domain.PeriodDay, Key: "2024-05-06", Hours: 2},
		{Kind: domain.PeriodWeek, Key: "2024-W19", Hours: 2},
		{Kind: domain.PeriodMonth, Key: "2024-05", Hours: 2},
		{Kind: domain.PeriodYear, Key: "2024", Hours: 2},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, field := range []string{"day:2024-05-06", "week:2024-W19", "month:2024-05", "year:2024"} {
		got, err := strconv.ParseFloat(mr.HGet("worklog:totals:max", field), 64)
		if err != nil {
			t.Fatalf("parse %s: %v", field, err)
		}
		if got != 2 {
			t.Errorf("%s: expected 2, got %f", field, got)
		}
	}
}

func TestIncrementAll_FailureWritesNothing(t *testing.T) {
	repo, mr := setupRepo(t)
	mr.SetError("ERR injected failure")

	err := repo.IncrementAll(context.Background(), "max", []domain.Bucket{
		{Kind: domain.PeriodDay, Key: "2024-05-06", Hours: 1},
		{Kind: domain.PeriodWeek, Key: "2024-W19", Hours: 1},
	})
	if err == nil {
		t.Fatal("expected error")
	}

	mr.SetError("")
	if mr.Exists("worklog:totals:max") {
		t.Fatal("expected no buckets written")
	}
}

func TestIncrementAll_ServerDown(t *testing.T) {
	repo, mr := setupRepo(t)
	mr.SetError("ERR injected failure")

	if err := repo.IncrementAll(context.Background(), "max", bucket(domain.PeriodDay, "2024-05-06", 1)); err == nil {
		t.Fatal("expected error")
	}
}
