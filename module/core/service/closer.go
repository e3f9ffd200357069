package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/database"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/publisher"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/timeseries"
)

const (
	defaultPersistAttempts = 3
	defaultPersistBackoff  = 200 * time.Millisecond
)

// Closer turns an open session into its work log entry. It holds no state of
// its own and does not touch the session store.
type Closer struct {
	dir *Directory
}

func NewCloser(dir *Directory) *Closer {
	return &Closer{dir: dir}
}

// Close does not clamp negative durations; callers are expected to reject
// out-of-order end times before calling it.
func (c *Closer) Close(deviceID domain.DeviceID, s domain.Session, end time.Time) (domain.WorkLogEntry, error) {
	emp, ok := c.dir.EmployeeFor(deviceID)
	if !ok {
		return domain.WorkLogEntry{}, fmt.Errorf("%w: %s", ErrUnknownDevice, deviceID)
	}
	cust := c.dir.CustomerFor(s.CustomerKey)

	hours := end.Sub(s.StartTime).Hours()
	return domain.WorkLogEntry{
		ID:              entryID(deviceID, s.StartTime, end),
		DeviceID:        deviceID,
		EmployeeID:      emp.ID,
		EmployeeName:    emp.FullName(),
		CustomerKey:     s.CustomerKey,
		CustomerName:    cust.Name,
		Address:         cust.Address,
		HourlyRate:      cust.HourlyRate,
		StartTime:       s.StartTime,
		EndTime:         end,
		DurationHours:   hours,
		Amount:          hours * cust.HourlyRate,
		WorkDescription: s.WorkDescription,
	}, nil
}

// entryID is derived from the full-precision session bounds, so sessions of one
// device never share an id while a retried insert of the same entry does.
func entryID(deviceID domain.DeviceID, start, end time.Time) string {
	name := string(deviceID) + "|" + strconv.FormatInt(start.UnixNano(), 10) + "|" + strconv.FormatInt(end.UnixNano(), 10)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

type aggregator interface {
	Add(ctx context.Context, emp domain.Employee, entry *domain.WorkLogEntry) error
}

type FinalizerOption func(*Finalizer)

func WithPersistRetry(attempts int, backoff time.Duration) FinalizerOption {
	return func(f *Finalizer) {
		if attempts > 0 {
			f.attempts = attempts
		}
		if backoff >= 0 {
			f.backoff = backoff
		}
	}
}

func WithTimeseries(w timeseries.WorkSessionWriter) FinalizerOption {
	return func(f *Finalizer) { f.timeseries = w }
}

func WithPublisher(p publisher.SessionPublisher) FinalizerOption {
	return func(f *Finalizer) { f.publisher = p }
}

func WithFinalizerLogger(l *slog.Logger) FinalizerOption {
	return func(f *Finalizer) { f.log = l }
}

// Finalizer runs the close pipeline: build the entry, persist it, then feed
// the aggregates, the time-series store and the event exchange.
type Finalizer struct {
	closer     *Closer
	dir        *Directory
	repo       database.WorkLogRepository
	aggregator aggregator
	timeseries timeseries.WorkSessionWriter
	publisher  publisher.SessionPublisher
	attempts   int
	backoff    time.Duration
	log        *slog.Logger
}

func NewFinalizer(dir *Directory, repo database.WorkLogRepository, agg aggregator, opts ...FinalizerOption) *Finalizer {
	f := &Finalizer{
		closer:     NewCloser(dir),
		dir:        dir,
		repo:       repo,
		aggregator: agg,
		attempts:   defaultPersistAttempts,
		backoff:    defaultPersistBackoff,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Finalize returns the persisted entry, or nil when the session had zero
// duration and was dropped. An ErrPersistence error means nothing was
// written and the session must stay open.
func (f *Finalizer) Finalize(ctx context.Context, deviceID domain.DeviceID, s domain.Session, end time.Time) (*domain.WorkLogEntry, error) {
	entry, err := f.closer.Close(deviceID, s, end)
	if err != nil {
		return nil, err
	}

	if !end.After(s.StartTime) {
		f.log.Debug("zero-duration session dropped",
			"device_id", deviceID, "customer_key", s.CustomerKey, "at", end)
		return nil, nil
	}

	if err := f.persist(ctx, &entry); err != nil {
		return nil, err
	}

	f.log.Info("work session closed",
		"device_id", deviceID,
		"employee", entry.EmployeeName,
		"customer", entry.CustomerName,
		"duration_hours", entry.DurationHours,
		"entry_id", entry.ID)

	emp, _ := f.dir.EmployeeFor(deviceID)
	if err := f.aggregator.Add(ctx, emp, &entry); err != nil {
		f.log.Error("aggregate update failed", "entry_id", entry.ID, "error", err)
	}
	if f.timeseries != nil {
		if err := f.timeseries.WriteEntry(ctx, &entry); err != nil {
			f.log.Warn("time-series write failed", "entry_id", entry.ID, "error", err)
		}
	}
	if f.publisher != nil {
		evt := &domain.SessionEvent{
			Type:        domain.SessionClosed,
			DeviceID:    deviceID,
			CustomerKey: s.CustomerKey,
			Timestamp:   end,
			Entry:       &entry,
		}
		if err := f.publisher.PublishSessionEvent(ctx, evt); err != nil {
			f.log.Warn("publish session_closed failed", "entry_id", entry.ID, "error", err)
		}
	}

	return &entry, nil
}

func (f *Finalizer) persist(ctx context.Context, entry *domain.WorkLogEntry) error {
	for attempt := 1; ; attempt++ {
		err := f.repo.Insert(ctx, entry)
		if err == nil {
			return nil
		}
		if attempt >= f.attempts {
			return fmt.Errorf("%w: entry %s after %d attempts: %w", ErrPersistence, entry.ID, attempt, err)
		}

		f.log.Warn("work log insert failed, retrying",
			"entry_id", entry.ID, "attempt", attempt, "error", err)

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrPersistence, ctx.Err())
		case <-time.After(f.backoff):
		}
	}
}
