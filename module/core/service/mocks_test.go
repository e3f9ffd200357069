package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

type mockWorkLogRepo struct {
	mu       sync.Mutex
	insertFn func(ctx context.Context, entry *domain.WorkLogEntry) error
	entries  []domain.WorkLogEntry
	attempts int
}

func (m *mockWorkLogRepo) Insert(ctx context.Context, entry *domain.WorkLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	if m.insertFn != nil {
		if err := m.insertFn(ctx, entry); err != nil {
			return err
		}
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockWorkLogRepo) all() []domain.WorkLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.WorkLogEntry(nil), m.entries...)
}

type mockSessionPublisher struct {
	mu     sync.Mutex
	events []domain.SessionEvent
	err    error
}

func (m *mockSessionPublisher) PublishSessionEvent(_ context.Context, event *domain.SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, *event)
	return m.err
}

type mockTimeseries struct {
	entries []domain.WorkLogEntry
	err     error
}

func (m *mockTimeseries) WriteEntry(_ context.Context, entry *domain.WorkLogEntry) error {
	m.entries = append(m.entries, *entry)
	return m.err
}

type mockAggregator struct {
	addFn func(ctx context.Context, emp domain.Employee, entry *domain.WorkLogEntry) error
	calls []string
}

func (m *mockAggregator) Add(ctx context.Context, emp domain.Employee, entry *domain.WorkLogEntry) error {
	m.calls = append(m.calls, emp.ID+"/"+entry.ID)
	if m.addFn != nil {
		return m.addFn(ctx, emp, entry)
	}
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *logCapture) count(level string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return strings.Count(c.buf.String(), "level="+level)
}

func captureLogger() (*slog.Logger, *logCapture) {
	c := &logCapture{}
	return slog.New(slog.NewTextHandler(c, &slog.HandlerOptions{Level: slog.LevelDebug})), c
}

func testDirectory() *Directory {
	return NewDirectory(map[domain.DeviceID]domain.Employee{
		"D1": {ID: "max", FirstName: "Max", LastName: "Mustermann"},
		"D2": {ID: "erika", FirstName: "Erika", LastName: "Musterfrau"},
	}, []domain.Customer{
		{Key: "A", Name: "Customer A", Address: "Street A 1", HourlyRate: 50},
		{Key: "B", Name: "Customer B", Address: "Street B 2", HourlyRate: 80},
	})
}

func at(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

func present(device domain.DeviceID, key domain.CustomerKey, ms int64) domain.GeofenceEvent {
	return domain.GeofenceEvent{DeviceID: device, Zone: domain.Present(key), Timestamp: at(ms)}
}

func absent(device domain.DeviceID, ms int64) domain.GeofenceEvent {
	return domain.GeofenceEvent{DeviceID: device, Zone: domain.Absent(), Timestamp: at(ms)}
}
