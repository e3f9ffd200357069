package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/publisher"
)

type sessionFinalizer interface {
	Finalize(ctx context.Context, deviceID domain.DeviceID, s domain.Session, end time.Time) (*domain.WorkLogEntry, error)
}

// Tracker is the per-device session state machine. A device is idle or has
// exactly one open session; events move it between those states.
type Tracker struct {
	dir       *Directory
	store     *SessionStore
	finalizer sessionFinalizer
	publisher publisher.SessionPublisher
	log       *slog.Logger
}

func NewTracker(dir *Directory, store *SessionStore, finalizer sessionFinalizer, pub publisher.SessionPublisher, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{
		dir:       dir,
		store:     store,
		finalizer: finalizer,
		publisher: pub,
		log:       logger,
	}
}

// Handle applies one event. Events for the same device must be handled one at
// a time and in timestamp order.
func (t *Tracker) Handle(ctx context.Context, ev domain.GeofenceEvent) error {
	if _, ok := t.dir.EmployeeFor(ev.DeviceID); !ok {
		t.log.Warn("geofence event for unknown device dropped",
			"device_id", ev.DeviceID, "zone", ev.Zone.String())
		return fmt.Errorf("%w: %s", ErrUnknownDevice, ev.DeviceID)
	}

	opened := false
	err := t.store.Update(ev.DeviceID, func(current *domain.Session) (*domain.Session, error) {
		if current == nil {
			if !ev.Zone.IsPresent() {
				return nil, nil
			}
			opened = true
			return newSession(ev), nil
		}

		if ev.Timestamp.Before(current.StartTime) {
			t.log.Warn("out-of-order geofence event dropped",
				"device_id", ev.DeviceID,
				"session_start", current.StartTime,
				"event_time", ev.Timestamp)
			return current, fmt.Errorf("%w: device %s", ErrOutOfOrder, ev.DeviceID)
		}

		if ev.Zone.IsPresent() && ev.Zone.Key() == current.CustomerKey {
			return current, nil
		}

		if _, err := t.finalizer.Finalize(ctx, ev.DeviceID, *current, ev.Timestamp); err != nil {
			return current, err
		}

		if !ev.Zone.IsPresent() {
			return nil, nil
		}
		opened = true
		return newSession(ev), nil
	})
	if err != nil {
		return err
	}

	if opened {
		t.sessionOpened(ctx, ev)
	}
	return nil
}

func newSession(ev domain.GeofenceEvent) *domain.Session {
	return &domain.Session{
		CustomerKey: ev.Zone.Key(),
		StartTime:   ev.Timestamp,
	}
}

func (t *Tracker) sessionOpened(ctx context.Context, ev domain.GeofenceEvent) {
	t.log.Info("work session opened",
		"device_id", ev.DeviceID, "customer_key", ev.Zone.Key(), "at", ev.Timestamp)

	if t.publisher == nil {
		return
	}
	err := t.publisher.PublishSessionEvent(ctx, &domain.SessionEvent{
		Type:        domain.SessionOpened,
		DeviceID:    ev.DeviceID,
		CustomerKey: ev.Zone.Key(),
		Timestamp:   ev.Timestamp,
	})
	if err != nil {
		t.log.Warn("publish session_opened failed", "device_id", ev.DeviceID, "error", err)
	}
}
