package service

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
)

type eventHandler interface {
	Handle(ctx context.Context, ev domain.GeofenceEvent) error
}

// Dispatcher fans events out to a fixed set of workers. A device always
// hashes to the same worker, so its events are applied in arrival order while
// different devices proceed in parallel.
type Dispatcher struct {
	handler   eventHandler
	workers   int
	queueSize int
	log       *slog.Logger
}

func NewDispatcher(handler eventHandler, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		handler:   handler,
		workers:   workers,
		queueSize: defaultQueueSize,
		log:       logger,
	}
}

// Run consumes events until ctx is cancelled or the channel is closed. Events
// already queued are still applied before Run returns; open sessions are left
// open.
func (d *Dispatcher) Run(ctx context.Context, events <-chan domain.GeofenceEvent) {
	workCtx := context.WithoutCancel(ctx)

	shards := make([]chan domain.GeofenceEvent, d.workers)
	var wg sync.WaitGroup
	for i := range shards {
		shards[i] = make(chan domain.GeofenceEvent, d.queueSize)
		wg.Add(1)
		go func(queue <-chan domain.GeofenceEvent) {
			defer wg.Done()
			for ev := range queue {
				d.handle(workCtx, ev)
			}
		}(shards[i])
	}

	defer func() {
		for _, queue := range shards {
			close(queue)
		}
		wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			shards[d.shardFor(ev.DeviceID)] <- ev
		}
	}
}

func (d *Dispatcher) shardFor(id domain.DeviceID) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum32() % uint32(d.workers))
}

func (d *Dispatcher) handle(ctx context.Context, ev domain.GeofenceEvent) {
	err := d.handler.Handle(ctx, ev)
	switch {
	case err == nil:
	case errors.Is(err, ErrUnknownDevice), errors.Is(err, ErrOutOfOrder):
		// already reported by the tracker
	default:
		d.log.Error("geofence event failed",
			"device_id", ev.DeviceID, "zone", ev.Zone.String(), "error", err)
	}
}
