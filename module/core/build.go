package core

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	handler "github.com/nandanugg/fieldtime/module/core/internal/handler/http"
	"github.com/nandanugg/fieldtime/module/core/internal/handler/subscriber"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/cache"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/cache/memory"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/cache/redis"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/database/postgres"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/publisher/rabbitmq"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/timeseries/influxdb"
	"github.com/nandanugg/fieldtime/module/core/service"
)

const eventBuffer = 256

// Deps are the connections the core module runs on. Redis and InfluxDB are
// optional; without Redis the aggregates are kept in memory.
type Deps struct {
	DB     *sql.DB
	AMQP   *amqp.Connection
	MQTT   mqtt.Client
	Redis  *goredis.Client
	Influx influxdb2.Client
	Logger *slog.Logger
}

type Options struct {
	Directory    *service.Directory
	Location     *time.Location
	Workers      int
	InfluxOrg    string
	InfluxBucket string
}

type Module struct {
	Store      *service.SessionStore
	Tracker    *service.Tracker
	Aggregator *service.Aggregator
	dispatcher *service.Dispatcher
	handler    *handler.SessionHandler
	subscriber *subscriber.GeofenceSubscriber
	workLog    *postgres.WorkLogRepo
	log        *slog.Logger
}

func Build(deps Deps, opts Options) (*Module, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	workLogRepo := postgres.NewWorkLogRepo(deps.DB)

	sessionPub, err := rabbitmq.NewSessionPublisher(deps.AMQP)
	if err != nil {
		return nil, fmt.Errorf("session publisher: %w", err)
	}

	var aggregateRepo cache.AggregateRepository = memory.NewAggregateRepo()
	if deps.Redis != nil {
		aggregateRepo = redis.NewAggregateRepo(deps.Redis)
	}
	aggregator := service.NewAggregator(aggregateRepo, opts.Location)

	finalizerOpts := []service.FinalizerOption{
		service.WithPublisher(sessionPub),
		service.WithFinalizerLogger(logger),
	}
	if deps.Influx != nil {
		finalizerOpts = append(finalizerOpts,
			service.WithTimeseries(influxdb.NewWorkSessionWriter(deps.Influx, opts.InfluxOrg, opts.InfluxBucket)))
	}
	finalizer := service.NewFinalizer(opts.Directory, workLogRepo, aggregator, finalizerOpts...)

	store := service.NewSessionStore()
	tracker := service.NewTracker(opts.Directory, store, finalizer, sessionPub, logger)

	return &Module{
		Store:      store,
		Tracker:    tracker,
		Aggregator: aggregator,
		dispatcher: service.NewDispatcher(tracker, opts.Workers, logger),
		handler:    handler.NewSessionHandler(store),
		subscriber: subscriber.NewGeofenceSubscriber(deps.MQTT, eventBuffer, logger),
		workLog:    workLogRepo,
		log:        logger,
	}, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.handler.Register(r)
}

func (m *Module) Migrate(ctx context.Context) error {
	return m.workLog.EnsureSchema(ctx)
}

// StartSubscribers subscribes to geofence events and processes them until ctx
// is cancelled. The returned channel is closed once every queued event has
// been applied.
func (m *Module) StartSubscribers(ctx context.Context) (<-chan struct{}, error) {
	if err := m.subscriber.Start(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.dispatcher.Run(ctx, m.subscriber.Events())
		m.log.Info("geofence processing stopped", "open_sessions", len(m.Store.Active()))
	}()
	return done, nil
}

func (m *Module) StopSubscribers() {
	m.subscriber.Stop()
}
