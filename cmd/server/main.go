package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nandanugg/fieldtime/config"
	"github.com/nandanugg/fieldtime/module/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger(cfg)

	directory, err := config.LoadDirectory(cfg.DirectoryFile)
	if err != nil {
		log.Fatalf("directory: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer func() { _ = db.Close() }()

	amqpConn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = amqpConn.Close() }()

	mqttClient, err := config.NewMQTT(cfg)
	if err != nil {
		log.Fatalf("mqtt: %v", err)
	}
	defer mqttClient.Disconnect(250)

	rdb, err := config.NewRedis(cfg)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	var redisPing func(ctx context.Context) error
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		redisPing = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	influx, err := config.NewInfluxDB(cfg)
	if err != nil {
		log.Fatalf("influxdb: %v", err)
	}
	if influx != nil {
		defer influx.Close()
	}

	coreModule, err := core.Build(core.Deps{
		DB:     db,
		AMQP:   amqpConn,
		MQTT:   mqttClient,
		Redis:  rdb,
		Influx: influx,
		Logger: logger,
	}, core.Options{
		Directory:    directory.Build(),
		Location:     loc,
		Workers:      cfg.Workers,
		InfluxOrg:    cfg.InfluxOrg,
		InfluxBucket: cfg.InfluxBucket,
	})
	if err != nil {
		log.Fatalf("core module: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := coreModule.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	processing, err := coreModule.StartSubscribers(ctx)
	if err != nil {
		log.Fatalf("start subscribers: %v", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	health := config.NewHealthChecker(db, amqpConn, mqttClient, redisPing)
	health.Register(r)

	coreModule.RegisterRoutes(&r.RouterGroup)

	srv := &http.Server{Addr: ":" + cfg.HTTPPort, Handler: r}
	go func() {
		logger.Info("listening", "port", cfg.HTTPPort,
			"employees", len(directory.Employees), "customers", len(directory.Customers))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	coreModule.StopSubscribers()
	<-processing

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}
