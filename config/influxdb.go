package config

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

const influxPingTimeout = 5 * time.Second

// NewInfluxDB returns nil when no URL is configured.
func NewInfluxDB(cfg *Config) (influxdb2.Client, error) {
	if cfg.InfluxURL == "" {
		return nil, nil
	}

	client := influxdb2.NewClient(cfg.InfluxURL, cfg.InfluxToken)

	ctx, cancel := context.WithTimeout(context.Background(), influxPingTimeout)
	defer cancel()

	ok, err := client.Ping(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("influxdb ping: %w", err)
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("influxdb ping: server not healthy")
	}
	return client, nil
}
