package influxdb

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/timeseries"
)

var _ timeseries.WorkSessionWriter = (*WorkSessionWriter)(nil)

const measurement = "work_session"

type pointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

type WorkSessionWriter struct {
	api pointWriter
}

func NewWorkSessionWriter(client influxdb2.Client, org, bucket string) *WorkSessionWriter {
	return &WorkSessionWriter{api: client.WriteAPIBlocking(org, bucket)}
}

// WriteEntry records one point per completed session, stamped at its end time.
func (w *WorkSessionWriter) WriteEntry(ctx context.Context, e *domain.WorkLogEntry) error {
	if err := w.api.WritePoint(ctx, entryPoint(e)); err != nil {
		return fmt.Errorf("write %s point: %w", measurement, err)
	}
	return nil
}

func entryPoint(e *domain.WorkLogEntry) *write.Point {
	return write.NewPoint(
		measurement,
		map[string]string{
			"employee_id":  e.EmployeeID,
			"customer_key": string(e.CustomerKey),
			"device_id":    string(e.DeviceID),
		},
		map[string]interface{}{
			"duration_hours": e.DurationHours,
			"amount":         e.Amount,
			"hourly_rate":    e.HourlyRate,
		},
		e.EndTime,
	)
}
