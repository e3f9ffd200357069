package postgres

import (
	"context"
	"database/sql"

	"github.com/nandanugg/fieldtime/module/core/domain"
	"github.com/nandanugg/fieldtime/module/core/internal/repository/database"
)

var _ database.WorkLogRepository = (*WorkLogRepo)(nil)

const createWorkLogTable = `CREATE TABLE IF NOT EXISTS work_log_entries (
	id UUID PRIMARY KEY,
	device_id TEXT NOT NULL,
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL,
	customer_key TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	address TEXT NOT NULL DEFAULT '',
	hourly_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
	start_time TIMESTAMPTZ NOT NULL,
	end_time TIMESTAMPTZ NOT NULL,
	duration_hours DOUBLE PRECISION NOT NULL,
	amount DOUBLE PRECISION NOT NULL DEFAULT 0,
	work_description TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type WorkLogRepo struct {
	db *sql.DB
}

func NewWorkLogRepo(db *sql.DB) *WorkLogRepo {
	return &WorkLogRepo{db: db}
}

func (r *WorkLogRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createWorkLogTable)
	return err
}

// Insert appends an entry. Entry ids are derived from the device and end time,
// so a retried insert of the same entry is a no-op.
func (r *WorkLogRepo) Insert(ctx context.Context, e *domain.WorkLogEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO work_log_entries (id, device_id, employee_id, employee_name, customer_key, customer_name, address, hourly_rate, start_time, end_time, duration_hours, amount, work_description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO NOTHING`,
		e.ID, string(e.DeviceID), e.EmployeeID, e.EmployeeName, string(e.CustomerKey), e.CustomerName, e.Address,
		e.HourlyRate, e.StartTime, e.EndTime, e.DurationHours, e.Amount, e.WorkDescription,
	)
	return err
}
