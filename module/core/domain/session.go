package domain

import "time"

type Session struct {
	CustomerKey     CustomerKey `json:"customer_key"`
	StartTime       time.Time   `json:"start_time"`
	WorkDescription string      `json:"work_description"`
}

// WorkLogEntry is the immutable record of one completed session.
type WorkLogEntry struct {
	ID              string      `json:"id"`
	DeviceID        DeviceID    `json:"device_id"`
	EmployeeID      string      `json:"employee_id"`
	EmployeeName    string      `json:"employee_name"`
	CustomerKey     CustomerKey `json:"customer_key"`
	CustomerName    string      `json:"customer_name"`
	Address         string      `json:"address"`
	HourlyRate      float64     `json:"hourly_rate"`
	StartTime       time.Time   `json:"start_time"`
	EndTime         time.Time   `json:"end_time"`
	DurationHours   float64     `json:"duration_hours"`
	Amount          float64     `json:"amount"`
	WorkDescription string      `json:"work_description"`
}

type SessionEventType string

const (
	SessionOpened SessionEventType = "session_opened"
	SessionClosed SessionEventType = "session_closed"
)

type SessionEvent struct {
	Type        SessionEventType `json:"event"`
	DeviceID    DeviceID         `json:"device_id"`
	CustomerKey CustomerKey      `json:"customer_key"`
	Timestamp   time.Time        `json:"timestamp"`
	Entry       *WorkLogEntry    `json:"entry,omitempty"`
}
