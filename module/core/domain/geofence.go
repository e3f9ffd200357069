package domain

import (
	"strings"
	"time"
)

type DeviceID string

type CustomerKey string

// Zone is the normalized geofence value of a device: either present at a
// customer site or absent from all of them.
type Zone struct {
	key     CustomerKey
	present bool
}

func Absent() Zone {
	return Zone{}
}

// Present trims surrounding whitespace from key.
func Present(key CustomerKey) Zone {
	return Zone{key: CustomerKey(strings.TrimSpace(string(key))), present: true}
}

func (z Zone) IsPresent() bool {
	return z.present
}

func (z Zone) Key() CustomerKey {
	return z.key
}

func (z Zone) String() string {
	if !z.present {
		return "absent"
	}
	return string(z.key)
}

// ParseZone converts an upstream geofence string into a Zone. Empty, "0" and
// "null" (any case) mean the device is not at any customer site.
func ParseZone(raw string) Zone {
	v := strings.TrimSpace(raw)
	if v == "" || v == "0" || strings.EqualFold(v, "null") {
		return Absent()
	}
	return Present(CustomerKey(v))
}

type GeofenceEvent struct {
	DeviceID  DeviceID
	Zone      Zone
	Timestamp time.Time
}
