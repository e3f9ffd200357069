package subscriber

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

const (
	topicPattern = "fieldtime/device/+/geofence"
	defaultQoS   = 1
)

var (
	errBadTopic     = errors.New("topic does not match " + topicPattern)
	errMissingValue = errors.New("val: required")
	errBadTimestamp = errors.New("ts: must be positive")
)

// stateMessage is the payload published for a device's current geofence
// string: {"val": "<customer key>", "ts": <unix millis>}.
type stateMessage struct {
	Val json.RawMessage `json:"val"`
	Ts  int64           `json:"ts"`
}

// GeofenceSubscriber turns MQTT geofence state messages into a stream of
// normalized events.
type GeofenceSubscriber struct {
	client mqtt.Client
	log    *slog.Logger

	mu       sync.RWMutex
	closed   bool
	events   chan domain.GeofenceEvent
	done     chan struct{}
	stopOnce sync.Once
}

func NewGeofenceSubscriber(client mqtt.Client, buffer int, logger *slog.Logger) *GeofenceSubscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeofenceSubscriber{
		client: client,
		log:    logger,
		events: make(chan domain.GeofenceEvent, buffer),
		done:   make(chan struct{}),
	}
}

func (s *GeofenceSubscriber) Events() <-chan domain.GeofenceEvent {
	return s.events
}

func (s *GeofenceSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, defaultQoS, s.handleMessage)
	token.Wait()
	return token.Error()
}

// Stop unsubscribes and closes the event channel. Messages that arrive while
// stopping are dropped.
func (s *GeofenceSubscriber) Stop() {
	s.stopOnce.Do(func() {
		if s.client != nil {
			s.client.Unsubscribe(topicPattern).WaitTimeout(time.Second)
		}
		close(s.done)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.closed = true
		close(s.events)
	})
}

func (s *GeofenceSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	ev, err := parseStateMessage(msg.Topic(), msg.Payload())
	if err != nil {
		s.log.Debug("malformed geofence message dropped", "topic", msg.Topic(), "error", err)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return
	}
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

func parseStateMessage(topic string, payload []byte) (domain.GeofenceEvent, error) {
	deviceID, err := deviceFromTopic(topic)
	if err != nil {
		return domain.GeofenceEvent{}, err
	}

	var raw stateMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return domain.GeofenceEvent{}, fmt.Errorf("decode payload: %w", err)
	}
	if len(raw.Val) == 0 {
		return domain.GeofenceEvent{}, errMissingValue
	}
	if raw.Ts <= 0 {
		return domain.GeofenceEvent{}, errBadTimestamp
	}

	return domain.GeofenceEvent{
		DeviceID:  deviceID,
		Zone:      domain.ParseZone(rawValue(raw.Val)),
		Timestamp: time.UnixMilli(raw.Ts),
	}, nil
}

func deviceFromTopic(topic string) (domain.DeviceID, error) {
	parts := strings.Split(topic, "/")
	if len(parts) != 4 || parts[0] != "fieldtime" || parts[1] != "device" || parts[3] != "geofence" || parts[2] == "" {
		return "", fmt.Errorf("%w: %q", errBadTopic, topic)
	}
	return domain.DeviceID(parts[2]), nil
}

// rawValue returns the geofence string carried by val. Non-string JSON values
// (numbers, null) are taken by their literal text.
func rawValue(val json.RawMessage) string {
	if string(val) == "null" {
		return "null"
	}
	var str string
	if err := json.Unmarshal(val, &str); err == nil {
		return str
	}
	return strings.TrimSpace(string(val))
}
