package service

import (
	"sync"

	"github.com/nandanugg/fieldtime/module/core/domain"
)

// SessionStore maps each device to at most one open session. Every device has
// its own slot lock, so a read-modify-write on one device never waits on another.
type SessionStore struct {
	mu    sync.Mutex
	slots map[domain.DeviceID]*slot
}

type slot struct {
	mu      sync.Mutex
	session *domain.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{slots: make(map[domain.DeviceID]*slot)}
}

func (s *SessionStore) lookup(id domain.DeviceID, create bool) *slot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sl, ok := s.slots[id]
	if !ok && create {
		sl = &slot{}
		s.slots[id] = sl
	}
	return sl
}

func (s *SessionStore) Get(id domain.DeviceID) (domain.Session, bool) {
	sl := s.lookup(id, false)
	if sl == nil {
		return domain.Session{}, false
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.session == nil {
		return domain.Session{}, false
	}
	return *sl.session, true
}

// Update runs fn with the device's slot locked. fn receives a copy of the open
// session (nil when idle) and returns the session that should be open
// afterwards (nil for idle). If fn returns an error the slot is left as it was.
func (s *SessionStore) Update(id domain.DeviceID, fn func(current *domain.Session) (*domain.Session, error)) error {
	sl := s.lookup(id, true)

	sl.mu.Lock()
	defer sl.mu.Unlock()

	var current *domain.Session
	if sl.session != nil {
		cp := *sl.session
		current = &cp
	}

	next, err := fn(current)
	if err != nil {
		return err
	}
	sl.session = next
	return nil
}

func (s *SessionStore) SetDescription(id domain.DeviceID, description string) error {
	sl := s.lookup(id, false)
	if sl == nil {
		return ErrNoSession
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.session == nil {
		return ErrNoSession
	}
	sl.session.WorkDescription = description
	return nil
}

func (s *SessionStore) Active() map[domain.DeviceID]domain.Session {
	s.mu.Lock()
	ids := make([]domain.DeviceID, 0, len(s.slots))
	for id := range s.slots {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	active := make(map[domain.DeviceID]domain.Session)
	for _, id := range ids {
		if sess, ok := s.Get(id); ok {
			active[id] = sess
		}
	}
	return active
}
