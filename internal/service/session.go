package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/rainmyanmar/rainmap/internal/selection"
)

const (
	maxSessions = 1024
	sessionTTL  = 24 * time.Hour
)

// SessionService keys selection sessions by a browser cookie ID. Sessions
// are kept in an expiring LRU: an idle day or cache pressure evicts them,
// and an evicted ID simply gets a fresh session on its next request.
type SessionService struct {
	sessions *expirable.LRU[string, *selection.Session]
	newView  func() selection.MapView
	bus      *EventBus
}

// NewSessionService creates the store. newView builds the per-session map
// collaborator; nil means sessions get a no-op view.
func NewSessionService(newView func() selection.MapView, bus *EventBus) *SessionService {
	if newView == nil {
		newView = func() selection.MapView { return selection.NopMapView{} }
	}
	return &SessionService{
		sessions: expirable.NewLRU[string, *selection.Session](maxSessions, nil, sessionTTL),
		newView:  newView,
		bus:      bus,
	}
}

// NewID returns a fresh session ID.
func (s *SessionService) NewID() string {
	return uuid.NewString()
}

// Get returns the session for an ID, creating one if the ID is unknown or
// expired. Re-adding on every lookup keeps an active session alive.
func (s *SessionService) Get(id string) *selection.Session {
	if sess, ok := s.sessions.Get(id); ok {
		s.sessions.Add(id, sess)
		return sess
	}
	sess := selection.NewSession(s.newView())
	s.sessions.Add(id, sess)
	return sess
}

// Len returns the number of live sessions.
func (s *SessionService) Len() int {
	return s.sessions.Len()
}

// Publish emits a change event for a session.
func (s *SessionService) Publish(sessionID, resource, action, id string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(Event{Session: sessionID, Resource: resource, Action: action, ID: id})
}

// Subscribe returns the bus subscription channel, or nil without a bus.
func (s *SessionService) Subscribe() chan Event {
	if s.bus == nil {
		return nil
	}
	return s.bus.Subscribe()
}

// Unsubscribe releases a subscription channel.
func (s *SessionService) Unsubscribe(ch chan Event) {
	if s.bus != nil && ch != nil {
		s.bus.Unsubscribe(ch)
	}
}
