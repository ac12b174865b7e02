package bot

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tteodorogustavo/athlos/pkg/api"
	"github.com/tteodorogustavo/athlos/pkg/client"
)

// Session is one chat's API session. It is the Navigator of its own client:
// being sent to /login means the tokens are gone.
type Session struct {
	ChatID int64
	Client *client.Client

	mu      sync.Mutex
	user    *api.User
	expired bool
}

func (s *Session) Navigate(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if route != api.RouteLogin {
		return
	}
	if s.user != nil {
		s.expired = true
	}
	s.user = nil
}

// User returns the logged in account, or nil.
func (s *Session) User() *api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) setUser(u api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
	s.expired = false
}

// TakeExpired reports whether the session was dropped by the backend since
// the last call, and resets the flag.
func (s *Session) TakeExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	expired := s.expired
	s.expired = false
	return expired
}

// Logout clears the tokens. A deliberate logout is not an expiry.
func (s *Session) Logout() {
	s.Client.Logout()
	s.mu.Lock()
	s.expired = false
	s.mu.Unlock()
}

// ClientFactory builds the API client for a new chat session.
type ClientFactory func(nav client.Navigator) *client.Client

// Sessions keeps the most recently active chat sessions. Evicted chats
// simply have to log in again.
type Sessions struct {
	mu        sync.Mutex
	cache     *lru.Cache[int64, *Session]
	newClient ClientFactory
}

func NewSessions(size int, newClient ClientFactory) (*Sessions, error) {
	cache, err := lru.New[int64, *Session](size)
	if err != nil {
		return nil, err
	}
	return &Sessions{cache: cache, newClient: newClient}, nil
}

// Get returns the chat's session, creating a logged out one on first use.
func (s *Sessions) Get(chatID int64) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.cache.Get(chatID); ok {
		return sess
	}
	sess := &Session{ChatID: chatID}
	sess.Client = s.newClient(sess)
	s.cache.Add(chatID, sess)
	return sess
}

func (s *Sessions) Drop(chatID int64) {
	s.cache.Remove(chatID)
}

func (s *Sessions) Len() int {
	return s.cache.Len()
}
