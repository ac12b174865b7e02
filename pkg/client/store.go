package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Default token lifetimes on the client side. They mirror the cookie
// expiries of the web dashboard.
const (
	DefaultAccessTTL  = 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// TokenStore holds the access and refresh tokens of one session.
// Implementations must be safe for concurrent use.
type TokenStore interface {
	AccessToken() string
	RefreshToken() string
	SetAccessToken(access string)
	SetTokens(access, refresh string)
	Clear()
}

type storedToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (t storedToken) valid(now time.Time) string {
	if t.Value == "" || (!t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)) {
		return ""
	}
	return t.Value
}

// MemoryStore keeps tokens in memory. Expired tokens read as absent.
type MemoryStore struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	mu      sync.RWMutex
	now     func() time.Time
	access  storedToken
	refresh storedToken
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		AccessTTL:  DefaultAccessTTL,
		RefreshTTL: DefaultRefreshTTL,
		now:        time.Now,
	}
}

func (s *MemoryStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access.valid(s.now())
}

func (s *MemoryStore) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh.valid(s.now())
}

// SetAccessToken replaces the access token. A refreshed access token is
// stored without an explicit lifetime, the backend decides when it expires.
func (s *MemoryStore) SetAccessToken(access string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = storedToken{Value: access}
}

func (s *MemoryStore) SetTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.access = storedToken{Value: access, ExpiresAt: now.Add(s.AccessTTL)}
	s.refresh = storedToken{Value: refresh, ExpiresAt: now.Add(s.RefreshTTL)}
}

func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = storedToken{}
	s.refresh = storedToken{}
}

type fileTokens struct {
	AccessToken  storedToken `json:"access_token"`
	RefreshToken storedToken `json:"refresh_token"`
}

// FileStore persists tokens as JSON so a session survives between CLI
// invocations. Write errors are reported through OnError.
type FileStore struct {
	*MemoryStore
	path    string
	OnError func(error)
}

// NewFileStore loads path if it exists.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{MemoryStore: NewMemoryStore(), path: path}

	buf, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return fs, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read token file")
	}

	var ft fileTokens
	if err := json.Unmarshal(buf, &ft); err != nil {
		return nil, errors.Wrapf(err, "decode token file %s", path)
	}
	fs.access = ft.AccessToken
	fs.refresh = ft.RefreshToken
	return fs, nil
}

func (s *FileStore) SetAccessToken(access string) {
	s.MemoryStore.SetAccessToken(access)
	s.persist()
}

func (s *FileStore) SetTokens(access, refresh string) {
	s.MemoryStore.SetTokens(access, refresh)
	s.persist()
}

func (s *FileStore) Clear() {
	s.MemoryStore.Clear()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.report(errors.Wrap(err, "remove token file"))
	}
}

func (s *FileStore) persist() {
	s.mu.RLock()
	ft := fileTokens{AccessToken: s.access, RefreshToken: s.refresh}
	s.mu.RUnlock()

	buf, err := json.MarshalIndent(ft, "", "  ")
	if err != nil {
		s.report(errors.Wrap(err, "encode tokens"))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		s.report(errors.Wrap(err, "create token dir"))
		return
	}
	if err := os.WriteFile(s.path, buf, 0o600); err != nil {
		s.report(errors.Wrap(err, "write token file"))
	}
}

func (s *FileStore) report(err error) {
	if s.OnError != nil {
		s.OnError(err)
	}
}
