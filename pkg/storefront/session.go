// pkg/storefront/session.go
package storefront

import "sync"

type Session struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *User `json:"user,omitempty"`
}

// SessionStore keeps the signed-in user's tokens, persisted to a file.
type SessionStore struct {
	mu      sync.RWMutex
	path    string
	session Session
}

func NewSessionStore(path string) (*SessionStore, error) {
	s := &SessionStore{path: path}
	if err := loadJSON(path, &s.session); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SessionStore) Get() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *SessionStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

func (s *SessionStore) Set(session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = session
	return saveJSON(s.path, s.session)
}

// Clear logs out: the session is forgotten and its file removed.
func (s *SessionStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{}
	return removeFile(s.path)
}

func (s *SessionStore) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *SessionStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User != nil && s.session.User.IsAdmin()
}
