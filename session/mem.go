package session

import (
	"sync"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/root-ali/iris-console/auth"
)

// MemStore is an in memory only implementation of Store.
// This is intended to be used for testing use cases only.
type MemStore struct {
	mu     sync.Mutex
	token  string
	clock  clock.Clock
	logger *zap.SugaredLogger
}

func NewMemStore(c clock.Clock, logger *zap.SugaredLogger) *MemStore {
	if c == nil {
		c = clock.New()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &MemStore{clock: c, logger: logger}
}

func (s *MemStore) Save(token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

func (s *MemStore) AuthToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *MemStore) Current() *auth.Claims {
	token := s.AuthToken()
	if token == "" {
		return nil
	}
	claims, err := auth.Decode(token)
	if err != nil {
		s.logger.Errorw("cannot decode stored session token", "error", err)
		return nil
	}
	return claims
}

func (s *MemStore) IsValid() bool {
	claims := s.Current()
	return claims != nil && !claims.Expired(s.clock.Now())
}

func (s *MemStore) IsAdmin() bool {
	claims := s.Current()
	return claims != nil && !claims.Expired(s.clock.Now()) && claims.IsAdmin()
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return nil
}
