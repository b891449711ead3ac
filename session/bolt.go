package session

import (
	"encoding/json"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/root-ali/iris-console/auth"
)

var sessionBucket = []byte("session")

// Option is a functional option for a BoltStore.
type Option func(s *BoltStore)

// WithClock sets the clock used for expiry checks.
func WithClock(c clock.Clock) Option {
	return func(s *BoltStore) {
		s.clock = c
	}
}

// BoltStore is the durable Store implementation backed by a boltdb file,
// the console's stand-in for browser storage.
type BoltStore struct {
	db     *bolt.DB
	clock  clock.Clock
	logger *zap.SugaredLogger
}

// NewBoltStore opens (or creates) the session database at path.
func NewBoltStore(path string, logger *zap.SugaredLogger, opts ...Option) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open session db %q", path)
	}
	s := &BoltStore{
		db:     db,
		clock:  clock.New(),
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) Save(token string) error {
	var user []byte
	if claims, err := auth.Decode(token); err == nil {
		user, _ = json.Marshal(claims)
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(sessionBucket)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(tokenKey), []byte(token)); err != nil {
			return err
		}
		if user != nil {
			return b.Put([]byte(userKey), user)
		}
		return b.Delete([]byte(userKey))
	})
}

func (s *BoltStore) AuthToken() string {
	var token string
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(tokenKey)); v != nil {
			token = string(v)
		}
		return nil
	})
	return token
}

func (s *BoltStore) Current() *auth.Claims {
	token := s.AuthToken()
	if token == "" {
		return nil
	}
	claims, err := auth.Decode(token)
	if err != nil {
		// An undecodable token means no session, not an error the
		// operator has to deal with.
		s.logger.Errorw("cannot decode stored session token", "error", err)
		return nil
	}
	return claims
}

func (s *BoltStore) IsValid() bool {
	claims := s.Current()
	return claims != nil && !claims.Expired(s.clock.Now())
}

func (s *BoltStore) IsAdmin() bool {
	claims := s.Current()
	return claims != nil && !claims.Expired(s.clock.Now()) && claims.IsAdmin()
}

func (s *BoltStore) Clear() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(sessionBucket)
		if b == nil {
			return nil
		}
		if err := b.Delete([]byte(tokenKey)); err != nil {
			return err
		}
		return b.Delete([]byte(userKey))
	})
}
