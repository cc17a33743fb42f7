// Package store keeps game sessions in memory and forgets them after a
// period of inactivity.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var ErrNotFound = errors.New("session not found")

// Session is a round plus its bookkeeping. Hold the lock while reading or
// changing Round, StartedAt or EndedAt.
type Session struct {
	sync.Mutex
	ID        string
	Round     *mines.Round
	StartedAt time.Time
	EndedAt   time.Time
}

// Sync stamps EndedAt the first time the round is seen over.
func (s *Session) Sync(now time.Time) {
	if s.Round.Status().Over() && s.EndedAt.IsZero() {
		s.EndedAt = now.UTC()
	}
}

type Store struct {
	log   *logrus.Logger
	cache *cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

func New(logger *logrus.Logger, ttl, cleanupInterval time.Duration) *Store {
	s := &Store{
		log:   logger,
		cache: cache.New(ttl, cleanupInterval),
		ttl:   ttl,
		now:   time.Now,
	}
	s.cache.OnEvicted(func(id string, _ any) {
		s.log.WithField("session_id", id).Debug("session evicted")
	})
	return s
}

func (s *Store) Create(round *mines.Round) (*Session, error) {
	session := &Session{
		ID:        uuid.NewString(),
		Round:     round,
		StartedAt: s.now().UTC(),
	}
	if err := s.cache.Add(session.ID, session, s.ttl); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"size":       round.Size,
		"mine_count": round.MineCount,
	}).Debug("session created")
	return session, nil
}

func (s *Store) Get(id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return v.(*Session), nil
}

// Touch restarts the session's expiry clock.
func (s *Store) Touch(session *Session) {
	s.cache.Set(session.ID, session, s.ttl)
}

func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

func (s *Store) Count() int {
	return s.cache.ItemCount()
}

func (s *Store) Close() error {
	s.cache.Flush()
	return nil
}
