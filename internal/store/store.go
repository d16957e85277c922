// Package store is the concurrent core of diskcache: a bounded action
// queue, an in-memory cache, and a pool of workers that serialize every
// mutation against the cache and the persistence backend.
//
// Workers take the queue receiver and the cache as one paired critical
// section, so at most one worker processes an action at any time and all
// actions apply in strict admission order. The extra workers are a
// hot-standby pool, not a source of parallelism.
package store

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"diskcache/internal/backend"
	"diskcache/internal/logging"
)

var logger = logging.For("store")

// DefaultQueueSize is the dispatch queue capacity used when the caller
// does not pick one.
const DefaultQueueSize = 10

// closePollInterval is how often Close re-checks the running-worker count.
const closePollInterval = 10 * time.Millisecond

// ErrClosed is the dispatch failure returned for any action sent after
// Close has begun. It is distinct from backend errors.
var ErrClosed = errors.New("store closed")

// Store owns the cache, the dispatch queue, and the worker pool.
// Construct with New; the front handle in pkg/diskcache is the intended
// consumer.
type Store struct {
	backend backend.Backend

	// Lock order is fixed: recvMu before cacheMu. Holding both for the
	// whole of one action is what guarantees strict global ordering.
	recvMu  sync.Mutex // guards the receiving end of the queue
	cacheMu sync.Mutex // guards cache
	cache   map[string]string

	actions chan Action
	done    chan struct{}

	closeOnce sync.Once
	running   atomic.Int32 // workers still in their loop
}

// New builds a store over b and spawns the worker pool. workers must be
// at least 2: with a single worker the pool loses its standby property
// while one backend call is in flight. queueSize <= 0 selects
// DefaultQueueSize.
func New(b backend.Backend, workers, queueSize int) (*Store, error) {
	if b == nil {
		return nil, errors.New("backend required")
	}
	if workers < 2 {
		return nil, fmt.Errorf("workers must be >= 2, got %d", workers)
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	s := &Store{
		backend: b,
		cache:   make(map[string]string),
		actions: make(chan Action, queueSize),
		done:    make(chan struct{}),
	}

	s.running.Store(int32(workers))
	for i := 0; i < workers; i++ {
		go s.worker(i)
	}
	logger.Debug("store started", "workers", workers, "queue", queueSize)
	return s, nil
}

// Dispatch queues act for processing. It fails fast with ErrClosed once
// Close has begun, and blocks while the queue is full.
func (s *Store) Dispatch(act Action) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	select {
	case s.actions <- act:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// Done is closed when shutdown begins. Callers awaiting a reply select on
// it so an abandoned action can never strand them.
func (s *Store) Done() <-chan struct{} {
	return s.done
}

// Close signals every worker to stop, then polls until all of them have
// exited. A worker mid backend call is waited for, never interrupted; the
// stop signal takes effect at the queue wait. Actions still queued when
// the last worker exits are abandoned and their callers unblock via Done.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)

		ticker := time.NewTicker(closePollInterval)
		defer ticker.Stop()
		for s.running.Load() > 0 {
			<-ticker.C
		}
		logger.Debug("store closed")
	})
}

// worker runs the dispatch loop: take the receiver, take the cache, pull
// one action, apply it, reply, release both. It exits when shutdown is
// signaled.
func (s *Store) worker(n int) {
	defer s.running.Add(-1)

	for {
		s.recvMu.Lock()
		s.cacheMu.Lock()

		select {
		case <-s.done:
			s.cacheMu.Unlock()
			s.recvMu.Unlock()
			logger.Debug("worker exiting", "worker", n)
			return
		case act := <-s.actions:
			s.apply(act)
		}

		s.cacheMu.Unlock()
		s.recvMu.Unlock()
	}
}

// apply performs one action against the backend and the cache, honoring
// the write-through ordering: the backend call comes first, and on its
// failure the cache is left untouched. Every branch sends exactly one
// reply; the buffered channel makes the send non-blocking.
func (s *Store) apply(act Action) {
	switch act.Op {
	case OpSet:
		if err := s.backend.Write(act.Key, act.Value); err != nil {
			logger.Error("set failed", "id", act.ID, "key", act.Key, "err", err)
			act.Reply <- Result{Err: err}
			return
		}
		prev, found := s.cache[act.Key]
		s.cache[act.Key] = act.Value
		logger.Debug("set", "id", act.ID, "key", act.Key)
		act.Reply <- Result{Value: prev, Found: found}

	case OpGet:
		if v, ok := s.cache[act.Key]; ok {
			act.Reply <- Result{Value: v, Found: true}
			return
		}
		// Cache miss: consult the backend. The hit is deliberately not
		// written back; only Set populates the cache.
		v, ok, err := s.backend.Read(act.Key)
		if err != nil {
			logger.Error("get failed", "id", act.ID, "key", act.Key, "err", err)
			act.Reply <- Result{Err: err}
			return
		}
		act.Reply <- Result{Value: v, Found: ok}

	case OpDel:
		if err := s.backend.Remove(act.Key); err != nil {
			logger.Error("delete failed", "id", act.ID, "key", act.Key, "err", err)
			act.Reply <- Result{Err: err}
			return
		}
		prev, found := s.cache[act.Key]
		delete(s.cache, act.Key)
		logger.Debug("del", "id", act.ID, "key", act.Key)
		act.Reply <- Result{Value: prev, Found: found}

	case OpClear:
		if err := s.backend.Wipe(); err != nil {
			logger.Error("clear failed", "id", act.ID, "err", err)
			act.Reply <- Result{Err: err}
			return
		}
		clear(s.cache)
		logger.Debug("clear", "id", act.ID)
		act.Reply <- Result{}

	default:
		act.Reply <- Result{Err: fmt.Errorf("unknown op %d", act.Op)}
	}
}
