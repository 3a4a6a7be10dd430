package jobs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Storage is reachable after a successful Ping but only ready for traffic
// once MarkReady is called. It may drop out of ready on its own when a query
// hits a lost connection.
type Storage interface {
	WaitReady(ctx context.Context, attempts int, interval time.Duration) bool
	Ping(ctx context.Context) error
	Ready() bool
	MarkReady()
}

// SetupFunc prepares a freshly reachable store: schema first, then seed data.
type SetupFunc func(ctx context.Context) error

// StorageMonitor owns the database lifecycle after startup. It waits a bounded
// time for the first connection, then keeps probing so that a database that
// comes up late (or comes back) still gets migrated and bootstrapped. The
// store is reported ready only after setup succeeds.
type StorageMonitor struct {
	storage  Storage
	setup    SetupFunc
	attempts int
	interval time.Duration
	period   time.Duration

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once

	setUp atomic.Bool
}

func NewStorageMonitor(storage Storage, setup SetupFunc, attempts int, interval, period time.Duration) *StorageMonitor {
	return &StorageMonitor{
		storage:  storage,
		setup:    setup,
		attempts: attempts,
		interval: interval,
		period:   period,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

func (m *StorageMonitor) Start() {
	go m.run()
	log.Info().Dur("period", m.period).Msg("storage monitor started")
}

func (m *StorageMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.done)
	})
	<-m.stopped
	log.Info().Msg("storage monitor stopped")
}

// SetUp reports whether migration and bootstrap have completed at least once.
func (m *StorageMonitor) SetUp() bool {
	return m.setUp.Load()
}

func (m *StorageMonitor) run() {
	defer close(m.stopped)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-m.done:
			cancel()
		case <-ctx.Done():
		}
	}()

	if m.storage.WaitReady(ctx, m.attempts, m.interval) {
		m.onReady(ctx)
	} else if ctx.Err() == nil {
		log.Warn().Msg("database not connected, admin initialization skipped")
		log.Warn().Msg("admin will be created automatically when the database connects")
	}

	ticker := time.NewTicker(m.period)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *StorageMonitor) check(ctx context.Context) {
	if err := m.storage.Ping(ctx); err != nil {
		return
	}
	if !m.storage.Ready() {
		m.onReady(ctx)
	}
}

func (m *StorageMonitor) onReady(ctx context.Context) {
	if err := m.setup(ctx); err != nil {
		log.Error().Err(err).Msg("database setup failed, will retry on next check")
		return
	}

	m.storage.MarkReady()
	m.setUp.Store(true)
}
