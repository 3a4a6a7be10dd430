package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tics/site-backend-go/internal/notify"
)

type fakeStorage struct {
	reachable atomic.Bool
	ready     atomic.Bool
	waitCalls atomic.Int32
}

func (s *fakeStorage) WaitReady(ctx context.Context, attempts int, interval time.Duration) bool {
	s.waitCalls.Add(1)
	return s.reachable.Load()
}

func (s *fakeStorage) Ping(ctx context.Context) error {
	if s.reachable.Load() {
		return nil
	}
	s.ready.Store(false)
	return errors.New("connection refused")
}

func (s *fakeStorage) Ready() bool { return s.ready.Load() }
func (s *fakeStorage) MarkReady()  { s.ready.Store(true) }

type countingSetup struct {
	calls atomic.Int32
	fail  atomic.Bool
}

func (c *countingSetup) run(ctx context.Context) error {
	c.calls.Add(1)
	if c.fail.Load() {
		return errors.New("migration failed")
	}
	return nil
}

func TestStorageMonitor(t *testing.T) {
	t.Run("sets up once when storage is ready at startup", func(t *testing.T) {
		storage := &fakeStorage{}
		storage.reachable.Store(true)
		setup := &countingSetup{}

		m := NewStorageMonitor(storage, setup.run, 3, time.Millisecond, 10*time.Millisecond)
		m.Start()
		defer m.Stop()

		assert.Eventually(t, m.SetUp, time.Second, 5*time.Millisecond)
		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, int32(1), setup.calls.Load())
		assert.Equal(t, int32(1), storage.waitCalls.Load())
	})

	t.Run("sets up after a late connection", func(t *testing.T) {
		storage := &fakeStorage{}
		setup := &countingSetup{}

		m := NewStorageMonitor(storage, setup.run, 3, time.Millisecond, 10*time.Millisecond)
		m.Start()
		defer m.Stop()

		time.Sleep(30 * time.Millisecond)
		assert.False(t, m.SetUp())
		assert.Zero(t, setup.calls.Load())

		storage.reachable.Store(true)
		assert.Eventually(t, m.SetUp, time.Second, 5*time.Millisecond)
	})

	t.Run("reruns setup after an outage", func(t *testing.T) {
		storage := &fakeStorage{}
		storage.reachable.Store(true)
		setup := &countingSetup{}

		m := NewStorageMonitor(storage, setup.run, 3, time.Millisecond, 10*time.Millisecond)
		m.Start()
		defer m.Stop()

		assert.Eventually(t, m.SetUp, time.Second, 5*time.Millisecond)

		storage.reachable.Store(false)
		time.Sleep(40 * time.Millisecond)
		storage.reachable.Store(true)

		assert.Eventually(t, func() bool { return setup.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	})

	t.Run("retries failed setup", func(t *testing.T) {
		storage := &fakeStorage{}
		storage.reachable.Store(true)
		setup := &countingSetup{}
		setup.fail.Store(true)

		m := NewStorageMonitor(storage, setup.run, 3, time.Millisecond, 10*time.Millisecond)
		m.Start()
		defer m.Stop()

		assert.Eventually(t, func() bool { return setup.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		assert.False(t, m.SetUp())

		setup.fail.Store(false)
		assert.Eventually(t, m.SetUp, time.Second, 5*time.Millisecond)
	})

	t.Run("not ready until setup succeeds", func(t *testing.T) {
		storage := &fakeStorage{}
		storage.reachable.Store(true)
		setup := &countingSetup{}
		setup.fail.Store(true)

		m := NewStorageMonitor(storage, setup.run, 3, time.Millisecond, 10*time.Millisecond)
		m.Start()
		defer m.Stop()

		assert.Eventually(t, func() bool { return setup.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)
		assert.False(t, storage.Ready())

		setup.fail.Store(false)
		assert.Eventually(t, storage.Ready, time.Second, 5*time.Millisecond)
	})

	t.Run("reruns setup when a query reports the outage", func(t *testing.T) {
		storage := &fakeStorage{}
		storage.reachable.Store(true)
		setup := &countingSetup{}

		m := NewStorageMonitor(storage, setup.run, 3, time.Millisecond, 10*time.Millisecond)
		m.Start()
		defer m.Stop()

		assert.Eventually(t, storage.Ready, time.Second, 5*time.Millisecond)

		storage.ready.Store(false)

		assert.Eventually(t, func() bool { return setup.calls.Load() >= 2 && storage.Ready() }, time.Second, 5*time.Millisecond)
	})
}

var errQueueEmpty = errors.New("empty")

type fakeSource struct {
	mu   sync.Mutex
	msgs []notify.Message
	err  error
}

func (s *fakeSource) Dequeue(ctx context.Context, timeout time.Duration) (*notify.Message, error) {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return nil, err
	}
	if len(s.msgs) == 0 {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(timeout):
			return nil, errQueueEmpty
		}
	}
	msg := s.msgs[0]
	s.msgs = s.msgs[1:]
	s.mu.Unlock()
	return &msg, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (m *fakeMailer) Send(ctx context.Context, msg notify.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, msg.Subject)
	return nil
}

func (m *fakeMailer) subjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func isEmpty(err error) bool { return errors.Is(err, errQueueEmpty) }

func TestMailWorker(t *testing.T) {
	t.Run("delivers queued messages in order", func(t *testing.T) {
		source := &fakeSource{msgs: []notify.Message{{Subject: "one"}, {Subject: "two"}}}
		mailer := &fakeMailer{}

		w := NewMailWorker(source, mailer, 10*time.Millisecond, time.Second, isEmpty)
		w.Start()

		assert.Eventually(t, func() bool { return len(mailer.subjects()) == 2 }, time.Second, 5*time.Millisecond)
		w.Stop()
		assert.Equal(t, []string{"one", "two"}, mailer.subjects())
	})

	t.Run("drops messages the mailer rejects", func(t *testing.T) {
		source := &fakeSource{msgs: []notify.Message{{Subject: "one"}}}
		mailer := &fakeMailer{fail: true}

		w := NewMailWorker(source, mailer, 10*time.Millisecond, time.Second, isEmpty)
		w.Start()

		assert.Eventually(t, func() bool {
			source.mu.Lock()
			defer source.mu.Unlock()
			return len(source.msgs) == 0
		}, time.Second, 5*time.Millisecond)
		w.Stop()
		assert.Empty(t, mailer.subjects())
	})

	t.Run("stops promptly while the queue errors", func(t *testing.T) {
		source := &fakeSource{err: errors.New("redis down")}
		w := NewMailWorker(source, &fakeMailer{}, 10*time.Millisecond, time.Second, isEmpty)
		w.Start()
		time.Sleep(20 * time.Millisecond)

		done := make(chan struct{})
		go func() {
			w.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("worker did not stop")
		}
	})

	t.Run("stop without start is safe", func(t *testing.T) {
		w := NewMailWorker(&fakeSource{}, &fakeMailer{}, time.Millisecond, time.Second, isEmpty)
		assert.NotPanics(t, w.Stop)
	})
}
