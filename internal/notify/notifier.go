package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/model"
)

// ListStore is the subset of the redis client used as a delivery queue.
type ListStore interface {
	Push(ctx context.Context, key string, payload []byte) error
	Pop(ctx context.Context, key string, timeout time.Duration) ([]byte, error)
}

// Queue hands rendered messages to a MailWorker in another goroutine or process.
type Queue struct {
	store ListStore
	key   string
}

func NewQueue(store ListStore, key string) *Queue {
	return &Queue{store: store, key: key}
}

func (q *Queue) Enqueue(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}
	return q.store.Push(ctx, q.key, payload)
}

// Dequeue waits up to timeout. The error from the store is returned as is,
// so callers can match the store's own empty-queue sentinel.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Message, error) {
	payload, err := q.store.Pop(ctx, q.key, timeout)
	if err != nil {
		return nil, err
	}
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return &msg, nil
}

// Notifier emails the admin inbox about new submissions. Delivery never
// blocks or fails the request that triggered it: messages go to the queue
// when one is configured, otherwise they are sent from a background
// goroutine bounded by sendTimeout. Failures are logged and dropped.
type Notifier struct {
	mailer      Mailer
	queue       *Queue
	to          string
	sendTimeout time.Duration
	wg          sync.WaitGroup
}

type NotifierOption func(*Notifier)

func WithQueue(q *Queue) NotifierOption {
	return func(n *Notifier) {
		n.queue = q
	}
}

func NewNotifier(mailer Mailer, to string, sendTimeout time.Duration, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		mailer:      mailer,
		to:          to,
		sendTimeout: sendTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Notifier) ContactReceived(c *model.ContactMessage) {
	msg, err := ContactEmail(n.to, c)
	n.dispatch(model.NotificationContact, msg, err)
}

func (n *Notifier) ApplicationReceived(a *model.JobApplication) {
	msg, err := ApplicationEmail(n.to, a)
	n.dispatch(model.NotificationApplication, msg, err)
}

func (n *Notifier) ProposalRequested(p *model.ProposalRequest) {
	msg, err := ProposalEmail(n.to, p)
	n.dispatch(model.NotificationProposal, msg, err)
}

// Wait blocks until in-flight background sends finish.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

func (n *Notifier) dispatch(kind model.NotificationKind, msg Message, renderErr error) {
	if renderErr != nil {
		log.Error().Err(renderErr).Str("kind", string(kind)).Msg("failed to render notification")
		return
	}

	if n.queue != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := n.queue.Enqueue(ctx, msg)
		cancel()
		if err == nil {
			log.Debug().Str("kind", string(kind)).Msg("notification queued")
			return
		}
		log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to queue notification, sending directly")
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), n.sendTimeout)
		defer cancel()
		if err := n.mailer.Send(ctx, msg); err != nil {
			log.Error().Err(err).Str("kind", string(kind)).Msg("failed to send notification email")
			return
		}
		log.Info().Str("kind", string(kind)).Msg("notification email sent")
	}()
}
