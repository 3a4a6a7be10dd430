package jobs

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tics/site-backend-go/internal/notify"
)

type MailSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*notify.Message, error)
}

// MailWorker drains queued notification emails and hands them to the mailer.
// A failed send is logged and dropped, same as direct delivery.
type MailWorker struct {
	source      MailSource
	mailer      notify.Mailer
	blockFor    time.Duration
	sendTimeout time.Duration
	isEmpty     func(error) bool

	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

func NewMailWorker(source MailSource, mailer notify.Mailer, blockFor, sendTimeout time.Duration, isEmpty func(error) bool) *MailWorker {
	return &MailWorker{
		source:      source,
		mailer:      mailer,
		blockFor:    blockFor,
		sendTimeout: sendTimeout,
		isEmpty:     isEmpty,
		stopped:     make(chan struct{}),
	}
}

func (w *MailWorker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	go w.run(ctx)
	log.Info().Msg("mail worker started")
}

func (w *MailWorker) Stop() {
	w.once.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.stopped
		}
	})
	log.Info().Msg("mail worker stopped")
}

func (w *MailWorker) run(ctx context.Context) {
	defer close(w.stopped)

	for {
		if ctx.Err() != nil {
			return
		}
		if !w.processOne(ctx) {
			// Back off briefly on queue errors so a dead redis doesn't spin.
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
		}
	}
}

// processOne returns false when the queue itself failed.
func (w *MailWorker) processOne(ctx context.Context) bool {
	msg, err := w.source.Dequeue(ctx, w.blockFor)
	if err != nil {
		if w.isEmpty != nil && w.isEmpty(err) {
			return true
		}
		if errors.Is(err, context.Canceled) {
			return true
		}
		log.Error().Err(err).Msg("failed to dequeue notification")
		return false
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()
	if err := w.mailer.Send(sendCtx, *msg); err != nil {
		log.Error().Err(err).Str("subject", msg.Subject).Msg("failed to send queued notification")
		return true
	}
	log.Info().Str("subject", msg.Subject).Msg("queued notification sent")
	return true
}
