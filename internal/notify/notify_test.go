package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tics/site-backend-go/internal/model"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

var errEmpty = errors.New("empty")

type memoryList struct {
	mu      sync.Mutex
	items   map[string][][]byte
	pushErr error
}

func newMemoryList() *memoryList {
	return &memoryList{items: make(map[string][][]byte)}
}

func (l *memoryList) Push(ctx context.Context, key string, payload []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.pushErr != nil {
		return l.pushErr
	}
	l.items[key] = append(l.items[key], payload)
	return nil
}

func (l *memoryList) Pop(ctx context.Context, key string, timeout time.Duration) ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.items[key]) == 0 {
		return nil, errEmpty
	}
	head := l.items[key][0]
	l.items[key] = l.items[key][1:]
	return head, nil
}

func strPtr(s string) *string { return &s }

func TestTemplates(t *testing.T) {
	t.Run("contact escapes user input and omits empty phone", func(t *testing.T) {
		msg, err := ContactEmail("admin@example.com", &model.ContactMessage{
			Name:    "Eve",
			Email:   "eve@example.com",
			Message: "<script>alert(1)</script>",
		})
		require.NoError(t, err)

		assert.Equal(t, "admin@example.com", msg.To)
		assert.Equal(t, "New Contact Message from Eve", msg.Subject)
		assert.NotContains(t, msg.HTML, "<script>")
		assert.Contains(t, msg.HTML, "&lt;script&gt;")
		assert.NotContains(t, msg.HTML, "Phone:")
	})

	t.Run("application includes resume name", func(t *testing.T) {
		msg, err := ApplicationEmail("admin@example.com", &model.JobApplication{
			Name:      "Ann",
			Email:     "ann@example.com",
			Phone:     "555",
			Position:  "Engineer",
			ResumeURL: "resume-1-2.pdf",
		})
		require.NoError(t, err)

		assert.Equal(t, "New Job Application: Engineer", msg.Subject)
		assert.Contains(t, msg.HTML, "resume-1-2.pdf")
		assert.Contains(t, msg.HTML, "555")
	})

	t.Run("proposal renders optional fields when present", func(t *testing.T) {
		msg, err := ProposalEmail("admin@example.com", &model.ProposalRequest{
			Name:    "Bob",
			Email:   "bob@example.com",
			Company: strPtr("Acme"),
			Service: "Cloud",
			Message: "Need help",
		})
		require.NoError(t, err)

		assert.Equal(t, "New Proposal Request: Cloud", msg.Subject)
		assert.Contains(t, msg.HTML, "Acme")
		assert.NotContains(t, msg.HTML, "Phone:")
	})
}

func TestNotifierSendsInBackground(t *testing.T) {
	mailer := &recordingMailer{}
	n := NewNotifier(mailer, "admin@example.com", time.Second)

	n.ContactReceived(&model.ContactMessage{Name: "A", Email: "a@b.co", Message: "hi"})
	n.ProposalRequested(&model.ProposalRequest{Name: "B", Email: "b@b.co", Service: "Web", Message: "x"})
	n.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 2)
	subjects := []string{sent[0].Subject, sent[1].Subject}
	assert.ElementsMatch(t, []string{"New Contact Message from A", "New Proposal Request: Web"}, subjects)
}

func TestNotifierSwallowsMailerErrors(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	n := NewNotifier(mailer, "admin@example.com", time.Second)

	assert.NotPanics(t, func() {
		n.ApplicationReceived(&model.JobApplication{Name: "A", Position: "Dev"})
		n.Wait()
	})
	assert.Empty(t, mailer.messages())
}

func TestNotifierUsesQueue(t *testing.T) {
	mailer := &recordingMailer{}
	list := newMemoryList()
	queue := NewQueue(list, "mail")
	n := NewNotifier(mailer, "admin@example.com", time.Second, WithQueue(queue))

	n.ContactReceived(&model.ContactMessage{Name: "A", Email: "a@b.co", Message: "hi"})
	n.Wait()

	assert.Empty(t, mailer.messages())
	msg, err := queue.Dequeue(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "New Contact Message from A", msg.Subject)

	_, err = queue.Dequeue(context.Background(), time.Second)
	assert.ErrorIs(t, err, errEmpty)
}

func TestNotifierFallsBackWhenQueueFails(t *testing.T) {
	mailer := &recordingMailer{}
	list := newMemoryList()
	list.pushErr = errors.New("redis down")
	n := NewNotifier(mailer, "admin@example.com", time.Second, WithQueue(NewQueue(list, "mail")))

	n.ContactReceived(&model.ContactMessage{Name: "A", Email: "a@b.co", Message: "hi"})
	n.Wait()

	assert.Len(t, mailer.messages(), 1)
}

func TestSMTPMailer(t *testing.T) {
	t.Run("disabled without host", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{})
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			t.Fatal("send should not be called")
			return nil
		}

		assert.False(t, m.Enabled())
		assert.NoError(t, m.Send(context.Background(), Message{To: "a@b.co"}))
	})

	t.Run("sends MIME message to configured host", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 587, User: "u", Password: "p", From: "site@example.com"})
		var gotAddr, gotFrom string
		var gotTo []string
		var gotBody []byte
		m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotFrom, gotTo, gotBody = addr, from, to, msg
			return nil
		}

		err := m.Send(context.Background(), Message{To: "admin@example.com", Subject: "Hi\r\nBcc: evil@x.co", HTML: "<p>x</p>"})
		require.NoError(t, err)

		assert.Equal(t, "smtp.example.com:587", gotAddr)
		assert.Equal(t, "site@example.com", gotFrom)
		assert.Equal(t, []string{"admin@example.com"}, gotTo)
		body := string(gotBody)
		assert.Contains(t, body, "Content-Type: text/html; charset=UTF-8")
		assert.Contains(t, body, "Subject: Hi  Bcc: evil@x.co\r\n")
		assert.False(t, strings.Contains(body, "\r\nBcc:"))
	})

	t.Run("missing recipient is an error", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 25})
		assert.Error(t, m.Send(context.Background(), Message{}))
	})

	t.Run("send error is wrapped", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 25})
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			return errors.New("refused")
		}
		err := m.Send(context.Background(), Message{To: "a@b.co"})
		assert.ErrorContains(t, err, "refused")
	})

	t.Run("deadline bounds a hung server", func(t *testing.T) {
		m := NewSMTPMailer(SMTPConfig{Host: "smtp.example.com", Port: 25})
		release := make(chan struct{})
		defer close(release)
		m.send = func(string, smtp.Auth, string, []string, []byte) error {
			<-release
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		assert.ErrorIs(t, m.Send(ctx, Message{To: "a@b.co"}), context.DeadlineExceeded)
	})
}
