// Package notify handles out-of-band account email: the api enqueues
// notices, the worker delivers them.
package notify

import (
	"context"
	"encoding/json"

	"github.com/Misakaaaaaz/Parent-Portal/internal/queue"
)

// MessageType marks notification messages on the queue.
const MessageType = "notice"

// Notice kinds.
const (
	KindRegistration  = "registration"
	KindPasswordReset = "password-reset"
)

// Notice is one queued notification.
type Notice struct {
	Kind  string `json:"kind"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Publisher enqueues notices for the worker.
type Publisher struct {
	q queue.Queue
}

// NewPublisher wraps a queue.
func NewPublisher(q queue.Queue) *Publisher {
	return &Publisher{q: q}
}

// RegistrationCompleted queues a welcome notice for a new account.
func (p *Publisher) RegistrationCompleted(ctx context.Context, email, name string) error {
	return p.publish(ctx, Notice{Kind: KindRegistration, Email: email, Name: name})
}

// PasswordResetCompleted queues the reset notice. This email is the only
// ownership control on an unauthenticated reset, so losing it matters:
// the caller logs any error returned here.
func (p *Publisher) PasswordResetCompleted(ctx context.Context, email, name string) error {
	return p.publish(ctx, Notice{Kind: KindPasswordReset, Email: email, Name: name})
}

func (p *Publisher) publish(ctx context.Context, n Notice) error {
	body, err := json.Marshal(n)
	if err != nil {
		return err
	}
	return p.q.Publish(ctx, queue.Message{Type: MessageType, Body: body})
}

// Decode parses a queued notice body.
func Decode(body []byte) (Notice, error) {
	var n Notice
	err := json.Unmarshal(body, &n)
	return n, err
}
