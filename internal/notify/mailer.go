package notify

import (
	"fmt"
	"log"
	"time"

	"github.com/sony/gobreaker"
	"gopkg.in/gomail.v2"
)

// Mailer sends notice email over SMTP. Sends go through a circuit breaker
// so a dead relay fails fast instead of stalling the worker loop.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	cb     *gobreaker.CircuitBreaker
}

// NewMailer builds a mailer for the given SMTP relay.
func NewMailer(host string, port int, user, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "SMTP",
			MaxRequests: 3,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("circuit breaker %s: %s -> %s", name, from, to)
			},
		}),
	}
}

// Send delivers one notice.
func (m *Mailer) Send(n Notice) error {
	subject, body := render(n)
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", n.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	_, err := m.cb.Execute(func() (interface{}, error) {
		return nil, m.dialer.DialAndSend(msg)
	})
	return err
}

func render(n Notice) (subject, body string) {
	switch n.Kind {
	case KindPasswordReset:
		return "Your Parent Portal password was reset", fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
				<h2>Password reset</h2>
				<p>Hi %s,</p>
				<p>The password for your Parent Portal account was just reset using this
				email address. If this wasn't you, sign in and change your password
				immediately, then contact support.</p>
			</div>
		`, n.Name)
	default:
		return "Welcome to Parent Portal", fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
				<h2>Welcome</h2>
				<p>Hi %s,</p>
				<p>Your Parent Portal account is ready. You can now sign in and follow
				your child's progress.</p>
			</div>
		`, n.Name)
	}
}
