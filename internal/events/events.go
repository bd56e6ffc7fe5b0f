// Package events publishes domain events to NATS. When no broker is
// configured a no-op publisher is used.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/thinkscotty/ideagen/internal/auth"
	"github.com/thinkscotty/ideagen/internal/metrics"
)

// Subjects, relative to the configured prefix.
const (
	SubjectIdeasGenerated   = "ideas.generated"
	SubjectFavoriteAdded    = "favorites.added"
	SubjectFavoriteRemoved  = "favorites.removed"
	SubjectUserSignedIn     = "users.signed_in"
	SubjectUserSignedOut    = "users.signed_out"
	SubjectDocumentExported = "documents.exported"
)

type Publisher interface {
	Publish(subject string, payload any) error
	Close()
}

// Message is the envelope sent on every subject.
type Message struct {
	Subject   string    `json:"subject"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

func NewNATSPublisher(url, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("ideagen"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return newPublisher(nc, prefix), nil
}

func newPublisher(nc *nats.Conn, prefix string) *NATSPublisher {
	return &NATSPublisher{conn: nc, prefix: strings.TrimRight(prefix, ".")}
}

func (p *NATSPublisher) subject(s string) string {
	if p.prefix == "" {
		return s
	}
	return p.prefix + "." + s
}

func (p *NATSPublisher) Publish(subject string, payload any) error {
	full := p.subject(subject)
	data, err := json.Marshal(Message{
		Subject:   full,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		Source:    "ideagen",
		Version:   "1.0",
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", full, err)
	}

	err = p.conn.Publish(full, data)
	metrics.NatsMessagesPublished.WithLabelValues(full, metrics.Status(err)).Inc()
	if err != nil {
		return fmt.Errorf("publish %s: %w", full, err)
	}
	slog.Debug("Published event", "subject", full, "bytes", len(data))
	return nil
}

// Close flushes pending messages before closing the connection.
func (p *NATSPublisher) Close() {
	if p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

type Noop struct{}

func (Noop) Publish(string, any) error { return nil }
func (Noop) Close()                    {}

// Emit publishes and logs failures. Events are best-effort and never fail
// the request that produced them.
func Emit(p Publisher, subject string, payload any) {
	if err := p.Publish(subject, payload); err != nil {
		slog.Warn("Failed to publish event", "subject", subject, "error", err)
	}
}

type userEvent struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// SubscribeAuth forwards identity changes from n to p.
func SubscribeAuth(n *auth.Notifier, p Publisher) (cancel func()) {
	return n.Subscribe(func(ev auth.Event) {
		subject := SubjectUserSignedIn
		if ev.Kind == auth.SignedOut {
			subject = SubjectUserSignedOut
		}
		Emit(p, subject, userEvent{UserID: ev.User.ID, Username: ev.User.Username})
	})
}
