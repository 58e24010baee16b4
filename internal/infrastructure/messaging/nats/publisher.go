// Package nats publica los eventos en vivo en un bus NATS para otros consumidores.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/jhoicas/storefront-api/internal/application/ports"
	"github.com/jhoicas/storefront-api/pkg/config"
)

var _ ports.Notifier = (*Publisher)(nil)

const (
	connectWait   = 5 * time.Second
	maxReconnects = -1
	reconnectWait = 2 * time.Second
)

// NewConnection abre la conexión con reconexión indefinida.
func NewConnection(cfg config.NATSConfig, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(name),
		nats.Timeout(connectWait),
		nats.MaxReconnects(maxReconnects),
		nats.ReconnectWait(reconnectWait),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", cfg.URL, err)
	}
	return nc, nil
}

// Envelope cuerpo publicado en cada subject.
type Envelope struct {
	Event   string    `json:"event"`
	Payload any       `json:"payload"`
	SentAt  time.Time `json:"sentAt"`
}

// Publisher implementa ports.Notifier sobre NATS.
// Subjects: <prefix>.user.<id>.<event> y <prefix>.role.<ROLE>.<event>.
type Publisher struct {
	conn   *nats.Conn
	prefix string
}

// NewPublisher construye el publicador.
func NewPublisher(conn *nats.Conn, prefix string) (*Publisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("nats: conexión nil")
	}
	return &Publisher{conn: conn, prefix: prefix}, nil
}

func (p *Publisher) NotifyUser(ctx context.Context, userID, event string, payload any) error {
	return p.publish(ctx, UserSubject(p.prefix, userID, event), event, payload)
}

func (p *Publisher) NotifyRole(ctx context.Context, role, event string, payload any) error {
	return p.publish(ctx, RoleSubject(p.prefix, role, event), event, payload)
}

func (p *Publisher) publish(ctx context.Context, subject, event string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(Envelope{Event: event, Payload: payload, SentAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("nats marshal %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	return nil
}

// UserSubject subject de un evento dirigido a una cuenta.
func UserSubject(prefix, userID, event string) string {
	return fmt.Sprintf("%s.user.%s.%s", prefix, userID, subjectToken(event))
}

// RoleSubject subject de un evento dirigido a un rol.
func RoleSubject(prefix, role, event string) string {
	return fmt.Sprintf("%s.role.%s.%s", prefix, role, subjectToken(event))
}

// subjectToken los eventos usan ':' ("order:created"); en NATS el separador es '.'.
func subjectToken(event string) string {
	out := []byte(event)
	for i, c := range out {
		if c == ':' || c == ' ' || c == '*' || c == '>' {
			out[i] = '.'
		}
	}
	return string(out)
}
