package events

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

// NATSPublisher публикует события в NATS
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATSPublisher подключается к NATS
// prefix добавляется к subject события (например, "popup." -> "popup.reservation.created")
func NewNATSPublisher(url, clientName, prefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name(clientName))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn, prefix: prefix}, nil
}

func (p *NATSPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	payload, err := NewEnvelope(subject, data)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(p.prefix+subject, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
		return err
	}
	return nil
}
