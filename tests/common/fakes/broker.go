//go:build unit || e2e

package fakes

import (
	"context"
	"errors"
	"sync"
)

var ErrBrokerDown = errors.New("broker unreachable")

type Message struct {
	ID   string
	Body []byte
}

// Broker records published messages. While down every Publish fails.
type Broker struct {
	mu        sync.Mutex
	down      bool
	published []Message
}

func NewBroker() *Broker { return &Broker{} }

func (b *Broker) Publish(ctx context.Context, messageID string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.down {
		return ErrBrokerDown
	}
	b.published = append(b.published, Message{ID: messageID, Body: append([]byte(nil), body...)})
	return nil
}

func (b *Broker) SetDown(down bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = down
}

func (b *Broker) Published() []Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Message(nil), b.published...)
}

func (b *Broker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.down = false
	b.published = nil
}
