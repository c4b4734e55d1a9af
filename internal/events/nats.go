package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectRecordCreated     = "financial.record.created"
	SubjectChatTurnCompleted = "chat.turn.completed"
)

type RecordCreated struct {
	RecordID  string    `json:"recordId"`
	UserID    string    `json:"userId"`
	NetWorth  string    `json:"netWorth"`
	CreatedAt time.Time `json:"createdAt"`
}

type ChatTurnCompleted struct {
	ConversationID string    `json:"conversationId"`
	UserID         string    `json:"userId"`
	UserMessageID  string    `json:"userMessageId"`
	AIMessageID    string    `json:"aiMessageId"`
	CompletedAt    time.Time `json:"completedAt"`
}

type conn interface {
	Publish(subject string, data []byte) error
	IsConnected() bool
	Drain() error
}

// Publisher emits domain events to NATS. Publishing is best effort: a nil
// publisher or a dropped connection only logs.
type Publisher struct {
	nc conn
}

// Connect dials url. An empty url returns a publisher that drops events.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return &Publisher{}, nil
	}
	nc, err := nats.Connect(url,
		nats.Name("finsight"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("events: connected to nats at %s", nc.ConnectedUrl())
	return &Publisher{nc: nc}, nil
}

func (p *Publisher) RecordCreated(event RecordCreated) {
	p.publish(SubjectRecordCreated, event)
}

func (p *Publisher) ChatTurnCompleted(event ChatTurnCompleted) {
	p.publish(SubjectChatTurnCompleted, event)
}

func (p *Publisher) publish(subject string, event any) {
	if p == nil || p.nc == nil {
		return
	}
	if !p.nc.IsConnected() {
		log.Printf("events: nats not connected, dropping %s", subject)
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: encode %s: %v", subject, err)
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		log.Printf("events: publish %s: %v", subject, err)
	}
}

// Close drains pending messages before closing the connection.
func (p *Publisher) Close() error {
	if p == nil || p.nc == nil {
		return nil
	}
	return p.nc.Drain()
}
