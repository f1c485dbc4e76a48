// Package notify onay kararlarını ve dönem taşımalarını dış dinleyicilere
// duyurur. Yayın hataları çağıranın işlemini bozmaz.
package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type EventType string

const (
	EventApproved EventType = "approval.approved"
	EventRejected EventType = "approval.rejected"
	EventMoved    EventType = "period.moved"
)

type Event struct {
	Type       EventType `json:"type"`
	Ref        string    `json:"ref,omitempty"`
	Actor      string    `json:"actor"`
	Reason     string    `json:"reason,omitempty"`
	Source     string    `json:"source,omitempty"`
	Target     string    `json:"target,omitempty"`
	MovedCount int       `json:"movedCount,omitempty"`
	BatchID    string    `json:"batchId,omitempty"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Nop hiçbir şey yayınlamaz; Redis yapılandırılmadığında kullanılır.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.rdb.Publish(ctx, p.channel, payload).Err()
}
