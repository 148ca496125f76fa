package bus

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/mitraverify/verifyd/src/types"
)

const streamPushes = "verifyd.pushes"

// Bus carries outbound pushes to extension contexts. The host adapter
// subscribes on the other side and fans messages out to tabs.
type Bus interface {
	Push(ctx context.Context, env types.Envelope) error
}

// Memory delivers pushes synchronously to in-process subscribers. Used in
// tests and single-process deployments.
type Memory struct {
	mu   sync.Mutex
	subs []func(types.Envelope)
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Subscribe(fn func(types.Envelope)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Memory) Push(_ context.Context, env types.Envelope) error {
	m.mu.Lock()
	subs := make([]func(types.Envelope), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(env)
	}
	return nil
}

// Redis publishes pushes onto a redis stream the host adapter reads.
type Redis struct {
	rdb *redis.Client
}

func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Push(ctx context.Context, env types.Envelope) error {
	payload, err := json.Marshal(env.Payload)
	if err != nil {
		return err
	}
	_, err = r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: streamPushes,
		Values: map[string]interface{}{
			"action":  env.Action,
			"tabId":   env.TabID,
			"payload": string(payload),
		},
	}).Result()
	return err
}

// Tee pushes to every bus, logging failures instead of propagating them;
// pushes are fire-and-forget.
type Tee []Bus

func (t Tee) Push(ctx context.Context, env types.Envelope) error {
	for _, b := range t {
		if err := b.Push(ctx, env); err != nil {
			log.Printf("bus: push %s: %v", env.Action, err)
		}
	}
	return nil
}
