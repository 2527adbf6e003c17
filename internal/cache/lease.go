package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SendLease is an idempotency key for fleet-unique side effects. Whichever
// process acquires the lease for a time bucket first performs the side
// effect; everyone else observes the key as taken and does nothing. The TTL
// outlives the bucket so a restart cannot re-send within it.
type SendLease interface {
	// Acquire returns true when this process won the lease for the bucket.
	Acquire(ctx context.Context, name, bucket string) (bool, error)
}

type sendLease struct {
	client *redis.Client
	owner  string
	ttl    time.Duration
}

// NewSendLease creates a lease keyed by side-effect name and time bucket.
func NewSendLease(client *redis.Client, owner string, ttl time.Duration) SendLease {
	return &sendLease{client: client, owner: owner, ttl: ttl}
}

func (l *sendLease) key(name, bucket string) string {
	return fmt.Sprintf("lease:%s:%s", name, bucket)
}

func (l *sendLease) Acquire(ctx context.Context, name, bucket string) (bool, error) {
	return l.client.SetNX(ctx, l.key(name, bucket), l.owner, l.ttl).Result()
}
