package service

import (
	"context"
	"hash/fnv"
	"time"

	"reclaim/pkg/domain"
	dErrors "reclaim/pkg/domain-errors"
)

// numClaimShards spreads adjudication locks across shards so unrelated
// claims don't serialize behind each other.
const numClaimShards = 64

// defaultClaimTxTimeout bounds a claim transaction so no store interaction
// blocks indefinitely.
const defaultClaimTxTimeout = 5 * time.Second

type txClaimKey struct{}

// withTxClaim marks the claim a transaction is scoped to, so the in-memory
// runner can pick the matching lock shard.
func withTxClaim(ctx context.Context, id domain.ClaimID) context.Context {
	return context.WithValue(ctx, txClaimKey{}, id)
}

func txClaim(ctx context.Context) (domain.ClaimID, bool) {
	id, ok := ctx.Value(txClaimKey{}).(domain.ClaimID)
	return id, ok
}

// ShardedTx provides the transactional boundary for deployments without a
// SQL store: a mutex shard selected by claim ID guards the read-check-write
// sequence. The postgres runner in cmd/server replaces this with a real
// transaction and row lock.
type ShardedTx struct {
	shards  [numClaimShards]chan struct{}
	store   ClaimStore
	timeout time.Duration
}

func NewShardedTx(store ClaimStore) *ShardedTx {
	t := &ShardedTx{store: store}
	for i := range t.shards {
		t.shards[i] = make(chan struct{}, 1)
	}
	return t
}

func (t *ShardedTx) RunInTx(ctx context.Context, fn func(ctx context.Context, store ClaimStore) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultClaimTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	shard := t.shards[t.selectShard(ctx)]
	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "transaction aborted: lock wait timed out")
	}
	defer func() { <-shard }()

	return fn(ctx, t.store)
}

// selectShard picks a shard from the claim ID in context, or shard 0 for
// operations not scoped to an existing claim (creation).
func (t *ShardedTx) selectShard(ctx context.Context) int {
	if id, ok := txClaim(ctx); ok {
		h := fnv.New32a()
		_, _ = h.Write([]byte(id.String()))
		return int(h.Sum32() % numClaimShards)
	}
	return 0
}
