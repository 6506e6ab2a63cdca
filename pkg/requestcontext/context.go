// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Middleware sets these values; services consume them. Keeping the package
// free of net/http lets services read request metadata without pulling in
// transport code.
package requestcontext

import (
	"context"
	"time"
)

// Actor identifies who is performing an operation. Identity is established
// upstream; this core only consumes it.
type Actor struct {
	ID   string
	Role string
}

// RoleAdmin marks actors allowed to adjudicate claims and withdraw items.
const RoleAdmin = "admin"

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
func (a Actor) IsZero() bool  { return a.ID == "" }

type (
	actorKey       struct{}
	requestIDKey   struct{}
	clientInfoKey  struct{}
	requestTimeKey struct{}
)

// ActorFrom retrieves the authenticated actor from the context.
// Returns the zero Actor if not set.
func ActorFrom(ctx context.Context) Actor {
	if a, ok := ctx.Value(actorKey{}).(Actor); ok {
		return a
	}
	return Actor{}
}

// WithActor injects an actor into the context.
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// ClientInfo retrieves a compact client description (browser/OS) captured by
// middleware. Used to enrich audit entries for forensics.
func ClientInfo(ctx context.Context) string {
	if info, ok := ctx.Value(clientInfoKey{}).(string); ok {
		return info
	}
	return ""
}

// WithClientInfo injects a client description into the context.
func WithClientInfo(ctx context.Context, info string) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts (workers, tests without setup).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for tests that
// need deterministic timestamps.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
