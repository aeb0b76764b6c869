// Package auth carries the authenticated acting user through context.Context.
package auth

import "context"

// Actor authenticated user performing the current request
type Actor struct {
	ID       uint64
	Nickname string
	Level    int
}

type actorKey struct{}

// WithActor returns a copy of ctx carrying the actor
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// FromContext returns the actor stored in ctx, if any
func FromContext(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.ID == 0 {
		return Actor{}, false
	}
	return a, true
}

// UserID returns the acting user id, 0 when the request is anonymous
// or system initiated
func UserID(ctx context.Context) uint64 {
	a, _ := FromContext(ctx)
	return a.ID
}
