package shared

import "context"

type actorKey struct{}

// SystemActor is recorded when no authenticated user is on the context
const SystemActor = "system"

// WithActor stores the username performing the current operation
func WithActor(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, actorKey{}, username)
}

// ActorFrom returns the username stored by WithActor, or SystemActor
func ActorFrom(ctx context.Context) string {
	if u, ok := ctx.Value(actorKey{}).(string); ok && u != "" {
		return u
	}
	return SystemActor
}
