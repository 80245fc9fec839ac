package metrics

import "context"

type contextValue int

const (
	publishObserved contextValue = iota
)

// setPublishObservedToCtx is used to achieve metrics idempotency in case of double applied decorator
func setPublishObservedToCtx(ctx context.Context) context.Context {
	return context.WithValue(ctx, publishObserved, true)
}

func publishAlreadyObserved(ctx context.Context) bool {
	return ctx.Value(publishObserved) != nil
}
