package cli

import "context"

func contextWithCommand(ctx context.Context, info commandContext) context.Context {
	return context.WithValue(ctx, commandContextKey{}, info)
}

func commandFromContext(ctx context.Context) (commandContext, bool) {
	info, ok := ctx.Value(commandContextKey{}).(commandContext)
	return info, ok
}
