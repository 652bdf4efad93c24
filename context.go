package sel

import (
	"context"
	"path"
)

// ctxKey is a magic type used as a unique key for ctx.Value attachments.
//
// We have exactly one such key and store all further information in a struct
// underneath it, since every attachment costs an allocation and another link
// in the context chain.
type ctxKey struct{}

type ctxInfo struct {
	name string
	path string
}

func readCtx(ctx context.Context) (ctxInfo, bool) {
	v, ok := ctx.Value(ctxKey{}).(ctxInfo)
	return v, ok
}

func appendCtxInfo(ctx context.Context, name string) context.Context {
	parent, _ := readCtx(ctx)
	return context.WithValue(ctx, ctxKey{}, ctxInfo{
		name: name,
		path: path.Join(parent.path, name),
	})
}

// ContextName returns the name of the task running with this context,
// or "[unmanaged]" outside of ForkJoin.
func ContextName(ctx context.Context) string {
	if info, ok := readCtx(ctx); ok {
		return info.name
	}
	return "[unmanaged]"
}

// ContextPath returns the slash-separated names of the task and all of its
// ForkJoin parents, e.g. "main/producers/p-3".
func ContextPath(ctx context.Context) string {
	if info, ok := readCtx(ctx); ok {
		return info.path
	}
	return "[unmanaged]"
}
