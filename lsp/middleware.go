package lsp

import (
	"fmt"
	"runtime/debug"

	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/methods/workspace"
	"bennypowers.dev/padls/lsp/types"
	"github.com/tliron/glsp"
)

// method wraps an LSP handler that returns (result, error) with middleware.
// Returns the underlying function type so it's compatible with protocol.Handler field types
func method[P, R any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) (R, error),
) func(*glsp.Context, P) (R, error) {
	return func(ctx *glsp.Context, params P) (result R, err error) {
		// Panic recovery - prevents LSP server crashes
		defer func() {
			if r := recover(); r != nil {
				log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
				workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
				var zero R
				result = zero
			}
		}()

		log.Debug("%s started", methodName)

		req := types.NewRequestContext(s, ctx)
		result, err = handler(req, params)

		if err != nil {
			log.Error("%s error: %v", methodName, err)
			workspace.LogError(ctx, "%s: %v", methodName, err)
			return result, fmt.Errorf("%s: %w", methodName, err)
		}

		logWarnings(methodName, req)
		log.Debug("%s completed", methodName)
		return result, nil
	}
}

// notify wraps an LSP notification handler that returns only error
func notify[P any](
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext, P) error,
) func(*glsp.Context, P) error {
	return func(ctx *glsp.Context, params P) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
				workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
			}
		}()

		log.Debug("%s started", methodName)

		req := types.NewRequestContext(s, ctx)
		err = handler(req, params)

		if err != nil {
			log.Error("%s error: %v", methodName, err)
			workspace.LogError(ctx, "%s: %v", methodName, err)
			return fmt.Errorf("%s: %w", methodName, err)
		}

		logWarnings(methodName, req)
		log.Debug("%s completed", methodName)
		return nil
	}
}

// noParam wraps an LSP handler that takes no params (like Shutdown)
func noParam(
	s types.ServerContext,
	methodName string,
	handler func(*types.RequestContext) error,
) func(*glsp.Context) error {
	return func(ctx *glsp.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("PANIC in %s: %v\nStack trace:\n%s", methodName, r, debug.Stack())
				workspace.LogError(ctx, "Internal error in %s: %v", methodName, r)
				err = fmt.Errorf("internal error in %s", methodName)
			}
		}()

		log.Debug("%s started", methodName)

		req := types.NewRequestContext(s, ctx)
		err = handler(req)

		if err != nil {
			log.Error("%s error: %v", methodName, err)
			workspace.LogError(ctx, "%s: %v", methodName, err)
			return fmt.Errorf("%s: %w", methodName, err)
		}

		logWarnings(methodName, req)
		log.Debug("%s completed", methodName)
		return nil
	}
}

// logWarnings reports the non-fatal problems a handler collected to stderr and the client
func logWarnings(methodName string, req *types.RequestContext) {
	for _, w := range req.Warnings() {
		workspace.LogWarning(req.GLSP, "%s: %v", methodName, w)
	}
}
