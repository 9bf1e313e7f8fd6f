package lifecycle

import (
	"errors"
	"testing"

	"bennypowers.dev/padls/lsp/testutil"
	"bennypowers.dev/padls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestInitialized(t *testing.T) {
	t.Run("stores GLSP context", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		glspCtx := &glsp.Context{}
		req := types.NewRequestContext(ctx, glspCtx)

		err := Initialized(req, &protocol.InitializedParams{})
		assert.NoError(t, err)
		assert.Equal(t, glspCtx, ctx.GLSPContext())
	})

	t.Run("loads config, indexes images and registers watchers", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		req := types.NewRequestContext(ctx, &glsp.Context{})

		err := Initialized(req, &protocol.InitializedParams{})
		assert.NoError(t, err)
		assert.True(t, ctx.LoadConfigCalled)
		assert.Equal(t, 1, ctx.RefreshImagesCalled)
		assert.True(t, ctx.RegisterWatchersCalled)
		assert.False(t, req.HasWarnings())
	})

	t.Run("continues on LoadConfig error", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.LoadConfigFunc = func() error {
			return errors.New("load error")
		}
		req := types.NewRequestContext(ctx, &glsp.Context{})

		err := Initialized(req, &protocol.InitializedParams{})
		assert.NoError(t, err)
		assert.True(t, ctx.RegisterWatchersCalled, "later steps still run")
		assert.Len(t, req.Warnings(), 1)
	})

	t.Run("continues on RegisterFileWatchers error", func(t *testing.T) {
		ctx := testutil.NewMockServerContext()
		ctx.RegisterWatchersFunc = func(*glsp.Context) error {
			return errors.New("watch error")
		}
		req := types.NewRequestContext(ctx, &glsp.Context{})

		err := Initialized(req, &protocol.InitializedParams{})
		assert.NoError(t, err)
		assert.Len(t, req.Warnings(), 1)
	})
}
