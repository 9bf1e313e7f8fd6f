package lifecycle

import (
	"testing"

	"bennypowers.dev/padls/internal/parser"
	"bennypowers.dev/padls/lsp/testutil"
	"bennypowers.dev/padls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
)

func TestShutdown(t *testing.T) {
	req := types.NewRequestContext(testutil.NewMockServerContext(), &glsp.Context{})

	require.NoError(t, Shutdown(req))
	// Pools refill on demand, so extraction keeps working after shutdown
	layouts := parser.Extract("javascript", "pad`A`", parser.DefaultOptions())
	assert.Len(t, layouts, 1)
	assert.NoError(t, Shutdown(req), "shutdown is idempotent")
}
