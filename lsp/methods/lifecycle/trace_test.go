package lifecycle

import (
	"bytes"
	"os"
	"testing"

	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/testutil"
	"bennypowers.dev/padls/lsp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func TestSetTrace(t *testing.T) {
	var buf bytes.Buffer
	prev := log.GetLevel()
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetLevel(prev)
	})

	req := types.NewRequestContext(testutil.NewMockServerContext(), &glsp.Context{})

	require.NoError(t, SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValueVerbose}))
	log.Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	buf.Reset()
	require.NoError(t, SetTrace(req, &protocol.SetTraceParams{Value: protocol.TraceValueOff}))
	log.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}
