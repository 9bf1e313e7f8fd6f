package lifecycle

import (
	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// SetTrace handles the $/setTrace notification.
// "verbose" turns on debug logging; anything else restores info.
func SetTrace(req *types.RequestContext, params *protocol.SetTraceParams) error {
	log.Info("Trace level set to: %s", params.Value)
	if params.Value == protocol.TraceValueVerbose {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetLevel(log.LevelInfo)
	}
	return nil
}
