package lifecycle

import (
	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp/methods/workspace"
	"bennypowers.dev/cssa/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// Initialized handles the LSP initialized notification
func Initialized(req *types.RequestContext, params *protocol.InitializedParams) error {
	log.Info("Server initialized")

	// Store context for messages sent outside a request
	req.Server.SetGLSPContext(req.GLSP)

	if err := req.Server.LoadProjectConfig(); err != nil {
		// Don't fail initialization, just report the error
		workspace.ReportReload(req.GLSP, err)
	}

	workspace.ReportReload(req.GLSP, req.Server.ReloadEngine())

	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}

	return nil
}
