package workspace

import (
	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeConfiguration handles the workspace/didChangeConfiguration
// notification. The new settings replace the previous client settings and
// a new engine is built from them.
func DidChangeConfiguration(req *types.RequestContext, params *protocol.DidChangeConfigurationParams) error {
	log.Info("Configuration changed")

	config, err := types.ParseSettings(params.Settings)
	if err != nil {
		// Keep the previous configuration
		ReportReload(req.GLSP, err)
		return nil
	}

	req.Server.SetConfig(config)
	log.Debug("New client configuration: %+v", config)

	ReportReload(req.GLSP, req.Server.ReloadEngine())

	// The variables files may have moved
	if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
		req.AddWarning(err)
	}

	return nil
}
