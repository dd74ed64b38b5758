package workspace

import (
	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/uriutil"
	"bennypowers.dev/cssa/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// DidChangeWatchedFiles handles the workspace/didChangeWatchedFiles
// notification. Any change to a variables file rebuilds the engine; a
// change to a project configuration file reloads that first.
func DidChangeWatchedFiles(req *types.RequestContext, params *protocol.DidChangeWatchedFilesParams) error {
	log.Info("Watched files changed: %d files", len(params.Changes))

	var variablesChanged, configChanged bool
	for _, change := range params.Changes {
		path := uriutil.URIToPath(change.URI)
		log.Debug("File change: %s (type: %d)", path, change.Type)

		switch {
		case types.IsProjectConfigFile(req.Server.RootPath(), path):
			configChanged = true
		case req.Server.IsVariablesFile(path):
			variablesChanged = true
		}
	}

	if configChanged {
		if err := req.Server.LoadProjectConfig(); err != nil {
			ReportReload(req.GLSP, err)
		}
	}
	if configChanged || variablesChanged {
		log.Info("Rebuilding variable index")
		ReportReload(req.GLSP, req.Server.ReloadEngine())
	}
	if configChanged {
		if err := req.Server.RegisterFileWatchers(req.GLSP); err != nil {
			req.AddWarning(err)
		}
	}

	return nil
}
