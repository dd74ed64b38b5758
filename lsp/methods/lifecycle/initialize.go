package lifecycle

import (
	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/uriutil"
	"bennypowers.dev/cssa/internal/version"
	"bennypowers.dev/cssa/lsp/methods/workspace"
	"bennypowers.dev/cssa/lsp/types"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ServerName is reported to the client in the initialize result
const ServerName = "css-actions-language-server"

// CompletionTriggers start a variable completion
var CompletionTriggers = []string{"$", "@", "-"}

// Initialize handles the LSP initialize request
func Initialize(req *types.RequestContext, params *protocol.InitializeParams) (any, error) {
	clientName := "unknown"
	if params.ClientInfo != nil {
		clientName = params.ClientInfo.Name
	}

	log.Info("Initializing for client: %s", clientName)

	// Store the workspace root
	if params.RootURI != nil {
		req.Server.SetRootURI(*params.RootURI)
		// Convert URI to file path
		req.Server.SetRootPath(uriutil.URIToPath(*params.RootURI))
		log.Info("Workspace root: %s", req.Server.RootPath())
	} else if params.RootPath != nil {
		req.Server.SetRootPath(*params.RootPath)
		req.Server.SetRootURI(uriutil.PathToURI(*params.RootPath))
		log.Info("Workspace root (from rootPath): %s", req.Server.RootPath())
	}

	if params.InitializationOptions != nil {
		config, err := types.ParseSettings(params.InitializationOptions)
		if err != nil {
			req.AddWarning(err)
		} else {
			req.Server.SetConfig(config)
		}
	}

	dynamicWatch := supportsDynamicWatch(params.Capabilities)
	req.Server.SetSupportsDynamicFileWatch(dynamicWatch)
	log.Debug("Client registers watched files: %t", dynamicWatch)

	syncKind := protocol.TextDocumentSyncKindIncremental
	return protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: protocol.TextDocumentSyncOptions{
				OpenClose: boolPtr(true),
				Change:    &syncKind,
			},
			CompletionProvider: &protocol.CompletionOptions{
				TriggerCharacters: CompletionTriggers,
				ResolveProvider:   boolPtr(true),
			},
			CodeActionProvider: protocol.CodeActionOptions{
				CodeActionKinds: []protocol.CodeActionKind{protocol.CodeActionKindQuickFix},
				ResolveProvider: boolPtr(true),
			},
			ColorProvider: true,
			ExecuteCommandProvider: &protocol.ExecuteCommandOptions{
				Commands: workspace.Commands,
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    ServerName,
			Version: strPtr(version.GetVersion()),
		},
	}, nil
}

func supportsDynamicWatch(caps protocol.ClientCapabilities) bool {
	if caps.Workspace == nil || caps.Workspace.DidChangeWatchedFiles == nil {
		return false
	}
	dyn := caps.Workspace.DidChangeWatchedFiles.DynamicRegistration
	return dyn != nil && *dyn
}

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}
