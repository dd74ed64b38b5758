package lsp

import (
	"context"
	"sync"
	"sync/atomic"

	"bennypowers.dev/cssa/internal/documents"
	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/quickfix"
	"bennypowers.dev/cssa/internal/watcher"
	"bennypowers.dev/cssa/lsp/methods/lifecycle"
	"bennypowers.dev/cssa/lsp/methods/textDocument"
	codeaction "bennypowers.dev/cssa/lsp/methods/textDocument/codeAction"
	"bennypowers.dev/cssa/lsp/methods/textDocument/completion"
	documentcolor "bennypowers.dev/cssa/lsp/methods/textDocument/documentColor"
	"bennypowers.dev/cssa/lsp/methods/workspace"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"
)

// Name is the server name reported to clients
const Name = "css-actions-language-server"

// Verify that Server implements ServerContext interface
var _ types.ServerContext = (*Server)(nil)

// Server represents the CSS Actions Language Server
type Server struct {
	documents  *documents.Manager
	fs         afero.Fs
	glspServer *server.Server
	context    *glsp.Context

	rootURI       string             // Workspace root URI
	rootPath      string             // Workspace root path (file system)
	clientConfig  types.ServerConfig // Settings sent by the client
	projectConfig types.ServerConfig // Settings read from package.json and .config/
	dynamicWatch  bool               // Client can register watched files dynamically
	configMu      sync.RWMutex       // Protects the fields above

	engine   atomic.Pointer[quickfix.Engine]
	reloadMu sync.Mutex // Serializes ReloadEngine

	watchMu        sync.Mutex
	watcher        *watcher.Watcher
	stopWatcher    context.CancelFunc
	registrationID string
	registrations  atomic.Int64
}

// NewServer creates a new CSS Actions LSP server reading from the OS filesystem
func NewServer() (*Server, error) {
	return NewServerWithFs(afero.NewOsFs())
}

// NewServerWithFs creates a server that reads variables and configuration
// files from fsys.
func NewServerWithFs(fsys afero.Fs) (*Server, error) {
	s := &Server{
		documents: documents.NewManager(),
		fs:        fsys,
	}
	engine, err := quickfix.NewEngine(types.DefaultConfig().EngineOptions(), nil)
	if err != nil {
		return nil, err
	}
	s.engine.Store(engine)

	// Create the GLSP server with our handlers wrapped with middleware
	protocolHandler := protocol.Handler{
		Initialize:                      method(s, "initialize", lifecycle.Initialize),
		Initialized:                     notify(s, "initialized", lifecycle.Initialized),
		Shutdown:                        noParam(s, "shutdown", lifecycle.Shutdown),
		SetTrace:                        notify(s, "$/setTrace", lifecycle.SetTrace),
		WorkspaceDidChangeConfiguration: notify(s, "workspace/didChangeConfiguration", workspace.DidChangeConfiguration),
		WorkspaceDidChangeWatchedFiles:  notify(s, "workspace/didChangeWatchedFiles", workspace.DidChangeWatchedFiles),
		WorkspaceExecuteCommand:         method(s, "workspace/executeCommand", workspace.ExecuteCommand),
		TextDocumentDidOpen:             notify(s, "textDocument/didOpen", textDocument.DidOpen),
		TextDocumentDidChange:           notify(s, "textDocument/didChange", textDocument.DidChange),
		TextDocumentDidClose:            notify(s, "textDocument/didClose", textDocument.DidClose),
		TextDocumentCompletion:          method(s, "textDocument/completion", completion.Completion),
		CompletionItemResolve:           method(s, "completionItem/resolve", completion.CompletionResolve),
		TextDocumentColor:               method(s, "textDocument/documentColor", documentcolor.DocumentColor),
		TextDocumentColorPresentation:   method(s, "textDocument/colorPresentation", documentcolor.ColorPresentation),
		TextDocumentCodeAction:          method(s, "textDocument/codeAction", codeaction.CodeAction),
		CodeActionResolve:               method(s, "codeAction/resolve", codeaction.CodeActionResolve),
	}

	s.glspServer = server.NewServer(&protocolHandler, Name, log.GetLevel() == log.LevelDebug)

	return s, nil
}

// RunStdio starts the LSP server using stdio transport
func (s *Server) RunStdio() error {
	return s.glspServer.RunStdio()
}

// Close stops the fallback file watcher, if one is running.
// It is safe to call Close multiple times.
func (s *Server) Close() error {
	return s.stopFallbackWatcher()
}

// ServerContext interface implementation

// Document returns the document with the given URI
func (s *Server) Document(uri string) *documents.Document {
	return s.documents.Get(uri)
}

// DocumentManager returns the document manager
func (s *Server) DocumentManager() *documents.Manager {
	return s.documents
}

// Fs returns the filesystem variables and configuration files are read from
func (s *Server) Fs() afero.Fs {
	return s.fs
}

// RootURI returns the workspace root URI
func (s *Server) RootURI() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootURI
}

// RootPath returns the workspace root path
func (s *Server) RootPath() string {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.rootPath
}

// SetRootURI sets the workspace root URI
func (s *Server) SetRootURI(uri string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootURI = uri
}

// SetRootPath sets the workspace root path
func (s *Server) SetRootPath(path string) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.rootPath = path
}

// SupportsDynamicFileWatch reports whether the client registers watched
// files on the server's behalf.
func (s *Server) SupportsDynamicFileWatch() bool {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.dynamicWatch
}

// SetSupportsDynamicFileWatch records the client's watched-files capability
func (s *Server) SetSupportsDynamicFileWatch(supported bool) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.dynamicWatch = supported
}

// GLSPContext returns the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) GLSPContext() *glsp.Context {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.context
}

// SetGLSPContext sets the GLSP context.
// Access is protected by configMu to prevent concurrent races.
func (s *Server) SetGLSPContext(ctx *glsp.Context) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.context = ctx
}
