package types

import (
	"bennypowers.dev/cssa/internal/documents"
	"bennypowers.dev/cssa/internal/quickfix"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
)

// ServerContext provides all dependencies needed for LSP handlers.
// Handlers depend on this interface so tests can substitute a mock.
type ServerContext interface {
	// Document operations
	Document(uri string) *documents.Document
	DocumentManager() *documents.Manager

	// Workspace operations
	RootURI() string
	RootPath() string
	SetRootURI(uri string)
	SetRootPath(path string)
	Fs() afero.Fs

	// Configuration. GetConfig returns the effective configuration: defaults,
	// then project files, then client settings.
	GetConfig() ServerConfig
	SetConfig(config ServerConfig)
	LoadProjectConfig() error

	// Engine returns the current quick-fix snapshot. It is never nil.
	Engine() *quickfix.Engine
	// ReloadEngine re-reads the variables files and swaps in a new engine
	// built from the effective configuration.
	ReloadEngine() error
	IsVariablesFile(path string) bool

	// Client capabilities and file watching
	SupportsDynamicFileWatch() bool
	SetSupportsDynamicFileWatch(supported bool)
	RegisterFileWatchers(ctx *glsp.Context) error

	// LSP context (for messages outside a request)
	GLSPContext() *glsp.Context
	SetGLSPContext(ctx *glsp.Context)
}
