package testutil

import (
	"fmt"
	"sync"

	"bennypowers.dev/cssa/internal/documents"
	"bennypowers.dev/cssa/internal/quickfix"
	"bennypowers.dev/cssa/internal/variables"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	"go.uber.org/multierr"
)

// MockServerContext implements types.ServerContext for testing.
// Files live in an in-memory afero filesystem, and ReloadEngine really
// builds an engine from them unless ReloadEngineFunc replaces it.
type MockServerContext struct {
	mu           sync.Mutex
	docs         *documents.Manager
	fs           afero.Fs
	rootURI      string
	rootPath     string
	config       types.ServerConfig
	engine       *quickfix.Engine
	dynamicWatch bool
	glspContext  *glsp.Context

	// Optional callbacks for custom behavior in tests
	LoadProjectConfigFunc func() error
	ReloadEngineFunc      func() error
	RegisterWatchersFunc  func(*glsp.Context) error

	// Tracking flags for tests that need to verify methods were called
	LoadProjectConfigCalled bool
	ReloadEngineCalled      int
	RegisterWatchersCalled  bool
}

// NewMockServerContext creates a mock with default configuration, an empty
// engine and an empty in-memory filesystem.
func NewMockServerContext() *MockServerContext {
	engine, _ := quickfix.NewEngine(types.DefaultConfig().EngineOptions(), nil)
	return &MockServerContext{
		docs:   documents.NewManager(),
		fs:     afero.NewMemMapFs(),
		config: types.DefaultConfig(),
		engine: engine,
	}
}

// WriteFile adds a file to the mock filesystem.
func (m *MockServerContext) WriteFile(path, content string) error {
	return afero.WriteFile(m.fs, path, []byte(content), 0o644)
}

// SetEngine replaces the current engine.
func (m *MockServerContext) SetEngine(engine *quickfix.Engine) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engine = engine
}

// Document returns the document with the given URI
func (m *MockServerContext) Document(uri string) *documents.Document {
	return m.docs.Get(uri)
}

// DocumentManager returns the document manager
func (m *MockServerContext) DocumentManager() *documents.Manager {
	return m.docs
}

// RootURI returns the workspace root URI
func (m *MockServerContext) RootURI() string {
	return m.rootURI
}

// RootPath returns the workspace root path
func (m *MockServerContext) RootPath() string {
	return m.rootPath
}

// SetRootURI sets the workspace root URI
func (m *MockServerContext) SetRootURI(uri string) {
	m.rootURI = uri
}

// SetRootPath sets the workspace root path
func (m *MockServerContext) SetRootPath(path string) {
	m.rootPath = path
}

// Fs returns the in-memory filesystem
func (m *MockServerContext) Fs() afero.Fs {
	return m.fs
}

// GetConfig returns the configuration
func (m *MockServerContext) GetConfig() types.ServerConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// SetConfig replaces the configuration as given, without merging
func (m *MockServerContext) SetConfig(config types.ServerConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.config = config
}

// LoadProjectConfig records the call
func (m *MockServerContext) LoadProjectConfig() error {
	m.LoadProjectConfigCalled = true
	if m.LoadProjectConfigFunc != nil {
		return m.LoadProjectConfigFunc()
	}
	return nil
}

// Engine returns the current engine
func (m *MockServerContext) Engine() *quickfix.Engine {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine
}

// ReloadEngine loads the configured variables files from the mock
// filesystem and swaps in a new engine.
func (m *MockServerContext) ReloadEngine() error {
	m.ReloadEngineCalled++
	if m.ReloadEngineFunc != nil {
		return m.ReloadEngineFunc()
	}

	cfg := m.GetConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}
	idx := variables.Empty()
	var errs error
	if files := cfg.VariablesFiles(); len(files) > 0 {
		idx, _, errs = variables.Load(m.fs, m.rootPath, files)
	}
	engine, err := quickfix.NewEngine(cfg.EngineOptions(), idx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err))
	}
	m.SetEngine(engine)
	return errs
}

// IsVariablesFile reports whether path matches a configured variables file
func (m *MockServerContext) IsVariablesFile(path string) bool {
	return variables.Matches(m.rootPath, m.GetConfig().VariablesFiles(), path)
}

// SupportsDynamicFileWatch returns the recorded client capability
func (m *MockServerContext) SupportsDynamicFileWatch() bool {
	return m.dynamicWatch
}

// SetSupportsDynamicFileWatch records the client capability
func (m *MockServerContext) SetSupportsDynamicFileWatch(supported bool) {
	m.dynamicWatch = supported
}

// RegisterFileWatchers records the call
func (m *MockServerContext) RegisterFileWatchers(ctx *glsp.Context) error {
	m.RegisterWatchersCalled = true
	if m.RegisterWatchersFunc != nil {
		return m.RegisterWatchersFunc(ctx)
	}
	return nil
}

// GLSPContext returns the GLSP context
func (m *MockServerContext) GLSPContext() *glsp.Context {
	return m.glspContext
}

// SetGLSPContext sets the GLSP context
func (m *MockServerContext) SetGLSPContext(ctx *glsp.Context) {
	m.glspContext = ctx
}

// ClientRecorder captures what a handler sends to the client.
type ClientRecorder struct {
	mu            sync.Mutex
	Notifications []Message
	Calls         []Message
}

// Message is one notification or request sent to the client.
type Message struct {
	Method string
	Params any
}

// Context returns a glsp.Context whose Notify and Call record into r.
// Call leaves result untouched.
func (r *ClientRecorder) Context(method string) *glsp.Context {
	return &glsp.Context{
		Method: method,
		Notify: func(method string, params any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Notifications = append(r.Notifications, Message{method, params})
		},
		Call: func(method string, params, result any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.Calls = append(r.Calls, Message{method, params})
		},
	}
}

// NotificationsFor returns the recorded notifications with the given method.
func (r *ClientRecorder) NotificationsFor(method string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, n := range r.Notifications {
		if n.Method == method {
			out = append(out, n)
		}
	}
	return out
}

// CallsFor returns the recorded requests with the given method.
func (r *ClientRecorder) CallsFor(method string) []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Message
	for _, c := range r.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}
