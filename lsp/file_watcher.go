package lsp

import (
	"context"
	"fmt"
	"path/filepath"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/watcher"
	"bennypowers.dev/cssa/lsp/methods/workspace"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/spf13/afero"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

const watchedFilesMethod = "workspace/didChangeWatchedFiles"

// RegisterFileWatchers watches the configured variables files and the
// project configuration files. Clients that support dynamic registration
// are asked to watch them; otherwise the server watches the disk itself.
// Calling it again replaces the previous registration.
func (s *Server) RegisterFileWatchers(context *glsp.Context) error {
	patterns := s.GetConfig().VariablesFiles()
	if s.SupportsDynamicFileWatch() {
		return s.registerClientWatchers(context, patterns)
	}
	return s.startFallbackWatcher(patterns)
}

// watchPatterns returns the glob patterns the client should watch, as
// forward-slash filesystem paths.
func (s *Server) watchPatterns(patterns []string) []string {
	root := s.RootPath()
	var globs []string
	for _, p := range patterns {
		// Glob patterns use filesystem paths, not URIs
		switch {
		case filepath.IsAbs(p):
			globs = append(globs, filepath.ToSlash(filepath.Clean(p)))
		case root != "":
			globs = append(globs, filepath.ToSlash(filepath.Join(root, p)))
		default:
			globs = append(globs, filepath.ToSlash(p))
		}
	}
	if root != "" {
		for _, name := range types.ProjectConfigFiles {
			globs = append(globs, filepath.ToSlash(filepath.Join(root, filepath.FromSlash(name))))
		}
	}
	return globs
}

func (s *Server) registerClientWatchers(context *glsp.Context, patterns []string) error {
	// Guard against nil or empty context (can happen in tests without real LSP connection)
	// An empty context (created with &glsp.Context{}) won't have Call initialized
	if context == nil || context.Call == nil {
		log.Info("Skipping file watcher registration (no client context)")
		return nil
	}

	watchers := []protocol.FileSystemWatcher{}
	for _, glob := range s.watchPatterns(patterns) {
		watchers = append(watchers, protocol.FileSystemWatcher{GlobPattern: glob})
	}

	s.watchMu.Lock()
	previous := s.registrationID
	s.registrationID = ""
	if len(watchers) > 0 {
		s.registrationID = fmt.Sprintf("css-actions-file-watcher-%d", s.registrations.Add(1))
	}
	id := s.registrationID
	s.watchMu.Unlock()

	if previous == "" && id == "" {
		log.Info("No file watchers to register")
		return nil
	}

	// client/registerCapability is a request, so it has to be sent from a
	// goroutine: calling it synchronously blocks the message loop that would
	// read the client's response.
	go func(ctx *glsp.Context) {
		if previous != "" {
			var result any
			ctx.Call("client/unregisterCapability", protocol.UnregistrationParams{
				Unregisterations: []protocol.Unregistration{{ID: previous, Method: watchedFilesMethod}},
			}, &result)
		}
		if id != "" {
			var result any
			ctx.Call("client/registerCapability", protocol.RegistrationParams{
				Registrations: []protocol.Registration{{
					ID:     id,
					Method: watchedFilesMethod,
					RegisterOptions: protocol.DidChangeWatchedFilesRegistrationOptions{
						Watchers: watchers,
					},
				}},
			}, &result)
			log.Info("File watcher registration completed")
		}
	}(context)

	log.Info("Sent file watcher registration request (%d watchers)", len(watchers))
	return nil
}

// startFallbackWatcher replaces the server-side watcher. It only runs on
// the OS filesystem.
func (s *Server) startFallbackWatcher(patterns []string) error {
	if err := s.stopFallbackWatcher(); err != nil {
		log.Warn("Failed to stop file watcher: %v", err)
	}
	if len(patterns) == 0 {
		return nil
	}
	if _, ok := s.fs.(*afero.OsFs); !ok {
		log.Debug("Not watching variables files: not on the OS filesystem")
		return nil
	}

	w, err := watcher.New(s.RootPath(), patterns, func([]string) {
		workspace.ReportReload(s.GLSPContext(), s.ReloadEngine())
	})
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("failed to watch variables files: %w", err)
	}

	s.watchMu.Lock()
	s.watcher = w
	s.stopWatcher = cancel
	s.watchMu.Unlock()

	log.Info("Watching variables files on disk")
	return nil
}

func (s *Server) stopFallbackWatcher() error {
	s.watchMu.Lock()
	w, cancel := s.watcher, s.stopWatcher
	s.watcher, s.stopWatcher = nil, nil
	s.watchMu.Unlock()

	if w == nil {
		return nil
	}
	cancel()
	return w.Close()
}
