package lsp

import (
	"fmt"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/internal/quickfix"
	"bennypowers.dev/cssa/internal/variables"
	"bennypowers.dev/cssa/lsp/types"
	"go.uber.org/multierr"
)

// GetConfig returns the effective configuration: defaults, overridden by
// project configuration files, overridden by client settings.
func (s *Server) GetConfig() types.ServerConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return types.DefaultConfig().Merge(s.projectConfig).Merge(s.clientConfig)
}

// SetConfig replaces the client settings layer
func (s *Server) SetConfig(config types.ServerConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.clientConfig = config
}

// LoadProjectConfig re-reads the project configuration files under the
// workspace root. Client settings keep precedence over them. On error the
// previous project configuration stays in effect.
func (s *Server) LoadProjectConfig() error {
	root := s.RootPath()
	if root == "" {
		return nil // No workspace, nothing to load
	}

	config, err := ReadProjectConfig(s.fs, root)
	if err != nil {
		return err
	}

	s.configMu.Lock()
	s.projectConfig = config
	s.configMu.Unlock()

	if files := config.VariablesFiles(); len(files) > 0 {
		log.Info("Loaded variablesFile from project configuration: %v", files)
	}
	return nil
}

// Engine returns the current quick-fix engine
func (s *Server) Engine() *quickfix.Engine {
	return s.engine.Load()
}

// ReloadEngine reads the configured variables files and swaps in an engine
// built from the effective configuration. Errors from unreadable files and
// from invalid patterns or templates are combined; the new engine is
// installed regardless, with whatever could be built. Only an invalid
// configuration keeps the previous engine.
func (s *Server) ReloadEngine() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	cfg := s.GetConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	idx := variables.Empty()
	var errs error
	if files := cfg.VariablesFiles(); len(files) > 0 {
		var loaded []string
		idx, loaded, errs = variables.Load(s.fs, s.RootPath(), files)
		log.Info("Loaded %d variables files, %d distinct values", len(loaded), idx.Len())
	} else {
		log.Info("No variablesFile configured, only rem conversions are offered")
	}

	engine, err := quickfix.NewEngine(cfg.EngineOptions(), idx)
	if err != nil {
		errs = multierr.Append(errs, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err))
	}
	s.engine.Store(engine)

	return errs
}

// IsVariablesFile reports whether path is selected by a configured variables file pattern
func (s *Server) IsVariablesFile(path string) bool {
	return variables.Matches(s.RootPath(), s.GetConfig().VariablesFiles(), path)
}
