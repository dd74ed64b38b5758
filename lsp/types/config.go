package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/cssa/internal/quickfix"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig marks errors caused by settings the user must fix.
// They are shown to the user rather than only logged.
var ErrInvalidConfig = errors.New("invalid css-actions configuration")

// SettingsKeys are the keys client settings may nest the configuration
// under; cssAction is the key older editor extensions used.
var SettingsKeys = []string{"cssActions", "css-actions", "cssAction"}

// ProjectConfigFiles are the workspace-relative files configuration is read
// from, besides client settings
var ProjectConfigFiles = []string{
	"package.json",
	".config/css-actions.yaml",
	".config/css-actions.yml",
	".config/css-actions.json",
}

// IsProjectConfigFile reports whether path is one of ProjectConfigFiles
// under root.
func IsProjectConfigFile(root, path string) bool {
	if root == "" {
		return false
	}
	clean := filepath.Clean(path)
	for _, name := range ProjectConfigFiles {
		if clean == filepath.Join(root, filepath.FromSlash(name)) {
			return true
		}
	}
	return false
}

// StringList is a list of strings that also accepts a single string when
// decoded from JSON or YAML.
type StringList []string

// UnmarshalJSON accepts "a" as well as ["a", "b"]
func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = list
	return nil
}

// UnmarshalYAML accepts a scalar as well as a sequence
func (l *StringList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*l = StringList{node.Value}
		return nil
	}
	var list []string
	if err := node.Decode(&list); err != nil {
		return fmt.Errorf("expected a string or a list of strings: %w", err)
	}
	*l = list
	return nil
}

// ServerConfig represents the server configuration. A value is never
// modified once the server has stored it; changes produce a new value.
type ServerConfig struct {
	// VariablesFile names the files declaring $, @ or -- variables.
	// Paths are relative to the workspace root and may be doublestar globs.
	VariablesFile StringList `json:"variablesFile,omitempty" yaml:"variablesFile,omitempty"`

	// ColorVariablesFile is the older single-file spelling of VariablesFile
	ColorVariablesFile string `json:"colorVariablesFile,omitempty" yaml:"colorVariablesFile,omitempty"`

	// PxSearchRegex finds size fragments. Empty means the builtin pattern.
	PxSearchRegex string `json:"pxSearchRegex,omitempty" yaml:"pxSearchRegex,omitempty"`

	// ColorSearchRegex finds color fragments. Empty means the builtin pattern.
	ColorSearchRegex string `json:"colorSearchRegex,omitempty" yaml:"colorSearchRegex,omitempty"`

	// RootFontSize is the px size of 1rem
	RootFontSize float64 `json:"rootFontSize,omitempty" yaml:"rootFontSize,omitempty"`

	// PxReplaceOptions are the size replacement templates, in offer order
	PxReplaceOptions []string `json:"pxReplaceOptions,omitempty" yaml:"pxReplaceOptions,omitempty"`

	// ColorReplaceOptions are the color replacement templates, in offer order
	ColorReplaceOptions []string `json:"colorReplaceOptions,omitempty" yaml:"colorReplaceOptions,omitempty"`

	// Languages are the language IDs that get code actions
	Languages []string `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// DefaultLanguages get code actions when none are configured
var DefaultLanguages = []string{"scss", "less", "sass", "css", "vue"}

// DefaultConfig returns the default server configuration
func DefaultConfig() ServerConfig {
	return ServerConfig{
		RootFontSize:        quickfix.DefaultRootFontSize,
		PxReplaceOptions:    append([]string(nil), quickfix.DefaultSizeTemplates...),
		ColorReplaceOptions: append([]string(nil), quickfix.DefaultColorTemplates...),
		Languages:           append([]string(nil), DefaultLanguages...),
	}
}

// Merge returns c with every field that is set in over replaced by over's
// value. Lists count as set when non-nil, so an explicit empty list clears.
func (c ServerConfig) Merge(over ServerConfig) ServerConfig {
	if over.VariablesFile != nil {
		c.VariablesFile = over.VariablesFile
	}
	if over.ColorVariablesFile != "" {
		c.ColorVariablesFile = over.ColorVariablesFile
	}
	if over.PxSearchRegex != "" {
		c.PxSearchRegex = over.PxSearchRegex
	}
	if over.ColorSearchRegex != "" {
		c.ColorSearchRegex = over.ColorSearchRegex
	}
	if over.RootFontSize != 0 {
		c.RootFontSize = over.RootFontSize
	}
	if over.PxReplaceOptions != nil {
		c.PxReplaceOptions = over.PxReplaceOptions
	}
	if over.ColorReplaceOptions != nil {
		c.ColorReplaceOptions = over.ColorReplaceOptions
	}
	if over.Languages != nil {
		c.Languages = over.Languages
	}
	return c
}

// VariablesFiles returns the configured variables file patterns, including
// the older colorVariablesFile key. Blank entries are dropped.
func (c ServerConfig) VariablesFiles() []string {
	var files []string
	for _, f := range c.VariablesFile {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	if f := strings.TrimSpace(c.ColorVariablesFile); f != "" {
		files = append(files, f)
	}
	return files
}

// Validate reports settings that cannot work.
func (c ServerConfig) Validate() error {
	if c.RootFontSize < 0 {
		return fmt.Errorf("%w: rootFontSize must be positive, got %v", ErrInvalidConfig, c.RootFontSize)
	}
	return nil
}

// EngineOptions maps the configuration onto quick-fix engine options.
func (c ServerConfig) EngineOptions() quickfix.Options {
	return quickfix.Options{
		SizePattern:    c.PxSearchRegex,
		ColorPattern:   c.ColorSearchRegex,
		RootFontSize:   c.RootFontSize,
		SizeTemplates:  c.PxReplaceOptions,
		ColorTemplates: c.ColorReplaceOptions,
	}
}

// ParseSettings decodes client settings. The configuration may be nested
// under one of SettingsKeys or given flat, as initializationOptions often
// are. Only keys present in settings are set on the result.
func ParseSettings(settings any) (ServerConfig, error) {
	var config ServerConfig
	if settings == nil {
		return config, nil
	}

	settingsMap, ok := settings.(map[string]any)
	if !ok {
		return config, fmt.Errorf("%w: settings must be an object, got %T", ErrInvalidConfig, settings)
	}

	var ours any = settingsMap
	for _, key := range SettingsKeys {
		if val, exists := settingsMap[key]; exists {
			ours = val
			break
		}
	}

	// Round-trip through JSON to reuse the struct tags
	data, err := json.Marshal(ours)
	if err != nil {
		return config, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return config, nil
}
