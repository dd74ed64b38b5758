package lsp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"bennypowers.dev/cssa/internal/log"
	"bennypowers.dev/cssa/lsp/types"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ReadProjectConfig reads the server configuration stored in the workspace:
// the first of .config/css-actions.{yaml,yml,json}, overridden by the
// cssActions key of package.json. Missing files are not an error; the
// result then has no fields set.
func ReadProjectConfig(fsys afero.Fs, rootPath string) (types.ServerConfig, error) {
	var config types.ServerConfig
	if rootPath == "" {
		return config, nil
	}

	fileConfig, err := readConfigDir(fsys, rootPath)
	if err != nil {
		return config, err
	}
	pkgConfig, err := readPackageJsonConfig(fsys, rootPath)
	if err != nil {
		return config, err
	}

	return config.Merge(fileConfig).Merge(pkgConfig), nil
}

// readConfigDir reads the first existing .config/css-actions file.
func readConfigDir(fsys afero.Fs, rootPath string) (types.ServerConfig, error) {
	var config types.ServerConfig
	for _, name := range types.ProjectConfigFiles {
		if !strings.HasPrefix(name, ".config/") {
			continue
		}
		path := filepath.Join(rootPath, filepath.FromSlash(name))
		data, err := afero.ReadFile(fsys, path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return config, fmt.Errorf("failed to read %s: %w", path, err)
		}

		if strings.HasSuffix(name, ".json") {
			err = json.Unmarshal(jsonc.ToJSON(data), &config)
		} else {
			err = yaml.Unmarshal(data, &config)
		}
		if err != nil {
			return config, fmt.Errorf("%w: failed to parse %s: %w", types.ErrInvalidConfig, path, err)
		}
		log.Info("Loaded configuration from %s", path)
		return config, nil
	}
	return config, nil
}

// readPackageJsonConfig reads the cssActions key of package.json.
func readPackageJsonConfig(fsys afero.Fs, rootPath string) (types.ServerConfig, error) {
	var config types.ServerConfig
	path := filepath.Join(rootPath, "package.json")

	data, err := afero.ReadFile(fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil // Not an error, just no config
	}
	if err != nil {
		return config, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	var pkgJSON map[string]json.RawMessage
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkgJSON); err != nil {
		return config, fmt.Errorf("failed to parse package.json: %w", err)
	}

	for _, key := range types.SettingsKeys {
		raw, ok := pkgJSON[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &config); err != nil {
			return config, fmt.Errorf("%w: package.json %s: %w", types.ErrInvalidConfig, key, err)
		}
		log.Info("Loaded configuration from package.json %s", key)
		return config, nil
	}
	return config, nil
}
