package lsp

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"bennypowers.dev/padls/internal/log"
	"bennypowers.dev/padls/lsp/types"
	"gopkg.in/yaml.v3"
)

// GetConfig returns the effective configuration: client settings, then
// workspace files, then defaults
func (s *Server) GetConfig() types.ServerConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.config.Merge(s.fileConfig).Merge(types.DefaultConfig())
}

// SetConfig replaces the client settings
func (s *Server) SetConfig(config types.ServerConfig) {
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config = config
}

// LoadConfig reads package.json and .padls.yaml from the workspace root.
// package.json takes precedence over the YAML file for fields both set.
// A broken file is reported but does not discard the other.
func (s *Server) LoadConfig() error {
	root := s.RootPath()
	if root == "" {
		return nil // No workspace, nothing to load
	}

	var errs []error
	var fileConfig types.ServerConfig

	pkgConfig, err := ReadPackageJsonConfig(root)
	if err != nil {
		errs = append(errs, err)
	} else if pkgConfig != nil {
		log.Info("Loaded %s from package.json", PackageJSONKey)
		fileConfig = *pkgConfig
	}

	yamlConfig, name, err := ReadYAMLConfig(root)
	if err != nil {
		errs = append(errs, err)
	} else if yamlConfig != nil {
		log.Info("Loaded configuration from %s", name)
		fileConfig = fileConfig.Merge(*yamlConfig)
	}

	s.configMu.Lock()
	s.fileConfig = fileConfig
	s.configMu.Unlock()

	return errors.Join(errs...)
}

// ReadYAMLConfig reads the first of the types.ConfigFileNames present under rootPath.
// Returns nil if none exists (not an error), with the file's name otherwise.
func ReadYAMLConfig(rootPath string) (*types.ServerConfig, string, error) {
	for _, name := range types.ConfigFileNames {
		path := filepath.Join(rootPath, name)
		data, err := os.ReadFile(path) //nolint:gosec // G304: Reading workspace config - local trusted environment
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, name, fmt.Errorf("failed to read %s: %w", name, err)
		}

		var config types.ServerConfig
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, name, fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return &config, name, nil
	}
	return nil, "", nil
}
