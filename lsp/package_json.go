package lsp

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"bennypowers.dev/padls/lsp/types"
	"github.com/tidwall/jsonc"
)

// PackageJSONKey is the package.json field holding server settings
const PackageJSONKey = types.SettingsKey

// readPackageJsonFile reads and parses package.json from the given root path.
// Returns the parsed JSON as a map, or nil if the file doesn't exist.
func readPackageJsonFile(rootPath string) (map[string]json.RawMessage, error) {
	packageJSONPath := filepath.Join(rootPath, "package.json")

	if _, err := os.Stat(packageJSONPath); os.IsNotExist(err) {
		return nil, nil // Not an error, just no config
	}

	data, err := os.ReadFile(packageJSONPath) //nolint:gosec // G304: Reading workspace package.json - local trusted environment
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	// Parse as JSONC (allows comments)
	data = jsonc.ToJSON(data)

	var pkgJSON map[string]json.RawMessage
	if err := json.Unmarshal(data, &pkgJSON); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}

	return pkgJSON, nil
}

// ReadPackageJsonConfig reads padLanguageServer configuration from package.json.
// Returns nil if no configuration exists (not an error).
func ReadPackageJsonConfig(rootPath string) (*types.ServerConfig, error) {
	if rootPath == "" {
		return nil, nil
	}

	pkgJSON, err := readPackageJsonFile(rootPath)
	if err != nil || pkgJSON == nil {
		return nil, err
	}

	raw, ok := pkgJSON[PackageJSONKey]
	if !ok || string(raw) == "null" {
		return nil, nil
	}

	var config types.ServerConfig
	if err := json.Unmarshal(raw, &config); err != nil {
		return nil, fmt.Errorf("%s must be an object: %w", PackageJSONKey, err)
	}
	return &config, nil
}
