package types

import (
	"encoding/json"
	"path"
	"slices"

	"bennypowers.dev/padls/internal/geometry"
	"bennypowers.dev/padls/internal/images"
	"bennypowers.dev/padls/internal/parser"
	"github.com/bmatcuk/doublestar/v4"
)

// LayoutExtension marks a file whose whole content is a layout
const LayoutExtension = ".pad"

// ServerConfig represents the server configuration.
// A zero field means "not set": Merge fills it from a lower-precedence
// source and DefaultConfig supplies the last fallback.
type ServerConfig struct {
	// LayoutFiles are doublestar globs, relative to the workspace root, of
	// files read as layouts whatever their language
	LayoutFiles []string `json:"layoutFiles,omitempty" yaml:"layoutFiles,omitempty"`

	// TemplateTags are the JS/TS tag functions whose templates are layouts
	TemplateTags []string `json:"templateTags,omitempty" yaml:"templateTags,omitempty"`

	// ScriptTypes are the HTML <script type> values whose bodies are layouts
	ScriptTypes []string `json:"scriptTypes,omitempty" yaml:"scriptTypes,omitempty"`

	// ImageGlobs select the workspace files offered for IMG_ cells
	ImageGlobs []string `json:"imageGlobs,omitempty" yaml:"imageGlobs,omitempty"`

	// ValidateImages reports IMG_ cells naming files missing from the workspace
	ValidateImages *bool `json:"validateImages,omitempty" yaml:"validateImages,omitempty"`

	// CellWidth and CellHeight are an int for every column (row),
	// or a list with one int per column (row)
	CellWidth  any `json:"cellWidth,omitempty" yaml:"cellWidth,omitempty"`
	CellHeight any `json:"cellHeight,omitempty" yaml:"cellHeight,omitempty"`

	HGap   int `json:"hGap,omitempty" yaml:"hGap,omitempty"`
	VGap   int `json:"vGap,omitempty" yaml:"vGap,omitempty"`
	Border int `json:"border,omitempty" yaml:"border,omitempty"`
}

// DefaultConfig returns the default server configuration
func DefaultConfig() ServerConfig {
	validate := true
	opts := parser.DefaultOptions()
	return ServerConfig{
		LayoutFiles:    []string{},
		TemplateTags:   opts.TemplateTags,
		ScriptTypes:    opts.ScriptTypes,
		ImageGlobs:     slices.Clone(images.DefaultGlobs),
		ValidateImages: &validate,
		CellWidth:      geometry.DefaultCellSize,
		CellHeight:     geometry.DefaultCellSize,
	}
}

// Merge returns c with every unset field taken from fallback
func (c ServerConfig) Merge(fallback ServerConfig) ServerConfig {
	if len(c.LayoutFiles) == 0 {
		c.LayoutFiles = fallback.LayoutFiles
	}
	if len(c.TemplateTags) == 0 {
		c.TemplateTags = fallback.TemplateTags
	}
	if len(c.ScriptTypes) == 0 {
		c.ScriptTypes = fallback.ScriptTypes
	}
	if len(c.ImageGlobs) == 0 {
		c.ImageGlobs = fallback.ImageGlobs
	}
	if c.ValidateImages == nil {
		c.ValidateImages = fallback.ValidateImages
	}
	if c.CellWidth == nil {
		c.CellWidth = fallback.CellWidth
	}
	if c.CellHeight == nil {
		c.CellHeight = fallback.CellHeight
	}
	if c.HGap == 0 {
		c.HGap = fallback.HGap
	}
	if c.VGap == 0 {
		c.VGap = fallback.VGap
	}
	if c.Border == 0 {
		c.Border = fallback.Border
	}
	return c
}

// ParserOptions returns the extraction options for embedded layouts
func (c ServerConfig) ParserOptions() parser.Options {
	opts := parser.DefaultOptions()
	if len(c.TemplateTags) > 0 {
		opts.TemplateTags = c.TemplateTags
	}
	if len(c.ScriptTypes) > 0 {
		opts.ScriptTypes = c.ScriptTypes
	}
	return opts
}

// ShouldValidateImages reports whether missing images are diagnosed
func (c ServerConfig) ShouldValidateImages() bool {
	return c.ValidateImages == nil || *c.ValidateImages
}

// Table resolves the cell sizes for a grid of cols by rows
func (c ServerConfig) Table(cols, rows int) (geometry.Table, error) {
	widths, err := geometry.Resolve(c.CellWidth, cols, "cellWidth")
	if err != nil {
		return geometry.Table{}, err
	}
	heights, err := geometry.Resolve(c.CellHeight, rows, "cellHeight")
	if err != nil {
		return geometry.Table{}, err
	}
	return geometry.Table{
		Cols:   widths,
		Rows:   heights,
		HGap:   c.HGap,
		VGap:   c.VGap,
		Border: c.Border,
	}, nil
}

// MatchesLayoutFile reports whether a slash path relative to the workspace
// root is a layout file, by extension or by the LayoutFiles globs
func (c ServerConfig) MatchesLayoutFile(rel string) bool {
	if path.Ext(rel) == LayoutExtension {
		return true
	}
	for _, pattern := range c.LayoutFiles {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// SettingsKey is the client settings section, and the package.json field
const SettingsKey = "padLanguageServer"

// DecodeSettings reads client settings sent as initializationOptions or in
// workspace/didChangeConfiguration. The settings may be wrapped in a
// SettingsKey section. It reports false when v is not a settings object.
func DecodeSettings(v any) (ServerConfig, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return ServerConfig{}, false
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return ServerConfig{}, false
	}
	if section, ok := wrapped[SettingsKey]; ok {
		data = section
	}

	var cfg ServerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ServerConfig{}, false
	}
	return cfg, true
}

// ConfigFileNames are the workspace-root YAML config files, in lookup order
var ConfigFileNames = []string{".padls.yaml", ".padls.yml"}

// IsConfigFile reports whether a path relative to the workspace root is
// one of the files LoadConfig reads
func IsConfigFile(rel string) bool {
	return rel == "package.json" || slices.Contains(ConfigFileNames, rel)
}
