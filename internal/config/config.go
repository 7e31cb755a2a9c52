package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/viper"

	"menu-audit/internal/profile"
	"menu-audit/internal/render"
	"menu-audit/internal/scanner"
)

// Config represents the application configuration
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Profiles ProfilesConfig `mapstructure:"profiles"`
	Output   OutputConfig   `mapstructure:"output"`
	Render   RenderConfig   `mapstructure:"render"`
}

// InputConfig selects the workbooks a batch run audits.
type InputConfig struct {
	Dir      string   `mapstructure:"dir"`      // Inbox directory
	Patterns []string `mapstructure:"patterns"` // doublestar patterns relative to Dir
	Exclude  []string `mapstructure:"exclude"`  // doublestar patterns to drop
}

// ProfilesConfig points at the rule profile registry.
type ProfilesConfig struct {
	File    string `mapstructure:"file"`    // YAML registry; empty uses the built-in one
	Default string `mapstructure:"default"` // profile forced for every file; empty resolves by name
}

// OutputConfig holds output settings
type OutputConfig struct {
	Dir          string   `mapstructure:"dir"`           // Output directory
	FileName     string   `mapstructure:"file_name"`     // Report file name (without extension)
	RejectPrefix string   `mapstructure:"reject_prefix"` // Prefix of annotated copies
	Formats      []string `mapstructure:"formats"`       // Report formats
}

// RenderConfig overrides the highlight styles.
type RenderConfig struct {
	Font    string            `mapstructure:"font"`
	Markers map[string]string `mapstructure:"markers"` // category -> marker text
	Fills   map[string]string `mapstructure:"fills"`   // category -> "#RRGGBB"
}

// SupportedFormats lists the report formats the exporter knows.
var SupportedFormats = []string{"excel", "html", "word", "json"}

// Load reads the configuration from a file or uses defaults
// If configPath is empty, it looks for "config.yaml" in the current directory
// If the file doesn't exist, it uses sensible defaults
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath == "" {
		configPath = "config.yaml"
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) || strings.Contains(err.Error(), "no such file") ||
			strings.Contains(err.Error(), "cannot find") {
			fmt.Println("==========================================")
			fmt.Println("Config file not found. Using defaults:")
			fmt.Println("  Inbox:  ./inbox")
			fmt.Println("  Output: ./output")
			fmt.Println("==========================================")
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		fmt.Printf("Loaded config from: %s\n", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.normalizePaths(); err != nil {
		return nil, err
	}

	if err := cfg.EnsureOutputDir(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults configures sensible default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.dir", "./inbox")
	v.SetDefault("input.patterns", []string{"**/*.xlsx", "**/*.xlsm"})
	v.SetDefault("input.exclude", []string{
		"**/~$*",
		"**/退件_*",
		"**/.git/**",
	})

	v.SetDefault("profiles.file", "")
	v.SetDefault("profiles.default", "")

	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.file_name", "menu-audit-report")
	v.SetDefault("output.reject_prefix", "退件_")
	v.SetDefault("output.formats", []string{"excel"})

	v.SetDefault("render.font", render.DefaultFont)
	v.SetDefault("render.markers", map[string]string{})
	v.SetDefault("render.fills", map[string]string{})
}

// normalizePaths converts relative paths to absolute paths
func (c *Config) normalizePaths() error {
	absInput, err := filepath.Abs(c.Input.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve input.dir: %w", err)
	}
	c.Input.Dir = absInput

	absOutput, err := filepath.Abs(c.Output.Dir)
	if err != nil {
		return fmt.Errorf("failed to resolve output.dir: %w", err)
	}
	c.Output.Dir = absOutput

	if c.Profiles.File != "" {
		absProfiles, err := filepath.Abs(c.Profiles.File)
		if err != nil {
			return fmt.Errorf("failed to resolve profiles.file: %w", err)
		}
		c.Profiles.File = absProfiles
	}

	return nil
}

// EnsureOutputDir creates the output directory if it doesn't exist
func (c *Config) EnsureOutputDir() error {
	if err := os.MkdirAll(c.Output.Dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// ShouldExclude reports whether a path relative to the inbox matches one of
// input.exclude.
func (c *Config) ShouldExclude(relPath string) bool {
	return scanner.Excluded(relPath, c.Input.Exclude)
}

// GetOutputPath returns the report path for a format's file extension.
func (c *Config) GetOutputPath(ext string) string {
	return filepath.Join(c.Output.Dir, c.Output.FileName+ext)
}

// RejectPath returns where the annotated copy of file is written.
func (c *Config) RejectPath(file string) string {
	return filepath.Join(c.Output.Dir, c.Output.RejectPrefix+filepath.Base(file))
}

// IsRejectCopy reports whether file is an annotated copy written by us.
func (c *Config) IsRejectCopy(file string) bool {
	return c.Output.RejectPrefix != "" && strings.HasPrefix(filepath.Base(file), c.Output.RejectPrefix)
}

// Registry loads the configured profile registry.
func (c *Config) Registry() (*profile.Registry, error) {
	if c.Profiles.File == "" {
		return profile.Default()
	}
	return profile.LoadFile(c.Profiles.File)
}

// Styles returns the highlight table with the render overrides applied.
func (c *Config) Styles() (render.Styles, error) {
	return render.DefaultStyles().Override(c.Render.Font, c.Render.Markers, c.Render.Fills)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Input.Patterns) == 0 {
		return fmt.Errorf("input.patterns must contain at least one pattern")
	}
	for _, pattern := range append(slices.Clone(c.Input.Patterns), c.Input.Exclude...) {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return fmt.Errorf("invalid glob pattern: %s", pattern)
		}
	}

	if c.Profiles.File != "" {
		if _, err := os.Stat(c.Profiles.File); err != nil {
			return fmt.Errorf("profiles.file: %w", err)
		}
	}

	if c.Output.FileName == "" {
		return fmt.Errorf("output.file_name cannot be empty")
	}
	if c.Output.RejectPrefix == "" {
		return fmt.Errorf("output.reject_prefix cannot be empty")
	}
	for _, f := range c.Output.Formats {
		if !slices.Contains(SupportedFormats, strings.ToLower(f)) {
			return fmt.Errorf("unsupported output format %q (supported: %s)", f, strings.Join(SupportedFormats, ", "))
		}
	}

	if _, err := c.Styles(); err != nil {
		return err
	}

	return nil
}

// Print displays the current configuration
func (c *Config) Print() {
	fmt.Println("=== Menu Audit Configuration ===")
	fmt.Printf("Inbox:            %s\n", c.Input.Dir)
	fmt.Printf("Patterns:         %v\n", c.Input.Patterns)
	fmt.Printf("Exclude:          %v\n", c.Input.Exclude)
	if c.Profiles.File != "" {
		fmt.Printf("Profiles:         %s\n", c.Profiles.File)
	} else {
		fmt.Printf("Profiles:         (built-in)\n")
	}
	if c.Profiles.Default != "" {
		fmt.Printf("Forced Profile:   %s\n", c.Profiles.Default)
	}
	fmt.Printf("Output Directory: %s\n", c.Output.Dir)
	fmt.Printf("Report:           %s.*\n", filepath.Join(c.Output.Dir, c.Output.FileName))
	fmt.Printf("Reject Prefix:    %s\n", c.Output.RejectPrefix)
	fmt.Printf("Formats:          %v\n", c.Output.Formats)
	fmt.Println("================================")
}
