// =============================================================================
// MailPrep - Configuration Module
// =============================================================================
//
// This module loads the application configuration from a YAML file. The file
// is optional: when it does not exist every setting takes its default.
//
// EXAMPLE (mailprep.yaml):
//
//   log_level: debug
//   input_extensions: [".xlsx", ".csv"]
//   output_name_format: "{job}_{date}.ini"
//   header_row: 1
//   sheet_name: ""
//   csv:
//     delimiter: ","
//     encoding: "Windows-1252"
//   blacklist: ["index"]
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jepaynedev/mailprep/internal/logging"
	"github.com/jepaynedev/mailprep/pkg/utils"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the application configuration.
type Config struct {
	// LogLevel controls the verbosity of logging.
	// Valid values: "debug", "info", "warn", "error"
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// =========================================================================
	// INTAKE SETTINGS
	// =========================================================================

	// InputExtensions lists the file extensions picked up when scanning a
	// job directory for intake files.
	// Default: [".xlsx", ".xlsm", ".csv"]
	InputExtensions []string `yaml:"input_extensions"`

	// HeaderRow is the 1-based row holding the column headers.
	// Default: 1
	HeaderRow int `yaml:"header_row"`

	// SheetName selects the worksheet of spreadsheet intake files.
	// Default: "" (the first sheet)
	SheetName string `yaml:"sheet_name"`

	// CSV contains settings for delimited text intake files.
	CSV CSVSettings `yaml:"csv"`

	// =========================================================================
	// MAPPING SETTINGS
	// =========================================================================

	// OutputNameFormat names generated mapping files.
	// Placeholders: {job}, {uuid}, {timestamp}, {date}
	// Default: "{job}.ini"
	OutputNameFormat string `yaml:"output_name_format"`

	// Blacklist lists header names that never appear in a mapping.
	// Default: ["index"]
	Blacklist []string `yaml:"blacklist"`
}

// CSVSettings contains settings for parsing CSV files.
type CSVSettings struct {
	// Delimiter is the character used to separate fields.
	// Accepts a single character or one of "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the file.
	// Valid values: "UTF-8", "ISO-8859-1", "Windows-1252"
	// Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// SupportedEncodings lists the accepted CSV encodings (upper case).
var SupportedEncodings = []string{"UTF-8", "ISO-8859-1", "WINDOWS-1252"}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns the configuration used when no file is present.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file.
//
// RETURNS:
//   - The configuration, with defaults applied. A missing file yields the
//     default configuration.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse parses YAML configuration content.
func Parse(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if len(config.InputExtensions) == 0 {
		config.InputExtensions = []string{".xlsx", ".xlsm", ".csv"}
	}
	for i, ext := range config.InputExtensions {
		config.InputExtensions[i] = utils.NormalizeExtension(ext)
	}
	if config.HeaderRow == 0 {
		config.HeaderRow = 1
	}
	if config.CSV.Delimiter == "" {
		config.CSV.Delimiter = ","
	}
	if config.CSV.Encoding == "" {
		config.CSV.Encoding = "UTF-8"
	}
	if config.OutputNameFormat == "" {
		config.OutputNameFormat = "{job}.ini"
	}
	// An explicit empty list disables the blacklist.
	if config.Blacklist == nil {
		config.Blacklist = []string{"index"}
	}
}

// validate checks the configuration for invalid values.
func validate(config *Config) error {
	if _, ok := logging.ParseLevel(config.LogLevel); !ok {
		return fmt.Errorf("log_level %q is not one of %s", config.LogLevel, strings.Join(logging.Levels, ", "))
	}
	if config.HeaderRow < 1 {
		return fmt.Errorf("header_row must be at least 1, got %d", config.HeaderRow)
	}
	if !isSupportedEncoding(config.CSV.Encoding) {
		return fmt.Errorf("csv.encoding %q is not one of %s", config.CSV.Encoding, strings.Join(SupportedEncodings, ", "))
	}
	return nil
}

func isSupportedEncoding(encoding string) bool {
	normalized := strings.ToUpper(strings.TrimSpace(encoding))
	for _, supported := range SupportedEncodings {
		if normalized == supported {
			return true
		}
	}
	return false
}
