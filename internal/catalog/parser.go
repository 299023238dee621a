package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/adamancini/badlock/internal/types"
)

// Format represents the file format of a modules file.
type Format int

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
	FormatJSON
)

// File is the parsed form of a user modules file.
type File struct {
	Version int     `yaml:"version" toml:"version" json:"version"`
	Modules []Entry `yaml:"modules" toml:"modules" json:"modules"`
}

// rawEntry keeps the category as free text so that "makeup" or "life-up"
// can be normalized before validation.
type rawEntry struct {
	Name     string `yaml:"name" toml:"name" json:"name"`
	Package  string `yaml:"package" toml:"package" json:"package"`
	Category string `yaml:"category" toml:"category" json:"category"`
	InfoURL  string `yaml:"info_url" toml:"info_url" json:"info_url"`
}

type rawFile struct {
	Version int        `yaml:"version" toml:"version" json:"version"`
	Modules []rawEntry `yaml:"modules" toml:"modules" json:"modules"`
}

// fileNames are the names searched for in each standard location.
var fileNames = []string{
	"modules.yaml",
	"modules.yml",
	"modules.toml",
	"modules.json",
}

// FindFile locates the user modules file. An explicit path must exist.
// Otherwise BADLOCK_MODULES, then $XDG_CONFIG_HOME/badlock and ~/.badlock are
// searched. An empty path with a nil error means there is no modules file,
// which is not an error: the built-in catalog is used on its own.
func FindFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("specified modules file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}

	if envPath := os.Getenv("BADLOCK_MODULES"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", nil
	}

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}

	searchPaths := []string{
		filepath.Join(xdgConfig, "badlock"),
		filepath.Join(home, ".badlock"),
	}

	for _, dir := range searchPaths {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", nil
}

// Load reads, parses and validates a modules file.
func Load(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read modules file: %w", err)
	}

	format := detectFormat(path, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unable to detect file format for %s", path)
	}

	file, err := parse(content, format)
	if err != nil {
		return nil, err
	}

	if err := Validate(file.Modules); err != nil {
		return nil, err
	}

	return file, nil
}

// Resolve returns the built-in catalog merged with the modules file found by
// FindFile, if any.
func Resolve(explicitPath string) ([]Entry, string, error) {
	path, err := FindFile(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return Builtin(), "", nil
	}

	file, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return Merge(Builtin(), file.Modules), path, nil
}

// detectFormat determines the file format based on extension or content.
func detectFormat(path string, content []byte) Format {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	case ".json":
		return FormatJSON
	}

	return sniffFormat(content)
}

// sniffFormat attempts to detect format from content.
func sniffFormat(content []byte) Format {
	trimmed := strings.TrimSpace(string(content))

	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON
	}

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.Contains(line, " = ") || strings.HasPrefix(line, "[") {
			return FormatTOML
		}
		if strings.Contains(line, ":") {
			return FormatYAML
		}
	}

	return FormatUnknown
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns in content.
func expandEnvVars(content []byte) []byte {
	return envVarPattern.ReplaceAllFunc(content, func(match []byte) []byte {
		parts := envVarPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		value := os.Getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}

		return []byte(value)
	})
}

// parse parses the content according to the specified format.
func parse(content []byte, format Format) (*File, error) {
	content = expandEnvVars(content)

	var raw rawFile

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("YAML parse error: %w", err)
		}
	case FormatTOML:
		if err := toml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("TOML parse error: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("JSON parse error: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown file format")
	}

	file := &File{
		Version: raw.Version,
		Modules: make([]Entry, 0, len(raw.Modules)),
	}

	for i, m := range raw.Modules {
		category, err := types.ParseCategory(m.Category)
		if err != nil {
			return nil, ValidationError{
				Field:   fmt.Sprintf("modules[%d].category", i),
				Message: err.Error(),
			}
		}
		file.Modules = append(file.Modules, Entry{
			Name:     strings.TrimSpace(m.Name),
			Package:  strings.TrimSpace(m.Package),
			Category: category,
			InfoURL:  strings.TrimSpace(m.InfoURL),
		})
	}

	return file, nil
}
