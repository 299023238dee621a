// Package templates provides the embedded starter files written by
// badlock init.
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

//go:embed *.yaml
var templatesFS embed.FS

// Template is a starter file with metadata.
type Template struct {
	Name        string
	Description string
	// FileName is the name the template is written as.
	FileName string
	Content  []byte
}

// Available templates with their descriptions.
var templateDescriptions = map[string]string{
	"config":  "Settings file (adb, timeouts, refresh schedule)",
	"modules": "Extra modules tracked on top of the built-in catalog",
}

var fileNames = map[string]string{
	"config":  "badlock.yaml",
	"modules": "modules.yaml",
}

// List returns all available template names sorted alphabetically.
func List() []string {
	entries, err := templatesFS.ReadDir(".")
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".yaml"))
	}

	sort.Strings(names)
	return names
}

// Get returns a template by name.
func Get(name string) (*Template, error) {
	content, err := templatesFS.ReadFile(name + ".yaml")
	if err != nil {
		if pathErr, ok := err.(*fs.PathError); ok {
			return nil, fmt.Errorf("template '%s' not found: %w", name, pathErr)
		}
		return nil, fmt.Errorf("failed to read template '%s': %w", name, err)
	}

	fileName, ok := fileNames[name]
	if !ok {
		fileName = name + ".yaml"
	}

	return &Template{
		Name:        name,
		Description: GetDescription(name),
		FileName:    fileName,
		Content:     content,
	}, nil
}

// GetDescription returns the description for a template.
func GetDescription(name string) string {
	if desc, ok := templateDescriptions[name]; ok {
		return desc
	}
	return "Custom template"
}
