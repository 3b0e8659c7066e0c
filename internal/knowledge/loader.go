package knowledge

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultDocument []byte

// Format of a knowledge base document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the document format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: unsupported file extension %q", ErrInvalidKnowledgeBase, filepath.Ext(path))
	}
}

// Parse decodes and validates a knowledge base document
func Parse(data []byte, format Format) (*KnowledgeBase, error) {
	var kb KnowledgeBase

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &kb); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKnowledgeBase, err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &kb); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidKnowledgeBase, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidKnowledgeBase, format)
	}

	if err := kb.Validate(); err != nil {
		return nil, err
	}
	return &kb, nil
}

// Load reads the knowledge base at path, or the built-in one when path is empty
func Load(path string) (*KnowledgeBase, error) {
	if path == "" {
		return Default()
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}

	kb, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("knowledge base %s: %w", path, err)
	}
	return kb, nil
}

// Default returns the knowledge base bundled with the binary
func Default() (*KnowledgeBase, error) {
	return Parse(defaultDocument, FormatYAML)
}
