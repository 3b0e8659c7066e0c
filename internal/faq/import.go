package faq

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"etegie-bot/backend/internal/models"

	"gopkg.in/yaml.v3"
)

// Entry is the upload shape of one FAQ
type Entry struct {
	Question string   `json:"question" yaml:"question"`
	Answer   string   `json:"answer" yaml:"answer"`
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
}

// Document accepts either a bare list of entries or an object with a "faqs" list
type Document struct {
	FAQs []Entry `json:"faqs" yaml:"faqs"`
}

// ParseEntries decodes an upload. format is "json" or "yaml".
func ParseEntries(data []byte, format string) ([]models.FAQ, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidFAQ)
	}

	var entries []Entry
	switch format {
	case "json":
		if strings.HasPrefix(trimmed, "[") {
			if err := json.Unmarshal(data, &entries); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFAQ, err)
			}
		} else {
			var doc Document
			if err := json.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFAQ, err)
			}
			entries = doc.FAQs
		}
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFAQ, err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			if err := node.Content[0].Decode(&entries); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFAQ, err)
			}
		} else {
			var doc Document
			if err := node.Decode(&doc); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidFAQ, err)
			}
			entries = doc.FAQs
		}
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrInvalidFAQ, format)
	}

	out := make([]models.FAQ, len(entries))
	for i, e := range entries {
		out[i] = models.FAQ{Question: e.Question, Answer: e.Answer, Keywords: e.Keywords, Category: e.Category}
	}
	return out, nil
}

// FormatFromPath maps a file extension to an upload format
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("%w: unsupported file extension %q", ErrInvalidFAQ, filepath.Ext(path))
	}
}
