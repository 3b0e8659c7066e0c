// Package knowledge holds the static intent catalogue used by the local matcher.
package knowledge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKnowledgeBase is wrapped by every validation failure
var ErrInvalidKnowledgeBase = errors.New("invalid knowledge base")

// Intent is a named group of trigger phrases sharing a set of candidate replies
type Intent struct {
	Tag       string   `json:"tag" yaml:"tag"`
	Patterns  []string `json:"patterns" yaml:"patterns"`
	Responses []string `json:"responses" yaml:"responses"`
}

// KnowledgeBase is the ordered intent list plus the reply used when nothing matches.
// It is never mutated after Load returns.
type KnowledgeBase struct {
	Intents  []Intent `json:"intents" yaml:"intents"`
	Fallback string   `json:"fallback" yaml:"fallback"`
}

// Validate checks the authoring invariants
func (kb *KnowledgeBase) Validate() error {
	if strings.TrimSpace(kb.Fallback) == "" {
		return fmt.Errorf("%w: fallback reply is empty", ErrInvalidKnowledgeBase)
	}

	seen := make(map[string]int, len(kb.Intents))
	for i, intent := range kb.Intents {
		if strings.TrimSpace(intent.Tag) == "" {
			return fmt.Errorf("%w: intent #%d has no tag", ErrInvalidKnowledgeBase, i)
		}
		if prev, dup := seen[intent.Tag]; dup {
			return fmt.Errorf("%w: tag %q used by intents #%d and #%d", ErrInvalidKnowledgeBase, intent.Tag, prev, i)
		}
		seen[intent.Tag] = i

		if len(intent.Patterns) == 0 {
			return fmt.Errorf("%w: intent %q has no patterns", ErrInvalidKnowledgeBase, intent.Tag)
		}
		for _, p := range intent.Patterns {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: intent %q has a blank pattern", ErrInvalidKnowledgeBase, intent.Tag)
			}
		}
		if len(intent.Responses) == 0 {
			return fmt.Errorf("%w: intent %q has no responses", ErrInvalidKnowledgeBase, intent.Tag)
		}
	}
	return nil
}

// Tags lists intent tags in authored order
func (kb *KnowledgeBase) Tags() []string {
	tags := make([]string, len(kb.Intents))
	for i, intent := range kb.Intents {
		tags[i] = intent.Tag
	}
	return tags
}

// GreetingTag names the intent channels use to open a conversation
const GreetingTag = "greeting"

// Greeting returns the first reply of the greeting intent, or the fallback
// when the catalogue has none.
func (kb *KnowledgeBase) Greeting() string {
	for _, intent := range kb.Intents {
		if intent.Tag == GreetingTag && len(intent.Responses) > 0 {
			return intent.Responses[0]
		}
	}
	return kb.Fallback
}
