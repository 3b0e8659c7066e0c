package responder

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"etegie-bot/backend/internal/knowledge"
)

// Resolution is the result of matching text against the knowledge base.
// Intent is empty when the fallback was used.
type Resolution struct {
	Response string
	Intent   string
}

type compiledIntent struct {
	tag       string
	patterns  []string
	responses []string
}

// LocalResponder matches text against a knowledge base: first pattern
// contained in the input wins, intents and patterns in authored order.
type LocalResponder struct {
	intents  []compiledIntent
	fallback string
	delay    time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// LocalOption configures a LocalResponder
type LocalOption func(*LocalResponder)

// WithDelay pauses before answering, like a human typing
func WithDelay(d time.Duration) LocalOption {
	return func(l *LocalResponder) { l.delay = d }
}

// WithRand sets the source used to pick among an intent's responses
func WithRand(r *rand.Rand) LocalOption {
	return func(l *LocalResponder) { l.rng = r }
}

// NewLocal compiles the knowledge base into a matcher
func NewLocal(kb *knowledge.KnowledgeBase, opts ...LocalOption) *LocalResponder {
	l := &LocalResponder{
		intents:  make([]compiledIntent, 0, len(kb.Intents)),
		fallback: kb.Fallback,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15)),
	}
	for _, intent := range kb.Intents {
		ci := compiledIntent{
			tag:       intent.Tag,
			patterns:  make([]string, 0, len(intent.Patterns)),
			responses: append([]string(nil), intent.Responses...),
		}
		for _, p := range intent.Patterns {
			// a blank pattern would match everything
			if p = strings.ToLower(p); strings.TrimSpace(p) != "" {
				ci.patterns = append(ci.patterns, p)
			}
		}
		l.intents = append(l.intents, ci)
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fallback returns the reply used when nothing matches
func (l *LocalResponder) Fallback() string {
	return l.fallback
}

// Resolve matches text without any delay
func (l *LocalResponder) Resolve(text string) Resolution {
	input := strings.ToLower(strings.TrimSpace(text))
	if input == "" {
		return Resolution{Response: l.fallback}
	}

	for _, intent := range l.intents {
		for _, p := range intent.patterns {
			if strings.Contains(input, p) && len(intent.responses) > 0 {
				return Resolution{Response: l.pick(intent.responses), Intent: intent.tag}
			}
		}
	}
	return Resolution{Response: l.fallback}
}

func (l *LocalResponder) pick(responses []string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return responses[l.rng.IntN(len(responses))]
}

// Respond waits for the configured delay and resolves the request
func (l *LocalResponder) Respond(ctx context.Context, req Request) (Reply, error) {
	if l.delay > 0 {
		timer := time.NewTimer(l.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Reply{}, ctx.Err()
		case <-timer.C:
		}
	}

	res := l.Resolve(req.Text)
	source := SourceLocal
	if res.Intent == "" {
		source = SourceFallback
	}
	return Reply{Response: res.Response, Intent: res.Intent, SessionID: req.SessionID, Source: source}, nil
}
