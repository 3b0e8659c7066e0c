package responder

import (
	"fmt"
	"time"

	"etegie-bot/backend/internal/knowledge"
	"etegie-bot/backend/pkg/logger"
	"etegie-bot/backend/pkg/resilience"
)

// Mode selects the responder variant
type Mode string

const (
	ModeLocal  Mode = "local"
	ModeRemote Mode = "remote"
	ModeHosted Mode = "hosted"
)

// Config selects and tunes a responder
type Config struct {
	Mode            Mode
	RemoteURL       string
	RemoteTimeout   time.Duration
	FailurePolicy   FailurePolicy
	ThinkingDelay   time.Duration
	FallbackToLocal bool
	// BreakerThreshold consecutive remote failures skip the call for
	// BreakerCooldown. Zero disables the breaker.
	BreakerThreshold uint
	BreakerCooldown  time.Duration
}

// Deps are the collaborators a variant may need
type Deps struct {
	KnowledgeBase *knowledge.KnowledgeBase
	Finder        AnswerFinder
	Logger        *logger.Logger
}

// New builds the responder named by cfg.Mode
func New(cfg Config, deps Deps) (Responder, error) {
	if deps.KnowledgeBase == nil {
		return nil, fmt.Errorf("responder needs a knowledge base")
	}
	local := NewLocal(deps.KnowledgeBase, WithDelay(cfg.ThinkingDelay))

	switch cfg.Mode {
	case ModeLocal:
		return local, nil
	case ModeRemote:
		remote, err := NewRemote(cfg.RemoteURL, cfg.RemoteTimeout, cfg.FailurePolicy, local, deps.Logger)
		if err != nil {
			return nil, err
		}
		if cfg.BreakerThreshold > 0 {
			remote.breaker = resilience.New(resilience.Config{
				Name:             "remote-api",
				FailureThreshold: cfg.BreakerThreshold,
				Cooldown:         cfg.BreakerCooldown,
			}, remote.logger)
		}
		return remote, nil
	case ModeHosted:
		if deps.Finder == nil {
			return nil, fmt.Errorf("hosted responder needs an faq store")
		}
		var chained *LocalResponder
		if cfg.FallbackToLocal {
			chained = local
		}
		return NewHosted(deps.Finder, chained, deps.KnowledgeBase.Fallback, deps.Logger), nil
	default:
		return nil, fmt.Errorf("unknown responder mode %q", cfg.Mode)
	}
}
