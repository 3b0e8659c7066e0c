package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"etegie-bot/backend/pkg/logger"
)

// ErrOpen is returned without calling through while the breaker is open
var ErrOpen = errors.New("circuit open")

// State of a circuit breaker
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half-open"
)

// Config holds breaker tuning. A zero FailureThreshold disables the breaker.
type Config struct {
	Name             string
	FailureThreshold uint
	Cooldown         time.Duration
}

// DefaultConfig trips after five straight failures and probes again after 30s
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
	}
}

// Breaker stops calling a failing dependency for a cooldown period. While
// half-open exactly one probe call is let through.
type Breaker struct {
	cfg Config
	log *logger.Logger
	now func() time.Time

	mu        sync.Mutex
	state     State
	failures  uint
	openUntil time.Time
	probing   bool
	trips     uint64
}

// New creates a breaker. A nil log uses the global logger.
func New(cfg Config, log *logger.Logger) *Breaker {
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultConfig(cfg.Name).Cooldown
	}
	if log == nil {
		log = logger.GetGlobal()
	}
	return &Breaker{cfg: cfg, log: log, now: time.Now, state: StateClosed}
}

// Execute runs fn unless the breaker is open. Errors caused by the caller's
// own ctx ending do not count as dependency failures.
func (b *Breaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if b == nil || b.cfg.FailureThreshold == 0 {
		return fn(ctx)
	}
	if !b.allow() {
		return ErrOpen
	}

	err := fn(ctx)
	switch {
	case err == nil:
		b.onSuccess()
	case ctx.Err() != nil:
		b.release()
	default:
		b.onFailure()
	}
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Before(b.openUntil) {
			return false
		}
		b.state = StateHalfOpen
		b.probing = true
		b.log.Info("circuit breaker half-open", "name", b.cfg.Name)
		return true
	case StateHalfOpen:
		if b.probing {
			return false
		}
		b.probing = true
		return true
	default:
		return true
	}
}

func (b *Breaker) release() {
	b.mu.Lock()
	b.probing = false
	b.mu.Unlock()
}

func (b *Breaker) onSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateClosed {
		b.log.Info("circuit breaker closed", "name", b.cfg.Name)
	}
	b.state = StateClosed
	b.failures = 0
	b.probing = false
}

func (b *Breaker) onFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.probing = false
	b.failures++
	if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
		b.state = StateOpen
		b.openUntil = b.now().Add(b.cfg.Cooldown)
		b.trips++
		b.log.Warn("circuit breaker opened",
			"name", b.cfg.Name,
			"failures", b.failures,
			"retry_at", b.openUntil.Format(time.RFC3339),
		)
	}
}

// State reports the current state
func (b *Breaker) State() State {
	if b == nil {
		return StateClosed
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Trips counts how often the breaker has opened
func (b *Breaker) Trips() uint64 {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.trips
}
