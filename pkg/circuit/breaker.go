package circuit

import (
	"errors"
	"sync"
	"time"
)

// State represents circuit breaker state
type State int

const (
	StateClosed   State = iota // Normal operation - requests pass through
	StateOpen                  // Circuit is open - requests fail fast
	StateHalfOpen              // Testing if service recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrCircuitOpen is returned while the breaker is failing fast.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Config defines circuit breaker configuration
type Config struct {
	Threshold        int           // Failures before opening circuit
	Timeout          time.Duration // Time to wait before half-open
	SuccessThreshold int           // Successes needed to close from half-open
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Threshold:        5,
		Timeout:          30 * time.Second,
		SuccessThreshold: 3,
	}
}

// Breaker implements the circuit breaker pattern around an unreliable
// collaborator such as the media object store.
type Breaker struct {
	mu           sync.Mutex
	config       Config
	state        State
	failures     int
	successes    int
	lastFailedAt time.Time
}

func NewBreaker(config Config) *Breaker {
	if config.Threshold <= 0 {
		config.Threshold = DefaultConfig().Threshold
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = DefaultConfig().SuccessThreshold
	}
	return &Breaker{config: config, state: StateClosed}
}

// State reports the current state, transitioning open breakers to half-open
// once the timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

func (b *Breaker) currentState() State {
	if b.state == StateOpen && time.Since(b.lastFailedAt) >= b.config.Timeout {
		b.state = StateHalfOpen
		b.successes = 0
	}
	return b.state
}

// Execute runs fn unless the breaker is open, recording the outcome.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	if b.currentState() == StateOpen {
		b.mu.Unlock()
		return ErrCircuitOpen
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.failures++
		b.lastFailedAt = time.Now()
		if b.state == StateHalfOpen || b.failures >= b.config.Threshold {
			b.state = StateOpen
		}
		return err
	}

	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.state = StateClosed
			b.failures = 0
		}
	case StateClosed:
		b.failures = 0
	}
	return nil
}
