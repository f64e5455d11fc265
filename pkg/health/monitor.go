package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Status represents dependency health
type Status int

const (
	StatusUnknown Status = iota
	StatusHealthy
	StatusUnhealthy
)

func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "HEALTHY"
	case StatusUnhealthy:
		return "UNHEALTHY"
	default:
		return "UNKNOWN"
	}
}

// CheckResult is one probe of one dependency.
type CheckResult struct {
	Name         string
	Status       Status
	Latency      time.Duration
	LastCheck    time.Time
	LastError    error
	CheckCount   int
	FailureCount int
}

// CheckFunc probes a single dependency, returning an error when it is
// unreachable.
type CheckFunc func(ctx context.Context) error

// Monitor probes registered dependencies on an interval and logs state
// transitions. It keeps the latest result per dependency for inspection.
type Monitor struct {
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger

	mu      sync.RWMutex
	checks  map[string]CheckFunc
	results map[string]CheckResult

	stop     chan struct{}
	stopOnce sync.Once
}

func NewMonitor(interval, timeout time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Monitor{
		interval: interval,
		timeout:  timeout,
		logger:   logger,
		checks:   make(map[string]CheckFunc),
		results:  make(map[string]CheckResult),
		stop:     make(chan struct{}),
	}
}

// Register adds a dependency probe under a stable name.
func (m *Monitor) Register(name string, check CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = check
	m.results[name] = CheckResult{Name: name, Status: StatusUnknown}
}

// Start runs the probe loop until Stop is called. An immediate first round
// runs before the first tick.
func (m *Monitor) Start() {
	go func() {
		m.runChecks()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.runChecks()
			case <-m.stop:
				return
			}
		}
	}()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
}

// Results returns a snapshot of the latest probe per dependency.
func (m *Monitor) Results() map[string]CheckResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]CheckResult, len(m.results))
	for k, v := range m.results {
		out[k] = v
	}
	return out
}

func (m *Monitor) runChecks() {
	m.mu.RLock()
	checks := make(map[string]CheckFunc, len(m.checks))
	for name, check := range m.checks {
		checks[name] = check
	}
	m.mu.RUnlock()

	for name, check := range checks {
		m.runCheck(name, check)
	}
}

func (m *Monitor) runCheck(name string, check CheckFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	start := time.Now()
	err := check(ctx)
	latency := time.Since(start)

	m.mu.Lock()
	prev := m.results[name]
	result := CheckResult{
		Name:         name,
		Latency:      latency,
		LastCheck:    start,
		CheckCount:   prev.CheckCount + 1,
		FailureCount: prev.FailureCount,
	}
	if err != nil {
		result.Status = StatusUnhealthy
		result.LastError = err
		result.FailureCount++
	} else {
		result.Status = StatusHealthy
	}
	m.results[name] = result
	m.mu.Unlock()

	if m.logger == nil {
		return
	}
	if result.Status != prev.Status {
		m.logger.Warn("Dependency health changed",
			zap.String("dependency", name),
			zap.String("from", prev.Status.String()),
			zap.String("to", result.Status.String()),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
	}
}
