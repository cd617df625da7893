package health

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CheckFunc reports whether a dependency is reachable
type CheckFunc func(ctx context.Context) error

// Recorder records dependency health as metrics
type Recorder interface {
	RecordDependencyUp(name string, up bool)
}

// Monitor checks dependencies on an interval
type Monitor struct {
	interval time.Duration
	timeout  time.Duration
	recorder Recorder
	logger   *zap.Logger

	mu        sync.RWMutex
	checks    map[string]CheckFunc
	results   map[string]error
	checkedAt time.Time
	healthy   bool
	listeners []func(healthy bool)
	running   bool
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// Status represents the latest health check results
type Status struct {
	Healthy   bool
	Checks    map[string]string
	Timestamp time.Time
}

// NewMonitor creates a new health monitor. Each check is bounded by timeout.
func NewMonitor(interval, timeout time.Duration, recorder Recorder, logger *zap.Logger) *Monitor {
	return &Monitor{
		interval: interval,
		timeout:  timeout,
		recorder: recorder,
		logger:   logger,
		checks:   make(map[string]CheckFunc),
		results:  make(map[string]error),
		healthy:  true,
	}
}

// Register adds a named dependency check
func (m *Monitor) Register(name string, check CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks[name] = check
}

// OnChange registers a listener called whenever the overall state flips
func (m *Monitor) OnChange(fn func(healthy bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Start runs the checks once and then on every interval
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.stopCh = make(chan struct{})
	m.doneCh = make(chan struct{})
	m.mu.Unlock()

	go m.run()
}

// Stop stops the monitor and waits for the running check to finish
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	stopCh, doneCh := m.stopCh, m.doneCh
	m.mu.Unlock()

	close(stopCh)
	<-doneCh
}

// run is the main health monitoring loop
func (m *Monitor) run() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.CheckNow(context.Background())
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.CheckNow(context.Background())
		}
	}
}

// CheckNow runs every registered check and returns the resulting status
func (m *Monitor) CheckNow(ctx context.Context) *Status {
	m.mu.RLock()
	checks := make(map[string]CheckFunc, len(m.checks))
	for name, check := range m.checks {
		checks[name] = check
	}
	m.mu.RUnlock()

	results := make(map[string]error, len(checks))
	healthy := true
	for name, check := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, m.timeout)
		err := check(checkCtx)
		cancel()

		results[name] = err
		if err != nil {
			healthy = false
			m.logger.Warn("dependency health check failed",
				zap.String("dependency", name),
				zap.Error(err))
		}
		if m.recorder != nil {
			m.recorder.RecordDependencyUp(name, err == nil)
		}
	}

	m.mu.Lock()
	changed := healthy != m.healthy
	m.results = results
	m.healthy = healthy
	m.checkedAt = time.Now()
	listeners := append([]func(bool){}, m.listeners...)
	m.mu.Unlock()

	if changed {
		m.logger.Info("dependency health changed", zap.Bool("healthy", healthy))
		for _, fn := range listeners {
			fn(healthy)
		}
	}

	return m.Status()
}

// Status returns the latest results without running any check
func (m *Monitor) Status() *Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	checks := make(map[string]string, len(m.checks))
	for name := range m.checks {
		err, checked := m.results[name]
		switch {
		case !checked:
			checks[name] = "unknown"
		case err != nil:
			checks[name] = err.Error()
		default:
			checks[name] = "ok"
		}
	}

	return &Status{
		Healthy:   m.healthy,
		Checks:    checks,
		Timestamp: m.checkedAt,
	}
}

// IsHealthy returns true if every dependency passed its last check
func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.healthy
}
