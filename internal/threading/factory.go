package threading

import (
	"raycaster/internal/threading/core"
	"raycaster/internal/threading/monitoring"
)

// Components holds the worker pool and performance monitor shared by one
// renderer.
type Components struct {
	Pool               *core.WorkerPool // nil renders on the calling goroutine
	PerformanceMonitor *monitoring.PerformanceMonitor
}

// NewComponents creates the threading components for the configured worker
// count. See core.NewStartedPool for how workers is interpreted.
func NewComponents(workers int) *Components {
	return &Components{
		Pool:               core.NewStartedPool(workers),
		PerformanceMonitor: monitoring.NewPerformanceMonitor(),
	}
}

// Shutdown stops the worker pool.
func (tc *Components) Shutdown() {
	if tc.Pool != nil {
		tc.Pool.Stop()
	}
	if tc.PerformanceMonitor != nil {
		tc.PerformanceMonitor.Reset()
	}
}

// Workers returns the number of goroutines a render pass is split across.
func (tc *Components) Workers() int {
	if tc.Pool == nil {
		return 1
	}
	return tc.Pool.GetNumWorkers()
}

// GetPerformanceMetrics returns current performance metrics
func (tc *Components) GetPerformanceMetrics() monitoring.RenderMetrics {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.GetCurrentMetrics()
	}
	return monitoring.RenderMetrics{}
}

// GetDetailedPerformanceStats returns detailed performance statistics
func (tc *Components) GetDetailedPerformanceStats() map[string]interface{} {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.GetDetailedStats()
	}
	return nil
}

// CheckPerformanceAlerts returns any performance warnings
func (tc *Components) CheckPerformanceAlerts() []monitoring.PerformanceAlert {
	if tc.PerformanceMonitor != nil {
		return tc.PerformanceMonitor.CheckPerformanceAlerts()
	}
	return nil
}
