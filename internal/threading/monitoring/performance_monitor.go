package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Pass names accepted by StartPass.
const (
	PassWall   = "wall"
	PassFloor  = "floor"
	PassSprite = "sprite"
)

// smoothing is the weight of the newest sample in the running averages.
const smoothing = 0.1

// PerformanceMonitor tracks frame and render pass timings. Counters are
// atomics so presenters can read them while a frame is in flight.
type PerformanceMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Render pass metrics, last frame
	wallTime   atomic.Uint64
	floorTime  atomic.Uint64
	spriteTime atomic.Uint64

	columnsCast    atomic.Uint64
	spritesDrawn   atomic.Uint64
	spritesVisible atomic.Uint64

	// Statistics
	mutex         sync.RWMutex
	avgFrameTime  float64
	avgWallTime   float64
	avgFloorTime  float64
	avgSpriteTime float64
	startTime     time.Time

	// Configuration
	enableDetailed atomic.Bool
	lowFPS         float64
}

// NewPerformanceMonitor creates a new performance monitor
func NewPerformanceMonitor() *PerformanceMonitor {
	pm := &PerformanceMonitor{
		startTime: time.Now(),
		lowFPS:    30,
	}
	pm.enableDetailed.Store(true)
	return pm
}

// FrameTimer helps measure frame timing
type FrameTimer struct {
	monitor   *PerformanceMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (pm *PerformanceMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   pm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.recordFrame(time.Since(ft.startTime))
}

func (pm *PerformanceMonitor) recordFrame(d time.Duration) {
	pm.frameTime.Store(uint64(d.Nanoseconds()))
	count := pm.frameCount.Add(1)

	if pm.enableDetailed.Load() {
		pm.mutex.Lock()
		pm.avgFrameTime = runningAverage(pm.avgFrameTime, float64(d.Nanoseconds()), count)
		pm.mutex.Unlock()
	}
}

// PassTimer measures one render pass.
type PassTimer struct {
	monitor   *PerformanceMonitor
	pass      string
	startTime time.Time
}

// StartPass begins timing the named pass.
func (pm *PerformanceMonitor) StartPass(pass string) *PassTimer {
	return &PassTimer{
		monitor:   pm,
		pass:      pass,
		startTime: time.Now(),
	}
}

// EndPass completes pass timing
func (pt *PassTimer) EndPass() {
	pt.monitor.recordPass(pt.pass, time.Since(pt.startTime))
}

func (pm *PerformanceMonitor) recordPass(pass string, d time.Duration) {
	ns := uint64(d.Nanoseconds())
	var avg *float64
	switch pass {
	case PassWall:
		pm.wallTime.Store(ns)
		avg = &pm.avgWallTime
	case PassFloor:
		pm.floorTime.Store(ns)
		avg = &pm.avgFloorTime
	case PassSprite:
		pm.spriteTime.Store(ns)
		avg = &pm.avgSpriteTime
	default:
		return
	}

	if pm.enableDetailed.Load() {
		pm.mutex.Lock()
		*avg = runningAverage(*avg, float64(ns), pm.frameCount.Load()+1)
		pm.mutex.Unlock()
	}
}

// runningAverage seeds the average with the first sample and smooths after.
func runningAverage(avg, sample float64, count uint64) float64 {
	if count <= 1 || avg == 0 {
		return sample
	}
	return avg + smoothing*(sample-avg)
}

// RecordColumns adds the number of screen columns cast this frame.
func (pm *PerformanceMonitor) RecordColumns(n int) {
	pm.columnsCast.Add(uint64(n))
}

// RecordSprites stores how many sprites were in front of the camera and how
// many of those put at least one stripe on screen in the last frame.
func (pm *PerformanceMonitor) RecordSprites(visible, drawn int) {
	pm.spritesVisible.Store(uint64(visible))
	pm.spritesDrawn.Store(uint64(drawn))
}

// RenderMetrics is a snapshot for the HUD.
type RenderMetrics struct {
	FramesPerSecond float64
	FrameTime       time.Duration
	WallTime        time.Duration
	FloorTime       time.Duration
	SpriteTime      time.Duration
	SpritesDrawn    uint64
	MemoryUsageMB   uint64
}

// GetCurrentMetrics returns current performance metrics
func (pm *PerformanceMonitor) GetCurrentMetrics() RenderMetrics {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	frameTime := pm.frameTime.Load()
	fps := 0.0
	if frameTime > 0 {
		fps = 1e9 / float64(frameTime)
	}

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RenderMetrics{
		FramesPerSecond: fps,
		FrameTime:       time.Duration(frameTime),
		WallTime:        time.Duration(pm.wallTime.Load()),
		FloorTime:       time.Duration(pm.floorTime.Load()),
		SpriteTime:      time.Duration(pm.spriteTime.Load()),
		SpritesDrawn:    pm.spritesDrawn.Load(),
		MemoryUsageMB:   memStats.Alloc / 1024 / 1024,
	}
}

// GetDetailedStats returns detailed performance statistics
func (pm *PerformanceMonitor) GetDetailedStats() map[string]interface{} {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	fps := 0.0
	if ft := pm.frameTime.Load(); ft > 0 {
		fps = 1e9 / float64(ft)
	}

	return map[string]interface{}{
		"uptime_seconds":     time.Since(pm.startTime).Seconds(),
		"frame_count":        pm.frameCount.Load(),
		"avg_frame_time_ms":  pm.avgFrameTime / 1e6,
		"avg_wall_time_ms":   pm.avgWallTime / 1e6,
		"avg_floor_time_ms":  pm.avgFloorTime / 1e6,
		"avg_sprite_time_ms": pm.avgSpriteTime / 1e6,
		"current_fps":        fps,
		"columns_cast":       pm.columnsCast.Load(),
		"sprites_visible":    pm.spritesVisible.Load(),
		"sprites_drawn":      pm.spritesDrawn.Load(),
		"memory_alloc_mb":    memStats.Alloc / 1024 / 1024,
		"gc_cycles":          memStats.NumGC,
		"cpu_cores":          runtime.NumCPU(),
		"goroutines":         runtime.NumGoroutine(),
	}
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts reports a low frame rate and passes that take more
// than half of the last frame.
func (pm *PerformanceMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	now := time.Now()

	frameTime := pm.frameTime.Load()
	if frameTime == 0 {
		return alerts
	}

	if fps := 1e9 / float64(frameTime); fps < pm.lowFPS {
		alerts = append(alerts, PerformanceAlert{
			Type:      "low_fps",
			Message:   "Frame rate is below 30 FPS",
			Value:     fps,
			Threshold: pm.lowFPS,
			Timestamp: now,
		})
	}

	passes := []struct {
		name string
		ns   uint64
	}{
		{PassWall, pm.wallTime.Load()},
		{PassFloor, pm.floorTime.Load()},
		{PassSprite, pm.spriteTime.Load()},
	}
	for _, p := range passes {
		share := float64(p.ns) / float64(frameTime)
		if share > 0.5 {
			alerts = append(alerts, PerformanceAlert{
				Type:      "slow_pass",
				Message:   p.name + " pass takes more than half of the frame",
				Value:     share,
				Threshold: 0.5,
				Timestamp: now,
			})
		}
	}

	return alerts
}

// EnableDetailedLogging enables/disables the running averages. Last-frame
// timings and counters are always kept.
func (pm *PerformanceMonitor) EnableDetailedLogging(enabled bool) {
	pm.enableDetailed.Store(enabled)
}

// Reset resets all performance counters
func (pm *PerformanceMonitor) Reset() {
	pm.frameCount.Store(0)
	pm.frameTime.Store(0)
	pm.wallTime.Store(0)
	pm.floorTime.Store(0)
	pm.spriteTime.Store(0)
	pm.columnsCast.Store(0)
	pm.spritesDrawn.Store(0)
	pm.spritesVisible.Store(0)

	pm.mutex.Lock()
	pm.avgFrameTime = 0
	pm.avgWallTime = 0
	pm.avgFloorTime = 0
	pm.avgSpriteTime = 0
	pm.startTime = time.Now()
	pm.mutex.Unlock()
}
