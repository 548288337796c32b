// Package resource periodically samples host CPU and memory so the job
// pool can size itself to the machine it is running on (SPEC_FULL.md §5,
// "Resource Sampler").
package resource

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.uber.org/zap"
)

// Sample is one reading of host load.
type Sample struct {
	CPUCount   int
	CPUPercent float64
	MemPercent float64
	SampledAt  time.Time
}

// Sampler polls the host on an interval and reports the most recent
// reading; TargetWorkers derives a worker count from it.
type Sampler struct {
	interval time.Duration
	logger   *zap.Logger

	mu     sync.RWMutex
	latest Sample
}

// New builds a Sampler; call Run in its own goroutine to start polling.
func New(interval time.Duration, logger *zap.Logger) *Sampler {
	return &Sampler{interval: interval, logger: logger}
}

// Run polls until ctx is cancelled. Sampling errors are logged and skipped
// rather than fatal: a stale reading is preferable to crashing the pool.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sampleOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleOnce(ctx)
		}
	}
}

func (s *Sampler) sampleOnce(ctx context.Context) {
	counts, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		s.logError("cpu.Counts", err)
		return
	}
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		s.logError("cpu.Percent", err)
		return
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		s.logError("mem.VirtualMemory", err)
		return
	}

	cpuPercent := 0.0
	if len(percents) > 0 {
		cpuPercent = percents[0]
	}

	s.mu.Lock()
	s.latest = Sample{
		CPUCount:   counts,
		CPUPercent: cpuPercent,
		MemPercent: vm.UsedPercent,
		SampledAt:  time.Now(),
	}
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("resource sample",
			zap.Int("cpu_count", counts),
			zap.Float64("cpu_percent", cpuPercent),
			zap.Float64("mem_percent", vm.UsedPercent),
		)
	}
}

func (s *Sampler) logError(op string, err error) {
	if s.logger != nil {
		s.logger.Warn("resource sample failed", zap.String("op", op), zap.Error(err))
	}
}

// Latest returns the most recent sample taken.
func (s *Sampler) Latest() Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// TargetWorkers derives a worker pool size from the latest sample, never
// below min nor above max: fewer workers when the host is already loaded,
// more when headroom is available.
func (s *Sampler) TargetWorkers(min, max int) int {
	sample := s.Latest()
	if sample.CPUCount == 0 {
		return min
	}
	target := sample.CPUCount
	if sample.CPUPercent > 80 || sample.MemPercent > 80 {
		target = sample.CPUCount / 2
	}
	if target < min {
		target = min
	}
	if target > max {
		target = max
	}
	return target
}
