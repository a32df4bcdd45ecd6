package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
)

var perfMeter = otel.Meter("gnc-attendance/perf_stats")

// PerfStats is one sample of the process' resource usage.
type PerfStats struct {
	CPUPercent     float64
	AllocatedMB    int64
	LiveObjects    int64
	GoroutineCount int64
}

// SamplePerfStats measures cpu usage over window along with the current heap.
func SamplePerfStats(ctx context.Context, window time.Duration) (PerfStats, error) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := PerfStats{
		AllocatedMB:    int64(memStats.Alloc / 1_000_000),
		LiveObjects:    int64(memStats.Mallocs) - int64(memStats.Frees),
		GoroutineCount: int64(runtime.NumGoroutine()),
	}
	usage, err := cpu.PercentWithContext(ctx, window, false)
	if err != nil {
		return stats, err
	}
	if len(usage) > 0 {
		stats.CPUPercent = usage[0]
	}
	return stats, nil
}

// InstrumentPerfStats records PerfStats on otel gauges every interval until
// ctx is done. Chrome runs as a child process so only the scheduler's own
// usage is covered here.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	cpuGauge, _ := perfMeter.Float64Gauge("cpu_usage")
	memoryGauge, _ := perfMeter.Int64Gauge("allocated_mb")
	liveObjectsGauge, _ := perfMeter.Int64Gauge("live_objects")
	goroutineGauge, _ := perfMeter.Int64Gauge("goroutine_count")

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				stats, err := SamplePerfStats(ctx, time.Second)
				if err != nil {
					slog.Debug("failed to read cpu usage", "err", err)
				} else {
					cpuGauge.Record(ctx, stats.CPUPercent)
				}
				memoryGauge.Record(ctx, stats.AllocatedMB)
				liveObjectsGauge.Record(ctx, stats.LiveObjects)
				goroutineGauge.Record(ctx, stats.GoroutineCount)
			case <-ctx.Done():
				return
			}
		}
	}()
}
