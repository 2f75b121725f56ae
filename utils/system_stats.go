package utils

import (
	"context"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemStats is the host snapshot reported by the health endpoint.
type SystemStats struct {
	CPUPercent     float64 `json:"cpuPercent"`
	MemUsedPercent float64 `json:"memUsedPercent"`
}

// ReadSystemStats never blocks on a sampling interval; CPU usage is measured
// since the previous call. Readings that fail are left at zero.
func ReadSystemStats(ctx context.Context) (SystemStats, error) {
	var stats SystemStats

	percentages, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return stats, err
	}
	if len(percentages) > 0 {
		stats.CPUPercent = percentages[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return stats, err
	}
	stats.MemUsedPercent = vm.UsedPercent
	return stats, nil
}
