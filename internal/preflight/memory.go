package preflight

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

// MaxMemoryPercent is the memory utilization above which a warning is raised.
const MaxMemoryPercent = 90.0

// CheckMemory warns when system memory utilization exceeds MaxMemoryPercent.
func (c *Checker) CheckMemory(ctx context.Context) CheckResult {
	result := CheckResult{Name: "memory"}

	stat, err := c.memoryProbe(ctx)
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("failed to check memory: %v", err)
		return result
	}

	result.Message = fmt.Sprintf("%.1f%% used (limit: %.0f%%)", stat.UsedPercent, MaxMemoryPercent)
	if stat.Total > 0 {
		result.Details = fmt.Sprintf("%s available of %s", formatBytes(stat.Available), formatBytes(stat.Total))
	}
	if stat.UsedPercent > MaxMemoryPercent {
		result.Status = StatusWarn
		return result
	}

	result.Status = StatusPass
	return result
}

func systemMemory(ctx context.Context) (MemoryStat, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStat{}, err
	}
	return MemoryStat{
		Total:       vm.Total,
		Available:   vm.Available,
		UsedPercent: vm.UsedPercent,
	}, nil
}
