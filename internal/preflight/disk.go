package preflight

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// MaxDiskPercent is the disk utilization above which the check fails.
const MaxDiskPercent = 85.0

// CheckDiskSpace fails when the filesystem holding path is more than
// MaxDiskPercent full. The failure is logged at CRITICAL by RunAll but
// never stops a run.
func (c *Checker) CheckDiskSpace(ctx context.Context, path string) CheckResult {
	result := CheckResult{Name: "disk_usage"}

	stat, err := c.diskProbe(ctx, path)
	if err != nil {
		result.Status = StatusWarn
		result.Message = fmt.Sprintf("failed to check disk usage: %v", err)
		return result
	}

	result.Message = fmt.Sprintf("%.1f%% used (limit: %.0f%%)", stat.UsedPercent, MaxDiskPercent)
	if stat.Total > 0 {
		result.Details = fmt.Sprintf("%s free of %s at %s", formatBytes(stat.Free), formatBytes(stat.Total), path)
	}
	if stat.UsedPercent > MaxDiskPercent {
		result.Status = StatusFail
		return result
	}

	result.Status = StatusPass
	return result
}

func systemDisk(ctx context.Context, path string) (DiskStat, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return DiskStat{}, err
	}
	return DiskStat{
		Total:       usage.Total,
		Free:        usage.Free,
		UsedPercent: usage.UsedPercent,
	}, nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(bytes uint64) string {
	const (
		KB = 1024
		MB = 1024 * KB
		GB = 1024 * MB
		TB = 1024 * GB
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d bytes", bytes)
	}
}
