package domain

import (
	"fmt"
	"strings"
	"time"
)

// SystemFacts is the read-only snapshot supplied by the telemetry source.
// Fields that could not be collected stay at their zero value.
type SystemFacts struct {
	Hostname       string
	OS             string
	KernelVersion  string
	CPUModel       string
	CPUCores       int
	MemoryTotalMB  uint64
	MemoryUsedMB   uint64
	DiskTotalGB    float64
	DiskFreeGB     float64
	PackageManager string
	InstalledCount int
	CollectedAt    time.Time
}

// Summary renders a compact one-paragraph description for backend prompts
// and trace reasoning. Zero-valued fields are omitted.
func (f SystemFacts) Summary() string {
	var parts []string
	if f.Hostname != "" {
		parts = append(parts, "host "+f.Hostname)
	}
	if f.KernelVersion != "" {
		parts = append(parts, "kernel "+f.KernelVersion)
	}
	if f.CPUModel != "" {
		parts = append(parts, fmt.Sprintf("%s (%d cores)", f.CPUModel, f.CPUCores))
	}
	if f.MemoryTotalMB > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d MB RAM used", f.MemoryUsedMB, f.MemoryTotalMB))
	}
	if f.DiskTotalGB > 0 {
		parts = append(parts, fmt.Sprintf("%.1f/%.1f GB disk free", f.DiskFreeGB, f.DiskTotalGB))
	}
	if f.PackageManager != "" {
		parts = append(parts, fmt.Sprintf("%d packages via %s", f.InstalledCount, f.PackageManager))
	}
	if len(parts) == 0 {
		return "no telemetry collected"
	}
	return strings.Join(parts, ", ")
}
