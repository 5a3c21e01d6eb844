// Package telemetry collects a read-only snapshot of system facts for
// backend prompts and reasoning text. Every probe degrades independently: a
// failed source leaves its fields at zero values, never an error.
package telemetry

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

const mb = 1024 * 1024

type Collector struct {
	logger  ports.Logger
	timeout time.Duration
}

var _ ports.TelemetrySource = (*Collector)(nil)

func NewCollector(logger ports.Logger) *Collector {
	return &Collector{logger: logger, timeout: domain.DefaultTelemetryTimeout}
}

func (c *Collector) Snapshot(ctx context.Context) domain.SystemFacts {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	facts := domain.SystemFacts{CollectedAt: time.Now()}

	if info, err := host.InfoWithContext(ctx); err == nil {
		facts.Hostname = info.Hostname
		facts.OS = info.Platform
		facts.KernelVersion = info.KernelVersion
	} else {
		c.logger.Debug("host telemetry unavailable", map[string]interface{}{"error": err.Error()})
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		facts.CPUModel = infos[0].ModelName
	}
	if count, err := cpu.CountsWithContext(ctx, true); err == nil {
		facts.CPUCores = count
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		facts.MemoryTotalMB = vm.Total / mb
		facts.MemoryUsedMB = vm.Used / mb
	}

	if usage, err := disk.UsageWithContext(ctx, "/"); err == nil {
		facts.DiskTotalGB = float64(usage.Total) / (mb * 1024)
		facts.DiskFreeGB = float64(usage.Free) / (mb * 1024)
	}

	facts.PackageManager, facts.InstalledCount = packageFacts(ctx)
	return facts
}

// packageCounters maps each supported manager to its count pipeline.
var packageCounters = []struct {
	manager  string
	pipeline string
}{
	{"pacman", "pacman -Qq | wc -l"},
	{"dpkg", "dpkg-query -f '.\\n' -W | wc -l"},
	{"dnf", "dnf list installed 2>/dev/null | wc -l"},
}

func packageFacts(ctx context.Context) (string, int) {
	for _, pc := range packageCounters {
		if _, err := exec.LookPath(pc.manager); err != nil {
			continue
		}
		out, err := exec.CommandContext(ctx, "sh", "-c", pc.pipeline).Output()
		if err != nil {
			return pc.manager, 0
		}
		count, _ := strconv.Atoi(strings.TrimSpace(string(out)))
		return pc.manager, count
	}
	return "", 0
}
