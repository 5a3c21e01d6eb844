// Package inventory probes the host for available system utilities.
package inventory

import (
	"os/exec"
	"sync"

	"github.com/doeshing/sysq/internal/domain"
	"github.com/doeshing/sysq/internal/ports"
)

// DefaultTools is the fixed, extensible probe list. Package managers first,
// then the utilities the planner's templates depend on.
var DefaultTools = []string{
	"pacman", "yay", "paru", "apt", "dpkg", "dnf", "flatpak", "snap",
	"checkupdates",
	"grep", "awk", "sed", "du", "df", "find", "ps", "free", "uname", "cat",
	"ip", "systemctl", "lscpu", "lspci", "lsblk",
}

// Detector builds the session's ToolInventory by checking PATH. The probe
// runs once behind a sync.Once; Refresh replaces the cache explicitly.
type Detector struct {
	tools []string

	mu        sync.RWMutex
	once      sync.Once
	inventory domain.ToolInventory

	lookPath func(string) (string, error)
}

// NewDetector builds a detector over the default tool list.
func NewDetector() *Detector {
	return &Detector{tools: DefaultTools, lookPath: exec.LookPath}
}

// NewDetectorFor builds a detector over a custom tool list, with an
// injectable lookup for tests.
func NewDetectorFor(tools []string, lookPath func(string) (string, error)) *Detector {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	return &Detector{tools: tools, lookPath: lookPath}
}

// Detect implements ports.ToolDetector. A probe that errors for any reason
// records false; detection never fails hard.
func (d *Detector) Detect() domain.ToolInventory {
	d.once.Do(func() {
		inv := d.probe()
		d.mu.Lock()
		d.inventory = inv
		d.mu.Unlock()
	})
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.inventory
}

// Refresh re-probes the host and replaces the cached inventory.
func (d *Detector) Refresh() domain.ToolInventory {
	inv := d.probe()
	d.mu.Lock()
	d.inventory = inv
	d.mu.Unlock()
	return inv
}

func (d *Detector) probe() domain.ToolInventory {
	inv := make(domain.ToolInventory, len(d.tools))
	for _, tool := range d.tools {
		_, err := d.lookPath(tool)
		inv[tool] = err == nil
	}
	return inv
}

var _ ports.ToolDetector = (*Detector)(nil)
