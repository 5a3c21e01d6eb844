package interpret

import (
	"strings"
	"testing"

	"github.com/doeshing/sysq/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

func newInterpreter() *Interpreter {
	return New(nopLogger{})
}

func successResult(fullCommand, stdout string) domain.ExecutionResult {
	return domain.ExecutionResult{
		CommandResults: []domain.CommandResult{{
			Command:     strings.Fields(fullCommand)[0],
			FullCommand: fullCommand,
			Stdout:      stdout,
			Success:     true,
		}},
		Success: true,
	}
}

func TestInterpretAllFailedIsHonest(t *testing.T) {
	in := newInterpreter()
	result := domain.ExecutionResult{
		CommandResults: []domain.CommandResult{
			{FullCommand: "checkupdates", ExitCode: 1, Stderr: "network unreachable"},
			{FullCommand: "pacman -Qu", ExitCode: 1, Stderr: "database locked"},
		},
	}

	answer := in.Interpret(result, domain.Intent{Domain: domain.DomainPackages}, nil)

	if answer.Confidence != domain.ConfidenceLow {
		t.Errorf("Confidence = %s, want low", answer.Confidence)
	}
	if !strings.Contains(answer.Answer, "All commands failed") {
		t.Errorf("Answer = %q, must state that all commands failed", answer.Answer)
	}
	if !strings.Contains(answer.Details, "network unreachable") || !strings.Contains(answer.Details, "database locked") {
		t.Errorf("Details = %q, must say what failed and why", answer.Details)
	}
}

func TestInterpretGamesListHighConfidence(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{
		Goal:   domain.GoalInspect,
		Domain: domain.DomainPackages,
		Constraints: []domain.Constraint{
			{Kind: domain.ConstraintCategory, Value: "games"},
		},
	}
	result := successResult(
		"pacman -Qq | grep -Ei '(steam|game|lutris)'",
		"steam\nlutris\ngamemode\n",
	)

	answer := in.Interpret(result, intent, nil)

	if answer.Confidence != domain.ConfidenceHigh {
		t.Errorf("Confidence = %s, want high for purely structural answer", answer.Confidence)
	}
	if !strings.Contains(answer.Answer, "steam") || !strings.Contains(answer.Answer, "3") {
		t.Errorf("Answer = %q, want the three matched packages named", answer.Answer)
	}
	if answer.Source != sourceStructural {
		t.Errorf("Source = %q, want structural", answer.Source)
	}
}

func TestInterpretNoCategoryMatches(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{
		Domain: domain.DomainPackages,
		Constraints: []domain.Constraint{
			{Kind: domain.ConstraintCategory, Value: "games"},
		},
	}

	answer := in.Interpret(successResult("pacman -Qq | grep -Ei '(steam)'", ""), intent, nil)

	if !strings.Contains(answer.Answer, "No games-related packages") {
		t.Errorf("Answer = %q, want explicit negative", answer.Answer)
	}
}

func TestInterpretUpdatesCount(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{
		Domain: domain.DomainPackages,
		Constraints: []domain.Constraint{
			{Kind: domain.ConstraintFeature, Value: "updates"},
		},
	}

	answer := in.Interpret(successResult("checkupdates", "linux 6.9-1 -> 6.10-1\nvim 9.1-1 -> 9.2-1\n"), intent, nil)
	if !strings.Contains(answer.Answer, "2 update(s)") {
		t.Errorf("Answer = %q, want update count", answer.Answer)
	}

	answer = in.Interpret(successResult("checkupdates", ""), intent, nil)
	if !strings.Contains(answer.Answer, "up to date") {
		t.Errorf("Answer = %q, want up-to-date statement for empty output", answer.Answer)
	}
}

func TestInterpretCPUFlagFamilies(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{
		Domain: domain.DomainHardware,
		Constraints: []domain.Constraint{
			{Kind: domain.ConstraintFeature, Value: "cpuflags"},
		},
	}
	stdout := "Model name: AMD Ryzen 7 5800X\nFlags: fpu vme sse sse2 sse4_1 avx avx2 aes svm\n"

	answer := in.Interpret(successResult("lscpu", stdout), intent, nil)

	for _, family := range []string{"SSE", "AVX", "AES", "virtualization"} {
		if !strings.Contains(answer.Answer, family) {
			t.Errorf("Answer = %q, missing %s family", answer.Answer, family)
		}
	}
}

func TestInterpretMemoryUsage(t *testing.T) {
	in := newInterpreter()
	stdout := "              total        used        free\nMem:           31967       12402        3201\nSwap:           8191           0        8191\n"

	answer := in.Interpret(successResult("free -m", stdout), domain.Intent{Domain: domain.DomainMemory}, nil)

	if !strings.Contains(answer.Answer, "12402 MB of 31967 MB") {
		t.Errorf("Answer = %q, want parsed totals", answer.Answer)
	}
	if answer.Confidence != domain.ConfidenceHigh {
		t.Errorf("Confidence = %s, want high", answer.Confidence)
	}
}

func TestInterpretGUIAgreementRaisesConfidence(t *testing.T) {
	in := newInterpreter()
	result := domain.ExecutionResult{
		CommandResults: []domain.CommandResult{
			{
				FullCommand: `echo "desktop=${XDG_CURRENT_DESKTOP:-unset} session=${XDG_SESSION_TYPE:-unset}"`,
				Stdout:      "desktop=sway session=wayland\n",
				Success:     true,
			},
			{
				FullCommand: "ps -eo comm | grep -E '(gnome-shell|plasmashell|sway)' | sort | uniq",
				Stdout:      "sway\n",
				Success:     true,
			},
		},
		Success: true,
	}

	answer := in.Interpret(result, domain.Intent{Domain: domain.DomainGUI}, nil)

	if !strings.Contains(answer.Answer, "Sway") {
		t.Errorf("Answer = %q, want Sway identified", answer.Answer)
	}
	if answer.Confidence != domain.ConfidenceHigh {
		t.Errorf("Confidence = %s, want high when both probes agree", answer.Confidence)
	}
}

func TestInterpretGUIOnlyProcessTable(t *testing.T) {
	in := newInterpreter()
	result := domain.ExecutionResult{
		CommandResults: []domain.CommandResult{
			{
				FullCommand: `echo "desktop=${XDG_CURRENT_DESKTOP:-unset} session=${XDG_SESSION_TYPE:-unset}"`,
				Stdout:      "desktop=unset session=unset\n",
				Success:     true,
			},
			{
				FullCommand: "ps -eo comm | grep -E '(gnome-shell)' | sort | uniq",
				Stdout:      "gnome-shell\n",
				Success:     true,
			},
		},
		Success: true,
	}

	answer := in.Interpret(result, domain.Intent{Domain: domain.DomainGUI}, nil)

	if !strings.Contains(answer.Answer, "GNOME") {
		t.Errorf("Answer = %q, want GNOME from process table", answer.Answer)
	}
	if answer.Confidence != domain.ConfidenceMedium {
		t.Errorf("Confidence = %s, want medium for single-source detection", answer.Confidence)
	}
}

func TestInterpretBackendNarrationCapsConfidence(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{
		Domain: domain.DomainPackages,
		Constraints: []domain.Constraint{
			{Kind: domain.ConstraintCategory, Value: "games"},
		},
	}
	result := successResult("pacman -Qq | grep -Ei '(steam|lutris)'", "steam\nlutris\n")
	draft := domain.NewBackendDraft("Steam and lutris were found.", nil)

	answer := in.Interpret(result, intent, &draft)

	if answer.Confidence == domain.ConfidenceHigh {
		t.Error("narration-touched answer must not be high confidence")
	}
	if !strings.Contains(answer.Details, "Steam and lutris were found.") {
		t.Errorf("Details = %q, want verified narration adopted", answer.Details)
	}
	if answer.Source != sourceEnriched {
		t.Errorf("Source = %q, want enriched", answer.Source)
	}
}

func TestInterpretUngroundedNarrationDropped(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{
		Domain: domain.DomainPackages,
		Constraints: []domain.Constraint{
			{Kind: domain.ConstraintCategory, Value: "games"},
		},
	}
	result := successResult("pacman -Qq | grep -Ei '(steam)'", "steam\n")
	draft := domain.NewBackendDraft("You should reinstall minecraft immediately.", nil)

	answer := in.Interpret(result, intent, &draft)

	if strings.Contains(answer.Details, "minecraft") {
		t.Errorf("Details = %q, ungrounded claim must not pass through", answer.Details)
	}
	if answer.Source != sourceStructural {
		t.Errorf("Source = %q, want structural after full discard", answer.Source)
	}
	if answer.Confidence == domain.ConfidenceHigh {
		t.Error("confidence must be downgraded when narration is discarded")
	}
	if !strings.Contains(answer.Reasoning, "discarded") {
		t.Errorf("Reasoning = %q, should mention the discard", answer.Reasoning)
	}
}

func TestInterpretKernelVersion(t *testing.T) {
	in := newInterpreter()

	answer := in.Interpret(successResult("uname -r", "6.10.3-arch1-1\n"), domain.Intent{Domain: domain.DomainKernel}, nil)

	if !strings.Contains(answer.Answer, "6.10.3-arch1-1") {
		t.Errorf("Answer = %q, want kernel release", answer.Answer)
	}
}

func TestInterpretServiceCheck(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{Goal: domain.GoalCheck, Domain: domain.DomainServices}

	answer := in.Interpret(successResult("systemctl is-active sshd", "active\n"), intent, nil)

	if !strings.Contains(answer.Answer, "active") {
		t.Errorf("Answer = %q, want unit state", answer.Answer)
	}
}

func TestInterpretUnknownDomainIsLowConfidence(t *testing.T) {
	in := newInterpreter()
	intent := domain.Intent{Domain: domain.DomainUnknown, Query: "xyzzy plugh"}

	answer := in.Interpret(successResult("uname -a", "Linux host 6.10.3-arch1-1 x86_64 GNU/Linux\n"), intent, nil)

	if answer.Confidence != domain.ConfidenceLow {
		t.Errorf("Confidence = %s, want low for unmapped question", answer.Confidence)
	}
	if !strings.Contains(answer.Answer, "could not be mapped") {
		t.Errorf("Answer = %q, should admit the question was not understood", answer.Answer)
	}
}
