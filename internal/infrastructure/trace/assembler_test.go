package trace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/doeshing/sysq/internal/domain"
)

func sampleInputs() (domain.Intent, domain.CommandPlan, domain.ExecutionResult, domain.InterpretedAnswer) {
	intent := domain.Intent{
		Goal:   domain.GoalInspect,
		Domain: domain.DomainPackages,
		Constraints: []domain.Constraint{
			{Kind: domain.ConstraintCategory, Value: "games"},
		},
		Query: "what games do i have installed",
	}
	plan := domain.CommandPlan{
		Commands: []domain.PlannedCommand{
			{Program: "sh", Args: []string{"-c", "pacman -Qq | grep -Ei '(steam|game)'"}},
		},
		SafetyLevel: domain.SafetyReadOnly,
		Reasoning:   "domain packages via pacman",
	}
	result := domain.ExecutionResult{
		Plan: plan,
		CommandResults: []domain.CommandResult{
			{
				Command:     "pacman",
				FullCommand: "pacman -Qq | grep -Ei '(steam|game)'",
				Stdout:      "steam\nlutris\n",
				Success:     true,
				TimeMS:      42,
			},
		},
		Success:         true,
		ExecutionTimeMS: 45,
	}
	answer := domain.InterpretedAnswer{
		Answer:     "Yes, 2 games-related package(s) are installed: steam, lutris.",
		Details:    "steam\nlutris",
		Confidence: domain.ConfidenceHigh,
		Reasoning:  "matched 2 installed package(s) against the games filter",
		Source:     "structural parser",
	}
	return intent, plan, result, answer
}

func TestAssembleCarriesEveryField(t *testing.T) {
	a := NewAssembler()
	a.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	intent, plan, result, answer := sampleInputs()

	tr := a.Assemble(intent, plan, result, answer)

	if tr.ID == "" {
		t.Error("trace must carry a fresh ID")
	}
	if tr.Query != intent.Query || tr.Goal != intent.Goal || tr.Domain != intent.Domain {
		t.Error("intent fields dropped")
	}
	if len(tr.Constraints) != 1 || tr.Constraints[0].Value != "games" {
		t.Error("constraints dropped")
	}
	if tr.SafetyLevel != "read-only" || tr.PlanReason != plan.Reasoning {
		t.Error("plan fields dropped")
	}
	if len(tr.Commands) != 1 || tr.Commands[0].FullCommand != result.CommandResults[0].FullCommand {
		t.Error("command results dropped")
	}
	if tr.Answer != answer.Answer || tr.Confidence != answer.Confidence || tr.Source != answer.Source {
		t.Error("interpretation fields dropped")
	}
	if tr.ElapsedMS != result.ExecutionTimeMS || !tr.Success {
		t.Error("execution summary dropped")
	}
	if tr.CreatedAt.IsZero() {
		t.Error("timestamp missing")
	}
}

func TestAssembleOrdersCommandsLikeResults(t *testing.T) {
	a := NewAssembler()
	intent, plan, result, answer := sampleInputs()
	result.CommandResults = []domain.CommandResult{
		{FullCommand: "first", Success: true},
		{FullCommand: "second", Success: false, ExitCode: 1, Stderr: "boom"},
		{FullCommand: "third", Success: true},
	}

	tr := a.Assemble(intent, plan, result, answer)

	want := []string{"first", "second", "third"}
	for i, cmd := range tr.Commands {
		if cmd.FullCommand != want[i] {
			t.Errorf("Commands[%d] = %q, want %q", i, cmd.FullCommand, want[i])
		}
	}
	if tr.Commands[1].OutputExcerpt != "boom" {
		t.Errorf("failed command excerpt = %q, want its stderr", tr.Commands[1].OutputExcerpt)
	}
}

func TestExcerptTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("line\n", domain.TraceExcerptLines*3)
	got := excerpt(domain.CommandResult{Stdout: long, Success: true})

	lines := strings.Split(got, "\n")
	if len(lines) != domain.TraceExcerptLines+1 {
		t.Fatalf("excerpt has %d lines, want %d plus ellipsis", len(lines), domain.TraceExcerptLines+1)
	}
	if lines[len(lines)-1] != "..." {
		t.Errorf("truncated excerpt should end with ellipsis, got %q", lines[len(lines)-1])
	}
}

func TestRenderJSONRoundTrips(t *testing.T) {
	a := NewAssembler()
	intent, plan, result, answer := sampleInputs()
	tr := a.Assemble(intent, plan, result, answer)

	var buf bytes.Buffer
	if err := RenderJSON(&buf, tr); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}
	var decoded domain.Trace
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != tr.ID || decoded.Answer != tr.Answer || len(decoded.Commands) != len(tr.Commands) {
		t.Error("JSON rendering lost fields")
	}
}

func TestRenderTextShowsAnswerAndAudit(t *testing.T) {
	a := NewAssembler()
	intent, plan, result, answer := sampleInputs()
	tr := a.Assemble(intent, plan, result, answer)

	var buf bytes.Buffer
	RenderText(&buf, tr, true)
	out := buf.String()

	if !strings.Contains(out, answer.Answer) {
		t.Error("rendered text missing the answer")
	}
	if !strings.Contains(out, "pacman -Qq") {
		t.Error("rendered text missing the executed command")
	}
	if !strings.Contains(out, "confidence: high") {
		t.Error("rendered text missing the confidence line")
	}
}
