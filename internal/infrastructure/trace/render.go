package trace

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/sysq/internal/domain"
)

// RenderJSON writes the trace as indented JSON.
func RenderJSON(w io.Writer, tr domain.Trace) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tr)
}

// RenderText writes the human report: answer first, then the audit trail.
func RenderText(w io.Writer, tr domain.Trace, verbose bool) {
	fmt.Fprintln(w, tr.Answer)
	if tr.Details != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, tr.Details)
	}

	fmt.Fprintf(w, "\nconfidence: %s | safety: %s | %dms\n", tr.Confidence, tr.SafetyLevel, tr.ElapsedMS)

	if !verbose {
		return
	}

	fmt.Fprintf(w, "\ntrace %s\n", tr.ID)
	fmt.Fprintf(w, "  intent: %s/%s", tr.Goal, tr.Domain)
	if len(tr.Constraints) > 0 {
		var parts []string
		for _, c := range tr.Constraints {
			if c.Kind == domain.ConstraintCount {
				parts = append(parts, fmt.Sprintf("%s=%d", c.Kind, c.Count))
			} else {
				parts = append(parts, fmt.Sprintf("%s=%s", c.Kind, c.Value))
			}
		}
		fmt.Fprintf(w, " (%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintln(w)
	if tr.PlanReason != "" {
		fmt.Fprintf(w, "  plan: %s\n", tr.PlanReason)
	}
	for _, cmd := range tr.Commands {
		status := "ok"
		if !cmd.Success {
			status = fmt.Sprintf("failed (exit %d)", cmd.ExitCode)
		}
		fmt.Fprintf(w, "  $ %s  [%s, %dms]\n", cmd.FullCommand, status, cmd.TimeMS)
		if cmd.OutputExcerpt != "" {
			for _, line := range strings.Split(cmd.OutputExcerpt, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
	fmt.Fprintf(w, "  interpretation: %s (source: %s)\n", tr.Reasoning, tr.Source)
}
