package safety

import (
	"regexp"
	"strings"
)

// pipelineShape is one row of the pipeline allowlist: a read-only head
// command recognized by regex. A pipeline is allowed only if its first
// segment matches a head and every later segment starts with a program from
// the shared filter set below.
type pipelineShape struct {
	head *regexp.Regexp
}

var filterPrograms = map[string]bool{
	"grep":   true,
	"egrep":  true,
	"fgrep":  true,
	"awk":    true,
	"sed":    true,
	"sort":   true,
	"uniq":   true,
	"wc":     true,
	"head":   true,
	"tail":   true,
	"cut":    true,
	"tr":     true,
	"column": true,
	"xargs":  false, // explicit: xargs executes, never a filter
}

func defaultPipelineShapes() []pipelineShape {
	heads := []string{
		`^(pacman|yay|paru)\s+-Q`,
		`^dpkg\s+-l\b`,
		`^dpkg-query\b`,
		`^apt\s+list\b`,
		`^(dnf|yum)\s+list\b`,
		`^flatpak\s+list\b`,
		`^snap\s+list\b`,
		`^checkupdates\b`,
		`^ps\s+(aux|-ef|-eo)\b`,
		`^(lscpu|lspci|lsusb|lsblk|lsmod)\b`,
		`^(free|df|du|uname|uptime|hostnamectl)\b`,
		`^ip\s+(addr|link|route|-br)\b`,
		`^cat\s+/proc/`,
		`^cat\s+/sys/`,
		`^cat\s+/etc/os-release\b`,
		`^systemctl\s+(list-units|list-unit-files|status|is-active|is-enabled|show)\b`,
		`^journalctl\s+(-b|-u|-p|--no-pager)`,
		`^grep\s`,
		`^find\s`,
	}
	shapes := make([]pipelineShape, 0, len(heads))
	for _, h := range heads {
		shapes = append(shapes, pipelineShape{head: regexp.MustCompile(h)})
	}
	return shapes
}

// splitPipeline splits on unquoted single "|". Pipe characters inside
// single or double quotes belong to filter arguments (grep alternations)
// and must not break the segment. Callers reject unquoted "||" first.
func splitPipeline(rendered string) []string {
	var segments []string
	var current strings.Builder
	var quote byte
	for i := 0; i < len(rendered); i++ {
		c := rendered[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			current.WriteByte(c)
		case c == '\'' || c == '"':
			quote = c
			current.WriteByte(c)
		case c == '|':
			segments = append(segments, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	segments = append(segments, strings.TrimSpace(current.String()))
	return segments
}

// unquoted strips quoted spans so metacharacter checks only see shell
// syntax, not filter arguments.
func unquoted(rendered string) string {
	var out strings.Builder
	var quote byte
	for i := 0; i < len(rendered); i++ {
		c := rendered[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func hasUnquotedPipe(rendered string) bool {
	return strings.Contains(unquoted(rendered), "|")
}

func segmentProgram(segment string) string {
	fields := strings.Fields(segment)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
