package interpret

import (
	"strings"
)

// narrativeStopwords are common words that carry no checkable facts. Only
// the remaining content words of a draft sentence are verified against
// captured output.
var narrativeStopwords = map[string]bool{
	"this": true, "that": true, "these": true, "those": true, "there": true,
	"have": true, "has": true, "had": true, "with": true, "from": true,
	"your": true, "you": true, "yours": true, "the": true, "and": true,
	"for": true, "are": true, "is": true, "was": true, "were": true,
	"installed": true, "running": true, "system": true, "machine": true,
	"appears": true, "appear": true, "seems": true, "seem": true,
	"which": true, "what": true, "means": true, "likely": true,
	"several": true, "some": true, "also": true, "including": true,
	"available": true, "currently": true, "packages": true, "package": true,
	"command": true, "commands": true, "output": true, "shows": true,
	"found": true, "detected": true, "indicates": true, "suggests": true,
	"such": true, "like": true, "being": true, "been": true, "both": true,
	"number": true, "related": true, "other": true, "more": true,
}

// filterNarrative keeps only the draft sentences whose concrete terms all
// appear in the captured output or the structural answer. A sentence naming
// anything the commands never printed is dropped whole. Returns the kept
// sentences and whether anything was dropped.
func filterNarrative(narrative, corpus string) (string, bool) {
	corpus = strings.ToLower(corpus)
	dropped := false
	var kept []string

	for _, sentence := range splitSentences(narrative) {
		if sentence == "" {
			continue
		}
		if sentenceGrounded(sentence, corpus) {
			kept = append(kept, sentence)
		} else {
			dropped = true
		}
	}
	return strings.Join(kept, " "), dropped
}

func sentenceGrounded(sentence, corpus string) bool {
	for _, raw := range strings.Fields(strings.ToLower(sentence)) {
		word := strings.Trim(raw, ".,;:!?()'\"")
		if len(word) < 4 || narrativeStopwords[word] {
			continue
		}
		if !strings.Contains(corpus, word) {
			return false
		}
	}
	return true
}

func splitSentences(text string) []string {
	var out []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				out = append(out, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		out = append(out, s)
	}
	return out
}
