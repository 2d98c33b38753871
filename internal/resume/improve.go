package resume

import (
	"strings"
	"unicode"
)

const maxImprovedLines = 6

// FallbackImproveSection rewrites a section deterministically when no model
// tier produced output. Empty sections get a role-aware stock line; present
// items are cleaned and given an action-verb lead unless they already carry
// one.
func FallbackImproveSection(sectionKey SectionKey, currentText, targetRole string) string {
	items := SplitItems(currentText)
	if len(items) == 0 {
		if sectionKey == SectionSummary {
			role := firstNonEmpty(targetRole, "professional")
			return "Results-driven " + role + " focused on delivering measurable outcomes, clean execution, and strong cross-team collaboration."
		}
		role := firstNonEmpty(targetRole, "role-relevant")
		return "Contributed to " + role + " responsibilities with quality-focused delivery and continuous improvement mindset."
	}

	if len(items) > maxImprovedLines {
		items = items[:maxImprovedLines]
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		cleaned := CleanLine(item)
		if cleaned == "" {
			continue
		}
		lower := strings.ToLower(cleaned)
		if strings.Contains(lower, "improved") || strings.Contains(lower, "led") || strings.Contains(lower, "built") {
			out = append(out, cleaned)
			continue
		}
		if sectionKey == SectionSummary {
			out = append(out, cleaned)
			continue
		}
		out = append(out, "Delivered "+lowerFirst(cleaned))
	}
	return strings.Join(out, "\n")
}

// CleanImprovedText normalizes improver output from any tier: every line
// cleaned, empties dropped, capped at six lines.
func CleanImprovedText(text string) string {
	lines := make([]string, 0, maxImprovedLines)
	for _, rawLine := range strings.Split(text, "\n") {
		if line := CleanLine(rawLine); line != "" {
			lines = append(lines, line)
			if len(lines) == maxImprovedLines {
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}
