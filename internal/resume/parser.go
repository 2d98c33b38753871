package resume

import (
	"regexp"
	"strings"
)

// headingSanityRe matches a plausible all-caps section heading after colon
// removal. Generated text with fewer than minSaneHeadings such lines is
// treated as malformed and discarded.
var headingSanityRe = regexp.MustCompile(`^[A-Z][A-Z\s/&()-]{2,}$`)

const minSaneHeadings = 3

var (
	nameLineRe = regexp.MustCompile(`(?i)^NAME\s*:`)
	roleLineRe = regexp.MustCompile(`(?i)^ROLE\s*:`)
)

// ParseAISections splits raw model output into canonical sections. The
// matcher is strict: a line opens a section only when, uppercased and with
// colons removed, it equals a canonical heading exactly. Content before
// the first recognized heading is dropped.
func ParseAISections(text string) ParsedSections {
	sections := emptySections()
	if strings.TrimSpace(text) == "" {
		return sections
	}

	var current SectionKey
	haveCurrent := false
	for _, rawLine := range strings.Split(text, "\n") {
		line := CleanLine(rawLine)
		if line == "" {
			continue
		}

		normalized := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(line, ":", "")))
		compact := CompactWhitespace(normalized)
		if key, ok := KeyForHeading(normalized); ok {
			current = key
			haveCurrent = true
			continue
		}
		if key, ok := KeyForHeading(compact); ok {
			current = key
			haveCurrent = true
			continue
		}

		if haveCurrent {
			sections[current] = append(sections[current], line)
		}
	}
	return sections
}

// SanitizeGeneratedResume normalizes raw model output into the wire format.
// It cleans every line, rejects text that does not look like a sectioned
// resume, and guarantees the NAME:/ROLE: header lines are present.
func SanitizeGeneratedResume(text, fullName, jobTitle string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	lines := make([]string, 0, 64)
	for _, rawLine := range strings.Split(text, "\n") {
		line := CleanLine(rawLine)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return ""
	}

	headingCount := 0
	for _, line := range lines {
		stripped := strings.TrimSpace(strings.ReplaceAll(line, ":", ""))
		if headingSanityRe.MatchString(stripped) {
			headingCount++
		}
	}
	if headingCount < minSaneHeadings {
		return ""
	}

	joined := strings.Join(lines, "\n")
	hasName := false
	hasRole := false
	for _, line := range lines {
		if nameLineRe.MatchString(line) {
			hasName = true
		}
		if roleLineRe.MatchString(line) {
			hasRole = true
		}
	}
	if !hasRole {
		role := firstNonEmpty(jobTitle, "Target Role")
		joined = "ROLE: " + role + "\n" + joined
	}
	if !hasName {
		name := firstNonEmpty(fullName, "Candidate Name")
		joined = "NAME: " + name + "\n" + joined
	}
	return joined
}
