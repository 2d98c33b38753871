package resume

import (
	"regexp"
	"strings"
)

// CustomKeyPrefix namespaces section keys discovered at parse time that are
// not part of the canonical set.
const CustomKeyPrefix = "custom__"

const maxCustomHeadingLength = 45

// SectionMeta describes a custom section discovered by the lenient parser.
type SectionMeta struct {
	Label  string `json:"label"`
	Column string `json:"column"`
}

// Document is a resume re-parsed from its rendered text form, editable by
// section and serializable back to the same wire format.
type Document struct {
	FullName   string
	JobTitle   string
	Sections   ParsedSections
	CustomMeta map[SectionKey]SectionMeta
	// customOrder preserves discovery order of custom keys so
	// serialization is stable.
	customOrder []SectionKey
}

var likelyHeadingRe = regexp.MustCompile(`^[A-Z][A-Z\s/&()\-]+$`)

// isLikelyHeading reports whether a cleaned line reads as a short all-caps
// heading once colons are removed.
func isLikelyHeading(line string) bool {
	stripped := strings.TrimSpace(strings.ReplaceAll(line, ":", ""))
	if stripped == "" || len(stripped) > maxCustomHeadingLength {
		return false
	}
	return likelyHeadingRe.MatchString(stripped)
}

// matchSectionKey resolves a line to a canonical section via the synonym
// table. Unlike the strict parser, a normalized line that merely contains a
// known heading still matches.
func matchSectionKey(line string) (SectionKey, bool) {
	normalized := strings.TrimSpace(strings.ToUpper(strings.ReplaceAll(line, ":", "")))
	if normalized == "" {
		return "", false
	}
	for _, key := range SectionOrder {
		for _, pattern := range headingSynonyms[key] {
			if normalized == pattern || strings.Contains(normalized, pattern) {
				return key, true
			}
		}
	}
	return "", false
}

var customSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

func customKeyFor(heading string) SectionKey {
	slug := strings.ToLower(strings.TrimSpace(heading))
	slug = strings.Trim(customSlugRe.ReplaceAllString(slug, "_"), "_")
	if slug == "" {
		slug = "extra"
	}
	return SectionKey(CustomKeyPrefix + slug)
}

// headerValue extracts the value of a "NAME: ..." / "ROLE: ..." pseudo
// header line, case-insensitively, or "" when the line is not one.
func headerValue(line, label string) string {
	upper := strings.ToUpper(line)
	if !strings.HasPrefix(upper, label+":") {
		return ""
	}
	return strings.TrimSpace(line[len(label)+1:])
}

// ParseDocument re-parses a rendered resume leniently: heading synonyms
// match by containment, unknown short all-caps lines open custom sections,
// and everything else accrues to the current section (initially summary).
func ParseDocument(text string) *Document {
	doc := &Document{
		Sections:   emptySections(),
		CustomMeta: make(map[SectionKey]SectionMeta),
	}

	lines := make([]string, 0, 64)
	for _, rawLine := range strings.Split(text, "\n") {
		if line := CleanLine(rawLine); line != "" {
			lines = append(lines, line)
		}
	}

	var nameFromHeader, roleFromHeader string
	for _, line := range lines {
		if nameFromHeader == "" {
			nameFromHeader = headerValue(line, "NAME")
		}
		if roleFromHeader == "" {
			roleFromHeader = headerValue(line, "ROLE")
		}
	}

	doc.FullName = nameFromHeader
	if doc.FullName == "" && len(lines) > 0 {
		doc.FullName = lines[0]
	}
	if doc.FullName == "" {
		doc.FullName = defaultFullName
	}
	doc.JobTitle = roleFromHeader
	if doc.JobTitle == "" && len(lines) > 1 {
		doc.JobTitle = lines[1]
	}
	if doc.JobTitle == "" {
		doc.JobTitle = defaultJobTitle
	}

	current := SectionSummary
	for _, line := range lines {
		if line == doc.FullName || line == doc.JobTitle {
			continue
		}
		if headerValue(line, "NAME") != "" || headerValue(line, "ROLE") != "" {
			continue
		}

		if key, ok := matchSectionKey(line); ok {
			current = key
			continue
		}
		if isLikelyHeading(line) {
			label := strings.TrimSpace(strings.ReplaceAll(line, ":", ""))
			key := customKeyFor(label)
			if _, seen := doc.CustomMeta[key]; !seen {
				doc.CustomMeta[key] = SectionMeta{Label: label, Column: "main"}
				doc.customOrder = append(doc.customOrder, key)
			}
			current = key
			continue
		}

		doc.Sections[current] = append(doc.Sections[current], line)
	}
	return doc
}

// IsCustomKey reports whether a section key lives in the custom namespace.
func IsCustomKey(key SectionKey) bool {
	return strings.HasPrefix(string(key), CustomKeyPrefix)
}

// HeadingFor returns the heading used when serializing a section: the
// first synonym for known keys, the uppercased discovered label for custom
// ones.
func (d *Document) HeadingFor(key SectionKey) string {
	if IsCustomKey(key) {
		if meta, ok := d.CustomMeta[key]; ok && meta.Label != "" {
			return strings.ToUpper(meta.Label)
		}
		raw := strings.TrimSpace(strings.ReplaceAll(strings.TrimPrefix(string(key), CustomKeyPrefix), "_", " "))
		if raw == "" {
			return "ADDITIONAL SECTION"
		}
		return strings.ToUpper(raw)
	}
	if synonyms := headingSynonyms[key]; len(synonyms) > 0 {
		return synonyms[0]
	}
	return Heading(key)
}

// OrderedKeys returns the canonical keys followed by discovered custom keys
// in first-seen order.
func (d *Document) OrderedKeys() []SectionKey {
	keys := make([]SectionKey, 0, len(SectionOrder)+len(d.customOrder))
	keys = append(keys, SectionOrder...)
	keys = append(keys, d.customOrder...)
	return keys
}

// Serialize renders the document back to wire format: name line, role
// line, then every non-empty section as a heading plus "- " bullets.
func (d *Document) Serialize() string {
	parts := []string{d.FullName, d.JobTitle}
	for _, key := range d.OrderedKeys() {
		items := d.Sections[key]
		if len(items) == 0 {
			continue
		}
		parts = append(parts, "", d.HeadingFor(key))
		for _, item := range items {
			parts = append(parts, "- "+item)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
