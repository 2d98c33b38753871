package resume

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	markdownHeadingRe = regexp.MustCompile(`^#{1,6}\s*`)
	bulletPrefixRe    = regexp.MustCompile(`^[-*•]\s*`)
	numberedPrefixRe  = regexp.MustCompile(`^\d+[.)]\s*`)
	whitespaceRe      = regexp.MustCompile(`\s+`)
)

// CleanLine strips the markdown noise models tend to emit: bold and code
// markers, heading hashes, bullet and numbering prefixes.
func CleanLine(line string) string {
	s := strings.ReplaceAll(line, "**", "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.TrimSpace(s)
	s = markdownHeadingRe.ReplaceAllString(s, "")
	s = bulletPrefixRe.ReplaceAllString(s, "")
	s = numberedPrefixRe.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

var itemSeparatorRe = regexp.MustCompile(`[\n,;|]`)

// SplitItems breaks a free-form value into individual items on newlines,
// commas, semicolons and pipes, dropping empties.
func SplitItems(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := itemSeparatorRe.Split(value, -1)
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// UniqueItems removes case-insensitive duplicates, keeping the first
// occurrence's casing and the original order.
func UniqueItems(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		lower := strings.ToLower(strings.TrimSpace(item))
		if lower == "" {
			continue
		}
		if _, ok := seen[lower]; ok {
			continue
		}
		seen[lower] = struct{}{}
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

// Bulletize renders items as "- item" lines, cleaned and deduplicated.
// Returns "" when nothing survives so callers can substitute defaults.
func Bulletize(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if c := CleanLine(item); c != "" {
			cleaned = append(cleaned, c)
		}
	}
	cleaned = UniqueItems(cleaned)
	if len(cleaned) == 0 {
		return ""
	}
	var b strings.Builder
	for i, item := range cleaned {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(item)
	}
	return b.String()
}

// ToTitleCase capitalizes the first letter of each space-separated word.
func ToTitleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// CompactWhitespace collapses any whitespace runs into single spaces.
func CompactWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// truncate caps s at max characters without splitting a rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
