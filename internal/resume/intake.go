package resume

import (
	"regexp"
	"strings"
)

const (
	defaultFullName = "Candidate Name"
	defaultJobTitle = "Target Role"

	minDirectiveLength     = 18
	maxCollectedDirectives = 8
	maxRenderedDirectives  = 4
	maxRequestedSections   = 6
)

var (
	promptNameRe = regexp.MustCompile(`(?i)(?:^|\n)\s*(?:name)\s*[:\-]\s*([^\n]+)`)
	promptRoleRe = regexp.MustCompile(`(?i)(?:^|\n)\s*(?:role|job\s*title|position)\s*[:\-]\s*([^\n]+)`)
)

// ExtractPromptIdentity pulls the candidate name and target role from
// labeled lines in a free-text prompt, with generic fallbacks.
func ExtractPromptIdentity(prompt string) (fullName, jobTitle string) {
	fullName = defaultFullName
	jobTitle = defaultJobTitle
	if m := promptNameRe.FindStringSubmatch(prompt); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			fullName = v
		}
	}
	if m := promptRoleRe.FindStringSubmatch(prompt); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			jobTitle = v
		}
	}
	return fullName, jobTitle
}

// pickPromptField returns the value of the first matching "label: value"
// line for any of the given labels.
func pickPromptField(prompt string, labels ...string) string {
	for _, label := range labels {
		re := regexp.MustCompile(`(?i)(?:^|\n)\s*` + regexp.QuoteMeta(label) + `\s*[:\-]\s*([^\n]+)`)
		if m := re.FindStringSubmatch(prompt); m != nil {
			if v := strings.TrimSpace(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// skillVocabulary is the closed set of technology terms the skill inferrer
// recognizes by substring match. Longer spellings come before their
// prefixes so "node.js" wins over "node".
var skillVocabulary = []string{
	"react", "node.js", "node", "mongodb", "express", "javascript",
	"typescript", "python", "java", "c#", "sql", "tailwind", "figma",
	"aws", "docker", "git", "seo", "google ads", "meta ads",
}

// InferSkillsFromPrompt scans a prompt for known technology names when no
// explicit skills line was given.
func InferSkillsFromPrompt(prompt string) []string {
	lower := strings.ToLower(prompt)
	var found []string
	for _, skill := range skillVocabulary {
		if !strings.Contains(lower, skill) {
			continue
		}
		if skill == "node.js" {
			found = append(found, "Node.js")
		} else {
			found = append(found, strings.ToUpper(skill))
		}
	}
	return UniqueItems(found)
}

// ParsePromptToProfile converts a free-text prompt into a normalized
// profile by scanning for labeled fields and inferring skills when none are
// stated. The whole prompt doubles as the quick profile.
func ParsePromptToProfile(prompt string) ProfileData {
	fullName, jobTitle := ExtractPromptIdentity(prompt)

	skills := pickPromptField(prompt, "skills", "technical skills", "tech stack", "stack")
	if skills == "" {
		skills = strings.Join(InferSkillsFromPrompt(prompt), ", ")
	}

	p := ProfileData{
		FullName:            fullName,
		JobTitle:            jobTitle,
		Email:               pickPromptField(prompt, "email"),
		Phone:               pickPromptField(prompt, "phone", "contact"),
		Location:            pickPromptField(prompt, "location", "city", "country"),
		LinkedIn:            pickPromptField(prompt, "linkedin"),
		GitHub:              pickPromptField(prompt, "github"),
		Portfolio:           pickPromptField(prompt, "portfolio", "website"),
		QuickProfile:        strings.TrimSpace(prompt),
		ProfessionalSummary: pickPromptField(prompt, "summary", "professional summary", "profile"),
		Skills:              skills,
		CoreCompetencies:    skills,
		TechnicalSkills:     skills,
		ToolsAndPlatforms:   pickPromptField(prompt, "tools", "platforms"),
		SoftSkills:          pickPromptField(prompt, "soft skills"),
		Experience:          pickPromptField(prompt, "experience", "work experience", "employment"),
		Projects:            pickPromptField(prompt, "projects", "project"),
		Internships:         pickPromptField(prompt, "internships", "internship"),
		Research:            pickPromptField(prompt, "research"),
		Leadership:          pickPromptField(prompt, "leadership"),
		VolunteerWork:       pickPromptField(prompt, "volunteer", "volunteer work"),
		Education:           pickPromptField(prompt, "education", "degree", "qualification"),
		Certifications:      pickPromptField(prompt, "certifications", "certification"),
		Affiliations:        pickPromptField(prompt, "affiliations", "memberships"),
		Publications:        pickPromptField(prompt, "publications", "publication"),
		Awards:              pickPromptField(prompt, "awards", "recognitions"),
		Languages:           pickPromptField(prompt, "languages", "language"),
		Achievements:        pickPromptField(prompt, "achievements", "accomplishments"),
	}
	return p.Normalize()
}

var directiveSplitRe = regexp.MustCompile(`[.\n]`)

// ExtractPromptDirectives collects substantial sentence fragments from the
// prompt, capped at 8, for the TARGET ROLE FOCUS section.
func ExtractPromptDirectives(prompt string) []string {
	flattened := strings.ReplaceAll(prompt, "\r", " ")
	var directives []string
	for _, fragment := range directiveSplitRe.Split(flattened, -1) {
		trimmed := strings.TrimSpace(fragment)
		if len(trimmed) > minDirectiveLength {
			directives = append(directives, trimmed)
		}
		if len(directives) >= maxCollectedDirectives {
			break
		}
	}
	return directives
}

var (
	includeSectionRe  = regexp.MustCompile(`(?i)include\s+([a-z0-9\s,&/-]+?)\s+section`)
	includeSectionsRe = regexp.MustCompile(`(?i)include\s+([a-z0-9\s,&/-]+?)\s+sections`)
	sectionListRe     = regexp.MustCompile(`(?i),|and|&`)
)

// ExtractRequestedSections finds "include X section" phrases and returns
// the requested section names, deduplicated and capped at 6. The plural
// form additionally splits the captured phrase into individual names.
func ExtractRequestedSections(prompt string) []string {
	var names []string
	add := func(name string) {
		for _, existing := range names {
			if existing == name {
				return
			}
		}
		names = append(names, name)
	}

	for _, match := range includeSectionRe.FindAllStringSubmatch(prompt, -1) {
		if section := CompactWhitespace(match[1]); section != "" {
			add(section)
		}
	}
	for _, match := range includeSectionsRe.FindAllStringSubmatch(prompt, -1) {
		for _, part := range sectionListRe.Split(match[1], -1) {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				add(trimmed)
			}
		}
	}

	if len(names) > maxRequestedSections {
		names = names[:maxRequestedSections]
	}
	return names
}
