package ai

import (
	"fmt"
	"strings"

	"resumeforge/internal/resume"
)

// Default system personas. Custom personas from config override these at
// runtime via the prompt store.
const (
	defaultGeneratePersona = "You are an expert resume writer who creates concise ATS-friendly CVs."
	defaultImprovePersona  = "You are an expert ATS CV writer. Improve section quality without fluff."
)

// structuredPromptHeadings is the heading order the model is instructed to
// return for the structured profile prompt.
var structuredPromptHeadings = []string{
	"NAME",
	"ROLE",
	"CONTACT",
	"PROFESSIONAL SUMMARY",
	"CORE COMPETENCIES",
	"TECHNICAL SKILLS",
	"TOOLS AND PLATFORMS",
	"SOFT SKILLS",
	"WORK EXPERIENCE",
	"PROJECTS",
	"INTERNSHIPS",
	"RESEARCH",
	"LEADERSHIP",
	"VOLUNTEER WORK",
	"EDUCATION",
	"CERTIFICATIONS",
	"PROFESSIONAL AFFILIATIONS",
	"PUBLICATIONS",
	"AWARDS",
	"LANGUAGES",
	"ACHIEVEMENTS",
}

func orNA(value string) string {
	if strings.TrimSpace(value) == "" {
		return "N/A"
	}
	return value
}

// BuildStructuredPrompt enumerates every profile field as labeled lines
// with fixed formatting rules and a mandatory heading order.
func BuildStructuredPrompt(data resume.ProfileData) string {
	var b strings.Builder
	b.WriteString("Create a professional ATS-ready CV in plain text.\n\n")
	b.WriteString("Candidate Input:\n")
	fmt.Fprintf(&b, "- Name: %s\n", data.FullName)
	fmt.Fprintf(&b, "- Target Role: %s\n", data.JobTitle)
	fmt.Fprintf(&b, "- Quick Profile Notes: %s\n", orNA(data.QuickProfile))
	fmt.Fprintf(&b, "- Contact: %s | %s | %s\n", orNA(data.Email), orNA(data.Phone), orNA(data.Location))
	fmt.Fprintf(&b, "- Links: LinkedIn %s, GitHub %s, Portfolio %s\n", orNA(data.LinkedIn), orNA(data.GitHub), orNA(data.Portfolio))
	fmt.Fprintf(&b, "- Professional Summary Input: %s\n", orNA(data.ProfessionalSummary))
	fmt.Fprintf(&b, "- Core Competencies: %s\n", orNA(data.CoreCompetencies))
	fmt.Fprintf(&b, "- Technical Skills: %s\n", orNA(data.TechnicalSkills))
	fmt.Fprintf(&b, "- Tools/Platforms: %s\n", orNA(data.ToolsAndPlatforms))
	fmt.Fprintf(&b, "- Soft Skills: %s\n", orNA(data.SoftSkills))
	fmt.Fprintf(&b, "- Experience: %s\n", orNA(data.Experience))
	fmt.Fprintf(&b, "- Projects: %s\n", orNA(data.Projects))
	fmt.Fprintf(&b, "- Internships: %s\n", orNA(data.Internships))
	fmt.Fprintf(&b, "- Research: %s\n", orNA(data.Research))
	fmt.Fprintf(&b, "- Leadership: %s\n", orNA(data.Leadership))
	fmt.Fprintf(&b, "- Volunteer Work: %s\n", orNA(data.VolunteerWork))
	fmt.Fprintf(&b, "- Education: %s\n", orNA(data.Education))
	fmt.Fprintf(&b, "- Certifications: %s\n", orNA(data.Certifications))
	fmt.Fprintf(&b, "- Affiliations: %s\n", orNA(data.Affiliations))
	fmt.Fprintf(&b, "- Publications: %s\n", orNA(data.Publications))
	fmt.Fprintf(&b, "- Awards: %s\n", orNA(data.Awards))
	fmt.Fprintf(&b, "- Languages: %s\n", orNA(data.Languages))
	fmt.Fprintf(&b, "- Achievements: %s\n", orNA(data.Achievements))
	b.WriteString("\nRules:\n")
	b.WriteString("- If some sections are missing, infer concise professional content from available role and skills.\n")
	b.WriteString("- Use action verbs and impact-driven bullets.\n")
	b.WriteString("- Include measurable outcomes where reasonable.\n")
	b.WriteString("- Keep formatting ATS-friendly and clean.\n")
	b.WriteString("- Do not use markdown symbols like ** or ###.\n")
	b.WriteString("- Keep content concise, professional, and job-relevant.\n")
	b.WriteString("\nReturn sections in this exact order with uppercase headings:\n")
	b.WriteString(strings.Join(structuredPromptHeadings, "\n"))
	return b.String()
}

// BuildInstructionPrompt wraps a free-text user prompt with the resume
// writer framing, required core headings and recommended headings.
func BuildInstructionPrompt(userPrompt string) string {
	return `You are a world-class resume writer and career strategist.

User prompt:
` + userPrompt + `

Create one polished ATS-friendly CV in plain text that follows user instructions as closely as possible.
Follow these strict rules:
- Do not use markdown symbols.
- Keep language professional, concise, and impact-oriented.
- If user gives specific instructions (tone, style, section focus, section names), follow them.
- If user asks for additional sections, include them as UPPERCASE headings.
- If user did not provide some info, infer safely and keep it realistic.
- Use strong action verbs and measurable impact where possible.
- Avoid generic filler.
- Output must be directly usable as resume content.

Required core headings (must include):
NAME: <full name>
ROLE: <target role>
CONTACT
PROFESSIONAL SUMMARY
TECHNICAL SKILLS
WORK EXPERIENCE
EDUCATION

Recommended headings (include when relevant):
CORE COMPETENCIES
TOOLS AND PLATFORMS
SOFT SKILLS
CERTIFICATIONS
PROFESSIONAL AFFILIATIONS
PUBLICATIONS
AWARDS
LANGUAGES
ACHIEVEMENTS
PROJECTS
INTERNSHIPS
RESEARCH
LEADERSHIP
VOLUNTEER WORK`
}

// BuildImprovePrompt is the section rewrite prompt used for the primary
// chat-completion tier.
func BuildImprovePrompt(input ImproveSectionInput) string {
	return fmt.Sprintf(`Rewrite this CV section professionally.

Section: %s
Target Role: %s
Current Section Content:
%s

Full Resume Context:
%s

Rules:
- Return only improved bullet content lines, no heading.
- No markdown symbols, no numbering.
- Keep concise, ATS-friendly, and action-oriented.
- Maximum 6 lines.`,
		input.SectionKey,
		orNA(input.TargetRole),
		orNA(input.CurrentText),
		orNA(input.FullResumeText))
}

// BuildImprovePromptCompact is the shorter rewrite prompt used for the
// self-hosted tier, where output length is already bounded.
func BuildImprovePromptCompact(input ImproveSectionInput) string {
	return fmt.Sprintf(`Rewrite this CV section professionally.
Section: %s
Target Role: %s
Current Section Content:
%s

Full Resume Context:
%s

Return only section content lines, no heading, no markdown, max 6 lines.`,
		input.SectionKey,
		orNA(input.TargetRole),
		orNA(input.CurrentText),
		orNA(input.FullResumeText))
}
