package resume

import (
	"fmt"
	"regexp"
	"strings"
)

const quickProfileSummaryLimit = 240

// safeSummary picks the professional summary with a fixed precedence:
// model output, the user's own summary, a compressed quick profile, then a
// generic line built from the top skills.
func safeSummary(data ProfileData, aiSections ParsedSections) string {
	if aiSections != nil {
		if lines := aiSections[SectionSummary]; len(lines) > 0 {
			if s := strings.TrimSpace(lines[0]); s != "" {
				return s
			}
		}
	}
	if s := strings.TrimSpace(data.ProfessionalSummary); s != "" {
		return s
	}
	if qp := CompactWhitespace(data.QuickProfile); qp != "" {
		return fmt.Sprintf("%s is a %s candidate aligned with this target profile: %s",
			data.FullName, data.JobTitle, truncate(qp, quickProfileSummaryLimit))
	}

	skillSource := firstNonEmpty(data.TechnicalSkills, data.CoreCompetencies, data.Skills)
	skillPhrase := "modern tools and collaborative delivery"
	if skills := SplitItems(skillSource); len(skills) > 0 {
		if len(skills) > 3 {
			skills = skills[:3]
		}
		skillPhrase = strings.Join(skills, ", ")
	}
	return fmt.Sprintf("%s is a results-oriented %s with practical experience in %s, focused on delivering clean, user-centered, and business-aligned outcomes.",
		data.FullName, data.JobTitle, skillPhrase)
}

// contactLines synthesizes the CONTACT section from profile fields plus any
// contact lines the model produced.
func contactLines(data ProfileData, aiSections ParsedSections) []string {
	lines := make([]string, 0, 4)
	if basics := joinPresent(" | ", data.Email, data.Phone, data.Location); basics != "" {
		lines = append(lines, basics)
	}
	if links := joinPresent(" | ", data.LinkedIn, data.GitHub, data.Portfolio); links != "" {
		lines = append(lines, links)
	}
	if aiSections != nil {
		lines = append(lines, aiSections[SectionContact]...)
	}
	return UniqueItems(lines)
}

func joinPresent(sep string, values ...string) string {
	present := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			present = append(present, trimmed)
		}
	}
	return strings.Join(present, sep)
}

// primarySkill picks the lead skill for the technical-skills default from
// the merged profile and model skill items.
func primarySkill(data ProfileData, aiSections ParsedSections) string {
	combined := SplitItems(data.TechnicalSkills)
	combined = append(combined, aiSections[SectionTechnicalSkills]...)
	combined = append(combined, SplitItems(data.CoreCompetencies)...)
	combined = append(combined, aiSections[SectionCoreCompetencies]...)
	unique := UniqueItems(combined)
	if len(unique) > 4 {
		unique = unique[:4]
	}
	if len(unique) > 0 {
		return unique[0]
	}
	return "web development"
}

// sectionDefaults returns the fallback body for every canonical section,
// used whenever neither the profile nor the model contributed content.
func sectionDefaults(data ProfileData, aiSections ParsedSections) map[SectionKey]string {
	return map[SectionKey]string{
		SectionContact: "- Professional contact details available on request",
		SectionSummary: "- " + safeSummary(data, aiSections),
		SectionCoreCompetencies: "- Problem solving\n" +
			"- Team collaboration\n" +
			"- Communication\n" +
			"- Adaptability",
		SectionTechnicalSkills: "- " + primarySkill(data, aiSections) + "\n" +
			"- Frontend and backend development fundamentals\n" +
			"- API integration\n" +
			"- Version control with Git",
		SectionTools: "- Git and GitHub\n" +
			"- VS Code\n" +
			"- REST API testing tools\n" +
			"- Collaboration and productivity tools",
		SectionSoftSkills: "- Time management\n" +
			"- Stakeholder communication\n" +
			"- Analytical thinking\n" +
			"- Ownership mindset",
		SectionExperience: "- Designed and delivered role-relevant features with focus on quality, usability, and performance\n" +
			"- Collaborated with peers to complete tasks on schedule and improve output consistency",
		SectionProjects: "- Built portfolio-ready projects aligned with target role requirements\n" +
			"- Implemented practical functionality and improved user experience through iterative updates",
		SectionInternships:    "- Applied academic and self-learned knowledge in real task environments",
		SectionResearch:       "- Studied role-relevant technologies and implementation approaches",
		SectionLeadership:     "- Coordinated team tasks and supported delivery planning in collaborative work",
		SectionVolunteer:      "- Contributed skills and time to community or team initiatives",
		SectionEducation:      "- Educational background aligned with target role",
		SectionCertifications: "- Completed self-paced and guided training in job-relevant topics",
		SectionAffiliations:   "- Engaged with professional communities for continuous learning",
		SectionPublications:   "- Technical notes and write-ups available upon request",
		SectionAwards:         "- Recognized for consistent quality and professional conduct",
		SectionLanguages:      "- English\n- Urdu",
		SectionAchievements:   "- Delivered impactful outcomes through reliable execution and ongoing improvement",
	}
}

// sectionBody assembles one section's bullet block, preferring model output
// merged with the matching profile field, falling back to the default.
func sectionBody(key SectionKey, data ProfileData, aiSections ParsedSections, defaults map[SectionKey]string) string {
	items := SplitItems(profileField(key, data))
	if aiSections != nil {
		items = append(items, aiSections[key]...)
	}
	if body := Bulletize(items); body != "" {
		return body
	}
	return defaults[key]
}

func profileField(key SectionKey, data ProfileData) string {
	switch key {
	case SectionCoreCompetencies:
		return data.CoreCompetencies
	case SectionTechnicalSkills:
		return data.TechnicalSkills
	case SectionTools:
		return data.ToolsAndPlatforms
	case SectionSoftSkills:
		return data.SoftSkills
	case SectionExperience:
		return data.Experience
	case SectionProjects:
		return data.Projects
	case SectionInternships:
		return data.Internships
	case SectionResearch:
		return data.Research
	case SectionLeadership:
		return data.Leadership
	case SectionVolunteer:
		return data.VolunteerWork
	case SectionEducation:
		return data.Education
	case SectionCertifications:
		return data.Certifications
	case SectionAffiliations:
		return data.Affiliations
	case SectionPublications:
		return data.Publications
	case SectionAwards:
		return data.Awards
	case SectionLanguages:
		return data.Languages
	case SectionAchievements:
		return data.Achievements
	default:
		return ""
	}
}

// BuildProfessionalResume renders the full plain-text resume: name and role
// header followed by every canonical section in order. aiText may be empty;
// each section then falls back to profile fields and defaults.
func BuildProfessionalResume(data ProfileData, aiText string) string {
	data = data.Normalize()
	aiSections := ParseAISections(aiText)
	defaults := sectionDefaults(data, aiSections)

	var b strings.Builder
	b.WriteString(data.FullName)
	b.WriteString("\n")
	b.WriteString(data.JobTitle)

	for _, key := range SectionOrder {
		b.WriteString("\n\n")
		b.WriteString(Heading(key))
		b.WriteString("\n")
		switch key {
		case SectionContact:
			if body := Bulletize(contactLines(data, aiSections)); body != "" {
				b.WriteString(body)
			} else {
				b.WriteString(defaults[SectionContact])
			}
		case SectionSummary:
			b.WriteString("- " + safeSummary(data, aiSections))
		default:
			b.WriteString(sectionBody(key, data, aiSections, defaults))
		}
	}
	return strings.TrimSpace(b.String())
}

var targetRoleFocusRe = regexp.MustCompile(`(?i)TARGET ROLE FOCUS`)

// BuildPromptAwareResume renders the base resume and then honors the user's
// prompt: a TARGET ROLE FOCUS section built from extracted directives, plus
// any explicitly requested sections not already present.
func BuildPromptAwareResume(data ProfileData, userPrompt, aiText string) string {
	data = data.Normalize()
	text := BuildProfessionalResume(data, aiText)

	if !targetRoleFocusRe.MatchString(text) {
		directives := ExtractPromptDirectives(userPrompt)
		var lines []string
		for _, d := range directives {
			if len(lines) >= maxRenderedDirectives {
				break
			}
			if c := CleanLine(d); c != "" {
				lines = append(lines, "- "+c)
			}
		}
		if len(lines) == 0 {
			lines = []string{"- Built according to target role requirements for " + data.JobTitle}
		}
		text += "\n\nTARGET ROLE FOCUS\n" + strings.Join(lines, "\n")
	}

	for _, requested := range ExtractRequestedSections(userPrompt) {
		heading := strings.ToUpper(ToTitleCase(requested))
		if len(heading) < 3 {
			continue
		}
		if strings.Contains(strings.ToUpper(text), "\n"+heading+"\n") {
			continue
		}
		text += "\n\n" + heading + "\n" +
			"- Tailored content aligned with " + data.JobTitle + " responsibilities\n" +
			"- Highlights prepared according to user-requested focus area"
	}
	return strings.TrimSpace(text)
}
