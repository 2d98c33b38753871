package resume

// SectionKey identifies one of the canonical resume content categories.
type SectionKey string

const (
	SectionContact          SectionKey = "contact"
	SectionSummary          SectionKey = "summary"
	SectionCoreCompetencies SectionKey = "coreCompetencies"
	SectionTechnicalSkills  SectionKey = "technicalSkills"
	SectionTools            SectionKey = "tools"
	SectionSoftSkills       SectionKey = "softSkills"
	SectionExperience       SectionKey = "experience"
	SectionProjects         SectionKey = "projects"
	SectionInternships      SectionKey = "internships"
	SectionResearch         SectionKey = "research"
	SectionLeadership       SectionKey = "leadership"
	SectionVolunteer        SectionKey = "volunteer"
	SectionEducation        SectionKey = "education"
	SectionCertifications   SectionKey = "certifications"
	SectionAffiliations     SectionKey = "affiliations"
	SectionPublications     SectionKey = "publications"
	SectionAwards           SectionKey = "awards"
	SectionLanguages        SectionKey = "languages"
	SectionAchievements     SectionKey = "achievements"
)

// SectionOrder is the canonical rendering order of the fixed sections.
// The generator and both parsers must agree on this list for round-trip
// editing to work.
var SectionOrder = []SectionKey{
	SectionContact,
	SectionSummary,
	SectionCoreCompetencies,
	SectionTechnicalSkills,
	SectionTools,
	SectionSoftSkills,
	SectionExperience,
	SectionProjects,
	SectionInternships,
	SectionResearch,
	SectionLeadership,
	SectionVolunteer,
	SectionEducation,
	SectionCertifications,
	SectionAffiliations,
	SectionPublications,
	SectionAwards,
	SectionLanguages,
	SectionAchievements,
}

// SectionHeadings maps each canonical section to its uppercase heading.
var SectionHeadings = map[SectionKey]string{
	SectionContact:          "CONTACT",
	SectionSummary:          "PROFESSIONAL SUMMARY",
	SectionCoreCompetencies: "CORE COMPETENCIES",
	SectionTechnicalSkills:  "TECHNICAL SKILLS",
	SectionTools:            "TOOLS AND PLATFORMS",
	SectionSoftSkills:       "SOFT SKILLS",
	SectionExperience:       "WORK EXPERIENCE",
	SectionProjects:         "PROJECTS",
	SectionInternships:      "INTERNSHIPS",
	SectionResearch:         "RESEARCH",
	SectionLeadership:       "LEADERSHIP",
	SectionVolunteer:        "VOLUNTEER WORK",
	SectionEducation:        "EDUCATION",
	SectionCertifications:   "CERTIFICATIONS",
	SectionAffiliations:     "PROFESSIONAL AFFILIATIONS",
	SectionPublications:     "PUBLICATIONS",
	SectionAwards:           "AWARDS",
	SectionLanguages:        "LANGUAGES",
	SectionAchievements:     "ACHIEVEMENTS",
}

// headingToKey is the inverse of SectionHeadings, built once at init.
var headingToKey = func() map[string]SectionKey {
	m := make(map[string]SectionKey, len(SectionHeadings))
	for key, heading := range SectionHeadings {
		m[heading] = key
	}
	return m
}()

// headingSynonyms lists the alternative heading spellings the lenient
// document parser accepts. The first entry of each list is the heading
// used when re-serializing.
var headingSynonyms = map[SectionKey][]string{
	SectionContact:          {"CONTACT"},
	SectionSummary:          {"SUMMARY", "PROFESSIONAL SUMMARY"},
	SectionCoreCompetencies: {"CORE COMPETENCIES", "COMPETENCIES"},
	SectionTechnicalSkills:  {"TECHNICAL SKILLS", "SKILLS"},
	SectionTools:            {"TOOLS AND PLATFORMS", "TOOLS", "PLATFORMS"},
	SectionSoftSkills:       {"SOFT SKILLS"},
	SectionExperience:       {"WORK EXPERIENCE", "EXPERIENCE"},
	SectionProjects:         {"PROJECTS", "PROJECT PORTFOLIO"},
	SectionInternships:      {"INTERNSHIPS"},
	SectionResearch:         {"RESEARCH"},
	SectionLeadership:       {"LEADERSHIP"},
	SectionVolunteer:        {"VOLUNTEER WORK", "VOLUNTEER"},
	SectionEducation:        {"EDUCATION"},
	SectionCertifications:   {"CERTIFICATIONS"},
	SectionAffiliations:     {"PROFESSIONAL AFFILIATIONS", "AFFILIATIONS"},
	SectionPublications:     {"PUBLICATIONS"},
	SectionAwards:           {"AWARDS", "RECOGNITIONS"},
	SectionLanguages:        {"LANGUAGES", "LANGUAGE PROFICIENCY"},
	SectionAchievements:     {"ACHIEVEMENTS"},
}

// ParsedSections maps a section key to the cleaned content lines
// collected for it. Custom keys discovered by the lenient parser use the
// "custom__" prefix and live alongside the canonical ones.
type ParsedSections map[SectionKey][]string

func emptySections() ParsedSections {
	sections := make(ParsedSections, len(SectionOrder))
	for _, key := range SectionOrder {
		sections[key] = nil
	}
	return sections
}

// Heading returns the canonical uppercase heading for a section key.
func Heading(key SectionKey) string {
	return SectionHeadings[key]
}

// KeyForHeading resolves an exact uppercase heading to its section key.
func KeyForHeading(heading string) (SectionKey, bool) {
	key, ok := headingToKey[heading]
	return key, ok
}
