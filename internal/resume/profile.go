package resume

import (
	"fmt"
	"strings"
)

// ProfileData is the normalized candidate profile every generation path
// works from. All fields are plain strings; list-like fields hold their
// items separated by newlines, commas, semicolons or pipes.
type ProfileData struct {
	FullName            string `json:"fullName"`
	JobTitle            string `json:"jobTitle"`
	Email               string `json:"email"`
	Phone               string `json:"phone"`
	Location            string `json:"location"`
	LinkedIn            string `json:"linkedin"`
	GitHub              string `json:"github"`
	Portfolio           string `json:"portfolio"`
	QuickProfile        string `json:"quickProfile"`
	ProfessionalSummary string `json:"professionalSummary"`
	Skills              string `json:"skills"`
	CoreCompetencies    string `json:"coreCompetencies"`
	TechnicalSkills     string `json:"technicalSkills"`
	ToolsAndPlatforms   string `json:"toolsAndPlatforms"`
	SoftSkills          string `json:"softSkills"`
	Experience          string `json:"experience"`
	Projects            string `json:"projects"`
	Internships         string `json:"internships"`
	Research            string `json:"research"`
	Leadership          string `json:"leadership"`
	VolunteerWork       string `json:"volunteerWork"`
	Education           string `json:"education"`
	Certifications      string `json:"certifications"`
	Affiliations        string `json:"affiliations"`
	Publications        string `json:"publications"`
	Awards              string `json:"awards"`
	Languages           string `json:"languages"`
	Achievements        string `json:"achievements"`
}

// NormalizeProfile fills every field from an arbitrary payload, defaulting
// missing or non-string values to "". The legacy flat `skills` field backs
// coreCompetencies and technicalSkills when those are absent.
func NormalizeProfile(raw map[string]any) ProfileData {
	get := func(key string) string {
		v, ok := raw[key]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case string:
			return strings.TrimSpace(t)
		case []any:
			parts := make([]string, 0, len(t))
			for _, item := range t {
				parts = append(parts, strings.TrimSpace(fmt.Sprint(item)))
			}
			return strings.Join(parts, ", ")
		default:
			return strings.TrimSpace(fmt.Sprint(v))
		}
	}

	p := ProfileData{
		FullName:            get("fullName"),
		JobTitle:            get("jobTitle"),
		Email:               get("email"),
		Phone:               get("phone"),
		Location:            get("location"),
		LinkedIn:            get("linkedin"),
		GitHub:              get("github"),
		Portfolio:           get("portfolio"),
		QuickProfile:        get("quickProfile"),
		ProfessionalSummary: get("professionalSummary"),
		Skills:              get("skills"),
		CoreCompetencies:    get("coreCompetencies"),
		TechnicalSkills:     get("technicalSkills"),
		ToolsAndPlatforms:   get("toolsAndPlatforms"),
		SoftSkills:          get("softSkills"),
		Experience:          get("experience"),
		Projects:            get("projects"),
		Internships:         get("internships"),
		Research:            get("research"),
		Leadership:          get("leadership"),
		VolunteerWork:       get("volunteerWork"),
		Education:           get("education"),
		Certifications:      get("certifications"),
		Affiliations:        get("affiliations"),
		Publications:        get("publications"),
		Awards:              get("awards"),
		Languages:           get("languages"),
		Achievements:        get("achievements"),
	}

	if p.CoreCompetencies == "" {
		p.CoreCompetencies = p.Skills
	}
	if p.TechnicalSkills == "" {
		p.TechnicalSkills = p.Skills
	}
	return p
}

// Normalize applies the same defaulting rules to an already-typed profile.
func (p ProfileData) Normalize() ProfileData {
	out := p
	if strings.TrimSpace(out.CoreCompetencies) == "" {
		out.CoreCompetencies = out.Skills
	}
	if strings.TrimSpace(out.TechnicalSkills) == "" {
		out.TechnicalSkills = out.Skills
	}
	return out
}

// HasGenerationContent reports whether the profile carries at least one of
// the fields the generator can build a resume from.
func (p ProfileData) HasGenerationContent() bool {
	return firstNonEmpty(p.TechnicalSkills, p.CoreCompetencies, p.QuickProfile, p.Experience) != ""
}
