package resume

import (
	"strings"
	"testing"
)

func TestBuildProfessionalResumeTemplateOnly(t *testing.T) {
	data := NormalizeProfile(map[string]any{
		"fullName": "Ayesha Noor",
		"jobTitle": "UI/UX Designer",
		"skills":   "Figma, Prototyping",
	})

	text := BuildProfessionalResume(data, "")

	if !strings.HasPrefix(text, "Ayesha Noor\nUI/UX Designer") {
		t.Fatalf("header mismatch: %q", text[:40])
	}

	for _, key := range SectionOrder {
		heading := Heading(key)
		idx := strings.Index(text, "\n\n"+heading+"\n")
		if idx < 0 {
			t.Errorf("missing section %s", heading)
			continue
		}
		after := text[idx+len(heading)+3:]
		if !strings.HasPrefix(after, "- ") {
			t.Errorf("section %s has no bullet content", heading)
		}
	}

	if !strings.Contains(text, "- Figma") || !strings.Contains(text, "- Prototyping") {
		t.Error("flat skills field should back TECHNICAL SKILLS bullets")
	}
	if !strings.Contains(text, "LANGUAGES\n- English\n- Urdu") {
		t.Error("languages default missing")
	}
}

func TestBuildProfessionalResumeMergesAISections(t *testing.T) {
	data := NormalizeProfile(map[string]any{
		"fullName":        "Bilal Ahmed",
		"jobTitle":        "Data Analyst",
		"technicalSkills": "SQL, Python",
	})
	aiText := "TECHNICAL SKILLS\npython\nTableau\n\nWORK EXPERIENCE\nAnalyzed churn data at RetailCo"

	text := BuildProfessionalResume(data, aiText)

	skillsBlock := sectionBlock(t, text, "TECHNICAL SKILLS")
	if !strings.Contains(skillsBlock, "- SQL") || !strings.Contains(skillsBlock, "- Python") || !strings.Contains(skillsBlock, "- Tableau") {
		t.Errorf("skills block = %q", skillsBlock)
	}
	if strings.Count(skillsBlock, "ython") != 1 {
		t.Errorf("case-insensitive dedup failed: %q", skillsBlock)
	}
	if strings.Index(skillsBlock, "- SQL") > strings.Index(skillsBlock, "- Tableau") {
		t.Error("profile items should come before model items")
	}

	expBlock := sectionBlock(t, text, "WORK EXPERIENCE")
	if !strings.Contains(expBlock, "Analyzed churn data at RetailCo") {
		t.Errorf("experience block = %q", expBlock)
	}
}

func TestSummaryPrecedence(t *testing.T) {
	base := map[string]any{
		"fullName":        "Sara Malik",
		"jobTitle":        "Frontend Developer",
		"technicalSkills": "React, TypeScript, CSS, HTML",
	}

	t.Run("model summary wins", func(t *testing.T) {
		data := NormalizeProfile(base)
		data.ProfessionalSummary = "My own summary"
		text := BuildProfessionalResume(data, "PROFESSIONAL SUMMARY\nModel written summary")
		if !strings.Contains(text, "PROFESSIONAL SUMMARY\n- Model written summary") {
			t.Error("model summary should take precedence")
		}
	})

	t.Run("explicit summary over quick profile", func(t *testing.T) {
		data := NormalizeProfile(base)
		data.ProfessionalSummary = "My own summary"
		data.QuickProfile = "some quick profile"
		text := BuildProfessionalResume(data, "")
		if !strings.Contains(text, "PROFESSIONAL SUMMARY\n- My own summary") {
			t.Error("explicit summary should take precedence over quick profile")
		}
	})

	t.Run("quick profile compressed and truncated", func(t *testing.T) {
		data := NormalizeProfile(base)
		data.QuickProfile = "builds   fast\n\ninterfaces " + strings.Repeat("x", 300)
		text := BuildProfessionalResume(data, "")
		if !strings.Contains(text, "Sara Malik is a Frontend Developer candidate aligned with this target profile: builds fast interfaces") {
			t.Error("quick profile sentence missing")
		}
		if strings.Contains(text, strings.Repeat("x", 241)) {
			t.Error("quick profile should be truncated to 240 chars")
		}
	})

	t.Run("generic sentence uses top three skills", func(t *testing.T) {
		data := NormalizeProfile(base)
		text := BuildProfessionalResume(data, "")
		if !strings.Contains(text, "Sara Malik is a results-oriented Frontend Developer with practical experience in React, TypeScript, CSS,") {
			t.Error("generic summary sentence missing or wrong skill cap")
		}
	})
}

func TestContactSynthesis(t *testing.T) {
	data := NormalizeProfile(map[string]any{
		"fullName": "Omar Siddiqui",
		"jobTitle": "DevOps Engineer",
		"email":    "omar@example.com",
		"phone":    "+92 300 0000000",
		"location": "Lahore",
		"github":   "github.com/omar",
	})

	text := BuildProfessionalResume(data, "CONTACT\nomar@example.com | +92 300 0000000 | Lahore")
	block := sectionBlock(t, text, "CONTACT")

	if !strings.Contains(block, "- omar@example.com | +92 300 0000000 | Lahore") {
		t.Errorf("contact basics missing: %q", block)
	}
	if !strings.Contains(block, "- github.com/omar") {
		t.Errorf("links line missing: %q", block)
	}
	if strings.Count(block, "omar@example.com") != 1 {
		t.Errorf("duplicate contact line not removed: %q", block)
	}
}

func TestBuildPromptAwareResume(t *testing.T) {
	data := NormalizeProfile(map[string]any{
		"fullName": "Hina Raza",
		"jobTitle": "Content Strategist",
	})

	t.Run("target role focus from directives", func(t *testing.T) {
		prompt := "Focus on editorial planning for B2B audiences. Emphasize SEO-driven growth results achieved."
		text := BuildPromptAwareResume(data, prompt, "")
		if !strings.Contains(text, "TARGET ROLE FOCUS\n- Focus on editorial planning for B2B audiences") {
			t.Errorf("directive bullets missing:\n%s", text)
		}
	})

	t.Run("generic focus when prompt has no directives", func(t *testing.T) {
		text := BuildPromptAwareResume(data, "short words only", "")
		if !strings.Contains(text, "TARGET ROLE FOCUS\n- Built according to target role requirements for Content Strategist") {
			t.Error("generic focus bullet missing")
		}
	})

	t.Run("requested section appended", func(t *testing.T) {
		text := BuildPromptAwareResume(data, "please include hobbies section", "")
		if !strings.Contains(text, "\n\nHOBBIES\n- Tailored content aligned with Content Strategist responsibilities") {
			t.Errorf("requested section missing:\n%s", text)
		}
	})

	t.Run("existing section not duplicated", func(t *testing.T) {
		text := BuildPromptAwareResume(data, "include education section", "")
		if strings.Count(text, "\nEDUCATION\n") != 1 {
			t.Error("EDUCATION should appear exactly once")
		}
	})
}

func sectionBlock(t *testing.T, text, heading string) string {
	t.Helper()
	idx := strings.Index(text, "\n\n"+heading+"\n")
	if idx < 0 {
		t.Fatalf("section %s not found", heading)
	}
	rest := text[idx+len(heading)+3:]
	if end := strings.Index(rest, "\n\n"); end >= 0 {
		return rest[:end]
	}
	return rest
}
