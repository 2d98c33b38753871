package resume

import (
	"strings"
	"testing"
)

func TestParseAISections(t *testing.T) {
	t.Run("exact headings open sections", func(t *testing.T) {
		text := "TECHNICAL SKILLS\nGo\nPostgres\n\nWORK EXPERIENCE\nBuilt services at Acme"
		sections := ParseAISections(text)

		skills := sections[SectionTechnicalSkills]
		if len(skills) != 2 || skills[0] != "Go" || skills[1] != "Postgres" {
			t.Errorf("technical skills = %v", skills)
		}
		exp := sections[SectionExperience]
		if len(exp) != 1 || exp[0] != "Built services at Acme" {
			t.Errorf("experience = %v", exp)
		}
	})

	t.Run("content before first heading is dropped", func(t *testing.T) {
		text := "Here is your resume:\nlooks great\nEDUCATION\nBS Computer Science"
		sections := ParseAISections(text)

		if len(sections[SectionEducation]) != 1 {
			t.Errorf("education = %v", sections[SectionEducation])
		}
		for key, lines := range sections {
			if key != SectionEducation && len(lines) != 0 {
				t.Errorf("unexpected content under %s: %v", key, lines)
			}
		}
	})

	t.Run("heading match is exact not substring", func(t *testing.T) {
		text := "MY TECHNICAL SKILLS\nGo"
		sections := ParseAISections(text)
		if len(sections[SectionTechnicalSkills]) != 0 {
			t.Errorf("embedded heading should not match strictly, got %v", sections[SectionTechnicalSkills])
		}
	})

	t.Run("heading with colon and markdown recognized", func(t *testing.T) {
		text := "**PROFESSIONAL SUMMARY:**\nSeasoned engineer"
		sections := ParseAISections(text)
		if len(sections[SectionSummary]) != 1 || sections[SectionSummary][0] != "Seasoned engineer" {
			t.Errorf("summary = %v", sections[SectionSummary])
		}
	})

	t.Run("empty input yields empty sections", func(t *testing.T) {
		sections := ParseAISections("")
		for key, lines := range sections {
			if len(lines) != 0 {
				t.Errorf("section %s not empty: %v", key, lines)
			}
		}
	})
}

func TestSanitizeGeneratedResume(t *testing.T) {
	wellFormed := strings.Join([]string{
		"NAME: Ali Khan",
		"ROLE: Backend Developer",
		"CONTACT",
		"ali@example.com",
		"PROFESSIONAL SUMMARY",
		"Experienced backend developer",
		"TECHNICAL SKILLS",
		"Go",
	}, "\n")

	t.Run("well formed text passes through", func(t *testing.T) {
		got := SanitizeGeneratedResume(wellFormed, "Ali Khan", "Backend Developer")
		if got == "" {
			t.Fatal("expected sanitized text, got empty")
		}
		if !strings.HasPrefix(got, "NAME: Ali Khan") {
			t.Errorf("unexpected prefix: %q", got[:30])
		}
	})

	t.Run("fewer than three headings rejected", func(t *testing.T) {
		text := "CONTACT\nali@example.com\nsome chatty model text\nmore text"
		if got := SanitizeGeneratedResume(text, "Ali", "Dev"); got != "" {
			t.Errorf("expected rejection, got %q", got)
		}
	})

	t.Run("missing name and role lines are prefixed", func(t *testing.T) {
		text := "CONTACT\nali@example.com\nPROFESSIONAL SUMMARY\nEngineer\nEDUCATION\nBS CS"
		got := SanitizeGeneratedResume(text, "Ali Khan", "Backend Developer")
		lines := strings.Split(got, "\n")
		if lines[0] != "NAME: Ali Khan" {
			t.Errorf("line 0 = %q", lines[0])
		}
		if lines[1] != "ROLE: Backend Developer" {
			t.Errorf("line 1 = %q", lines[1])
		}
	})

	t.Run("defaults used when identity empty", func(t *testing.T) {
		text := "CONTACT\nx\nPROFESSIONAL SUMMARY\ny\nEDUCATION\nz"
		got := SanitizeGeneratedResume(text, "", "")
		if !strings.HasPrefix(got, "NAME: Candidate Name\nROLE: Target Role") {
			t.Errorf("unexpected header: %q", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := SanitizeGeneratedResume("", "Ali", "Dev"); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}
