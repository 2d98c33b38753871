package resume

import (
	"strings"
	"testing"
)

func TestParseDocument(t *testing.T) {
	t.Run("round trip recovers identity", func(t *testing.T) {
		data := NormalizeProfile(map[string]any{
			"fullName": "Ayesha Noor",
			"jobTitle": "UI/UX Designer",
			"skills":   "Figma, Prototyping",
		})
		text := BuildProfessionalResume(data, "")
		doc := ParseDocument(text)

		if doc.FullName != "Ayesha Noor" {
			t.Errorf("fullName = %q", doc.FullName)
		}
		if doc.JobTitle != "UI/UX Designer" {
			t.Errorf("jobTitle = %q", doc.JobTitle)
		}
	})

	t.Run("name and role pseudo headers win", func(t *testing.T) {
		doc := ParseDocument("NAME: Ali Khan\nROLE: Backend Developer\nCONTACT\nali@example.com")
		if doc.FullName != "Ali Khan" || doc.JobTitle != "Backend Developer" {
			t.Errorf("identity = %q / %q", doc.FullName, doc.JobTitle)
		}
		if len(doc.Sections[SectionContact]) != 1 {
			t.Errorf("contact = %v", doc.Sections[SectionContact])
		}
	})

	t.Run("heading synonyms match by containment", func(t *testing.T) {
		doc := ParseDocument("Ali\nDev\n\nEXPERIENCE\nShipped things\n\nLANGUAGE PROFICIENCY\nEnglish")
		if len(doc.Sections[SectionExperience]) != 1 {
			t.Errorf("experience = %v", doc.Sections[SectionExperience])
		}
		if len(doc.Sections[SectionLanguages]) != 1 {
			t.Errorf("languages = %v", doc.Sections[SectionLanguages])
		}
	})

	t.Run("pre heading lines land in summary", func(t *testing.T) {
		doc := ParseDocument("Ali\nDev\nA seasoned engineer\nEDUCATION\nBS CS")
		if len(doc.Sections[SectionSummary]) != 1 || doc.Sections[SectionSummary][0] != "A seasoned engineer" {
			t.Errorf("summary = %v", doc.Sections[SectionSummary])
		}
	})

	t.Run("unknown all caps line becomes custom section", func(t *testing.T) {
		doc := ParseDocument("Ali\nDev\n\nHOBBIES\n- Chess\n- Photography")
		key := SectionKey("custom__hobbies")
		items := doc.Sections[key]
		if len(items) != 2 || items[0] != "Chess" {
			t.Errorf("custom section = %v", items)
		}
		meta, ok := doc.CustomMeta[key]
		if !ok || meta.Label != "HOBBIES" || meta.Column != "main" {
			t.Errorf("meta = %+v", meta)
		}
	})

	t.Run("long all caps line is content not heading", func(t *testing.T) {
		long := strings.ToUpper(strings.Repeat("VERY LONG HEADING ", 4))
		doc := ParseDocument("Ali\nDev\n\nEDUCATION\n" + long)
		if len(doc.Sections[SectionEducation]) != 1 {
			t.Errorf("education = %v", doc.Sections[SectionEducation])
		}
		if len(doc.CustomMeta) != 0 {
			t.Errorf("unexpected custom sections: %v", doc.CustomMeta)
		}
	})
}

func TestDocumentSerialize(t *testing.T) {
	t.Run("skips empty sections and keeps custom order", func(t *testing.T) {
		doc := ParseDocument("Ali Khan\nBackend Developer\n\nWORK EXPERIENCE\n- Shipped APIs\n\nHOBBIES\n- Chess")
		out := doc.Serialize()

		if !strings.HasPrefix(out, "Ali Khan\nBackend Developer") {
			t.Errorf("header = %q", out)
		}
		if !strings.Contains(out, "\nWORK EXPERIENCE\n- Shipped APIs") {
			t.Errorf("experience missing:\n%s", out)
		}
		if !strings.HasSuffix(out, "HOBBIES\n- Chess") {
			t.Errorf("custom section should serialize last:\n%s", out)
		}
		if strings.Contains(out, "EDUCATION") {
			t.Error("empty sections should be skipped")
		}
	})

	t.Run("serialize then parse is stable", func(t *testing.T) {
		original := "Ali Khan\nBackend Developer\n\nWORK EXPERIENCE\n- Shipped APIs\n- Led migrations"
		doc := ParseDocument(original)
		out := doc.Serialize()
		again := ParseDocument(out)

		if again.FullName != doc.FullName || again.JobTitle != doc.JobTitle {
			t.Errorf("identity drifted: %q / %q", again.FullName, again.JobTitle)
		}
		exp := again.Sections[SectionExperience]
		if len(exp) != 2 || exp[0] != "Shipped APIs" || exp[1] != "Led migrations" {
			t.Errorf("experience drifted: %v", exp)
		}
	})
}

func TestHeadingBijection(t *testing.T) {
	if len(SectionOrder) != 19 {
		t.Fatalf("expected 19 canonical sections, got %d", len(SectionOrder))
	}

	seenHeadings := make(map[string]SectionKey)
	for _, key := range SectionOrder {
		heading, ok := SectionHeadings[key]
		if !ok {
			t.Errorf("no heading for %s", key)
			continue
		}
		if heading != strings.ToUpper(heading) {
			t.Errorf("heading %q not uppercase", heading)
		}
		if prev, dup := seenHeadings[heading]; dup {
			t.Errorf("heading %q shared by %s and %s", heading, prev, key)
		}
		seenHeadings[heading] = key

		back, ok := KeyForHeading(heading)
		if !ok || back != key {
			t.Errorf("KeyForHeading(%q) = %s, want %s", heading, back, key)
		}
	}

	if len(SectionHeadings) != len(SectionOrder) {
		t.Errorf("heading table has %d entries, order has %d", len(SectionHeadings), len(SectionOrder))
	}
}
