package wizard

import (
	"strings"
	"testing"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/document"
)

func TestValidateContactEmail(t *testing.T) {
	doc := document.Document{
		ContactInfo: document.ContactInfo{Email: "not-an-email", Phone: "1234567890"},
	}
	errs := ValidateSection(doc, SectionContact, Rules{})
	if len(errs) != 1 || errs[0] != "Valid email is required" {
		t.Fatalf("unexpected errors: %v", errs)
	}

	doc.ContactInfo.Email = "ok@example.com"
	if errs := ValidateSection(doc, SectionContact, Rules{}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}

func TestValidatePhone10Digit(t *testing.T) {
	doc := document.Document{
		ContactInfo: document.ContactInfo{Email: "ok@example.com"},
	}
	cases := []struct {
		phone string
		valid bool
	}{
		{"1234567890", true},
		{"123456789", false},
		{"12345678901", false},
		{"+1-2345678901", false},
		{"123456789a", false},
	}
	for _, tc := range cases {
		doc.ContactInfo.Phone = tc.phone
		errs := ValidateSection(doc, SectionContact, Rules{Phone: PhoneRule10Digit})
		if tc.valid && len(errs) != 0 {
			t.Errorf("phone %q: expected valid, got %v", tc.phone, errs)
		}
		if !tc.valid && len(errs) == 0 {
			t.Errorf("phone %q: expected violation", tc.phone)
		}
	}
}

func TestValidatePhoneInternational(t *testing.T) {
	doc := document.Document{
		ContactInfo: document.ContactInfo{Email: "ok@example.com"},
	}
	rules := Rules{Phone: PhoneRuleInternational}
	cases := []struct {
		phone string
		valid bool
	}{
		{"+1-2345678901", true},
		{"+358-123456", true},
		{"+1234-123456", false},
		{"1234567890", false},
	}
	for _, tc := range cases {
		doc.ContactInfo.Phone = tc.phone
		errs := ValidateSection(doc, SectionContact, rules)
		if tc.valid && len(errs) != 0 {
			t.Errorf("phone %q: expected valid, got %v", tc.phone, errs)
		}
		if !tc.valid && len(errs) == 0 {
			t.Errorf("phone %q: expected violation", tc.phone)
		}
	}
}

func TestParsePhoneRule(t *testing.T) {
	if ParsePhoneRule("international") != PhoneRuleInternational {
		t.Fatal("expected international rule")
	}
	if ParsePhoneRule(" International ") != PhoneRuleInternational {
		t.Fatal("expected case-insensitive match")
	}
	if ParsePhoneRule("10digit") != PhoneRule10Digit {
		t.Fatal("expected 10digit rule")
	}
	if ParsePhoneRule("") != PhoneRule10Digit {
		t.Fatal("expected default rule for empty string")
	}
}

func TestValidateExperienceEntryNumbering(t *testing.T) {
	doc := document.Document{
		WorkExperience: []document.Experience{
			{Company: "Acme", Role: "Dev", StartDate: "2020", EndDate: "2021"},
			{Role: "Dev", StartDate: "2021", EndDate: "2022"},
		},
	}
	errs := ValidateSection(doc, SectionWorkExperience, Rules{})
	if len(errs) != 1 || errs[0] != "Company is required in experience 2" {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateSkillProgressRange(t *testing.T) {
	doc := document.Document{
		Skills: []document.Skill{{Name: "Go", Progress: 0}},
	}
	errs := ValidateSection(doc, SectionSkills, Rules{})
	if len(errs) != 1 || !strings.Contains(errs[0], "between 1 and 100") {
		t.Fatalf("unexpected errors: %v", errs)
	}

	doc.Skills[0].Progress = 101
	if errs := ValidateSection(doc, SectionSkills, Rules{}); len(errs) != 1 {
		t.Fatalf("expected violation for progress over 100, got %v", errs)
	}

	doc.Skills[0].Progress = 1
	if errs := ValidateSection(doc, SectionSkills, Rules{}); len(errs) != 0 {
		t.Fatalf("expected no errors at lower bound, got %v", errs)
	}
}

func TestValidateAdditionalInfo(t *testing.T) {
	doc := document.Default()
	errs := ValidateSection(doc, SectionAdditionalInfo, Rules{})
	if len(errs) != 2 {
		t.Fatalf("expected language and interest violations, got %v", errs)
	}

	doc.Languages[0].Name = "English"
	doc.Interests[0] = "Chess"
	if errs := ValidateSection(doc, SectionAdditionalInfo, Rules{}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %v", errs)
	}
}
