package wizard

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/document"
)

// PhoneRule selects which phone shape the contact section accepts. The
// deployed variants of the editor disagree on this, so the choice is
// explicit configuration rather than a silent pick.
type PhoneRule int

const (
	// PhoneRule10Digit requires exactly ten digits.
	PhoneRule10Digit PhoneRule = iota
	// PhoneRuleInternational requires +<1-3 digit country code>-<6 to 14 digits>.
	PhoneRuleInternational
)

// ParsePhoneRule maps the config string to a rule, defaulting to 10digit.
func ParsePhoneRule(name string) PhoneRule {
	if strings.EqualFold(strings.TrimSpace(name), "international") {
		return PhoneRuleInternational
	}
	return PhoneRule10Digit
}

// Rules carries the configurable validation choices.
type Rules struct {
	Phone PhoneRule
}

var (
	emailPattern     = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phone10Pattern   = regexp.MustCompile(`^\d{10}$`)
	phoneIntlPattern = regexp.MustCompile(`^\+\d{1,3}-\d{6,14}$`)
)

func (r Rules) phoneValid(phone string) bool {
	switch r.Phone {
	case PhoneRuleInternational:
		return phoneIntlPattern.MatchString(phone)
	default:
		return phone10Pattern.MatchString(phone)
	}
}

func (r Rules) phoneMessage() string {
	if r.Phone == PhoneRuleInternational {
		return "Valid international phone number is required"
	}
	return "Valid 10-digit phone number is required"
}

// ValidateSection checks one section of the document and returns every
// violation found, not just the first, so the editor can surface them as
// a single combined message.
func ValidateSection(doc document.Document, section Section, rules Rules) []string {
	var errs []string

	switch section {
	case SectionProfile:
		if blank(doc.ProfileInfo.FullName) {
			errs = append(errs, "Full Name is required")
		}
		if blank(doc.ProfileInfo.Designation) {
			errs = append(errs, "Designation is required")
		}
		if blank(doc.ProfileInfo.Summary) {
			errs = append(errs, "Summary is required")
		}

	case SectionContact:
		email := strings.TrimSpace(doc.ContactInfo.Email)
		if email == "" || !emailPattern.MatchString(email) {
			errs = append(errs, "Valid email is required")
		}
		phone := strings.TrimSpace(doc.ContactInfo.Phone)
		if phone == "" || !rules.phoneValid(phone) {
			errs = append(errs, rules.phoneMessage())
		}

	case SectionWorkExperience:
		for i, exp := range doc.WorkExperience {
			if blank(exp.Company) {
				errs = append(errs, fmt.Sprintf("Company is required in experience %d", i+1))
			}
			if blank(exp.Role) {
				errs = append(errs, fmt.Sprintf("Role is required in experience %d", i+1))
			}
			if blank(exp.StartDate) || blank(exp.EndDate) {
				errs = append(errs, fmt.Sprintf("Start and End dates are required in experience %d", i+1))
			}
		}

	case SectionEducation:
		for i, edu := range doc.Education {
			if blank(edu.Degree) {
				errs = append(errs, fmt.Sprintf("Degree is required in education %d", i+1))
			}
			if blank(edu.Institution) {
				errs = append(errs, fmt.Sprintf("Institution is required in education %d", i+1))
			}
			if blank(edu.StartDate) || blank(edu.EndDate) {
				errs = append(errs, fmt.Sprintf("Start and End dates are required in education %d", i+1))
			}
		}

	case SectionSkills:
		for i, skill := range doc.Skills {
			if blank(skill.Name) {
				errs = append(errs, fmt.Sprintf("Skill name is required in skill %d", i+1))
			}
			if skill.Progress < 1 || skill.Progress > 100 {
				errs = append(errs, fmt.Sprintf("Skill progress must be between 1 and 100 in skill %d", i+1))
			}
		}

	case SectionProjects:
		for i, project := range doc.Projects {
			if blank(project.Title) {
				errs = append(errs, fmt.Sprintf("Project title is required in project %d", i+1))
			}
			if blank(project.Description) {
				errs = append(errs, fmt.Sprintf("Project description is required in project %d", i+1))
			}
		}

	case SectionCertifications:
		for i, cert := range doc.Certifications {
			if blank(cert.Title) {
				errs = append(errs, fmt.Sprintf("Certification title is required in certification %d", i+1))
			}
			if blank(cert.Issuer) {
				errs = append(errs, fmt.Sprintf("Issuer is required in certification %d", i+1))
			}
		}

	case SectionAdditionalInfo:
		if len(doc.Languages) == 0 || blank(doc.Languages[0].Name) {
			errs = append(errs, "At least one language is required")
		}
		if len(doc.Interests) == 0 || blank(doc.Interests[0]) {
			errs = append(errs, "At least one interest is required")
		}
	}

	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
