package document

import (
	"math"
	"strings"
)

// Per-entry field weights. These must stay in lockstep with the editor's
// client-side computation so that the stored and displayed percentages
// agree bit for bit.
const (
	experienceFields    = 5
	educationFields     = 4
	skillFields         = 2
	projectFields       = 4
	certificationFields = 3
	languageFields      = 2
)

// Completion computes the 0-100 completion percentage of a document:
// the share of expected fields that are populated. A numeric progress
// counts as populated when greater than zero; string fields when
// non-blank after trimming. An entirely empty expectation set yields 0.
func Completion(doc Document) int {
	var total, filled int

	count := func(values ...string) {
		for _, v := range values {
			total++
			if strings.TrimSpace(v) != "" {
				filled++
			}
		}
	}

	count(doc.ProfileInfo.FullName, doc.ProfileInfo.Designation, doc.ProfileInfo.Summary)
	count(doc.ContactInfo.Email, doc.ContactInfo.Phone)

	for _, exp := range doc.WorkExperience {
		total += experienceFields
		filled += filledOf(exp.Company, exp.Role, exp.StartDate, exp.EndDate, exp.Description)
	}
	for _, edu := range doc.Education {
		total += educationFields
		filled += filledOf(edu.Degree, edu.Institution, edu.StartDate, edu.EndDate)
	}
	for _, skill := range doc.Skills {
		total += skillFields
		filled += filledOf(skill.Name)
		if skill.Progress > 0 {
			filled++
		}
	}
	for _, project := range doc.Projects {
		total += projectFields
		filled += filledOf(project.Title, project.Description, project.Github, project.LiveDemo)
	}
	for _, cert := range doc.Certifications {
		total += certificationFields
		filled += filledOf(cert.Title, cert.Issuer, cert.Year)
	}
	for _, lang := range doc.Languages {
		total += languageFields
		filled += filledOf(lang.Name)
		if lang.Progress > 0 {
			filled++
		}
	}

	total += len(doc.Interests)
	filled += filledOf(doc.Interests...)

	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(filled) / float64(total)))
}

func filledOf(values ...string) int {
	n := 0
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
