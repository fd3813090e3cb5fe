// Package render maps a resume document to a visual layout tree and
// provides two backends over the same tree: a scaled screen canvas and
// a fixed A4 print document. The layout function is pure and never
// branches on the output mode, so both backends always show the same
// sections in the same order.
package render

import (
	"strings"
	"time"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/document"
)

// Template identifiers. Unrecognized identifiers fall back to TemplateClassic.
const (
	TemplateClassic = "01"
	TemplateCompact = "02"
)

// Tree is the resolved layout of one resume page.
type Tree struct {
	TemplateID string
	Theme      string
	Palette    []string
	Header     Header
	Columns    []Column
}

// Header is the page banner shared by all templates.
type Header struct {
	FullName    string
	Designation string
	Summary     string
}

// Column is a vertical band of sections. WidthPercent values within one
// tree sum to 100.
type Column struct {
	WidthPercent int
	Sections     []Section
}

// Section is one titled block. Most sections carry a single unlabeled
// group; the skills section uses one group per bucket.
type Section struct {
	Title  string
	Groups []Group
}

// Group is a run of items under an optional label.
type Group struct {
	Label string
	Items []Item
}

// Item is one rendered entry. Fields that are empty are omitted by the
// backends.
type Item struct {
	Primary   string
	Secondary string
	Meta      string
	Lines     []string
	Links     []Link
}

// Link is a labeled URL.
type Link struct {
	Label string
	URL   string
}

// skillBuckets is the fixed lookup table grouping known skill names.
// Unknown names land in the trailing "Other Skills" bucket.
var skillBuckets = []struct {
	label string
	names []string
}{
	{"Automation & Test tools", []string{"Selenium/Webdriver", "TestNG", "Jenkins"}},
	{"Product Management", []string{"Agile", "Scrum", "JIRA", "Microsoft TFS"}},
	{"Languages", []string{"Python", "Java", "Javascript", "Databases (MySQL)"}},
}

const otherSkillsLabel = "Other Skills"

// GroupSkills buckets the flat skill list by the lookup table, keeping
// bucket order fixed and dropping empty buckets. Grouping is cosmetic;
// the underlying list is not mutated.
func GroupSkills(skills []document.Skill) []Group {
	buckets := make(map[string][]Item)
	for _, skill := range skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			continue
		}
		label := otherSkillsLabel
		for _, bucket := range skillBuckets {
			for _, known := range bucket.names {
				if name == known {
					label = bucket.label
				}
			}
		}
		buckets[label] = append(buckets[label], Item{Primary: name})
	}

	var groups []Group
	for _, bucket := range skillBuckets {
		if items := buckets[bucket.label]; len(items) > 0 {
			groups = append(groups, Group{Label: bucket.label, Items: items})
		}
	}
	if items := buckets[otherSkillsLabel]; len(items) > 0 {
		// The catch-all bucket renders without a label heading.
		groups = append(groups, Group{Items: items})
	}
	return groups
}

// Layout resolves a document and template identifier into a tree. It is
// a pure function of its inputs.
func Layout(doc document.Document, templateID string) *Tree {
	if templateID != TemplateClassic && templateID != TemplateCompact {
		templateID = TemplateClassic
	}

	tree := &Tree{
		TemplateID: templateID,
		Theme:      doc.Template.Theme,
		Palette:    doc.Template.ColorPalette,
		Header: Header{
			FullName:    doc.ProfileInfo.FullName,
			Designation: doc.ProfileInfo.Designation,
			Summary:     doc.ProfileInfo.Summary,
		},
	}

	if templateID == TemplateCompact {
		tree.Columns = []Column{{
			WidthPercent: 100,
			Sections: nonEmpty(
				experienceSection(doc.WorkExperience),
				projectsSection(doc.Projects),
				educationSection(doc.Education),
				skillsSection(doc.Skills),
				certificationsSection(doc.Certifications),
				languagesSection(doc.Languages),
				interestsSection(doc.Interests),
			),
		}}
		return tree
	}

	tree.Columns = []Column{
		{
			WidthPercent: 36,
			Sections: nonEmpty(
				contactSection(doc.ContactInfo),
				skillsSection(doc.Skills),
				educationSection(doc.Education),
				certificationsSection(doc.Certifications),
				languagesSection(doc.Languages),
				interestsSection(doc.Interests),
			),
		},
		{
			WidthPercent: 64,
			Sections: nonEmpty(
				experienceSection(doc.WorkExperience),
				projectsSection(doc.Projects),
			),
		},
	}
	return tree
}

// nonEmpty keeps only sections that resolved to at least one item.
func nonEmpty(sections ...Section) []Section {
	var kept []Section
	for _, section := range sections {
		for _, group := range section.Groups {
			if len(group.Items) > 0 {
				kept = append(kept, section)
				break
			}
		}
	}
	return kept
}

func contactSection(contact document.ContactInfo) Section {
	var items []Item
	if v := strings.TrimSpace(contact.Location); v != "" {
		items = append(items, Item{Primary: "Location", Secondary: v})
	}
	if v := strings.TrimSpace(contact.Phone); v != "" {
		items = append(items, Item{Primary: "Phone", Secondary: v})
	}
	if v := strings.TrimSpace(contact.Email); v != "" {
		items = append(items, Item{Primary: "Email", Links: []Link{{Label: v, URL: "mailto:" + v}}})
	}
	if v := strings.TrimSpace(contact.Linkedin); v != "" {
		items = append(items, Item{Primary: "LinkedIn", Links: []Link{{Label: "LinkedIn", URL: absoluteURL(v)}}})
	}
	if v := strings.TrimSpace(contact.Github); v != "" {
		items = append(items, Item{Primary: "GitHub", Links: []Link{{Label: "GitHub", URL: absoluteURL(v)}}})
	}
	if v := strings.TrimSpace(contact.Website); v != "" {
		items = append(items, Item{Primary: "Portfolio", Links: []Link{{Label: "Portfolio", URL: absoluteURL(v)}}})
	}
	return Section{Title: "Contact", Groups: []Group{{Items: items}}}
}

func skillsSection(skills []document.Skill) Section {
	return Section{Title: "Skills", Groups: GroupSkills(skills)}
}

func experienceSection(entries []document.Experience) Section {
	var items []Item
	for _, exp := range entries {
		if blankAll(exp.Company, exp.Role, exp.Description) {
			continue
		}
		items = append(items, Item{
			Primary:   exp.Role,
			Secondary: exp.Company,
			Meta:      dateRange(exp.StartDate, exp.EndDate, exp.IsCurrent),
			Lines:     descriptionLines(exp.Description),
		})
	}
	return Section{Title: "Work Experience", Groups: []Group{{Items: items}}}
}

func educationSection(entries []document.Education) Section {
	var items []Item
	for _, edu := range entries {
		if blankAll(edu.Institution, edu.Degree) {
			continue
		}
		item := Item{
			Primary:   edu.Institution,
			Secondary: edu.Degree,
			Meta:      dateRange(edu.StartDate, edu.EndDate, false),
		}
		if gpa := strings.TrimSpace(edu.GPA); gpa != "" {
			item.Lines = []string{"GPA: " + gpa}
		}
		items = append(items, item)
	}
	return Section{Title: "Education", Groups: []Group{{Items: items}}}
}

func projectsSection(entries []document.Project) Section {
	var items []Item
	for _, project := range entries {
		if blankAll(project.Title, project.Description) {
			continue
		}
		item := Item{Primary: project.Title, Secondary: project.Description}
		if v := strings.TrimSpace(project.Github); v != "" {
			item.Links = append(item.Links, Link{Label: "GitHub", URL: absoluteURL(v)})
		}
		if v := strings.TrimSpace(project.LiveDemo); v != "" {
			item.Links = append(item.Links, Link{Label: "Live Demo", URL: absoluteURL(v)})
		}
		items = append(items, item)
	}
	return Section{Title: "Projects", Groups: []Group{{Items: items}}}
}

func certificationsSection(entries []document.Certification) Section {
	var items []Item
	for _, cert := range entries {
		if blankAll(cert.Title, cert.Issuer) {
			continue
		}
		items = append(items, Item{
			Primary:   cert.Title,
			Secondary: cert.Issuer,
			Meta:      strings.TrimSpace(cert.Year),
		})
	}
	return Section{Title: "Certifications", Groups: []Group{{Items: items}}}
}

func languagesSection(entries []document.Language) Section {
	var items []Item
	for _, lang := range entries {
		if strings.TrimSpace(lang.Name) == "" {
			continue
		}
		items = append(items, Item{Primary: strings.TrimSpace(lang.Name)})
	}
	return Section{Title: "Languages", Groups: []Group{{Items: items}}}
}

func interestsSection(interests document.Interests) Section {
	var items []Item
	for _, interest := range interests {
		if strings.TrimSpace(interest) == "" {
			continue
		}
		items = append(items, Item{Primary: strings.TrimSpace(interest)})
	}
	return Section{Title: "Interests", Groups: []Group{{Items: items}}}
}

// formatYearMonth renders "2006-01" as "Jan 2006". Values that do not
// parse pass through unchanged.
func formatYearMonth(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return value
	}
	return parsed.Format("Jan 2006")
}

func dateRange(start, end string, current bool) string {
	from := formatYearMonth(start)
	to := formatYearMonth(end)
	if current {
		to = "Present"
	}
	if from == "" && to == "" {
		return ""
	}
	return from + " - " + to
}

func descriptionLines(description string) []string {
	var lines []string
	for _, line := range strings.Split(description, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}
	return lines
}

func absoluteURL(value string) string {
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "https://" + value
}

func blankAll(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
