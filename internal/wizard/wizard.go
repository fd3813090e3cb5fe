// Package wizard drives the multi-step resume editor: a fixed ordered
// sequence of sections, per-section validation gating forward movement,
// and list editing that never leaves a section without a row.
package wizard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/srijanidas-codeclouds/Resume-Builder/internal/document"
)

// Section identifies one step of the editor.
type Section int

const (
	SectionProfile Section = iota
	SectionContact
	SectionWorkExperience
	SectionEducation
	SectionSkills
	SectionProjects
	SectionCertifications
	SectionAdditionalInfo
)

var sectionNames = map[Section]string{
	SectionProfile:        "profile",
	SectionContact:        "contact",
	SectionWorkExperience: "work-experience",
	SectionEducation:      "education",
	SectionSkills:         "skills",
	SectionProjects:       "projects",
	SectionCertifications: "certifications",
	SectionAdditionalInfo: "additional-info",
}

// sectionOrder is the fixed editing sequence.
var sectionOrder = []Section{
	SectionProfile,
	SectionContact,
	SectionWorkExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
	SectionAdditionalInfo,
}

// transitions maps each section to its successor on successful
// validation. The last section has no successor; completing it opens
// the preview surface instead.
var transitions = map[Section]Section{
	SectionProfile:        SectionContact,
	SectionContact:        SectionWorkExperience,
	SectionWorkExperience: SectionEducation,
	SectionEducation:      SectionSkills,
	SectionSkills:         SectionProjects,
	SectionProjects:       SectionCertifications,
	SectionCertifications: SectionAdditionalInfo,
}

func (s Section) String() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return fmt.Sprintf("section(%d)", int(s))
}

// State is the editor's overall mode.
type State int

const (
	// StateEditing means a section form is active.
	StateEditing State = iota
	// StatePreview means the last section validated and the
	// preview/export surface is open.
	StatePreview
	// StateAbandoned means the user backed out of the first section;
	// the caller should navigate away from the editor.
	StateAbandoned
)

// WholeItem is the sentinel field name that makes UpdateListItem replace
// the entire element at an index rather than a single field.
const WholeItem = ""

var (
	ErrNotListSection  = errors.New("section does not hold a list")
	ErrNotFormSection  = errors.New("section does not hold scalar fields")
	ErrUnknownField    = errors.New("unknown field")
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Wizard owns the in-progress document and the current editor position.
// All mutations are synchronous; validation failures never discard
// entered data.
type Wizard struct {
	doc     *document.Document
	rules   Rules
	current Section
	state   State
	errs    []string
}

// New starts a wizard at the profile section over the given document.
func New(doc *document.Document, rules Rules) *Wizard {
	return &Wizard{doc: doc, rules: rules, current: SectionProfile, state: StateEditing}
}

// Document exposes the in-progress document.
func (w *Wizard) Document() *document.Document { return w.doc }

// Current returns the active section.
func (w *Wizard) Current() Section { return w.current }

// State returns the editor mode.
func (w *Wizard) State() State { return w.state }

// Progress returns the wizard position as a percentage of the section
// sequence. This tracks where the user is, not how much of the document
// is filled in; the completion percentage is computed separately.
func (w *Wizard) Progress() int {
	idx := 0
	for i, s := range sectionOrder {
		if s == w.current {
			idx = i
			break
		}
	}
	return int(float64(idx)/float64(len(sectionOrder)-1)*100 + 0.5)
}

// Completion recomputes the document completion percentage.
func (w *Wizard) Completion() int {
	return document.Completion(*w.doc)
}

// Errors returns the violations collected by the last failed GoNext,
// joined into the single message the editor surfaces.
func (w *Wizard) Errors() string {
	return strings.Join(w.errs, ", ")
}

// GoNext validates the current section. Every violation for the section
// is collected; any violation keeps the wizard in place. On success the
// wizard advances, or opens the preview when the last section is done.
func (w *Wizard) GoNext() bool {
	violations := ValidateSection(*w.doc, w.current, w.rules)
	if len(violations) > 0 {
		w.errs = violations
		return false
	}
	w.errs = nil

	next, ok := transitions[w.current]
	if !ok {
		w.state = StatePreview
		return true
	}
	w.current = next
	return true
}

// GoBack moves to the previous section without validating. Backing out
// of the first section abandons the editor.
func (w *Wizard) GoBack() {
	if w.current == SectionProfile {
		w.state = StateAbandoned
		return
	}
	for i, s := range sectionOrder {
		if s == w.current && i > 0 {
			w.current = sectionOrder[i-1]
			return
		}
	}
}

// UpdateField replaces one scalar field within a non-array section.
func (w *Wizard) UpdateField(section Section, field, value string) error {
	switch section {
	case SectionProfile:
		switch field {
		case "fullName":
			w.doc.ProfileInfo.FullName = value
		case "designation":
			w.doc.ProfileInfo.Designation = value
		case "summary":
			w.doc.ProfileInfo.Summary = value
		default:
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
		}
		return nil
	case SectionContact:
		switch field {
		case "email":
			w.doc.ContactInfo.Email = value
		case "phone":
			w.doc.ContactInfo.Phone = value
		case "location":
			w.doc.ContactInfo.Location = value
		case "linkedin":
			w.doc.ContactInfo.Linkedin = value
		case "github":
			w.doc.ContactInfo.Github = value
		case "website":
			w.doc.ContactInfo.Website = value
		default:
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, section, field)
		}
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrNotFormSection, section)
	}
}

// UpdateListItem replaces one field of the element at index within an
// array section. With the WholeItem sentinel the entire element is
// replaced by value, which must then be of the section's item type.
func (w *Wizard) UpdateListItem(section Section, index int, field string, value any) error {
	switch section {
	case SectionWorkExperience:
		if index < 0 || index >= len(w.doc.WorkExperience) {
			return ErrIndexOutOfRange
		}
		return updateExperience(&w.doc.WorkExperience[index], field, value)
	case SectionEducation:
		if index < 0 || index >= len(w.doc.Education) {
			return ErrIndexOutOfRange
		}
		return updateEducation(&w.doc.Education[index], field, value)
	case SectionSkills:
		if index < 0 || index >= len(w.doc.Skills) {
			return ErrIndexOutOfRange
		}
		return updateSkill(&w.doc.Skills[index], field, value)
	case SectionProjects:
		if index < 0 || index >= len(w.doc.Projects) {
			return ErrIndexOutOfRange
		}
		return updateProject(&w.doc.Projects[index], field, value)
	case SectionCertifications:
		if index < 0 || index >= len(w.doc.Certifications) {
			return ErrIndexOutOfRange
		}
		return updateCertification(&w.doc.Certifications[index], field, value)
	case SectionAdditionalInfo:
		return w.updateAdditionalInfo(index, field, value)
	default:
		return fmt.Errorf("%w: %s", ErrNotListSection, section)
	}
}

// AddListItem appends an item to an array section.
func (w *Wizard) AddListItem(section Section, item any) error {
	switch section {
	case SectionWorkExperience:
		entry, ok := item.(document.Experience)
		if !ok {
			return fmt.Errorf("expected document.Experience, got %T", item)
		}
		w.doc.WorkExperience = append(w.doc.WorkExperience, entry)
	case SectionEducation:
		entry, ok := item.(document.Education)
		if !ok {
			return fmt.Errorf("expected document.Education, got %T", item)
		}
		w.doc.Education = append(w.doc.Education, entry)
	case SectionSkills:
		entry, ok := item.(document.Skill)
		if !ok {
			return fmt.Errorf("expected document.Skill, got %T", item)
		}
		w.doc.Skills = append(w.doc.Skills, entry)
	case SectionProjects:
		entry, ok := item.(document.Project)
		if !ok {
			return fmt.Errorf("expected document.Project, got %T", item)
		}
		w.doc.Projects = append(w.doc.Projects, entry)
	case SectionCertifications:
		entry, ok := item.(document.Certification)
		if !ok {
			return fmt.Errorf("expected document.Certification, got %T", item)
		}
		w.doc.Certifications = append(w.doc.Certifications, entry)
	case SectionAdditionalInfo:
		switch entry := item.(type) {
		case document.Language:
			w.doc.Languages = append(w.doc.Languages, entry)
		case string:
			w.doc.Interests = append(w.doc.Interests, entry)
		default:
			return fmt.Errorf("expected document.Language or string, got %T", item)
		}
	default:
		return fmt.Errorf("%w: %s", ErrNotListSection, section)
	}
	return nil
}

// RemoveListItem removes the element at index. The removal is refused
// when it would leave the section's list empty: the editor always needs
// at least one row to render.
func (w *Wizard) RemoveListItem(section Section, index int) error {
	switch section {
	case SectionWorkExperience:
		w.doc.WorkExperience = removeAt(w.doc.WorkExperience, index)
	case SectionEducation:
		w.doc.Education = removeAt(w.doc.Education, index)
	case SectionSkills:
		w.doc.Skills = removeAt(w.doc.Skills, index)
	case SectionProjects:
		w.doc.Projects = removeAt(w.doc.Projects, index)
	case SectionCertifications:
		w.doc.Certifications = removeAt(w.doc.Certifications, index)
	case SectionAdditionalInfo:
		w.doc.Languages = removeAt(w.doc.Languages, index)
	default:
		return fmt.Errorf("%w: %s", ErrNotListSection, section)
	}
	return nil
}

// RemoveInterest removes the interest at index, keeping at least one row.
func (w *Wizard) RemoveInterest(index int) {
	w.doc.Interests = document.Interests(removeAt([]string(w.doc.Interests), index))
}

func removeAt[T any](list []T, index int) []T {
	if len(list) <= 1 || index < 0 || index >= len(list) {
		return list
	}
	return append(list[:index], list[index+1:]...)
}

func (w *Wizard) updateAdditionalInfo(index int, field string, value any) error {
	switch field {
	case "interest":
		if index < 0 || index >= len(w.doc.Interests) {
			return ErrIndexOutOfRange
		}
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("expected string interest, got %T", value)
		}
		w.doc.Interests[index] = s
		return nil
	default:
		if index < 0 || index >= len(w.doc.Languages) {
			return ErrIndexOutOfRange
		}
		return updateLanguage(&w.doc.Languages[index], field, value)
	}
}

func updateExperience(entry *document.Experience, field string, value any) error {
	if field == WholeItem {
		replacement, ok := value.(document.Experience)
		if !ok {
			return fmt.Errorf("expected document.Experience, got %T", value)
		}
		*entry = replacement
		return nil
	}
	switch field {
	case "company":
		return setString(&entry.Company, value)
	case "role":
		return setString(&entry.Role, value)
	case "startDate":
		return setString(&entry.StartDate, value)
	case "endDate":
		return setString(&entry.EndDate, value)
	case "description":
		return setString(&entry.Description, value)
	case "is_current":
		b, ok := value.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", value)
		}
		entry.IsCurrent = b
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func updateEducation(entry *document.Education, field string, value any) error {
	if field == WholeItem {
		replacement, ok := value.(document.Education)
		if !ok {
			return fmt.Errorf("expected document.Education, got %T", value)
		}
		*entry = replacement
		return nil
	}
	switch field {
	case "degree":
		return setString(&entry.Degree, value)
	case "institution":
		return setString(&entry.Institution, value)
	case "startDate":
		return setString(&entry.StartDate, value)
	case "endDate":
		return setString(&entry.EndDate, value)
	case "gpa":
		return setString(&entry.GPA, value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func updateSkill(entry *document.Skill, field string, value any) error {
	if field == WholeItem {
		replacement, ok := value.(document.Skill)
		if !ok {
			return fmt.Errorf("expected document.Skill, got %T", value)
		}
		*entry = replacement
		return nil
	}
	switch field {
	case "name":
		return setString(&entry.Name, value)
	case "progress":
		return setProgress(&entry.Progress, value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func updateLanguage(entry *document.Language, field string, value any) error {
	if field == WholeItem {
		replacement, ok := value.(document.Language)
		if !ok {
			return fmt.Errorf("expected document.Language, got %T", value)
		}
		*entry = replacement
		return nil
	}
	switch field {
	case "name":
		return setString(&entry.Name, value)
	case "progress":
		return setProgress(&entry.Progress, value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func updateProject(entry *document.Project, field string, value any) error {
	if field == WholeItem {
		replacement, ok := value.(document.Project)
		if !ok {
			return fmt.Errorf("expected document.Project, got %T", value)
		}
		*entry = replacement
		return nil
	}
	switch field {
	case "title":
		return setString(&entry.Title, value)
	case "description":
		return setString(&entry.Description, value)
	case "github":
		return setString(&entry.Github, value)
	case "liveDemo":
		return setString(&entry.LiveDemo, value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func updateCertification(entry *document.Certification, field string, value any) error {
	if field == WholeItem {
		replacement, ok := value.(document.Certification)
		if !ok {
			return fmt.Errorf("expected document.Certification, got %T", value)
		}
		*entry = replacement
		return nil
	}
	switch field {
	case "title":
		return setString(&entry.Title, value)
	case "issuer":
		return setString(&entry.Issuer, value)
	case "year":
		return setString(&entry.Year, value)
	case "description":
		return setString(&entry.Description, value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
}

func setString(dst *string, value any) error {
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	*dst = s
	return nil
}

func setProgress(dst *document.Progress, value any) error {
	switch v := value.(type) {
	case int:
		*dst = document.Progress(v)
	case document.Progress:
		*dst = v
	default:
		return fmt.Errorf("expected int progress, got %T", value)
	}
	return nil
}
