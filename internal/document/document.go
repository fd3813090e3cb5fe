// Package document defines the structured resume document stored in the
// Content column of a resume row, the default skeleton new resumes start
// from, and the completion heuristic shown in the editor.
package document

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Document is the full nested resume content. The editor always needs at
// least one row per list section, so the skeleton seeds every list with a
// single empty entry.
type Document struct {
	ProfileInfo    ProfileInfo     `json:"profileInfo"`
	ContactInfo    ContactInfo     `json:"contactInfo"`
	Template       Template        `json:"template"`
	WorkExperience []Experience    `json:"workExperience"`
	Education      []Education     `json:"education"`
	Skills         []Skill         `json:"skills"`
	Projects       []Project       `json:"projects"`
	Certifications []Certification `json:"certifications"`
	Languages      []Language      `json:"languages"`
	Interests      Interests       `json:"interests"`
}

type ProfileInfo struct {
	FullName    string `json:"fullName"`
	Designation string `json:"designation"`
	Summary     string `json:"summary"`
}

type ContactInfo struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Linkedin string `json:"linkedin"`
	Github   string `json:"github"`
	Website  string `json:"website"`
}

type Template struct {
	Theme        string   `json:"theme"`
	ColorPalette []string `json:"colorPalette"`
}

type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
	IsCurrent   bool   `json:"is_current"`
}

type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa"`
}

type Skill struct {
	Name     string   `json:"name"`
	Progress Progress `json:"progress"`
}

type Project struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Github      string `json:"github"`
	LiveDemo    string `json:"liveDemo"`
}

type Certification struct {
	Title       string `json:"title"`
	Issuer      string `json:"issuer"`
	Year        string `json:"year"`
	Description string `json:"description"`
}

type Language struct {
	Name     string   `json:"name"`
	Progress Progress `json:"progress"`
}

// Progress is a 0-100 proficiency value. Older documents persisted it as
// a string, so decoding accepts both a number and a numeric string.
type Progress int

func (p *Progress) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*p = 0
			return nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			*p = 0
			return nil
		}
		*p = Progress(n)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = Progress(n)
	return nil
}

// Interests is a list of interest names. Some variants persisted entries
// as {"name": "..."} objects; those are normalized to plain strings on
// decode and always written back as strings.
type Interests []string

func (in *Interests) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		entry = bytes.TrimSpace(entry)
		if len(entry) > 0 && entry[0] == '{' {
			var obj struct {
				Name string `json:"name"`
			}
			if err := json.Unmarshal(entry, &obj); err != nil {
				return err
			}
			out = append(out, obj.Name)
			continue
		}
		var s string
		if err := json.Unmarshal(entry, &s); err != nil {
			return err
		}
		out = append(out, s)
	}
	*in = out
	return nil
}

// Default returns the skeleton document new resumes are created with.
// Every list contains exactly one empty entry so the editor has a row to
// render, and interests start as a single blank string.
func Default() Document {
	return Document{
		ProfileInfo: ProfileInfo{},
		ContactInfo: ContactInfo{},
		Template: Template{
			Theme:        "modern",
			ColorPalette: []string{},
		},
		WorkExperience: []Experience{{}},
		Education:      []Education{{}},
		Skills:         []Skill{{}},
		Projects:       []Project{{}},
		Certifications: []Certification{{}},
		Languages:      []Language{{}},
		Interests:      Interests{""},
	}
}

// Decode parses a stored JSON document.
func Decode(data []byte) (Document, error) {
	var doc Document
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Encode serializes a document for storage.
func Encode(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}
