package document

import "testing"

func TestCompletionEmptyDocumentIsZero(t *testing.T) {
	if got := Completion(Document{}); got != 0 {
		t.Fatalf("expected 0 for empty document, got %d", got)
	}
}

func TestCompletionOnlyFullName(t *testing.T) {
	doc := Document{
		ProfileInfo: ProfileInfo{FullName: "A"},
	}
	// profileInfo contributes 3 fields, contactInfo 2; one is filled.
	if got := Completion(doc); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
}

func TestCompletionFullDocumentIsHundred(t *testing.T) {
	doc := Document{
		ProfileInfo: ProfileInfo{FullName: "Ann", Designation: "QA Engineer", Summary: "Experienced tester"},
		ContactInfo: ContactInfo{Email: "ann@example.com", Phone: "1234567890"},
		WorkExperience: []Experience{{
			Company:     "Acme",
			Role:        "Engineer",
			StartDate:   "2020-01",
			EndDate:     "2023-05",
			Description: "Built things",
		}},
		Education: []Education{{
			Degree:      "BSc",
			Institution: "State University",
			StartDate:   "2016-09",
			EndDate:     "2020-06",
		}},
		Skills:   []Skill{{Name: "Python", Progress: 80}},
		Projects: []Project{{Title: "Tool", Description: "CLI tool", Github: "https://github.com/a/t", LiveDemo: "https://t.example.com"}},
		Certifications: []Certification{{
			Title:  "ISTQB",
			Issuer: "ISTQB Board",
			Year:   "2021",
		}},
		Languages: []Language{{Name: "English", Progress: 100}},
		Interests: Interests{"Chess"},
	}
	if got := Completion(doc); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestCompletionProgressZeroNotCounted(t *testing.T) {
	doc := Document{
		Skills: []Skill{{Name: "Go", Progress: 0}},
	}
	// 5 fixed scalar fields + 2 skill fields, 1 filled -> 14%.
	if got := Completion(doc); got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
}

func TestCompletionBlankInterestsIgnored(t *testing.T) {
	doc := Document{
		Interests: Interests{"  ", "Reading"},
	}
	// 5 + 2 fields, 1 filled -> round(100/7) = 14.
	if got := Completion(doc); got != 14 {
		t.Fatalf("expected 14, got %d", got)
	}
}

func TestCompletionWhitespaceOnlyFieldsNotFilled(t *testing.T) {
	doc := Document{
		ProfileInfo: ProfileInfo{FullName: "   "},
	}
	if got := Completion(doc); got != 0 {
		t.Fatalf("expected 0 for whitespace-only fields, got %d", got)
	}
}

func TestCompletionDefaultSkeleton(t *testing.T) {
	// Skeleton entries are empty, so nothing is filled.
	if got := Completion(Default()); got != 0 {
		t.Fatalf("expected 0 for skeleton, got %d", got)
	}
}
