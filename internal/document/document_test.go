package document

import (
	"encoding/json"
	"testing"
)

func TestDefaultSkeletonListsHaveOneEntry(t *testing.T) {
	doc := Default()

	if len(doc.WorkExperience) != 1 {
		t.Fatalf("workExperience: expected 1 entry, got %d", len(doc.WorkExperience))
	}
	if len(doc.Education) != 1 {
		t.Fatalf("education: expected 1 entry, got %d", len(doc.Education))
	}
	if len(doc.Skills) != 1 {
		t.Fatalf("skills: expected 1 entry, got %d", len(doc.Skills))
	}
	if len(doc.Projects) != 1 {
		t.Fatalf("projects: expected 1 entry, got %d", len(doc.Projects))
	}
	if len(doc.Certifications) != 1 {
		t.Fatalf("certifications: expected 1 entry, got %d", len(doc.Certifications))
	}
	if len(doc.Languages) != 1 {
		t.Fatalf("languages: expected 1 entry, got %d", len(doc.Languages))
	}
	if len(doc.Interests) != 1 || doc.Interests[0] != "" {
		t.Fatalf("interests: expected single blank entry, got %v", doc.Interests)
	}
	if doc.Template.Theme != "modern" {
		t.Fatalf("expected default theme modern, got %q", doc.Template.Theme)
	}
}

func TestDefaultRoundTrip(t *testing.T) {
	data, err := Encode(Default())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Skills) != 1 || len(doc.Interests) != 1 {
		t.Fatalf("round trip lost skeleton entries: %+v", doc)
	}
}

func TestDecodeInterestsObjectVariant(t *testing.T) {
	raw := []byte(`{"interests":[{"name":"Chess"},"Reading"]}`)
	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Interests) != 2 || doc.Interests[0] != "Chess" || doc.Interests[1] != "Reading" {
		t.Fatalf("unexpected interests: %v", doc.Interests)
	}
}

func TestDecodeProgressStringVariant(t *testing.T) {
	raw := []byte(`{"skills":[{"name":"Go","progress":"75"},{"name":"SQL","progress":40},{"name":"Vim","progress":""}]}`)
	doc, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Skills[0].Progress != 75 || doc.Skills[1].Progress != 40 || doc.Skills[2].Progress != 0 {
		t.Fatalf("unexpected progress values: %+v", doc.Skills)
	}
}

func TestMergeShallowOverwrite(t *testing.T) {
	stored, err := Encode(Default())
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	partial := map[string]json.RawMessage{
		"profileInfo": json.RawMessage(`{"fullName":"Ann","designation":"Dev","summary":"Hi"}`),
	}
	merged, err := Merge(stored, partial)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}

	doc, err := Decode(merged)
	if err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if doc.ProfileInfo.FullName != "Ann" {
		t.Fatalf("profileInfo not replaced: %+v", doc.ProfileInfo)
	}
	// Sibling keys keep their stored values.
	if len(doc.Skills) != 1 || len(doc.Education) != 1 {
		t.Fatalf("sibling sections lost: %+v", doc)
	}
	if doc.Template.Theme != "modern" {
		t.Fatalf("template overwritten: %+v", doc.Template)
	}
}

func TestMergeReplacesListWholesale(t *testing.T) {
	stored := []byte(`{"skills":[{"name":"Go","progress":50},{"name":"SQL","progress":60}]}`)
	partial := map[string]json.RawMessage{
		"skills": json.RawMessage(`[{"name":"Rust","progress":10}]`),
	}
	merged, err := Merge(stored, partial)
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	doc, err := Decode(merged)
	if err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if len(doc.Skills) != 1 || doc.Skills[0].Name != "Rust" {
		t.Fatalf("list not replaced wholesale: %+v", doc.Skills)
	}
}
