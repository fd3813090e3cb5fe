package render

import (
	"strings"
	"testing"
)

func TestPrintContainsSameSectionsAsTree(t *testing.T) {
	tree := Layout(sampleDocument(), TemplateClassic)

	html, err := Print(tree)
	if err != nil {
		t.Fatalf("print: %v", err)
	}

	for _, title := range sectionTitles(tree) {
		if !strings.Contains(html, "<h3>"+title+"</h3>") {
			t.Fatalf("print output missing section %q", title)
		}
	}
	if !strings.Contains(html, "Ann") || !strings.Contains(html, "QA Engineer") {
		t.Fatal("print output missing header content")
	}
}

func TestPrintFixedPageBox(t *testing.T) {
	html, err := Print(Layout(sampleDocument(), TemplateClassic))
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(html, "width: 794px") || !strings.Contains(html, "height: 1122px") {
		t.Fatal("print output must use the fixed A4 page box")
	}
}

func TestPrintEscapesDocumentContent(t *testing.T) {
	doc := sampleDocument()
	doc.ProfileInfo.FullName = `<script>alert("x")</script>`

	html, err := Print(Layout(doc, TemplateClassic))
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Fatal("document content must be escaped")
	}
}

func TestPrintAppliesPaletteAccent(t *testing.T) {
	doc := sampleDocument()
	doc.Template.ColorPalette = []string{"#336699"}

	html, err := Print(Layout(doc, TemplateClassic))
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(html, "color: #336699;") {
		t.Fatal("palette accent color not applied")
	}
}
