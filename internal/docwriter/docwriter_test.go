package docwriter

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"

	"github.com/mkurbatov/chemscribe/internal/render"
)

func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		content, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return string(content)
	}
	t.Fatal("word/document.xml missing from archive")
	return ""
}

func paragraphTexts(t *testing.T, data []byte) []string {
	t.Helper()
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("parse docx: %v", err)
	}
	var texts []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		var sb strings.Builder
		for _, child := range para.Children {
			run, ok := child.(*docx.Run)
			if !ok {
				continue
			}
			for _, rc := range run.Children {
				if txt, ok := rc.(*docx.Text); ok {
					sb.WriteString(txt.Text)
				}
			}
		}
		texts = append(texts, sb.String())
	}
	return texts
}

func TestBuild_RoundTripText(t *testing.T) {
	data, err := Build([]render.Paragraph{
		{Runs: []render.Run{{Text: "H"}, {Text: "2", Subscript: true}, {Text: "O"}}},
		{Runs: []render.Run{{Text: "N"}, {Text: "2+", Superscript: true}}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	texts := paragraphTexts(t, data)
	if len(texts) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %v", len(texts), texts)
	}
	if texts[0] != "H2O" || texts[1] != "N2+" {
		t.Errorf("unexpected paragraph texts %v", texts)
	}
}

func TestBuild_VerticalAlignment(t *testing.T) {
	data, err := Build([]render.Paragraph{
		{Runs: []render.Run{
			{Text: "H"},
			{Text: "2", Subscript: true},
			{Text: "O"},
			{Text: "+", Superscript: true},
		}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	doc := documentXML(t, data)
	if !strings.Contains(doc, `<w:vertAlign w:val="subscript"/>`) {
		t.Errorf("missing subscript alignment in %s", doc)
	}
	if !strings.Contains(doc, `<w:vertAlign w:val="superscript"/>`) {
		t.Errorf("missing superscript alignment in %s", doc)
	}
}

func TestBuild_CenteredParagraph(t *testing.T) {
	data, err := Build([]render.Paragraph{
		{Runs: []render.Run{{Text: "A = B"}}, Center: true},
		{Runs: []render.Run{{Text: "outro"}}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	doc := documentXML(t, data)
	if strings.Count(doc, `<w:jc w:val="center"/>`) != 1 {
		t.Errorf("expected exactly one centered paragraph in %s", doc)
	}
}

func TestBuild_FontApplied(t *testing.T) {
	data, err := Build([]render.Paragraph{
		{Runs: []render.Run{{Text: "X"}}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	doc := documentXML(t, data)
	if !strings.Contains(doc, `w:ascii="Open Sans"`) {
		t.Errorf("missing font in %s", doc)
	}
	if !strings.Contains(doc, `<w:sz w:val="36"/>`) {
		t.Errorf("missing 18pt size in %s", doc)
	}
}

func TestBuild_EscapesXMLSpecials(t *testing.T) {
	data, err := Build([]render.Paragraph{
		{Runs: []render.Run{{Text: "A < B & C"}}},
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	texts := paragraphTexts(t, data)
	if len(texts) != 1 || texts[0] != "A < B & C" {
		t.Errorf("unexpected round-trip %v", texts)
	}
}

func TestBuild_EmptyDocument(t *testing.T) {
	data, err := Build(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if texts := paragraphTexts(t, data); len(texts) != 0 {
		t.Errorf("expected no paragraphs, got %v", texts)
	}
}
