// Package docwriter renders styled paragraphs into a .docx document.
//
// The output is a minimal WordprocessingML package: the content types
// manifest, the package relationships and word/document.xml. Word, LibreOffice
// and go-docx all accept this shape.
package docwriter

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/mkurbatov/chemscribe/internal/render"
)

const (
	// FontName is applied to every run.
	FontName = "Open Sans"
	// FontSizePt is the run font size in points.
	FontSizePt = 18
)

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

// Build serializes paragraphs into the bytes of a .docx file.
func Build(paragraphs []render.Paragraph) ([]byte, error) {
	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		writeParagraph(&doc, p)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", doc.String()},
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", part.name, err)
		}
		if _, err := f.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}

func writeParagraph(doc *bytes.Buffer, p render.Paragraph) {
	doc.WriteString("<w:p>")
	if p.Center {
		doc.WriteString(`<w:pPr><w:jc w:val="center"/></w:pPr>`)
	}
	for _, r := range p.Runs {
		writeRun(doc, r)
	}
	doc.WriteString("</w:p>")
}

// w:sz is measured in half-points.
var fontSize = fmt.Sprintf("%d", FontSizePt*2)

func writeRun(doc *bytes.Buffer, r render.Run) {
	if r.Text == "" {
		return
	}
	doc.WriteString("<w:r><w:rPr>")
	doc.WriteString(`<w:rFonts w:ascii="Open Sans" w:hAnsi="Open Sans"/>`)
	doc.WriteString(`<w:sz w:val="` + fontSize + `"/>`)
	switch {
	case r.Subscript:
		doc.WriteString(`<w:vertAlign w:val="subscript"/>`)
	case r.Superscript:
		doc.WriteString(`<w:vertAlign w:val="superscript"/>`)
	}
	doc.WriteString("</w:rPr>")
	if strings.ContainsAny(r.Text, " \t") || r.Text != strings.TrimSpace(r.Text) {
		doc.WriteString(`<w:t xml:space="preserve">`)
	} else {
		doc.WriteString("<w:t>")
	}
	xml.EscapeText(doc, []byte(r.Text))
	doc.WriteString("</w:t></w:r>")
}
