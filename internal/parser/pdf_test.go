package parser

import (
	"strings"
	"testing"
)

func TestText_MalformedPDF(t *testing.T) {
	_, err := Text(strings.NewReader("not a pdf at all"), PDFOptions{})
	if err == nil {
		t.Fatal("expected error for malformed input")
	}
}

func TestText_EmptyInput(t *testing.T) {
	_, err := Text(strings.NewReader(""), PDFOptions{})
	if err == nil {
		t.Fatal("expected error for empty input")
	}
}
