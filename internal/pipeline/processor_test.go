package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mkurbatov/chemscribe/internal/recognize"
)

type fakeRecognizer struct {
	fn func(data []byte) (string, error)
}

func (f *fakeRecognizer) Recognize(ctx context.Context, data []byte, mimeType string, mode recognize.Mode, visionModel string) (string, error) {
	return f.fn(data)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func docXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
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
	t.Fatal("no document.xml in output")
	return ""
}

func TestProcessImage_RendersRecognizedText(t *testing.T) {
	rec := &fakeRecognizer{fn: func(data []byte) (string, error) {
		return "H_{2}O → H_{2}O\n", nil
	}}
	p := NewProcessor(rec, Options{}, discardLogger())

	out, err := p.ProcessImage(context.Background(), []byte{1}, "image/png", recognize.ModeOCR, "", FormatDocx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := docXML(t, out)
	if !strings.Contains(doc, `<w:vertAlign w:val="subscript"/>`) {
		t.Errorf("expected subscript run in %s", doc)
	}
}

func TestProcessImage_TextFormat(t *testing.T) {
	rec := &fakeRecognizer{fn: func(data []byte) (string, error) {
		return "# Title\n\n**A → B**\n", nil
	}}
	p := NewProcessor(rec, Options{}, discardLogger())

	out, err := p.ProcessImage(context.Background(), []byte{1}, "image/png", recognize.ModeOCR, "", FormatText)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := string(out)
	if strings.Contains(got, "#") || strings.Contains(got, "**") {
		t.Errorf("markdown syntax left in plain text %q", got)
	}
	if !strings.Contains(got, "A → B") {
		t.Errorf("content missing from %q", got)
	}
}

func TestProcessImage_ConditionsNormalization(t *testing.T) {
	rec := &fakeRecognizer{fn: func(data []byte) (string, error) {
		return "A → B hν\n", nil
	}}
	p := NewProcessor(rec, Options{NormalizeConditions: true}, discardLogger())

	out, err := p.ProcessImage(context.Background(), []byte{1}, "image/png", recognize.ModeViT, "", FormatDocx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(docXML(t, out), "conditions: hν") {
		t.Errorf("expected extracted conditions in output")
	}
}

func TestProcessImage_RecognitionErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	rec := &fakeRecognizer{fn: func(data []byte) (string, error) {
		return "", boom
	}}
	p := NewProcessor(rec, Options{}, discardLogger())

	_, err := p.ProcessImage(context.Background(), []byte{1}, "image/png", recognize.ModeOCR, "", FormatDocx)
	if !errors.Is(err, boom) {
		t.Fatalf("expected recognition error, got %v", err)
	}
}

func TestProcessBatch_IsolatesFailures(t *testing.T) {
	rec := &fakeRecognizer{fn: func(data []byte) (string, error) {
		if string(data) == "bad" {
			return "", errors.New("boom")
		}
		return "A → B\n", nil
	}}
	p := NewProcessor(rec, Options{MaxConcurrent: 2}, discardLogger())

	inputs := []Input{
		{Filename: "a.png", Data: []byte("ok"), MimeType: "image/png"},
		{Filename: "b.png", Data: []byte("bad"), MimeType: "image/png"},
		{Filename: "c.png", Data: []byte("ok"), MimeType: "image/png"},
	}
	results := p.ProcessBatch(context.Background(), inputs, recognize.ModeOCR, "", FormatDocx)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy inputs must succeed: %v, %v", results[0].Err, results[2].Err)
	}
	if results[1].Err == nil {
		t.Error("expected failure for bad input")
	}
	if len(results[0].Content) == 0 || len(results[2].Content) == 0 {
		t.Error("expected content for healthy inputs")
	}
}

func TestProcessBatch_BoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	rec := &fakeRecognizer{fn: func(data []byte) (string, error) {
		n := inFlight.Add(1)
		for {
			prev := peak.Load()
			if n <= prev || peak.CompareAndSwap(prev, n) {
				break
			}
		}
		defer inFlight.Add(-1)
		time.Sleep(time.Millisecond)
		return "A → B\n", nil
	}}
	p := NewProcessor(rec, Options{MaxConcurrent: 2}, discardLogger())

	inputs := make([]Input, 8)
	for i := range inputs {
		inputs[i] = Input{Filename: "x.png", Data: []byte{1}, MimeType: "image/png"}
	}
	p.ProcessBatch(context.Background(), inputs, recognize.ModeOCR, "", FormatDocx)
	if got := peak.Load(); got > 2 {
		t.Errorf("expected at most 2 concurrent recognitions, saw %d", got)
	}
}

func TestProcessPDF_MalformedInput(t *testing.T) {
	p := NewProcessor(&fakeRecognizer{}, Options{}, discardLogger())
	_, err := p.ProcessPDF(context.Background(), []byte("not a pdf"))
	if err == nil {
		t.Fatal("expected error for malformed pdf")
	}
}
