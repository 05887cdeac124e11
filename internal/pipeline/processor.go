// Package pipeline drives documents through recognition and rendering.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mkurbatov/chemscribe/internal/docwriter"
	"github.com/mkurbatov/chemscribe/internal/parser"
	"github.com/mkurbatov/chemscribe/internal/recognize"
	"github.com/mkurbatov/chemscribe/internal/render"
)

// Format selects the output produced for a document.
type Format string

const (
	// FormatDocx renders styled paragraphs into a .docx file.
	FormatDocx Format = "docx"
	// FormatText emits the recognized text with markdown syntax stripped.
	FormatText Format = "text"
)

// Recognizer is the recognition stage the processor depends on.
// *recognize.Recognizer implements it; tests substitute their own.
type Recognizer interface {
	Recognize(ctx context.Context, data []byte, mimeType string, mode recognize.Mode, visionModel string) (string, error)
}

// Options configures processing behavior.
type Options struct {
	// NormalizeConditions enables the reaction-conditions heuristic.
	NormalizeConditions bool
	// MaxConcurrent bounds batch fan-out.
	MaxConcurrent int
	// PDFFallbackPdftotext enables the external pdftotext fallback.
	PDFFallbackPdftotext bool
}

// Processor turns recognized or embedded text into output documents.
type Processor struct {
	recognizer Recognizer
	opts       Options
	log        *slog.Logger
}

func NewProcessor(recognizer Recognizer, opts Options, log *slog.Logger) *Processor {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Processor{
		recognizer: recognizer,
		opts:       opts,
		log:        log,
	}
}

// ProcessImage recognizes one image and renders it in the requested format.
func (p *Processor) ProcessImage(ctx context.Context, data []byte, mimeType string, mode recognize.Mode, visionModel string, format Format) ([]byte, error) {
	text, err := p.recognizer.Recognize(ctx, data, mimeType, mode, visionModel)
	if err != nil {
		return nil, err
	}
	if format == FormatText {
		return []byte(render.PlainText(text)), nil
	}
	return p.renderDocx(text)
}

// ProcessPDF renders the embedded text of a PDF without calling recognition.
func (p *Processor) ProcessPDF(ctx context.Context, data []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := parser.Text(bytes.NewReader(data), parser.PDFOptions{
		FallbackPdftotext: p.opts.PDFFallbackPdftotext,
	})
	if err != nil {
		return nil, fmt.Errorf("pdf input: %w", err)
	}
	return p.renderDocx(text)
}

func (p *Processor) renderDocx(text string) ([]byte, error) {
	if p.opts.NormalizeConditions {
		text = render.NormalizeConditions(text)
	}
	paragraphs := render.Assemble(render.Parse(text))
	out, err := docwriter.Build(paragraphs)
	if err != nil {
		return nil, fmt.Errorf("build docx: %w", err)
	}
	return out, nil
}

// Input is one document of a batch.
type Input struct {
	Filename string
	Data     []byte
	MimeType string
	IsPDF    bool
}

// Result is the outcome for the Input at the same index.
type Result struct {
	Content []byte
	Err     error
}

// ProcessBatch processes inputs concurrently with bounded fan-out. Results
// are positional; one input's failure does not affect the others.
func (p *Processor) ProcessBatch(ctx context.Context, inputs []Input, mode recognize.Mode, visionModel string, format Format) []Result {
	results := make([]Result, len(inputs))
	sem := make(chan struct{}, p.opts.MaxConcurrent)
	var wg sync.WaitGroup

	for i, in := range inputs {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, in Input) {
			defer func() { <-sem; wg.Done() }()
			var content []byte
			var err error
			if in.IsPDF {
				content, err = p.ProcessPDF(ctx, in.Data)
			} else {
				content, err = p.ProcessImage(ctx, in.Data, in.MimeType, mode, visionModel, format)
			}
			if err != nil {
				p.log.Error("processing failed", "filename", in.Filename, "error", err)
			}
			results[i] = Result{Content: content, Err: err}
		}(i, in)
	}
	wg.Wait()
	return results
}
