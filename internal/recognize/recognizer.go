package recognize

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
)

// Mode selects the recognition backend for a document.
type Mode string

const (
	// ModeOCR uses the dedicated OCR model.
	ModeOCR Mode = "OCR"
	// ModeViT uses a vision chat model plus the text refiner.
	ModeViT Mode = "ViT"
)

// Options configures the recognizer's models and retry policy.
type Options struct {
	OCRModel          string
	VisionModel       string
	VisionFallback    string
	RefinerModel      string
	RefineMaxAttempts int
	RefineBaseDelay   time.Duration
}

// Backend is the external-call surface the recognizer depends on.
// *Client implements it; tests substitute their own.
type Backend interface {
	ChatComplete(ctx context.Context, model, system, user, imageDataURL string) (string, error)
	OCRProcess(ctx context.Context, model, imageDataURL string) (*OCRResponse, error)
}

// Recognizer turns an image into cleaned recognition text. The vision path
// falls back to a low-tier model on failure, then refines the draft with
// retry on rate limits; refinement is best-effort and degrades to the draft.
type Recognizer struct {
	backend Backend
	opts    Options
	logger  *slog.Logger
}

func NewRecognizer(backend Backend, opts Options, logger *slog.Logger) *Recognizer {
	if opts.RefineMaxAttempts <= 0 {
		opts.RefineMaxAttempts = 3
	}
	if opts.RefineBaseDelay <= 0 {
		opts.RefineBaseDelay = time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recognizer{
		backend: backend,
		opts:    opts,
		logger:  logger,
	}
}

// DataURL encodes raw bytes as a base64 data URL for the given MIME type.
func DataURL(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// Recognize runs the selected mode over one image and returns cleaned text.
// visionModel overrides Options.VisionModel for this call when non-empty.
func (r *Recognizer) Recognize(ctx context.Context, data []byte, mimeType string, mode Mode, visionModel string) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}
	dataURL := DataURL(data, mimeType)

	var text string
	var err error
	switch mode {
	case ModeViT:
		text, err = r.visionExtract(ctx, dataURL, visionModel)
		if err != nil {
			return "", err
		}
		text = r.refineWithRetry(ctx, text)
	default:
		text, err = r.ocrExtract(ctx, dataURL)
		if err != nil {
			return "", err
		}
	}

	return Cleanup(text), nil
}

func (r *Recognizer) ocrExtract(ctx context.Context, dataURL string) (string, error) {
	resp, err := r.backend.OCRProcess(ctx, r.opts.OCRModel, dataURL)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	if resp == nil || len(resp.Pages) == 0 {
		return "", ErrNoRecognizedContent
	}
	return resp.Pages[0].Markdown, nil
}

func (r *Recognizer) visionExtract(ctx context.Context, dataURL, model string) (string, error) {
	if model == "" {
		model = r.opts.VisionModel
	}

	text, err := r.backend.ChatComplete(ctx, model, visionSystemPrompt, visionUserPrompt, dataURL)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil || model == r.opts.VisionFallback || r.opts.VisionFallback == "" {
		return "", fmt.Errorf("vision request: %w", err)
	}

	r.logger.Warn("vision model failed, retrying with fallback",
		"model", model,
		"fallback", r.opts.VisionFallback,
		"error", err)

	text, err = r.backend.ChatComplete(ctx, r.opts.VisionFallback, visionSystemPrompt, visionUserPrompt, dataURL)
	if err != nil {
		return "", fmt.Errorf("vision request (fallback): %w", err)
	}
	return text, nil
}

// refineWithRetry asks the refiner model to split glued reactions. Rate-limit
// errors are retried with exponential backoff up to RefineMaxAttempts; any
// other failure, or exhaustion, returns the unrefined draft.
func (r *Recognizer) refineWithRetry(ctx context.Context, draft string) string {
	for attempt := 0; attempt < r.opts.RefineMaxAttempts; attempt++ {
		refined, err := r.backend.ChatComplete(ctx, r.opts.RefinerModel, refinerSystemPrompt, draft, "")
		if err == nil {
			return refined
		}
		if !IsRateLimited(err) {
			r.logger.Warn("refinement failed, using draft", "error", err)
			return draft
		}

		delay := Backoff(attempt, r.opts.RefineBaseDelay)
		r.logger.Warn("refiner rate limited, backing off",
			"attempt", attempt+1,
			"max_attempts", r.opts.RefineMaxAttempts,
			"delay", delay)
		if err := sleep(ctx, delay); err != nil {
			return draft
		}
	}
	r.logger.Warn("refinement retries exhausted, using draft")
	return draft
}

var fenceRe = regexp.MustCompile("```[a-zA-Z]*\n?")

// Cleanup normalizes recognition output for the renderer: code fences and
// math delimiters are stripped, literal backslash-n sequences become real
// newlines, and the text always ends with exactly one newline.
func Cleanup(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = fenceRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, "$", "")
	text = strings.TrimRight(text, "\n")
	return text + "\n"
}
