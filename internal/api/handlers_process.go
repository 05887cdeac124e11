package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mkurbatov/chemscribe/internal/pipeline"
	"github.com/mkurbatov/chemscribe/internal/recognize"
)

type documentResult struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url,omitempty"`
	Error       string `json:"error,omitempty"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	if !s.keys.IsSet() {
		jsonError(w, "mistral api key is not configured", http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+1024*1024)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	mode := recognize.ModeViT
	if r.FormValue("mode") == string(recognize.ModeOCR) {
		mode = recognize.ModeOCR
	}
	visionModel := r.FormValue("vit_model")
	format := pipeline.FormatDocx
	if r.FormValue("format") == string(pipeline.FormatText) && mode == recognize.ModeOCR {
		format = pipeline.FormatText
	}

	var inputs []pipeline.Input
	var names []string

	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open upload: "+err.Error(), http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
		f.Close()
		if err != nil {
			jsonError(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusBadRequest)
			return
		}
		if len(data) == 0 {
			continue
		}
		filename := sanitizeFilename(fh.Filename)
		stem := strings.TrimSuffix(filename, filepath.Ext(filename))
		if stem == "" {
			stem = "image"
		}
		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/png"
		}
		inputs = append(inputs, pipeline.Input{
			Filename: filename,
			Data:     data,
			MimeType: mimeType,
			IsPDF:    strings.EqualFold(filepath.Ext(filename), ".pdf"),
		})
		names = append(names, fmt.Sprintf("%s_%d%s", stem, s.nextDocIndex(), outputExt(format)))
	}

	for _, pasted := range r.MultipartForm.Value["pasted"] {
		if pasted == "" {
			continue
		}
		data, mimeType, err := decodeDataURL(pasted)
		if err != nil {
			jsonError(w, "invalid pasted image: "+err.Error(), http.StatusBadRequest)
			return
		}
		inputs = append(inputs, pipeline.Input{
			Filename: "pasted",
			Data:     data,
			MimeType: mimeType,
		})
		names = append(names, fmt.Sprintf("pasted_%d%s", s.nextDocIndex(), outputExt(format)))
	}

	if len(inputs) == 0 {
		jsonError(w, "no images provided", http.StatusBadRequest)
		return
	}

	results := s.processor.ProcessBatch(r.Context(), inputs, mode, visionModel, format)

	documents := make([]documentResult, 0, len(results))
	succeeded := 0
	for i, res := range results {
		if res.Err != nil {
			documents = append(documents, documentResult{
				Filename: inputs[i].Filename,
				Error:    res.Err.Error(),
			})
			continue
		}
		token, savedName, err := s.docs.Put(names[i], res.Content)
		if err != nil {
			s.log.Error("store document failed", "filename", names[i], "error", err)
			documents = append(documents, documentResult{
				Filename: inputs[i].Filename,
				Error:    "failed to store generated document",
			})
			continue
		}
		documents = append(documents, documentResult{
			Filename:    savedName,
			DownloadURL: "/download/" + token,
		})
		succeeded++
	}

	if succeeded == 0 {
		jsonError(w, "failed to process the provided images", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"documents": documents})
}

func outputExt(format pipeline.Format) string {
	if format == pipeline.FormatText {
		return ".txt"
	}
	return ".docx"
}

// decodeDataURL splits a data URL into payload bytes and MIME type.
func decodeDataURL(dataURL string) ([]byte, string, error) {
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", fmt.Errorf("expected data URL")
	}
	header, encoded, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data URL")
	}
	mimeType, _, _ := strings.Cut(strings.TrimPrefix(header, "data:"), ";")
	if mimeType == "" {
		mimeType = "image/png"
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("decode base64: %w", err)
	}
	return data, mimeType, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
