package api

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	entry, ok := s.docs.Get(token)
	if !ok {
		jsonError(w, "document not found or expired", http.StatusNotFound)
		return
	}

	content, err := os.ReadFile(entry.Path)
	if err != nil {
		s.log.Error("read stored document failed", "path", entry.Path, "error", err)
		jsonError(w, "document unavailable", http.StatusNotFound)
		return
	}

	contentType := docxContentType
	if strings.HasSuffix(strings.ToLower(entry.Filename), ".txt") {
		contentType = "text/plain; charset=utf-8"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", contentDisposition(entry.Filename))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(content)))
	w.Write(content)
}

// contentDisposition builds an attachment header with an ASCII fallback name
// and an RFC 5987 UTF-8 filename* for non-ASCII display names.
func contentDisposition(filename string) string {
	var ascii strings.Builder
	for _, r := range filename {
		if r > 31 && r < 127 && r != '"' && r != '\\' {
			ascii.WriteRune(r)
		}
	}
	fallback := ascii.String()
	if fallback == "" {
		fallback = "document.docx"
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`,
		fallback, url.PathEscape(filename))
}
