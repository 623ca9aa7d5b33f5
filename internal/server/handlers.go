package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/sozercan/codelens/apimodels"
	"github.com/sozercan/codelens/internal/analyzer"
	"github.com/sozercan/codelens/internal/render"
)

// request bodies may carry JSON escaping or form encoding on top of the code
const bodyOverhead = 64 << 10

type pageData struct {
	Languages  []string
	Models     []string
	Theme      string
	ThemeClass string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	pref, mode := s.themeFromRequest(r)
	setThemeHintHeaders(w)

	data := pageData{
		Languages:  apimodels.SupportedLanguages(),
		Models:     s.models,
		Theme:      string(pref),
		ThemeClass: mode.ClassName(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		slog.Error("Rendering page failed", "error", err)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if s.maxBody > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxBody*2+bodyOverhead)
	}

	req, err := decodeAnalysisRequest(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}

	if !apimodels.IsSupportedLanguage(req.Language) {
		http.Error(w, fmt.Sprintf("Unsupported language %q", req.Language), http.StatusBadRequest)
		return
	}
	if req.Model != "" && !slices.Contains(s.models, req.Model) {
		http.Error(w, fmt.Sprintf("Unknown model %q", req.Model), http.StatusBadRequest)
		return
	}

	slog.Debug("Received analysis request", "language", req.Language, "bytes", len(req.Code), "model", req.Model)

	result, err := s.analyzer.Analyze(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, analyzer.ErrUnsupportedLanguage):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, analyzer.ErrCodeTooLarge):
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		default:
			slog.Error("Analysis request failed", "error", err)
			http.Error(w, "Analysis failed", http.StatusInternalServerError)
		}
		return
	}

	if wantsHTML(r) {
		content, err := render.ResultsHTML(result)
		if err != nil {
			slog.Error("Rendering analysis result failed", "error", err)
			http.Error(w, "Analysis failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(content))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeAnalysisRequest reads either a JSON body or the form fields of the
// plain HTML form.
func decodeAnalysisRequest(r *http.Request) (apimodels.AnalysisRequest, error) {
	var req apimodels.AnalysisRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(32 << 10); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return req, err
		}
		req.Code = r.FormValue("input_code")
		req.Language = r.FormValue("input_language")
		req.Model = r.FormValue("selected_model")
		return req, nil
	default:
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, err
		}
		return req, nil
	}
}

func wantsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Encoding response failed", "error", err)
	}
}
