package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sozercan/codelens/internal/theme"
)

const (
	themeCookieMaxAge = 365 * 24 * 60 * 60

	// client hint carrying the browser's prefers-color-scheme
	colorSchemeHint = "Sec-CH-Prefers-Color-Scheme"
)

type themeResponse struct {
	Preference theme.Preference `json:"preference"`
	Effective  theme.Mode       `json:"effective"`
}

type themeRequest struct {
	Preference string `json:"preference"`
}

// themeFromRequest reads the theme cookie, falling back to the configured
// default, and resolves it against the client hint.
func (s *Server) themeFromRequest(r *http.Request) (theme.Preference, theme.Mode) {
	pref := theme.Normalize(s.cfg.DefaultTheme)
	if c, err := r.Cookie(theme.StorageKey); err == nil {
		pref = theme.Normalize(c.Value)
	}
	return pref, theme.Resolve(pref, systemPrefersDark(r))
}

func systemPrefersDark(r *http.Request) bool {
	return strings.EqualFold(strings.Trim(r.Header.Get(colorSchemeHint), `" `), "dark")
}

func setThemeHintHeaders(w http.ResponseWriter) {
	w.Header().Set("Accept-CH", colorSchemeHint)
	w.Header().Add("Vary", colorSchemeHint)
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	pref, mode := s.themeFromRequest(r)
	setThemeHintHeaders(w)
	writeJSON(w, http.StatusOK, themeResponse{Preference: pref, Effective: mode})
}

func (s *Server) handlePutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<10)).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	pref, err := theme.ParsePreference(req.Preference)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     theme.StorageKey,
		Value:    string(pref),
		Path:     "/",
		MaxAge:   themeCookieMaxAge,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, themeResponse{
		Preference: pref,
		Effective:  theme.Resolve(pref, systemPrefersDark(r)),
	})
}
