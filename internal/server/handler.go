package server

import (
	"net/http"
	"strings"

	"github.com/raphaelgruber/slackabout-go/internal/stats"
)

const (
	deniedText = "Request denied. Invalid or missing API token."
	usageText  = "Specify @user, #channel or a keyword."
)

// handleAsk is the slash-command webhook. It answers synchronously with an
// acknowledgement; the statistics follow later through the response URL.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeText(w, http.StatusBadRequest, usageText)
		return
	}

	if r.PostFormValue("token") != s.authToken {
		s.logger.Warn("webhook token rejected", "remote", r.RemoteAddr)
		writeText(w, http.StatusForbidden, deniedText)
		return
	}

	text := strings.TrimSpace(r.PostFormValue("text"))
	if text == "" {
		writeText(w, http.StatusOK, usageText)
		return
	}

	kind, raw := classify(text)
	ack := s.service.Collect(r.Context(), kind, raw, r.PostFormValue("response_url"))
	writeText(w, ack.Status, ack.Text)
}

// classify maps the command text to an entity kind by its leading sigil.
// Anything without a sigil is a keyword.
func classify(text string) (stats.Kind, string) {
	switch {
	case strings.HasPrefix(text, "@"):
		return stats.KindUser, strings.TrimPrefix(text, "@")
	case strings.HasPrefix(text, "#"):
		return stats.KindChannel, strings.TrimPrefix(text, "#")
	default:
		return stats.KindKeyword, text
	}
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}
