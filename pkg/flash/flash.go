// Package flash implements one-shot flash messages carried in a cookie across
// a Post/Redirect/Get cycle. The message is written before the redirect and
// consumed (and cleared) by the next GET render.
package flash

import (
	"net/http"
	"net/url"
	"strings"
)

const cookieName = "ciclexpress_flash"

// Message kinds.
const (
	Success = "success"
	Error   = "error"
	Warning = "warning"
)

// Message is a single flash entry.
type Message struct {
	Kind string
	Text string
}

// Set stores a flash message for the next request.
func Set(w http.ResponseWriter, kind, text string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    url.QueryEscape(kind + "|" + text),
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop reads and clears the flash message, if any.
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}
	kind, text, ok := strings.Cut(raw, "|")
	if !ok || text == "" {
		return nil
	}
	switch kind {
	case Success, Error, Warning:
		return &Message{Kind: kind, Text: text}
	}
	return nil
}
