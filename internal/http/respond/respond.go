package respond

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
)

// Envelope is the JSON wrapper used by machine-facing endpoints.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes a success or informational response using the common envelope.
func JSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, Envelope{Code: status, Message: message, Data: data})
}

// Error writes an error response with the shared envelope structure.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, Envelope{Code: status, Message: message})
}

func write(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("respond: encode payload failed: %v", err)
	}
}

// Renderer executes a named page template.
type Renderer interface {
	Render(w io.Writer, page string, data any) error
}

// HTML renders page into a buffer first so a template failure can still
// produce a clean 500 instead of a half-written page.
func HTML(w http.ResponseWriter, r Renderer, status int, page string, data any) {
	var buf bytes.Buffer
	if err := r.Render(&buf, page, data); err != nil {
		log.Printf("respond: render %s failed: %v", page, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("respond: write %s failed: %v", page, err)
	}
}

// SeeOther redirects after a successful form post.
func SeeOther(w http.ResponseWriter, r *http.Request, location string) {
	http.Redirect(w, r, location, http.StatusSeeOther)
}
