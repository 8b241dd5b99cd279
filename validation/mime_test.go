package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveContentType(t *testing.T) {
	tests := []struct {
		name     string
		declared string
		key      string
		want     string
	}{
		{"declared type wins", "application/pdf", "file.txt", "application/pdf"},
		{"declared type parameters stripped", "text/html; charset=utf-8", "page.html", "text/html"},
		{"declared type case normalized", "Application/PDF", "doc", "application/pdf"},
		{"extension sniffing for pdf", "", "report.pdf", "application/pdf"},
		{"extension sniffing for markdown", "", "notes/readme.md", "text/markdown"},
		{"extension sniffing for docx", "", "letter.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
		{"extension case insensitive", "", "REPORT.PDF", "application/pdf"},
		{"octet-stream declared falls through to extension", "application/octet-stream", "report.pdf", "application/pdf"},
		{"no declared type, unknown extension", "", "archive.zip", "application/octet-stream"},
		{"nothing at all", "", "", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EffectiveContentType(tt.declared, tt.key))
		})
	}
}

func TestTypeAllowed(t *testing.T) {
	allowed := []string{
		"application/pdf", "text/plain", "text/markdown", "text/html",
		"application/msword", "application/rtf", "application/json",
	}
	for _, ct := range allowed {
		assert.True(t, TypeAllowed(ct), "expected %s to be allowed", ct)
	}

	disallowed := []string{"image/png", "application/zip", "application/octet-stream", "video/mp4"}
	for _, ct := range disallowed {
		assert.False(t, TypeAllowed(ct), "expected %s to be disallowed", ct)
	}
}
