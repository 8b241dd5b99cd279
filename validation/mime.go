package validation

import (
	"path"
	"strings"
)

// DefaultContentType is assumed when neither the declared type nor the key
// extension resolves to anything.
const DefaultContentType = "application/octet-stream"

// allowedTypes is the intake allow-list of effective content types.
var allowedTypes = map[string]bool{
	"application/pdf":    true,
	"text/plain":         true,
	"text/markdown":      true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/html":       true,
	"application/rtf": true,
	"text/csv":        true,
	"application/json": true,
}

// extensionTypes maps file extensions to content types for sniffing when the
// upload did not declare one.
var extensionTypes = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".md":   "text/markdown",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".html": "text/html",
	".htm":  "text/html",
	".rtf":  "application/rtf",
	".csv":  "text/csv",
	".json": "application/json",
}

// EffectiveContentType resolves the content type used for classification:
// the declared type (parameters stripped), else extension-based sniffing on
// the key, else application/octet-stream.
func EffectiveContentType(declared, key string) string {
	if declared != "" {
		ct, _, _ := strings.Cut(declared, ";")
		ct = strings.TrimSpace(strings.ToLower(ct))
		if ct != "" && ct != DefaultContentType {
			return ct
		}
	}

	ext := strings.ToLower(path.Ext(key))
	if ct, ok := extensionTypes[ext]; ok {
		return ct
	}

	return DefaultContentType
}

// TypeAllowed reports whether the effective content type is on the allow-list.
func TypeAllowed(contentType string) bool {
	return allowedTypes[contentType]
}
