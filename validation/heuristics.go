package validation

import (
	"bytes"
	"strings"

	"docgate/config"
	"docgate/types"
)

// FindingKind identifies which content heuristic matched.
type FindingKind string

const (
	FindingScript      FindingKind = "script"
	FindingMalwareWord FindingKind = "malware_vocabulary"
	FindingPolicyWord  FindingKind = "policy_vocabulary"
)

// Finding is a single content-heuristic hit.
type Finding struct {
	Kind  FindingKind
	Match string
}

// scriptMarkers indicate active script content embedded in textual documents.
var scriptMarkers = []string{
	"<script",
	"javascript:",
	"onerror=",
	"onload=",
}

// malwareVocabulary triggers a manual-review quarantine.
var malwareVocabulary = []string{
	"malware",
	"trojan",
	"ransomware",
	"keylogger",
	"botnet",
	"rootkit",
}

// policyVocabulary triggers a policy-violation quarantine.
var policyVocabulary = []string{
	"credit card dump",
	"stolen credentials",
	"password list",
	"exploit kit",
}

// ScanContent checks textual content for active-script markers and suspicious
// vocabulary. Script markers win over vocabulary hits; the first match of a
// class is reported.
func ScanContent(content []byte) *Finding {
	lower := strings.ToLower(string(content))

	for _, marker := range scriptMarkers {
		if strings.Contains(lower, marker) {
			return &Finding{Kind: FindingScript, Match: marker}
		}
	}
	for _, word := range malwareVocabulary {
		if strings.Contains(lower, word) {
			return &Finding{Kind: FindingMalwareWord, Match: word}
		}
	}
	for _, word := range policyVocabulary {
		if strings.Contains(lower, word) {
			return &Finding{Kind: FindingPolicyWord, Match: word}
		}
	}

	return nil
}

// RiskScorer maps a content finding to a 0-100 risk score. Pluggable so
// deployments can tune scoring without touching the filter chain.
type RiskScorer func(Finding) int

// DefaultRiskScorer scores active script content highest, policy vocabulary
// above general malware vocabulary.
func DefaultRiskScorer(f Finding) int {
	switch f.Kind {
	case FindingScript:
		return 85
	case FindingPolicyWord:
		return 65
	case FindingMalwareWord:
		return 55
	default:
		return 50
	}
}

// escalationFor maps a finding to its informational escalation level.
func escalationFor(f Finding) types.EscalationLevel {
	if f.Kind == FindingScript {
		return types.EscalationHigh
	}
	return types.EscalationMedium
}

// imageMarkers indicate embedded raster images inside a document.
var imageMarkers = [][]byte{
	[]byte("/Image"),
	[]byte("/XObject"),
	[]byte("<img"),
	{0xFF, 0xD8, 0xFF}, // JPEG magic
	[]byte("\x89PNG"),
}

// Routing derives downstream processing hints: OCR-eligible documents get
// high priority, very large ones low, everything else normal.
func Routing(content []byte, sizeBytes int64, contentType string) types.RoutingMetadata {
	hasImages := false
	for _, marker := range imageMarkers {
		if bytes.Contains(content, marker) {
			hasImages = true
			break
		}
	}

	requiresOCR := hasImages && contentType == "application/pdf"

	priority := types.PriorityNormal
	switch {
	case requiresOCR:
		priority = types.PriorityHigh
	case sizeBytes > config.LargeDocumentSize:
		priority = types.PriorityLow
	}

	return types.RoutingMetadata{
		Priority:    priority,
		HasImages:   hasImages,
		RequiresOCR: requiresOCR,
	}
}
