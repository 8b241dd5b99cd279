package types

import "time"

// ClassificationStatus is the terminal decision assigned to an uploaded document.
type ClassificationStatus string

const (
	ClassificationValidated   ClassificationStatus = "validated"
	ClassificationRejected    ClassificationStatus = "rejected"
	ClassificationQuarantined ClassificationStatus = "quarantined"
)

// ReasonCode explains why a document was rejected or quarantined.
type ReasonCode string

const (
	// Rejection reason codes
	ReasonInvalidFormat   ReasonCode = "INVALID_FORMAT"
	ReasonTooLarge        ReasonCode = "TOO_LARGE"
	ReasonMalwareDetected ReasonCode = "MALWARE_DETECTED"
	ReasonUnsupportedType ReasonCode = "UNSUPPORTED_TYPE"

	// Quarantine reason codes
	ReasonSuspiciousContent    ReasonCode = "SUSPICIOUS_CONTENT"
	ReasonManualReviewRequired ReasonCode = "MANUAL_REVIEW_REQUIRED"
	ReasonPolicyViolation      ReasonCode = "POLICY_VIOLATION"
)

// EscalationLevel is an informational severity tag on quarantined results.
// It does not change routing.
type EscalationLevel string

const (
	EscalationHigh   EscalationLevel = "high"
	EscalationMedium EscalationLevel = "medium"
	EscalationLow    EscalationLevel = "low"
)

// Priority is the downstream processing priority derived at intake.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// DocumentRecord describes an uploaded object as registered at upload time.
// The intake service only reads these.
type DocumentRecord struct {
	DocumentID          string `json:"document_id"`
	Bucket              string `json:"bucket"`
	Key                 string `json:"key"`
	DeclaredContentType string `json:"declared_content_type"`
	SizeBytes           int64  `json:"size_bytes"`
	OwnerIdentity       string `json:"owner_identity"`
}

// ObjectCreatedEvent is the stored-object notification that triggers intake
// validation. Published by the upload service to the intake topic.
type ObjectCreatedEvent struct {
	DocumentID    string    `json:"document_id"`
	Bucket        string    `json:"bucket"`
	Key           string    `json:"key"`
	SizeBytes     int64     `json:"size_bytes"`
	ContentType   string    `json:"content_type"`
	OwnerIdentity string    `json:"owner_identity,omitempty"`
	EventTime     time.Time `json:"event_time"`
}

// RoutingMetadata carries intake-derived hints for downstream stages.
type RoutingMetadata struct {
	Priority    Priority `json:"priority"`
	HasImages   bool     `json:"has_images"`
	RequiresOCR bool     `json:"requires_ocr"`
}

// ClassificationResult is the single terminal outcome of intake validation.
// Exactly one of the timestamp fields is set, matching Status.
type ClassificationResult struct {
	DocumentID  string               `json:"document_id"`
	Status      ClassificationStatus `json:"status"`
	ContentType string               `json:"content_type,omitempty"`
	SizeBytes   int64                `json:"size_bytes,omitempty"`

	ReasonCode ReasonCode `json:"reason_code,omitempty"`
	Reason     string     `json:"reason,omitempty"`

	// Quarantine-only fields
	RiskScore       int             `json:"risk_score,omitempty"`
	EscalationLevel EscalationLevel `json:"escalation_level,omitempty"`
	ReviewRequired  bool            `json:"review_required,omitempty"`

	ValidatedAt   *time.Time `json:"validated_at,omitempty"`
	RejectedAt    *time.Time `json:"rejected_at,omitempty"`
	QuarantinedAt *time.Time `json:"quarantined_at,omitempty"`

	Routing *RoutingMetadata `json:"routing,omitempty"`
}
