package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"docgate/common"
	"docgate/config"
	"docgate/types"
)

// ObjectStore is the narrow slice of object storage the validator needs.
// *common.S3 satisfies it.
type ObjectStore interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	PutTags(ctx context.Context, bucket, key string, tags map[string]string) error
	Delete(ctx context.Context, bucket, key string) error
}

// RecordStore persists classification results keyed by document id.
type RecordStore interface {
	SaveResult(ctx context.Context, result types.ClassificationResult) error
	GetResult(ctx context.Context, documentID string) (*types.ClassificationResult, error)
}

// Validator classifies newly stored objects and applies the matching side
// effect (approve tag, quarantine move, or reject tag).
type Validator struct {
	store            ObjectStore
	records          RecordStore
	quarantineBucket string
	scorer           RiskScorer
	maxSize          int64
	now              func() time.Time
}

// NewValidator creates a validator with the default risk scorer and size cap.
func NewValidator(store ObjectStore, records RecordStore, quarantineBucket string) *Validator {
	return &Validator{
		store:            store,
		records:          records,
		quarantineBucket: quarantineBucket,
		scorer:           DefaultRiskScorer,
		maxSize:          config.MaxDocumentSize,
		now:              time.Now,
	}
}

// WithRiskScorer replaces the risk scoring function.
func (v *Validator) WithRiskScorer(scorer RiskScorer) *Validator {
	v.scorer = scorer
	return v
}

// Classify runs the ordered filter chain over a document's bytes, size, and
// declared content type. The first matching filter wins. It is a pure
// function of its inputs apart from the decision timestamp.
//
// hasBody=false means the stored object had no retrievable body.
func (v *Validator) Classify(doc types.DocumentRecord, body []byte, hasBody bool) types.ClassificationResult {
	now := v.now()

	// 1. Size filter
	if doc.SizeBytes > v.maxSize {
		return rejected(doc.DocumentID, types.ReasonTooLarge,
			fmt.Sprintf("document size %d exceeds limit %d", doc.SizeBytes, v.maxSize), now)
	}

	// 2. MIME filter
	contentType := EffectiveContentType(doc.DeclaredContentType, doc.Key)
	if !TypeAllowed(contentType) {
		return rejected(doc.DocumentID, types.ReasonUnsupportedType,
			fmt.Sprintf("content type %q is not supported", contentType), now)
	}

	// 3. Presence filter
	if !hasBody {
		return rejected(doc.DocumentID, types.ReasonInvalidFormat,
			"object has no retrievable body", now)
	}

	// 4. Content heuristic filter
	if textual(contentType) {
		if finding := ScanContent(body); finding != nil {
			return v.quarantined(doc.DocumentID, *finding, now)
		}
	}

	// 5. Structural filter
	if contentType == "application/json" && !json.Valid(body) {
		return rejected(doc.DocumentID, types.ReasonInvalidFormat,
			"body is not well-formed JSON", now)
	}

	// 6. Nothing matched
	routing := Routing(body, doc.SizeBytes, contentType)
	return types.ClassificationResult{
		DocumentID:  doc.DocumentID,
		Status:      types.ClassificationValidated,
		ContentType: contentType,
		SizeBytes:   doc.SizeBytes,
		ValidatedAt: &now,
		Routing:     &routing,
	}
}

// Process handles one stored-object notification end to end: idempotency
// check, classification, side effects, record write.
//
// Storage errors while fetching the object are returned as errors, never
// folded into a Rejected result.
func (v *Validator) Process(ctx context.Context, event types.ObjectCreatedEvent) (types.ClassificationResult, error) {
	if existing, err := v.records.GetResult(ctx, event.DocumentID); err != nil {
		return types.ClassificationResult{}, fmt.Errorf("lookup existing result: %w", err)
	} else if existing != nil {
		log.Printf("document %s already classified as %s, skipping", event.DocumentID, existing.Status)
		return *existing, nil
	}

	doc := types.DocumentRecord{
		DocumentID:          event.DocumentID,
		Bucket:              event.Bucket,
		Key:                 event.Key,
		DeclaredContentType: event.ContentType,
		SizeBytes:           event.SizeBytes,
		OwnerIdentity:       event.OwnerIdentity,
	}

	body, hasBody, err := v.fetchBody(ctx, doc)
	if err != nil {
		return types.ClassificationResult{}, err
	}

	result := v.Classify(doc, body, hasBody)

	if err := v.applyOutcome(ctx, doc, result); err != nil {
		return result, fmt.Errorf("apply %s outcome: %w", result.Status, err)
	}

	if err := v.records.SaveResult(ctx, result); err != nil {
		return result, fmt.Errorf("save result: %w", err)
	}

	log.Printf("document %s classified as %s (reason=%s)", doc.DocumentID, result.Status, result.ReasonCode)
	return result, nil
}

// fetchBody retrieves the object content. Oversized or disallowed documents
// are not fetched; the earlier filters decide without the body.
func (v *Validator) fetchBody(ctx context.Context, doc types.DocumentRecord) ([]byte, bool, error) {
	if doc.SizeBytes > v.maxSize {
		return nil, true, nil
	}
	if !TypeAllowed(EffectiveContentType(doc.DeclaredContentType, doc.Key)) {
		return nil, true, nil
	}

	reader, err := v.store.Get(ctx, doc.Bucket, doc.Key)
	if err != nil {
		if common.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fetch object %s/%s: %w", doc.Bucket, doc.Key, err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, false, fmt.Errorf("read object %s/%s: %w", doc.Bucket, doc.Key, err)
	}
	return body, true, nil
}

// applyOutcome performs the storage side effect matching the classification.
func (v *Validator) applyOutcome(ctx context.Context, doc types.DocumentRecord, result types.ClassificationResult) error {
	switch result.Status {
	case types.ClassificationValidated:
		return v.store.PutTags(ctx, doc.Bucket, doc.Key, map[string]string{
			"validation-status":   "approved",
			"validated-at":        result.ValidatedAt.UTC().Format(time.RFC3339),
			"validated-by":        config.ValidatorIdentity,
			"validation-comments": "passed intake validation",
		})

	case types.ClassificationRejected:
		// Rejected objects stay in place for inspection; the retention
		// sweeper removes them after config.RejectedRetention.
		return v.store.PutTags(ctx, doc.Bucket, doc.Key, map[string]string{
			"validation-status":   "rejected",
			"validated-at":        result.RejectedAt.UTC().Format(time.RFC3339),
			"validated-by":        config.ValidatorIdentity,
			"validation-comments": result.Reason,
		})

	case types.ClassificationQuarantined:
		return v.quarantineObject(ctx, doc, result)
	}

	return fmt.Errorf("unknown classification status %q", result.Status)
}

// quarantineObject copies the object to the quarantine bucket under a
// timestamped key, tags the copy, then removes the source. Re-running it
// produces a new timestamped copy but no corruption.
func (v *Validator) quarantineObject(ctx context.Context, doc types.DocumentRecord, result types.ClassificationResult) error {
	ts := result.QuarantinedAt.UTC()
	dstKey := fmt.Sprintf("%s%d-%s", config.QuarantinePrefix, ts.Unix(), doc.Key)

	if err := v.store.Copy(ctx, doc.Bucket, doc.Key, v.quarantineBucket, dstKey); err != nil {
		return fmt.Errorf("copy to quarantine: %w", err)
	}

	tags := map[string]string{
		"quarantine-reason":    string(result.ReasonCode),
		"quarantine-timestamp": ts.Format(time.RFC3339),
		"original-bucket":      doc.Bucket,
		"original-key":         doc.Key,
	}
	if err := v.store.PutTags(ctx, v.quarantineBucket, dstKey, tags); err != nil {
		return fmt.Errorf("tag quarantine copy: %w", err)
	}

	if err := v.store.Delete(ctx, doc.Bucket, doc.Key); err != nil {
		return fmt.Errorf("remove source object: %w", err)
	}

	log.Printf("document %s quarantined to %s/%s", doc.DocumentID, v.quarantineBucket, dstKey)
	return nil
}

// quarantined builds a Quarantined result from a content finding.
func (v *Validator) quarantined(documentID string, finding Finding, now time.Time) types.ClassificationResult {
	var reasonCode types.ReasonCode
	switch finding.Kind {
	case FindingScript:
		reasonCode = types.ReasonSuspiciousContent
	case FindingPolicyWord:
		reasonCode = types.ReasonPolicyViolation
	default:
		reasonCode = types.ReasonManualReviewRequired
	}

	return types.ClassificationResult{
		DocumentID:      documentID,
		Status:          types.ClassificationQuarantined,
		ReasonCode:      reasonCode,
		Reason:          fmt.Sprintf("content matched %s pattern %q", finding.Kind, finding.Match),
		RiskScore:       v.scorer(finding),
		EscalationLevel: escalationFor(finding),
		ReviewRequired:  true,
		QuarantinedAt:   &now,
	}
}

func rejected(documentID string, code types.ReasonCode, reason string, now time.Time) types.ClassificationResult {
	return types.ClassificationResult{
		DocumentID: documentID,
		Status:     types.ClassificationRejected,
		ReasonCode: code,
		Reason:     reason,
		RejectedAt: &now,
	}
}

// textual reports whether content heuristics apply to this type.
func textual(contentType string) bool {
	switch contentType {
	case "text/plain", "text/markdown", "text/html", "text/csv", "application/json", "application/rtf":
		return true
	}
	return false
}
