package validation

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/smithy-go"

	"docgate/types"
)

type fakeObjectStore struct {
	objects map[string][]byte
	tags    map[string]map[string]string
	deleted []string
	getErr  error
	getCnt  int
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: make(map[string][]byte),
		tags:    make(map[string]map[string]string),
	}
}

func (f *fakeObjectStore) put(bucket, key string, body []byte) {
	f.objects[bucket+"/"+key] = body
}

func (f *fakeObjectStore) Get(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	f.getCnt++
	if f.getErr != nil {
		return nil, f.getErr
	}
	body, ok := f.objects[bucket+"/"+key]
	if !ok {
		return nil, &smithy.GenericAPIError{Code: "NoSuchKey", Message: "object not found"}
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

func (f *fakeObjectStore) Copy(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	body, ok := f.objects[srcBucket+"/"+srcKey]
	if !ok {
		return &smithy.GenericAPIError{Code: "NoSuchKey", Message: "object not found"}
	}
	f.objects[dstBucket+"/"+dstKey] = body
	return nil
}

func (f *fakeObjectStore) PutTags(ctx context.Context, bucket, key string, tags map[string]string) error {
	f.tags[bucket+"/"+key] = tags
	return nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, bucket, key string) error {
	delete(f.objects, bucket+"/"+key)
	f.deleted = append(f.deleted, bucket+"/"+key)
	return nil
}

type fakeRecordStore struct {
	records map[string]types.ClassificationResult
	saveErr error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[string]types.ClassificationResult)}
}

func (f *fakeRecordStore) SaveResult(ctx context.Context, result types.ClassificationResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.records[result.DocumentID] = result
	return nil
}

func (f *fakeRecordStore) GetResult(ctx context.Context, documentID string) (*types.ClassificationResult, error) {
	if r, ok := f.records[documentID]; ok {
		return &r, nil
	}
	return nil, nil
}

func newTestValidator(store *fakeObjectStore, records *fakeRecordStore) *Validator {
	v := NewValidator(store, records, "quarantine-bucket")
	v.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return v
}

func doc(id, key, ct string, size int64) types.DocumentRecord {
	return types.DocumentRecord{
		DocumentID:          id,
		Bucket:              "uploads",
		Key:                 key,
		DeclaredContentType: ct,
		SizeBytes:           size,
	}
}

func TestClassifyOversizedPDF(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())

	result := v.Classify(doc("d1", "big.pdf", "application/pdf", 105_000_000), nil, true)

	if result.Status != types.ClassificationRejected {
		t.Fatalf("expected rejected, got %s", result.Status)
	}
	if result.ReasonCode != types.ReasonTooLarge {
		t.Errorf("expected TOO_LARGE, got %s", result.ReasonCode)
	}
	if result.RejectedAt == nil {
		t.Error("expected rejectedAt to be set")
	}
}

func TestSizeFilterRunsBeforeMIMEFilter(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())

	// Oversized AND disallowed type: the size filter must win.
	result := v.Classify(doc("d2", "app.exe", "application/x-msdownload", 200_000_000), nil, true)

	if result.ReasonCode != types.ReasonTooLarge {
		t.Errorf("expected TOO_LARGE from the size filter, got %s", result.ReasonCode)
	}
}

func TestClassifyScriptInHTML(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())
	body := []byte(`<script>alert("x")</script>`)

	result := v.Classify(doc("d3", "page.html", "text/html", 30), body, true)

	if result.Status != types.ClassificationQuarantined {
		t.Fatalf("expected quarantined, got %s", result.Status)
	}
	if result.ReasonCode != types.ReasonSuspiciousContent {
		t.Errorf("expected SUSPICIOUS_CONTENT, got %s", result.ReasonCode)
	}
	if result.EscalationLevel != types.EscalationHigh {
		t.Errorf("expected high escalation, got %s", result.EscalationLevel)
	}
	if !result.ReviewRequired {
		t.Error("quarantined results must require review")
	}
	if result.RiskScore < 1 || result.RiskScore > 100 {
		t.Errorf("risk score %d outside 0-100", result.RiskScore)
	}
}

func TestClassifyValidJSON(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())

	result := v.Classify(doc("d4", "data.json", "application/json", 7), []byte(`{"a":1}`), true)

	if result.Status != types.ClassificationValidated {
		t.Fatalf("expected validated, got %s (%s)", result.Status, result.Reason)
	}
	if result.ContentType != "application/json" {
		t.Errorf("expected content type carried forward, got %s", result.ContentType)
	}
	if result.SizeBytes != 7 {
		t.Errorf("expected size carried forward, got %d", result.SizeBytes)
	}
}

func TestClassifyMalformedJSON(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())

	result := v.Classify(doc("d5", "data.json", "application/json", 6), []byte(`{"a":}`), true)

	if result.Status != types.ClassificationRejected {
		t.Fatalf("expected rejected, got %s", result.Status)
	}
	if result.ReasonCode != types.ReasonInvalidFormat {
		t.Errorf("expected INVALID_FORMAT, got %s", result.ReasonCode)
	}
}

func TestClassifyUnsupportedType(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())

	result := v.Classify(doc("d6", "pic.png", "image/png", 100), nil, true)

	if result.ReasonCode != types.ReasonUnsupportedType {
		t.Errorf("expected UNSUPPORTED_TYPE, got %s", result.ReasonCode)
	}
}

func TestClassifyMissingBody(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())

	result := v.Classify(doc("d7", "ghost.txt", "text/plain", 10), nil, false)

	if result.ReasonCode != types.ReasonInvalidFormat {
		t.Errorf("expected INVALID_FORMAT for missing body, got %s", result.ReasonCode)
	}
}

func TestClassifyIdempotent(t *testing.T) {
	v := newTestValidator(newFakeObjectStore(), newFakeRecordStore())
	body := []byte("nothing suspicious here")
	d := doc("d8", "note.txt", "text/plain", int64(len(body)))

	first := v.Classify(d, body, true)
	second := v.Classify(d, body, true)

	if first.Status != second.Status || first.ReasonCode != second.ReasonCode {
		t.Errorf("classification not idempotent: %s/%s vs %s/%s",
			first.Status, first.ReasonCode, second.Status, second.ReasonCode)
	}
}

func TestProcessValidatedTagsObject(t *testing.T) {
	store := newFakeObjectStore()
	store.put("uploads", "note.txt", []byte("plain content"))
	recs := newFakeRecordStore()
	v := newTestValidator(store, recs)

	result, err := v.Process(context.Background(), types.ObjectCreatedEvent{
		DocumentID: "d9", Bucket: "uploads", Key: "note.txt",
		SizeBytes: 13, ContentType: "text/plain",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Status != types.ClassificationValidated {
		t.Fatalf("expected validated, got %s", result.Status)
	}

	tags := store.tags["uploads/note.txt"]
	if tags["validation-status"] != "approved" {
		t.Errorf("expected approved tag, got %q", tags["validation-status"])
	}
	if tags["validated-by"] == "" || tags["validated-at"] == "" {
		t.Error("expected validated-by and validated-at tags")
	}
	if _, ok := recs.records["d9"]; !ok {
		t.Error("expected classification record to be saved")
	}
}

func TestProcessQuarantineMovesObject(t *testing.T) {
	store := newFakeObjectStore()
	store.put("uploads", "evil.html", []byte(`<script>alert(1)</script>`))
	recs := newFakeRecordStore()
	v := newTestValidator(store, recs)

	result, err := v.Process(context.Background(), types.ObjectCreatedEvent{
		DocumentID: "d10", Bucket: "uploads", Key: "evil.html",
		SizeBytes: 25, ContentType: "text/html",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Status != types.ClassificationQuarantined {
		t.Fatalf("expected quarantined, got %s", result.Status)
	}

	// Source removed.
	if len(store.deleted) != 1 || store.deleted[0] != "uploads/evil.html" {
		t.Errorf("expected source object deleted, got %v", store.deleted)
	}

	// Copy exists in the quarantine bucket under a timestamped key embedding
	// the original key, with the full tag set.
	var copyKey string
	for k := range store.objects {
		if strings.HasPrefix(k, "quarantine-bucket/quarantine/") {
			copyKey = k
		}
	}
	if copyKey == "" {
		t.Fatal("expected a quarantine copy")
	}
	if !strings.HasSuffix(copyKey, "-evil.html") {
		t.Errorf("quarantine key should embed the original key, got %s", copyKey)
	}

	tags := store.tags[copyKey]
	if tags["quarantine-reason"] != string(types.ReasonSuspiciousContent) {
		t.Errorf("expected quarantine-reason tag, got %v", tags)
	}
	if tags["original-bucket"] != "uploads" || tags["original-key"] != "evil.html" {
		t.Errorf("expected original location tags, got %v", tags)
	}
	if tags["quarantine-timestamp"] == "" {
		t.Error("expected quarantine-timestamp tag")
	}
}

func TestProcessRejectedLeavesObjectInPlace(t *testing.T) {
	store := newFakeObjectStore()
	store.put("uploads", "data.json", []byte(`{"a":}`))
	recs := newFakeRecordStore()
	v := newTestValidator(store, recs)

	result, err := v.Process(context.Background(), types.ObjectCreatedEvent{
		DocumentID: "d11", Bucket: "uploads", Key: "data.json",
		SizeBytes: 6, ContentType: "application/json",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.ReasonCode != types.ReasonInvalidFormat {
		t.Fatalf("expected INVALID_FORMAT, got %s", result.ReasonCode)
	}

	if len(store.deleted) != 0 {
		t.Error("rejected objects must stay in place for inspection")
	}
	if store.tags["uploads/data.json"]["validation-status"] != "rejected" {
		t.Error("expected rejected tag on source object")
	}
}

func TestProcessMissingObjectRejects(t *testing.T) {
	store := newFakeObjectStore() // no object stored
	recs := newFakeRecordStore()
	v := newTestValidator(store, recs)

	result, err := v.Process(context.Background(), types.ObjectCreatedEvent{
		DocumentID: "d12", Bucket: "uploads", Key: "gone.txt",
		SizeBytes: 10, ContentType: "text/plain",
	})
	if err != nil {
		t.Fatalf("missing object should classify, not error: %v", err)
	}
	if result.ReasonCode != types.ReasonInvalidFormat {
		t.Errorf("expected INVALID_FORMAT, got %s", result.ReasonCode)
	}
}

func TestProcessStorageErrorIsNotAClassification(t *testing.T) {
	store := newFakeObjectStore()
	store.getErr = errors.New("storage unavailable")
	recs := newFakeRecordStore()
	v := newTestValidator(store, recs)

	_, err := v.Process(context.Background(), types.ObjectCreatedEvent{
		DocumentID: "d13", Bucket: "uploads", Key: "note.txt",
		SizeBytes: 10, ContentType: "text/plain",
	})
	if err == nil {
		t.Fatal("storage failure must propagate as an error, not a rejection")
	}
	if len(recs.records) != 0 {
		t.Error("no record should be written on a transport failure")
	}
}

func TestProcessSkipsAlreadyClassifiedDocument(t *testing.T) {
	store := newFakeObjectStore()
	recs := newFakeRecordStore()
	existing := types.ClassificationResult{
		DocumentID: "d14",
		Status:     types.ClassificationValidated,
	}
	recs.records["d14"] = existing
	v := newTestValidator(store, recs)

	result, err := v.Process(context.Background(), types.ObjectCreatedEvent{
		DocumentID: "d14", Bucket: "uploads", Key: "note.txt",
		SizeBytes: 10, ContentType: "text/plain",
	})
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if result.Status != types.ClassificationValidated {
		t.Errorf("expected existing result returned, got %s", result.Status)
	}
	if store.getCnt != 0 {
		t.Error("already classified document should not be fetched again")
	}
}
