// Package cleanup implements the retention policy for rejected documents:
// they stay in place, tagged, for a fixed window so operators can inspect
// them, then a scheduled sweep deletes them. Quarantine copies are kept
// pending manual review and are never swept.
package cleanup

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/robfig/cron/v3"
)

// ObjectLister is the slice of object storage the sweeper needs.
// *common.S3 satisfies it.
type ObjectLister interface {
	List(ctx context.Context, bucket, prefix string, maxKeys int32, continuationToken *string) (*s3.ListObjectsV2Output, error)
	GetTags(ctx context.Context, bucket, key string) (map[string]string, error)
	Delete(ctx context.Context, bucket, key string) error
}

// Sweeper deletes rejected objects older than the retention window.
type Sweeper struct {
	store     ObjectLister
	bucket    string
	retention time.Duration
	cron      *cron.Cron
	now       func() time.Time
}

// NewSweeper creates a sweeper over the upload bucket.
func NewSweeper(store ObjectLister, bucket string, retention time.Duration) *Sweeper {
	return &Sweeper{
		store:     store,
		bucket:    bucket,
		retention: retention,
		cron:      cron.New(),
		now:       time.Now,
	}
}

// Start schedules the sweep. The schedule is a standard cron expression.
func (s *Sweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		deleted, err := s.Sweep(context.Background())
		if err != nil {
			log.Printf("Retention sweep error: %v", err)
			return
		}
		log.Printf("Retention sweep removed %d rejected objects", deleted)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule retention sweep: %w", err)
	}

	s.cron.Start()
	log.Printf("Retention sweep scheduled: %s", schedule)
	return nil
}

// Stop halts the schedule.
func (s *Sweeper) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// Sweep walks the bucket and deletes objects tagged
// validation-status=rejected whose last modification is older than the
// retention window. Returns the number of objects removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.retention)
	deleted := 0

	var continuationToken *string
	for {
		out, err := s.store.List(ctx, s.bucket, "", 1000, continuationToken)
		if err != nil {
			return deleted, fmt.Errorf("list bucket %s: %w", s.bucket, err)
		}

		for _, obj := range out.Contents {
			if obj.Key == nil || obj.LastModified == nil {
				continue
			}
			if obj.LastModified.After(cutoff) {
				continue
			}

			tags, err := s.store.GetTags(ctx, s.bucket, *obj.Key)
			if err != nil {
				log.Printf("Skipping %s, cannot read tags: %v", *obj.Key, err)
				continue
			}
			if tags["validation-status"] != "rejected" {
				continue
			}

			if err := s.store.Delete(ctx, s.bucket, *obj.Key); err != nil {
				log.Printf("Failed to delete expired rejected object %s: %v", *obj.Key, err)
				continue
			}
			deleted++
		}

		if out.IsTruncated == nil || !*out.IsTruncated {
			break
		}
		continuationToken = out.NextContinuationToken
	}

	return deleted, nil
}
