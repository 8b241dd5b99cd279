// Command upload puts a local file into the upload bucket and publishes the
// stored-object notification that triggers intake validation. Useful for
// exercising the pipeline end to end without the upload frontend.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"docgate/common"
	"docgate/config"
	"docgate/kafka"
	"docgate/types"
)

func main() {
	_ = godotenv.Load()

	filePath := flag.String("file", "", "Path to the document to upload")
	bucket := flag.String("bucket", os.Getenv("UPLOAD_BUCKET"), "Upload bucket")
	contentType := flag.String("content-type", "", "Declared content type (optional)")
	owner := flag.String("owner", "cli-upload", "Owner identity recorded on the event")
	region := flag.String("region", os.Getenv("AWS_REGION"), "AWS region")
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		log.Fatal("--file is required")
	}
	if *bucket == "" {
		log.Fatal("--bucket or UPLOAD_BUCKET is required")
	}

	info, err := os.Stat(*filePath)
	if err != nil {
		log.Fatalf("invalid file path: %v", err)
	}
	if info.IsDir() {
		log.Fatalf("path is a directory, expected file: %s", *filePath)
	}

	ctx := context.Background()

	store, err := common.NewS3(ctx, common.S3Config{Region: *region})
	if err != nil {
		log.Fatalf("failed to create S3 client: %v", err)
	}

	documentID := uuid.New().String()
	key := "uploads/" + documentID + "-" + filepath.Base(*filePath)

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("failed to open file: %v", err)
	}
	defer f.Close()

	if err := store.Put(ctx, *bucket, key, f, *contentType); err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	log.Printf("Uploaded %s to %s/%s", *filePath, *bucket, key)

	brokers := []string{"localhost:9092"}
	if envBrokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); envBrokers != "" {
		brokers = strings.Split(envBrokers, ",")
	}

	producer, err := kafka.NewProducer(brokers, config.EnvOrDefault("INTAKE_TOPIC", "document-uploads"))
	if err != nil {
		log.Fatalf("failed to create producer: %v", err)
	}
	defer producer.Close()

	event := types.ObjectCreatedEvent{
		DocumentID:    documentID,
		Bucket:        *bucket,
		Key:           key,
		SizeBytes:     info.Size(),
		ContentType:   *contentType,
		OwnerIdentity: *owner,
		EventTime:     time.Now().UTC(),
	}
	if err := producer.PublishObjectCreated(event); err != nil {
		log.Fatalf("failed to publish notification: %v", err)
	}

	log.Printf("Published notification for document %s", documentID)
	log.Printf("Track it with: go run ./cmd/track --doc %s", documentID)
}
