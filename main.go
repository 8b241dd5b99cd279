package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"docgate/api"
	"docgate/cleanup"
	"docgate/common"
	"docgate/config"
	"docgate/kafka"
	"docgate/records"
	"docgate/status"
	"docgate/validation"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	port := flag.String("port", config.EnvOrDefault("PORT", "8080"), "HTTP API port")
	uploadBucket := flag.String("upload-bucket", os.Getenv("UPLOAD_BUCKET"), "Bucket receiving uploaded documents")
	quarantineBucket := flag.String("quarantine-bucket", os.Getenv("QUARANTINE_BUCKET"), "Bucket receiving quarantined documents")
	region := flag.String("region", os.Getenv("AWS_REGION"), "AWS region")
	redisAddr := flag.String("redis", config.EnvOrDefault("REDIS_ADDR", "localhost:6379"), "Redis address for validation records")
	sweepSchedule := flag.String("sweep", config.EnvOrDefault("SWEEP_SCHEDULE", config.SweepSchedule), "Cron schedule for the rejected-object retention sweep")
	flag.Parse()

	if *uploadBucket == "" || *quarantineBucket == "" {
		log.Fatal("upload and quarantine buckets are required (UPLOAD_BUCKET, QUARANTINE_BUCKET)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Object storage
	store, err := common.NewS3(ctx, common.S3Config{Region: *region})
	if err != nil {
		log.Fatalf("Failed to create S3 client: %v", err)
	}

	// Validation record store
	recordStore := records.NewStore(*redisAddr, os.Getenv("REDIS_PASSWORD"), redisDB())
	if err := recordStore.Ping(ctx); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", *redisAddr, err)
	}
	defer recordStore.Close()

	// Intake validator
	validator := validation.NewValidator(store, recordStore, *quarantineBucket)

	// Kafka consumer for stored-object notifications
	brokers := []string{"kafka:9092"}
	if envBrokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS"); envBrokers != "" {
		brokers = strings.Split(envBrokers, ",")
	}
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: brokers,
		Topic:   config.EnvOrDefault("INTAKE_TOPIC", "document-uploads"),
		GroupID: config.EnvOrDefault("INTAKE_GROUP_ID", "docgate-intake"),
		Handler: &kafka.ObjectEventHandler{Validator: validator},
	})
	if err != nil {
		log.Printf("Failed to create Kafka consumer: %v", err)
	} else if err := consumer.Start(ctx); err != nil {
		log.Printf("Failed to start Kafka consumer: %v", err)
	}

	// Pipeline status aggregation
	aggregator := status.NewDefaultAggregator()

	// HTTP API
	router := api.NewRouter(aggregator, recordStore)
	server := &http.Server{
		Addr:    ":" + *port,
		Handler: router,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Retention sweep for rejected objects
	sweeper := cleanup.NewSweeper(store, *uploadBucket, config.RejectedRetention)
	if err := sweeper.Start(*sweepSchedule); err != nil {
		log.Fatalf("Failed to start retention sweep: %v", err)
	}

	log.Printf("docgate intake service")
	log.Printf("  API:              http://0.0.0.0:%s", *port)
	log.Printf("  Upload bucket:    %s", *uploadBucket)
	log.Printf("  Quarantine:       %s", *quarantineBucket)
	log.Printf("  Sweep schedule:   %s", *sweepSchedule)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	sweeper.Stop()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			log.Printf("Kafka consumer close error: %v", err)
		}
	}

	log.Println("Server stopped")
}

func redisDB() int {
	if v := os.Getenv("REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			return db
		}
	}
	return 0
}
