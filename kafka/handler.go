package kafka

import (
	"context"
	"encoding/json"
	"log"

	"docgate/types"
	"docgate/validation"
)

// ObjectEventHandler validates and processes stored-object notifications.
//
// Malformed or incomplete notifications are marked and skipped; processing
// errors (storage unavailable, record store down) leave the message unmarked
// so it is redelivered.
type ObjectEventHandler struct {
	Validator *validation.Validator
}

// HandleMessage implements MessageHandler.
func (h *ObjectEventHandler) HandleMessage(ctx context.Context, message []byte) (bool, error) {
	var event types.ObjectCreatedEvent
	if err := json.Unmarshal(message, &event); err != nil {
		log.Printf("Failed to unmarshal notification, skipping: %v", err)
		return true, nil
	}

	if event.DocumentID == "" || event.Bucket == "" || event.Key == "" {
		log.Printf("Notification missing document id or object location, skipping")
		return true, nil
	}

	if _, err := h.Validator.Process(ctx, event); err != nil {
		log.Printf("Failed to process document %s: %v", event.DocumentID, err)
		return false, err
	}

	return true, nil
}
