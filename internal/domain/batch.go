package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultSource is assumed when a payload does not name its provider.
const DefaultSource = "arccos"

// ErrEmptyBatch is returned for payloads that carry neither shots nor an export.
var ErrEmptyBatch = errors.New("batch has no shots")

// batchNamespace scopes name-based batch IDs.
var batchNamespace = uuid.MustParse("6f1d3c52-8a0e-4d8b-9a57-0c2b6f4b7e21")

// ParseShotBatch deserializes a RawEvent into a ShotBatch. The value may be a
// BatchPayload object or a bare JSON array of shot records.
func ParseShotBatch(raw RawEvent) (ShotBatch, error) {
	value := bytes.TrimSpace(raw.Value)
	if len(value) == 0 {
		return ShotBatch{}, fmt.Errorf("parse shot batch: %w", ErrEmptyBatch)
	}

	var payload BatchPayload
	if value[0] == '[' {
		if err := json.Unmarshal(value, &payload.Shots); err != nil {
			return ShotBatch{}, fmt.Errorf("parse shot batch: %w", err)
		}
	} else if err := json.Unmarshal(value, &payload); err != nil {
		return ShotBatch{}, fmt.Errorf("parse shot batch: %w", err)
	}

	if len(payload.Shots) == 0 && len(payload.Arccos) == 0 {
		return ShotBatch{}, fmt.Errorf("parse shot batch: %w", ErrEmptyBatch)
	}

	source := payload.Source
	if source == "" {
		source = raw.Headers["source"]
	}
	if source == "" {
		source = DefaultSource
	}

	id := payload.BatchID
	if id == "" {
		id = uuid.NewSHA1(batchNamespace, value).String()
	}

	return ShotBatch{
		ID:     id,
		Source: source,
		Shots:  payload.Shots,
		Arccos: payload.Arccos,
	}, nil
}

// SerializeShotBatch stamps the batch with the processing time and marshals
// it into an OutputEvent keyed by batch ID.
func SerializeShotBatch(batch ShotBatch) (OutputEvent, error) {
	batch.ProcessedAt = clock.Now().UTC()
	data, err := json.Marshal(batch)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize shot batch: %w", err)
	}
	return OutputEvent{
		Key:   []byte(batch.ID),
		Value: data,
		Headers: map[string]string{
			"source":       batch.Source,
			"batch_id":     batch.ID,
			"shot_count":   strconv.Itoa(len(batch.Shots)),
			"processed_at": batch.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
