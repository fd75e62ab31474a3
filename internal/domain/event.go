package domain

import (
	"context"
	"encoding/json"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// BatchPayload is the JSON body of a source message. Exactly one of Shots or
// Arccos is expected; Arccos carries an unflattened export that must be
// aggregated before derivation.
type BatchPayload struct {
	BatchID string          `json:"batch_id,omitempty"`
	Source  string          `json:"source,omitempty"`
	Shots   []ShotRecord    `json:"shots,omitempty"`
	Arccos  json.RawMessage `json:"arccos,omitempty"`
}

// ShotBatch is a set of shots processed together. Grouped statistics are
// computed within a batch, never across batches.
type ShotBatch struct {
	ID          string       `json:"batch_id"`
	Source      string       `json:"source"`
	Shots       []ShotRecord `json:"shots"`
	ProcessedAt time.Time    `json:"processed_at"`

	// Arccos is set when the batch still needs aggregation.
	Arccos json.RawMessage `json:"-"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
