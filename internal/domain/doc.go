// Package domain models per-shot golf telemetry as it moves through the
// shot insights pipeline.
//
// # Data Source
//
// Shot batches originate from launch-monitor and shot-tracking exports
// (currently Arccos). The upstream ingestion service validates the export
// files, flattens them into one row per shot, joins hole and round metadata,
// and publishes each batch as JSON to the Kafka source topic. Raw Arccos
// exports may also be published as-is and are flattened by the ETL itself.
//
// # Shot Conventions
//
// Identity:
//
//	A shot is keyed by (user, round start time, round, hole, shot). Shot IDs
//	are 1-based and contiguous within a hole; the hole's shot count equals
//	the ID of its last shot.
//
// Coordinates:
//
//	WGS-84 decimal degrees. A missing end coordinate means the ball finished
//	in (or was picked up at) the hole, so the pin coordinate stands in.
//
// Terrain:
//
//	Raw terrain strings arrive lower case ("tee", "fairway", "rough",
//	"sand", "green") with occasional "Green" and "In The Hole". They are
//	normalized into lies (see [LieTee] and friends); anything unrecognised
//	is treated as green.
//
// Distances:
//
//	All derived distances are in yards. Putting benchmarks recorded in feet
//	are converted on load.
//
// # Undefined Values
//
// Derived values that cannot be computed (unknown lie, degenerate geometry,
// the last shot of a hole under the undefined strokes-gained policy) are
// NaN in memory. [Float] serializes NaN as JSON null so downstream consumers
// never see an invalid number. Undefined labels are empty strings and are
// omitted from JSON.
//
// # Batch IDs
//
// A batch without an explicit ID is keyed by a name-based (SHA-1) UUID of
// its payload. Replaying the same message produces the same key, which keeps
// downstream upserts idempotent. See [ParseShotBatch].
package domain
