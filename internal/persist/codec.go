package persist

import (
	"encoding/json"
	"fmt"
	"strings"

	"pkt.systems/tabsession/schema"
)

// Encode serializes a snapshot for a Gateway.
func Encode(snapshot schema.SessionSnapshot) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored blob. Snapshots written with any schema version
// other than schema.SchemaVersion are rejected with schema.ErrSnapshotVersion.
func Decode(data string) (schema.SessionSnapshot, error) {
	if strings.TrimSpace(data) == "" {
		return schema.SessionSnapshot{}, schema.ErrSnapshotEmpty
	}
	var header struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal([]byte(data), &header); err != nil {
		return schema.SessionSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if header.Version == nil {
		return schema.SessionSnapshot{}, fmt.Errorf("%w: missing version", schema.ErrSnapshotVersion)
	}
	if *header.Version != schema.SchemaVersion {
		return schema.SessionSnapshot{}, fmt.Errorf("%w: found %d, want %d", schema.ErrSnapshotVersion, *header.Version, schema.SchemaVersion)
	}
	var snapshot schema.SessionSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return schema.SessionSnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, nil
}
