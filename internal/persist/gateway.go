package persist

import "context"

// Gateway reads and writes one opaque snapshot blob.
type Gateway interface {
	// Load returns the stored blob; ok is false when nothing is stored.
	Load(ctx context.Context) (data string, ok bool, err error)
	Save(ctx context.Context, data string) error
	Clear(ctx context.Context) error
}

// DefaultKey names the snapshot when no key is configured.
const DefaultKey = "session"
