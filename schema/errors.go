package schema

import "errors"

var (
	// ErrSnapshotVersion indicates a stored snapshot was written with another schema version.
	ErrSnapshotVersion = errors.New("snapshot schema version mismatch")
	// ErrSnapshotEmpty indicates the stored snapshot payload is empty.
	ErrSnapshotEmpty = errors.New("snapshot is empty")
	// ErrInvalidConfig indicates a configuration value is out of range.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownBackend indicates an unsupported store backend name.
	ErrUnknownBackend = errors.New("unknown store backend")
	// ErrTabNotFound indicates a requested tab could not be found.
	ErrTabNotFound = errors.New("tab not found")
	// ErrGroupNotFound indicates a requested tab group could not be found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrInvalidStatus indicates an unknown tab status value.
	ErrInvalidStatus = errors.New("invalid tab status")
	// ErrInvalidPermission indicates an unknown permission value.
	ErrInvalidPermission = errors.New("invalid permission")
)
