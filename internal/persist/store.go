package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"pkt.systems/pslog"
)

// FileStore persists a snapshot blob to a file under a state directory.
type FileStore struct {
	dir  string
	path string
	log  pslog.Logger
}

// NewFileStore constructs a file store at the given directory.
func NewFileStore(dir, key string) (*FileStore, error) {
	return NewFileStoreWithLogger(dir, key, nil)
}

// NewFileStoreWithLogger constructs a file store with logging.
func NewFileStoreWithLogger(dir, key string, logger pslog.Logger) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	name := sanitize(key)
	if name == "" {
		name = DefaultKey
	}
	if logger != nil {
		logger = logger.With("state_dir", dir, "key", name)
	}
	return &FileStore{dir: dir, path: filepath.Join(dir, name+".json"), log: logger}, nil
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the snapshot file.
func (s *FileStore) Load(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if s.log != nil {
				s.log.Debug("state load miss")
			}
			return "", false, nil
		}
		if s.log != nil {
			s.log.Debug("state load failed", "err", err)
		}
		return "", false, err
	}
	if s.log != nil {
		s.log.Debug("state load ok", "bytes", len(data))
	}
	return string(data), true, nil
}

// Save atomically replaces the snapshot file.
func (s *FileStore) Save(ctx context.Context, data string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.write([]byte(data)); err != nil {
		if s.log != nil {
			s.log.Debug("state save failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Trace("state save ok", "bytes", len(data))
	}
	return nil
}

func (s *FileStore) write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "state-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// Clear removes the snapshot file. A missing file is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		if s.log != nil {
			s.log.Debug("state clear failed", "err", err)
		}
		return err
	}
	if s.log != nil {
		s.log.Debug("state clear ok")
	}
	return nil
}

func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			continue
		}
		if r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune('_')
	}
	return b.String()
}
