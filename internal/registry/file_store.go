package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"nostrcord/internal/crypto"
	"nostrcord/internal/domain"
)

// FileStore persists subscribers as one bech32 public key per line. The file
// is rewritten whole on every save.
type FileStore struct {
	path string
	log  *slog.Logger
}

var _ domain.SubscriberStore = (*FileStore)(nil)

func NewFileStore(path string, log *slog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the subscriber file. A missing file is an empty set. Lines that
// do not parse as a public key are skipped and logged.
func (s *FileStore) Load() ([]domain.Subscriber, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading subscriber file: %w", err)
	}

	loadedAt := time.Now()
	var subs []domain.Subscriber
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		pk, err := crypto.ParsePubKey(line)
		if err != nil {
			s.log.Error("skipping unparseable subscriber line", "line", line, "err", err)
			continue
		}
		subs = append(subs, domain.Subscriber{PubKey: pk, SubscribedAt: loadedAt})
	}
	return subs, nil
}

// Save rewrites the file with the full subscriber set.
func (s *FileStore) Save(subs []domain.Subscriber) error {
	var b strings.Builder
	for _, sub := range subs {
		b.WriteString(crypto.Npub(sub.PubKey))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, []byte(b.String()), 0o600); err != nil {
		return fmt.Errorf("writing subscriber file: %w", err)
	}
	return nil
}
