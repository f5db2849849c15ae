// Package filestore keeps each manager's outpost book as zstd-compressed
// JSON under a root directory.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"eveanchor/internal/domain/manager"
)

type Store struct {
	Root string
}

func New(root string) Store {
	return Store{Root: root}
}

func (s Store) path(m manager.Manager) string {
	return filepath.Join(s.Root, filepath.FromSlash(m.StoragePath()))
}

// Load replaces the manager's book with the stored one. A manager that was
// never saved loads as empty.
func (s Store) Load(_ context.Context, m manager.Manager) error {
	f, err := os.Open(s.path(m))
	if errors.Is(err, os.ErrNotExist) {
		m.Replace(nil)
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	var outposts []manager.Outpost
	if err := json.NewDecoder(dec).Decode(&outposts); err != nil {
		return fmt.Errorf("%s: %w", m.StoragePath(), err)
	}
	m.Replace(outposts)
	return nil
}

// Save writes the book next to its final path and renames it into place.
func (s Store) Save(_ context.Context, m manager.Manager) error {
	path := s.path(m)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := writeBook(tmp, m.Outposts()); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeBook(path string, outposts []manager.Outpost) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if outposts == nil {
		outposts = []manager.Outpost{}
	}
	if err := json.NewEncoder(enc).Encode(outposts); err != nil {
		_ = enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	return f.Sync()
}
