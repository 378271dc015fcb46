// Package store persists uploaded imaging files on disk. Files are
// stored flat under a single directory, renamed to a generated id plus
// the canonical extension of their detected format.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mrsinham/dicomgate/internal/dicom"
	"github.com/mrsinham/dicomgate/internal/format"
)

// ErrNotFound reports a file id with no stored file behind it.
var ErrNotFound = errors.New("file not found")

// Entry describes one stored file.
type Entry struct {
	ID         string        `json:"file_id"`
	Filename   string        `json:"filename"`
	Format     format.Format `json:"format"`
	Size       int64         `json:"size_bytes"`
	Path       string        `json:"-"`
	ValidDICOM *bool         `json:"valid_dicom,omitempty"`
}

// Store is a flat on-disk upload directory.
type Store struct {
	dir string
}

// Open ensures dir exists and returns a store over it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save classifies the upload by its original filename, writes it under a
// fresh id and returns the resulting entry. An unrecognized extension
// yields a format.UnsupportedFormatError without touching the disk.
func (s *Store) Save(name string, src io.Reader) (Entry, error) {
	f, err := format.Detect(name)
	if err != nil {
		return Entry{}, err
	}

	id := uuid.New().String()
	filename := id + f.Extensions()[0]
	path := filepath.Join(s.dir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return Entry{}, fmt.Errorf("create %s: %w", path, err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return Entry{}, fmt.Errorf("write %s: %w", path, err)
	}

	entry := Entry{
		ID:       id,
		Filename: filename,
		Format:   f,
		Size:     size,
		Path:     path,
	}
	if f == format.FormatDICOM {
		valid := dicom.LooksLikeDICOM(path)
		entry.ValidDICOM = &valid
	}

	log.Info().
		Str("file_id", id).
		Str("format", f.String()).
		Int64("size_bytes", size).
		Msg("file stored")

	return entry, nil
}

// Resolve looks up a stored file by id, trying every known extension.
// Ids containing path separators are rejected outright.
func (s *Store) Resolve(id string) (Entry, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return Entry{}, fmt.Errorf("invalid id %q: %w", id, ErrNotFound)
	}

	for _, f := range format.All() {
		for _, ext := range f.Extensions() {
			filename := id + ext
			path := filepath.Join(s.dir, filename)
			fi, err := os.Stat(path)
			if err != nil || fi.IsDir() {
				continue
			}
			return Entry{
				ID:       id,
				Filename: filename,
				Format:   f,
				Size:     fi.Size(),
				Path:     path,
			}, nil
		}
	}

	return Entry{}, fmt.Errorf("id %s: %w", id, ErrNotFound)
}

// List scans the upload directory and classifies every stored file in
// parallel. Files with unrecognized extensions are skipped, not errors:
// the directory may hold stray artifacts.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read upload dir %s: %w", s.dir, err)
	}

	results := make([]*Entry, len(dirents))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, de := range dirents {
		if de.IsDir() {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			f, err := format.Detect(de.Name())
			if err != nil {
				return nil
			}

			fi, err := de.Info()
			if err != nil {
				return nil
			}

			path := filepath.Join(s.dir, de.Name())
			entry := Entry{
				ID:       trimExtension(de.Name(), f),
				Filename: de.Name(),
				Format:   f,
				Size:     fi.Size(),
				Path:     path,
			}
			if f == format.FormatDICOM {
				valid := dicom.LooksLikeDICOM(path)
				entry.ValidDICOM = &valid
			}

			results[i] = &entry
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			entries = append(entries, *e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Filename < entries[j].Filename })

	return entries, nil
}

// trimExtension strips whichever of the format's extensions the filename
// carries, regardless of case.
func trimExtension(name string, f format.Format) string {
	lower := strings.ToLower(name)
	for _, ext := range f.Extensions() {
		if strings.HasSuffix(lower, ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}
