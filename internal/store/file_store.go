package store

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

const filePerm os.FileMode = 0o644

// FileVersionStore keeps the marker as the whole content of a single file.
type FileVersionStore struct {
	fs     afero.Fs
	path   string
	logger zerolog.Logger
}

func NewFileVersionStore(fs afero.Fs, path string, logger zerolog.Logger) *FileVersionStore {
	return &FileVersionStore{fs: fs, path: path, logger: logger}
}

func (s *FileVersionStore) Load(_ context.Context) (string, bool, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug().Str("path", s.path).Msg("No stored marker")
		return "", false, nil
	}
	if err != nil {
		return "", false, NewReadError(s.path, err)
	}
	marker := strings.TrimSpace(string(data))
	if marker == "" {
		return "", false, nil
	}
	return marker, true, nil
}

// Save overwrites the marker file. No trailing newline is written.
func (s *FileVersionStore) Save(_ context.Context, marker string) error {
	if err := writeFileAtomic(s.fs, s.path, []byte(marker), filePerm); err != nil {
		return NewWriteError(TargetMarker, s.path, err)
	}
	return nil
}

func (s *FileVersionStore) Close() error { return nil }

// FileOutputWriter regenerates the plugin file on every write.
type FileOutputWriter struct {
	fs   afero.Fs
	path string
}

func NewFileOutputWriter(fs afero.Fs, path string) *FileOutputWriter {
	return &FileOutputWriter{fs: fs, path: path}
}

func (w *FileOutputWriter) Write(_ context.Context, content []byte) error {
	if err := writeFileAtomic(w.fs, w.path, content, filePerm); err != nil {
		return NewWriteError(TargetOutput, w.path, err)
	}
	return nil
}

func (w *FileOutputWriter) Path() string { return w.path }
