package loader

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyArchive indicates a zip archive without a file entry.
var ErrEmptyArchive = errors.New("loader: archive holds no catalogue file")

// archiveFile closes both the entry and the archive.
type archiveFile struct {
	io.ReadCloser
	archive *zip.ReadCloser
}

func (f *archiveFile) Close() error {
	return errors.Join(f.ReadCloser.Close(), f.archive.Close())
}

// OpenArchive opens the first file entry of the zip archive at path.
// browscap distributes its CSV catalogue as a single-entry zip.
func OpenArchive(path string) (io.ReadCloser, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open archive: %w", err)
	}
	for _, f := range archive.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			archive.Close()
			return nil, fmt.Errorf("loader: open %s in %s: %w", f.Name, path, err)
		}
		return &archiveFile{ReadCloser: rc, archive: archive}, nil
	}
	archive.Close()
	return nil, fmt.Errorf("%w: %s", ErrEmptyArchive, path)
}

// Open opens a catalogue file: a .zip archive through OpenArchive, anything
// else as a plain CSV file.
func Open(path string) (io.ReadCloser, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return OpenArchive(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loader: open catalogue: %w", err)
	}
	return f, nil
}
