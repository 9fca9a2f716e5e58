package ccsds

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"firestige.xyz/sharp/internal/core"
)

// Source is a byte-addressable packet source with a definite length.
type Source interface {
	io.ReaderAt
	Size() int64
	Name() string
}

// FileSource is a Source backed by an open file. Callers must Close it.
type FileSource struct {
	f    *os.File
	size int64
}

// OpenFile opens path as a Source. Open and stat failures wrap
// core.ErrSourceUnavailable.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", core.ErrSourceUnavailable, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", core.ErrSourceUnavailable, path)
	}
	return &FileSource{f: f, size: info.Size()}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }
func (s *FileSource) Size() int64                              { return s.size }
func (s *FileSource) Name() string                             { return s.f.Name() }

// Close releases the file.
func (s *FileSource) Close() error { return s.f.Close() }

type bytesSource struct {
	*bytes.Reader
	name string
}

// NewBytesSource wraps an in-memory buffer as a Source.
func NewBytesSource(name string, b []byte) Source {
	return &bytesSource{Reader: bytes.NewReader(b), name: name}
}

func (s *bytesSource) Name() string { return s.name }

// ReadAll reads the whole source. Read failures wrap core.ErrSourceUnavailable.
func ReadAll(src Source) ([]byte, error) {
	buf := make([]byte, src.Size())
	n, err := src.ReadAt(buf, 0)
	if err != nil && !(err == io.EOF && n == len(buf)) {
		return nil, fmt.Errorf("%w: reading %s: %v", core.ErrSourceUnavailable, src.Name(), err)
	}
	return buf, nil
}
