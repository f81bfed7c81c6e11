//go:build !tinygo && !baremetal

package eeprom

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// File is a Store backed by an image file on the host, so identity and last
// protocol survive simulator restarts. Each changed byte is written through.
// I/O failures do not surface from Update; the first one is kept in Err.
type File struct {
	mu    sync.Mutex
	f     *os.File
	image [Size]byte
	err   error
}

// OpenFile opens or creates the image at path. A missing or short file is
// padded with erased cells.
func OpenFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open eeprom image: %w", err)
	}

	s := &File{f: f}
	for i := range s.image {
		s.image[i] = Erased
	}

	n, err := io.ReadFull(f, s.image[:])
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		f.Close()
		return nil, fmt.Errorf("read eeprom image: %w", err)
	}
	if n < Size {
		// ReadFull overwrote nothing past n; the tail is still erased
		if _, err := f.WriteAt(s.image[n:], int64(n)); err != nil {
			f.Close()
			return nil, fmt.Errorf("pad eeprom image: %w", err)
		}
	}
	return s, nil
}

func (s *File) Read(off int) byte {
	if off < 0 || off >= Size {
		return Erased
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image[off]
}

func (s *File) Update(off int, b byte) {
	if off < 0 || off >= Size {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image[off] == b {
		return
	}
	s.image[off] = b
	if _, err := s.f.WriteAt([]byte{b}, int64(off)); err != nil && s.err == nil {
		s.err = fmt.Errorf("write eeprom offset %d: %w", off, err)
	}
}

// Err returns the first write error, if any.
func (s *File) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *File) Close() error {
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}
