package eeprom

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// BlockDevice is the flash interface TinyGo's machine.Flash satisfies.
// Offsets are relative to the start of the device's data area.
type BlockDevice interface {
	io.ReaderAt
	io.WriterAt
	Size() int64
	WriteBlockSize() int64
	EraseBlockSize() int64
	EraseBlocks(start, len int64) error
}

var ErrFlashTooSmall = errors.New("eeprom: flash data area smaller than image")

// Flash is a Store kept in the first erase block(s) of a flash device.
// The image is cached in RAM; every changed byte erases the backing blocks
// and writes the whole image back. Like File, write failures are kept in
// Err rather than returned from Update.
type Flash struct {
	mu     sync.Mutex
	dev    BlockDevice
	blocks int64
	image  [Size]byte
	writes int
	err    error
}

// NewFlash loads the image from dev. A blank device reads as erased.
func NewFlash(dev BlockDevice) (*Flash, error) {
	if dev.Size() < Size {
		return nil, ErrFlashTooSmall
	}
	if ws := dev.WriteBlockSize(); ws <= 0 || Size%ws != 0 {
		return nil, fmt.Errorf("eeprom: write block size %d does not divide %d", ws, Size)
	}
	eb := dev.EraseBlockSize()
	if eb <= 0 {
		return nil, fmt.Errorf("eeprom: erase block size %d", eb)
	}

	s := &Flash{dev: dev, blocks: (Size + eb - 1) / eb}
	if _, err := dev.ReadAt(s.image[:], 0); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read flash image: %w", err)
	}
	return s, nil
}

func (s *Flash) Read(off int) byte {
	if off < 0 || off >= Size {
		return Erased
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.image[off]
}

func (s *Flash) Update(off int, b byte) {
	if off < 0 || off >= Size {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.image[off] == b {
		return
	}
	s.image[off] = b
	s.writes++
	if err := s.flush(); err != nil && s.err == nil {
		s.err = fmt.Errorf("write eeprom offset %d: %w", off, err)
	}
}

func (s *Flash) flush() error {
	if err := s.dev.EraseBlocks(0, s.blocks); err != nil {
		return err
	}
	_, err := s.dev.WriteAt(s.image[:], 0)
	return err
}

// Writes returns the number of image rewrites performed.
func (s *Flash) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Err returns the first write error, if any.
func (s *Flash) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
