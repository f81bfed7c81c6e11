// Package eeprom models the small non-volatile byte store that survives
// power cycles: a fixed-size image addressed by offset, read and updated one
// byte at a time.
package eeprom

import "sync"

// Well-known record offsets.
const (
	ProtocolID = iota
	TxID0
	TxID1
	TxID2
	TxID3
)

const (
	// Size of the emulated image in bytes.
	Size = 1024
	// Erased is the value of a cell that was never written.
	Erased = 0xFF
)

// Store is a byte-addressable persistent store. Reads outside the image
// return Erased and writes outside it are dropped.
type Store interface {
	Read(off int) byte
	Update(off int, b byte)
}

// Memory is a Store that lives in RAM, starting erased.
type Memory struct {
	mu     sync.Mutex
	data   [Size]byte
	writes int
}

func NewMemory() *Memory {
	m := &Memory{}
	for i := range m.data {
		m.data[i] = Erased
	}
	return m
}

func (m *Memory) Read(off int) byte {
	if off < 0 || off >= Size {
		return Erased
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[off]
}

// Update writes b at off unless the cell already holds it, sparing a write
// cycle.
func (m *Memory) Update(off int, b byte) {
	if off < 0 || off >= Size {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data[off] == b {
		return
	}
	m.data[off] = b
	m.writes++
}

// Writes returns the number of cell writes performed.
func (m *Memory) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}
