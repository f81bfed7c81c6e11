// Package txid manages the 4-byte transmitter identity that protocols use to
// address the receiver they were bound to.
package txid

import (
	"encoding/hex"
	"math/rand"
	"sync"

	"github.com/ystepanoff/nrfmulti/eeprom"
)

// ID is the persisted transmitter identity.
type ID [4]byte

func (id ID) String() string { return hex.EncodeToString(id[:]) }

// Uninitialized reports whether id carries the erased-storage pattern.
func (id ID) Uninitialized() bool { return id[0] == eeprom.Erased && id[1] == eeprom.Erased }

// Store owns the identity record. It is the only writer of the TxID cells.
type Store struct {
	mu  sync.Mutex
	mem eeprom.Store
	rnd *rand.Rand
}

func NewStore(mem eeprom.Store, rnd *rand.Rand) *Store {
	return &Store{mem: mem, rnd: rnd}
}

// Load returns the stored identity, generating one first if the cells are
// still erased.
func (s *Store) Load() ID {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.read()
	if id.Uninitialized() {
		return s.renew()
	}
	return id
}

// Renew draws a fresh identity, persists it and returns it.
func (s *Store) Renew() ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.renew()
}

func (s *Store) read() ID {
	var id ID
	for i := range id {
		id[i] = s.mem.Read(eeprom.TxID0 + i)
	}
	return id
}

func (s *Store) renew() ID {
	var id ID
	for {
		for i := range id {
			id[i] = byte(s.rnd.Intn(256))
		}
		// an identity that reads back as erased would be replaced on next boot
		if !id.Uninitialized() {
			break
		}
	}
	for i, b := range id {
		s.mem.Update(eeprom.TxID0+i, b)
	}
	return id
}
