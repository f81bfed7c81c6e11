//go:build tinygo || baremetal

package eeprom

import "machine"

// OpenFlash opens the store over the chip's flash data area.
func OpenFlash() (*Flash, error) {
	return NewFlash(machine.Flash)
}
