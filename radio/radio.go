// Package radio defines the transceiver capability the protocol modules
// drive. Register-level behaviour lives in the drivers.
package radio

import (
	"errors"
	"fmt"
)

const (
	// MaxChannel is the highest RF channel (2400 + n MHz).
	MaxChannel = 125
	// MaxPayload is the largest packet the transceiver can send.
	MaxPayload = 32
)

var (
	ErrInvalidChannel = errors.New("invalid channel (valid range: 0-125)")
	ErrInvalidAddress = errors.New("invalid address width (valid range: 3-5)")
	ErrInvalidPayload = errors.New("invalid payload size")
)

// DataRate is the on-air bit rate.
type DataRate uint8

const (
	Rate1Mbps DataRate = iota
	Rate2Mbps
	Rate250Kbps
)

func (r DataRate) String() string {
	switch r {
	case Rate1Mbps:
		return "1Mbps"
	case Rate2Mbps:
		return "2Mbps"
	case Rate250Kbps:
		return "250kbps"
	}
	return fmt.Sprintf("DataRate(%d)", uint8(r))
}

// Power is the PA output level of the usual nRF24L01+PA modules.
type Power uint8

const (
	Power5mW Power = iota
	Power20mW
	Power30mW
	Power80mW
)

func (p Power) String() string {
	switch p {
	case Power5mW:
		return "5mW"
	case Power20mW:
		return "20mW"
	case Power30mW:
		return "30mW"
	case Power80mW:
		return "80mW"
	}
	return fmt.Sprintf("Power(%d)", uint8(p))
}

// Config is the link configuration a protocol requests.
type Config struct {
	DataRate     DataRate
	CRC          bool
	CRCBytes     uint8 // 1 or 2, when CRC is set
	AddressWidth uint8 // 3 to 5 bytes
	Power        Power
}

// DefaultConfig is the stock nRF24L01 link: 1Mbps, 16-bit CRC, five byte
// address. Protocols with native framing run on it unchanged.
func DefaultConfig() Config {
	return Config{
		DataRate:     Rate1Mbps,
		CRC:          true,
		CRCBytes:     2,
		AddressWidth: 5,
		Power:        Power80mW,
	}
}

func (c Config) String() string {
	crc := "off"
	if c.CRC {
		crc = fmt.Sprintf("%d", c.CRCBytes*8)
	}
	return fmt.Sprintf("%s crc=%s aw=%d power=%s", c.DataRate, crc, c.AddressWidth, c.Power)
}

// Validate reports whether a driver can apply c.
func (c Config) Validate() error {
	if c.AddressWidth < 3 || c.AddressWidth > 5 {
		return ErrInvalidAddress
	}
	if c.CRC && c.CRCBytes != 1 && c.CRCBytes != 2 {
		return fmt.Errorf("invalid crc length %d", c.CRCBytes)
	}
	return nil
}

// Radio is the interface that wraps the basic transmit operations.
type Radio interface {
	Reset() error
	Initialize(cfg Config) error
	SetChannel(channel uint8) error
	SetAddress(addr []byte) error
	WritePacket(data []byte) error
}
