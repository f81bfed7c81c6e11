//go:build tinygo || baremetal

package nrf

import (
	"unsafe"

	"device/nrf"

	"github.com/ystepanoff/nrfmulti/radio"
)

// Driver provides a radio.Radio backed by the nRF5x RADIO peripheral, which
// speaks the nRF24L01 on-air format in its Nrf_* modes. It keeps an internal
// buffer the peripheral transmits from by DMA.
type Driver struct {
	buffer [radio.MaxPayload]byte
}

func New() *Driver { return &Driver{} }

func (d *Driver) Reset() error {
	StartHFCLK()
	disable()
	nrf.RADIO.POWER.Set(0)
	nrf.RADIO.POWER.Set(1)
	return nil
}

func (d *Driver) Initialize(cfg radio.Config) error {
	disable()
	return ConfigureRadio(cfg)
}

func (d *Driver) SetChannel(channel uint8) error {
	if channel > radio.MaxChannel {
		return radio.ErrInvalidChannel
	}
	nrf.RADIO.FREQUENCY.Set(uint32(channel))
	return nil
}

func (d *Driver) SetAddress(addr []byte) error {
	return SetAddress(addr)
}

// WritePacket sends one static-length packet and returns once it is on air.
func (d *Driver) WritePacket(data []byte) error {
	if len(data) == 0 || len(data) > radio.MaxPayload {
		return radio.ErrInvalidPayload
	}
	copy(d.buffer[:], data)

	pcnf1 := nrf.RADIO.PCNF1.Get() &^ nrf.RADIO_PCNF1_STATLEN_Msk
	nrf.RADIO.PCNF1.Set(pcnf1 | uint32(len(data))<<nrf.RADIO_PCNF1_STATLEN_Pos)

	nrf.RADIO.PACKETPTR.Set(uint32(uintptr(unsafe.Pointer(&d.buffer[0]))))
	nrf.RADIO.EVENTS_READY.Set(0)
	nrf.RADIO.EVENTS_END.Set(0)
	nrf.RADIO.TASKS_TXEN.Set(1)
	for nrf.RADIO.EVENTS_READY.Get() == 0 {
	}
	nrf.RADIO.TASKS_START.Set(1)
	for nrf.RADIO.EVENTS_END.Get() == 0 {
	}
	disable()
	return nil
}
