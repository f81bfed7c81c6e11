//go:build tinygo || baremetal

package nrf

import (
	"device/nrf"

	"github.com/ystepanoff/nrfmulti/radio"
)

// StartHFCLK starts the high-frequency clock required by the radio.
func StartHFCLK() {
	nrf.CLOCK.EVENTS_HFCLKSTARTED.Set(0)
	nrf.CLOCK.TASKS_HFCLKSTART.Set(1)
	for nrf.CLOCK.EVENTS_HFCLKSTARTED.Get() == 0 {
	}
}

// disable stops any ongoing radio task and waits for the DISABLED state.
func disable() {
	nrf.RADIO.EVENTS_DISABLED.Set(0)
	nrf.RADIO.TASKS_DISABLE.Set(1)
	for nrf.RADIO.STATE.Get() != nrf.RADIO_STATE_STATE_Disabled {
	}
}

func modeFor(r radio.DataRate) uint32 {
	switch r {
	case radio.Rate2Mbps:
		return nrf.RADIO_MODE_MODE_Nrf_2Mbit
	case radio.Rate250Kbps:
		return nrf.RADIO_MODE_MODE_Nrf_250Kbit
	}
	return nrf.RADIO_MODE_MODE_Nrf_1Mbit
}

// The on-chip PA tops out at +4dBm; the external-PA levels of nRF24 modules
// map onto the closest steps.
func txPowerFor(p radio.Power) uint32 {
	switch p {
	case radio.Power5mW:
		return nrf.RADIO_TXPOWER_TXPOWER_Neg8dBm
	case radio.Power20mW:
		return nrf.RADIO_TXPOWER_TXPOWER_Neg4dBm
	case radio.Power30mW:
		return nrf.RADIO_TXPOWER_TXPOWER_0dBm
	}
	return nrf.RADIO_TXPOWER_TXPOWER_Pos4dBm
}

// ConfigureRadio sets up the peripheral for nRF24L01 compatible framing:
// static payload length, MSB first on air, CRC over address and payload.
func ConfigureRadio(cfg radio.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	nrf.RADIO.POWER.Set(1)
	nrf.RADIO.MODE.Set(modeFor(cfg.DataRate))
	nrf.RADIO.TXPOWER.Set(txPowerFor(cfg.Power))

	nrf.RADIO.PCNF0.Set(
		(0 << nrf.RADIO_PCNF0_LFLEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S0LEN_Pos) |
			(0 << nrf.RADIO_PCNF0_S1LEN_Pos))

	nrf.RADIO.PCNF1.Set(
		(radio.MaxPayload << nrf.RADIO_PCNF1_MAXLEN_Pos) |
			(0 << nrf.RADIO_PCNF1_STATLEN_Pos) |
			(uint32(cfg.AddressWidth-1) << nrf.RADIO_PCNF1_BALEN_Pos) |
			(nrf.RADIO_PCNF1_ENDIAN_Big << nrf.RADIO_PCNF1_ENDIAN_Pos))

	if cfg.CRC {
		nrf.RADIO.CRCCNF.Set(uint32(cfg.CRCBytes))
		if cfg.CRCBytes == 2 {
			nrf.RADIO.CRCINIT.Set(0xFFFF)
			nrf.RADIO.CRCPOLY.Set(0x11021)
		} else {
			nrf.RADIO.CRCINIT.Set(0xFF)
			nrf.RADIO.CRCPOLY.Set(0x107)
		}
	} else {
		nrf.RADIO.CRCCNF.Set(0)
	}

	nrf.RADIO.TXADDRESS.Set(0)
	return nil
}

// SetAddress programs logical address 0. addr is given LSB first, the way
// nRF24L01 TX_ADDR is written; the last byte goes on air first and becomes
// the prefix.
func SetAddress(addr []byte) error {
	n := len(addr)
	if n < 3 || n > 5 {
		return radio.ErrInvalidAddress
	}

	var base uint32
	for i := n - 2; i >= 0; i-- {
		base = base<<8 | uint32(addr[i])
	}
	// base bytes are left aligned for shorter addresses
	base <<= 8 * uint32(5-n)

	nrf.RADIO.BASE0.Set(base)
	nrf.RADIO.PREFIX0.Set(uint32(addr[n-1]))
	return nil
}
