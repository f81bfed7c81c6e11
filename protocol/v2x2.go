package protocol

import (
	"github.com/ystepanoff/nrfmulti/ppm"
	"github.com/ystepanoff/nrfmulti/timing"
	"github.com/ystepanoff/nrfmulti/txid"
)

var v2x2Address = []byte{0x66, 0x88, 0x68, 0x68, 0x68}

var v2x2Row = [16]uint8{
	0x27, 0x1B, 0x39, 0x28, 0x24, 0x22, 0x2E, 0x36,
	0x19, 0x21, 0x29, 0x14, 0x1E, 0x12, 0x2D, 0x18,
}

const (
	v2x2FlagBind     = 0xC0
	v2x2FlagFlip     = 0x01
	v2x2FlagHeadless = 0x02
	v2x2FlagCamera   = 0x04
	v2x2FlagVideo    = 0x08
	v2x2FlagLight    = 0x10
	v2x2CalibrateY   = 0x02 // byte 10
	v2x2CalibrateX   = 0x04 // byte 10
)

type v2x2 struct {
	link
	id   txid.ID
	hops [16]uint8
	hop  int
}

func (m *v2x2) Init() {
	m.reset()
	m.hop = 0
	m.setAddress(v2x2Address)
}

func (m *v2x2) Bind(id txid.ID) {
	m.id = id
	s := id[0] + id[1] + id[2]
	inc := (s & 0x1E) >> 2
	for i, ch := range v2x2Row {
		v := ch + inc
		if v&0x0F == 0 {
			v -= 3
		}
		m.hops[i] = v
	}
	m.bind(func(i int) {
		m.build(ppm.DefaultFrame, true)
		m.send(m.hops[i%len(m.hops)])
	})
}

func (m *v2x2) Process(f ppm.Frame) timing.Micros {
	next := m.start()
	m.build(f, false)
	m.send(m.hops[m.hop])
	m.hop = (m.hop + 1) % len(m.hops)
	return next
}

func (m *v2x2) build(f ppm.Frame, bind bool) {
	p := &m.packet
	p[0] = scaleByte(f[ppm.Throttle], 0, 0xFF)
	p[1] = signMagnitude(f[ppm.Rudder], 0x7F)
	p[2] = signMagnitude(f[ppm.Elevator], 0x7F)
	p[3] = signMagnitude(f[ppm.Aileron], 0x7F)
	p[4], p[5], p[6] = 0x40, 0x40, 0x40
	copy(p[7:10], m.id[:3])
	p[10] = flag(f, ppm.Aux6, v2x2CalibrateY) | flag(f, ppm.Aux7, v2x2CalibrateX)
	p[11], p[12], p[13] = 0, 0, 0
	if bind {
		p[14] = v2x2FlagBind
	} else {
		p[14] = flag(f, ppm.Aux1, v2x2FlagLight) |
			flag(f, ppm.Aux2, v2x2FlagFlip) |
			flag(f, ppm.Aux3, v2x2FlagCamera) |
			flag(f, ppm.Aux4, v2x2FlagVideo) |
			flag(f, ppm.Aux5, v2x2FlagHeadless)
	}
	p[15] = sum(p[:15])
}
